// Package gstin validates GSTIN-format taxpayer identifiers.
package gstin

import (
	"regexp"
	"strings"
)

// Length is the fixed length of a GSTIN.
const Length = 15

// pattern covers the structural layout: two-digit state code, ten-character
// PAN block, entity code, the literal 'Z', and an alphanumeric check
// character. The check character is required to be in the base-36 alphabet
// but its value is not recomputed; authority feeds routinely carry test
// identifiers whose check digit would not verify.
var pattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Normalize trims surrounding whitespace and uppercases the identifier.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Valid reports whether id (after Normalize) is a structurally valid GSTIN.
func Valid(id string) bool {
	id = Normalize(id)
	return len(id) == Length && pattern.MatchString(id)
}
