// Package ingest parses uploaded GSTR-2A and invoice files (CSV or XLSX)
// into ordered raw rows keyed by canonical column names. It performs no
// normalization beyond header mapping; the clean package owns that.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Canonical column keys produced by the parsers.
const (
	ColTaxpayerID     = "taxpayer_id"
	ColDocumentNumber = "document_number"
	ColDocumentDate   = "document_date"
	ColTaxableAmount  = "taxable_amount"
	ColTaxAmount      = "tax_amount"
	ColTotalAmount    = "total_amount"
)

// requiredColumns must all be present in the header row; total_amount is
// optional and derived by the cleaner when absent.
var requiredColumns = []string{
	ColTaxpayerID,
	ColDocumentNumber,
	ColDocumentDate,
	ColTaxableAmount,
	ColTaxAmount,
}

// headerAliases maps normalized source headers to canonical column keys.
// GSTR-2A downloads and taxpayer invoice exports name the same fields
// differently; both vocabularies are accepted.
var headerAliases = map[string]string{
	"gstin":            ColTaxpayerID,
	"gstin_number":     ColTaxpayerID,
	"taxpayer_id":      ColTaxpayerID,
	"supplier_gstin":   ColTaxpayerID,
	"invoice_number":   ColDocumentNumber,
	"invoice_no":       ColDocumentNumber,
	"document_number":  ColDocumentNumber,
	"document_no":      ColDocumentNumber,
	"doc_no":           ColDocumentNumber,
	"bill_number":      ColDocumentNumber,
	"invoice_date":     ColDocumentDate,
	"document_date":    ColDocumentDate,
	"doc_date":         ColDocumentDate,
	"date":             ColDocumentDate,
	"taxable_amount":   ColTaxableAmount,
	"taxable_value":    ColTaxableAmount,
	"taxable":          ColTaxableAmount,
	"tax_amount":       ColTaxAmount,
	"tax_value":        ColTaxAmount,
	"total_tax":        ColTaxAmount,
	"tax":              ColTaxAmount,
	"total_amount":     ColTotalAmount,
	"total_value":      ColTotalAmount,
	"invoice_value":    ColTotalAmount,
	"total":            ColTotalAmount,
}

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoHeader is returned when the file has no header row at all.
	ErrNoHeader = errors.New("file has no header row")
)

// MissingColumnsError reports required columns absent from the header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Row is one raw data row: canonical column key -> untrimmed cell value,
// plus the 1-based source line (or sheet row) for error reporting.
type Row struct {
	Line   int
	Values map[string]string
}

// Parse dispatches on the file extension and returns ordered raw rows.
func Parse(r io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xls":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// mapHeader resolves source headers to canonical keys and verifies the
// required set is covered. The returned slice maps column index -> canonical
// key; unrecognized columns map to "".
func mapHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}

	mapped := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		canonical := headerAliases[normalizeHeader(h)]
		mapped[i] = canonical
		if canonical != "" {
			seen[canonical] = true
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Columns: missing}
	}
	return mapped, nil
}

// normalizeHeader lowercases a source header and collapses separators so
// "Invoice No." and "invoice_no" resolve to the same alias.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_", ".", "", "/", "_").Replace(h)
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return h
}

// rowFromCells builds a Row from one record using the mapped header.
func rowFromCells(mapped []string, cells []string, line int) Row {
	values := make(map[string]string, len(mapped))
	for i, key := range mapped {
		if key == "" || i >= len(cells) {
			continue
		}
		values[key] = cells[i]
	}
	return Row{Line: line, Values: values}
}

// empty reports whether every cell of a record is blank.
func empty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
