// Package clean normalizes raw ingested rows into SourceRecords: identifier
// trimming and validation, canonical dates, fixed-point decimal amounts, and
// exact-duplicate removal. Failures are reported per row, never raised.
package clean

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/gstin"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/ingest"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

// dateLayouts are tried in order. ISO first, then the day-first forms common
// in GSTR-2A downloads and Indian invoice exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"01-02-06",
}

// Result is the outcome of normalizing one batch of raw rows.
type Result struct {
	Records           []model.SourceRecord
	Rejected          []model.RowError
	DuplicatesDropped int
}

// Normalize converts raw rows of one family into SourceRecords. Rows that
// cannot be normalized are accumulated in Rejected with their source line;
// exact duplicates (all normalized fields equal) are dropped after the first
// occurrence. Seq reflects order among the surviving records.
func Normalize(rows []ingest.Row, family model.FileFamily) Result {
	var res Result
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		rec, err := normalizeRow(row, family)
		if err != nil {
			res.Rejected = append(res.Rejected, model.RowError{Line: row.Line, Message: err.Error()})
			continue
		}

		key := dupKey(rec)
		if seen[key] {
			res.DuplicatesDropped++
			continue
		}
		seen[key] = true

		rec.Seq = len(res.Records)
		res.Records = append(res.Records, rec)
	}
	return res
}

func normalizeRow(row ingest.Row, family model.FileFamily) (model.SourceRecord, error) {
	var rec model.SourceRecord

	id := gstin.Normalize(row.Values[ingest.ColTaxpayerID])
	if !gstin.Valid(id) {
		return rec, fmt.Errorf("invalid taxpayer identifier %q", id)
	}

	docNo := strings.ToUpper(strings.TrimSpace(row.Values[ingest.ColDocumentNumber]))
	if docNo == "" {
		return rec, fmt.Errorf("document number is empty")
	}

	date, err := parseDate(row.Values[ingest.ColDocumentDate])
	if err != nil {
		return rec, err
	}

	taxable, err := parseAmount(row.Values[ingest.ColTaxableAmount], "taxable amount")
	if err != nil {
		return rec, err
	}
	tax, err := parseAmount(row.Values[ingest.ColTaxAmount], "tax amount")
	if err != nil {
		return rec, err
	}

	total := taxable.Add(tax)
	if raw, ok := row.Values[ingest.ColTotalAmount]; ok && strings.TrimSpace(raw) != "" {
		total, err = parseAmount(raw, "total amount")
		if err != nil {
			return rec, err
		}
	}

	rec = model.SourceRecord{
		RecordID:       uuid.NewString(),
		Family:         family,
		TaxpayerID:     id,
		DocumentNumber: docNo,
		DocumentDate:   date,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		TotalAmount:    total,
	}
	return rec, nil
}

// parseDate returns the document date at UTC midnight.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("document date is empty")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable document date %q", raw)
}

// parseAmount strips currency noise (thousands separators, rupee sign) and
// parses into a fixed-point decimal. Binary floats are never involved.
func parseAmount(raw, field string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "₹", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%s is empty", field)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable %s %q", field, raw)
	}
	return d, nil
}

func dupKey(rec model.SourceRecord) string {
	return strings.Join([]string{
		rec.TaxpayerID,
		rec.DocumentNumber,
		rec.DocumentDate.Format("2006-01-02"),
		rec.TaxableAmount.String(),
		rec.TaxAmount.String(),
		rec.TotalAmount.String(),
	}, "|")
}
