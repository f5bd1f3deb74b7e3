// Package export renders reconciliation reports as XLSX workbooks: a
// summary header block followed by one row per match result. The report is
// treated as read-only; identical reports export to identical workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

const sheetName = "Reconciliation"

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename derives the download name for a report export.
func Filename(report *model.ReconciliationReport) string {
	return fmt.Sprintf("reconciliation_report_%s.xlsx", report.ID)
}

// WriteExcel streams a report as an XLSX workbook to w.
func WriteExcel(report *model.ReconciliationReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Report ID", report.ID},
		{"Generated At", report.GeneratedAt.UTC().Format(time.RFC3339)},
		{"GSTR-2A Batch", report.AuthorityBatchName},
		{"Invoice Batch", report.InvoiceBatchName},
		{"Matched (exact)", report.MatchedCount},
		{"Matched (variance)", report.VarianceCount},
		{"Unmatched (GSTR-2A side)", report.UnmatchedAuthorityCount},
		{"Unmatched (invoice side)", report.UnmatchedInvoiceCount},
		{"Duplicate suspects", report.DuplicateCount},
		{"Match rate", fmt.Sprintf("%.2f%%", report.MatchRate*100)},
		{"Amount tolerance", report.Tolerance.Amount.String()},
		{"Percent tolerance", report.Tolerance.Percent.String()},
		{"Date tolerance (days)", report.Tolerance.DateDays},
	}
	row := 1
	for _, pair := range summary {
		if err := setRow(f, row, pair...); err != nil {
			return err
		}
		row++
	}

	row++ // blank separator
	if err := setRow(f, row, "Outcome", "GSTIN", "Document No", "Authority Seq", "Invoice Seq", "Taxable Delta", "Tax Delta", "Flags"); err != nil {
		return err
	}
	row++

	for _, res := range report.Results {
		taxableDelta, taxDelta := "", ""
		if res.TaxableDelta != nil {
			taxableDelta = res.TaxableDelta.StringFixed(2)
		}
		if res.TaxDelta != nil {
			taxDelta = res.TaxDelta.StringFixed(2)
		}
		if err := setRow(f, row,
			string(res.Outcome),
			res.TaxpayerID,
			res.DocumentNumber,
			res.AuthoritySeq,
			res.InvoiceSeq,
			taxableDelta,
			taxDelta,
			strings.Join(res.Flags, ","),
		); err != nil {
			return err
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
