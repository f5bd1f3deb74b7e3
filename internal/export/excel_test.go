package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

func TestWriteExcel(t *testing.T) {
	delta := decimal.RequireFromString("50.00")
	report := &model.ReconciliationReport{
		ID:                 "rep-1",
		GeneratedAt:        time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		AuthorityBatchName: "gstr2a_jan.csv",
		InvoiceBatchName:   "invoices_jan.xlsx",
		MatchedCount:       1,
		VarianceCount:      1,
		MatchRate:          1.0,
		Tolerance: model.ToleranceSnapshot{
			Amount:  decimal.New(1, 0),
			Percent: decimal.New(1, 0),
		},
		Results: []model.MatchResult{
			{Outcome: model.MatchedExact, TaxpayerID: "27AAAAA0000A1Z5", DocumentNumber: "INV001", AuthoritySeq: 0, InvoiceSeq: 0},
			{Outcome: model.MatchedVariance, TaxpayerID: "27AAAAA0000A1Z5", DocumentNumber: "INV002", AuthoritySeq: 1, InvoiceSeq: 1, TaxableDelta: &delta, Flags: []string{model.FlagDateMismatch}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExcel(report, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reconciliation")
	require.NoError(t, err)

	// 13 summary rows, a blank separator, the header, and two result rows.
	require.Len(t, rows, 17)
	assert.Equal(t, []string{"Report ID", "rep-1"}, rows[0][:2])
	assert.Equal(t, "Outcome", rows[14][0])
	assert.Equal(t, string(model.MatchedExact), rows[15][0])
	assert.Equal(t, "INV002", rows[16][2])
	assert.Equal(t, "50.00", rows[16][5])
	assert.Equal(t, model.FlagDateMismatch, rows[16][7])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "reconciliation_report_abc.xlsx", Filename(&model.ReconciliationReport{ID: "abc"}))
}
