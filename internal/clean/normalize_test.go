package clean

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/ingest"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

func row(line int, gstinID, docNo, date, taxable, tax string) ingest.Row {
	return ingest.Row{
		Line: line,
		Values: map[string]string{
			ingest.ColTaxpayerID:     gstinID,
			ingest.ColDocumentNumber: docNo,
			ingest.ColDocumentDate:   date,
			ingest.ColTaxableAmount:  taxable,
			ingest.ColTaxAmount:      tax,
		},
	}
}

func TestNormalize_HappyPath(t *testing.T) {
	rows := []ingest.Row{
		row(2, " 27aaaaa0000a1z5 ", "inv001", "2024-01-05", "1,000.00", "180.00"),
	}

	res := Normalize(rows, model.FamilyGSTR2A)
	require.Len(t, res.Records, 1)
	require.Empty(t, res.Rejected)

	rec := res.Records[0]
	assert.Equal(t, "27AAAAA0000A1Z5", rec.TaxpayerID)
	assert.Equal(t, "INV001", rec.DocumentNumber)
	assert.Equal(t, model.FamilyGSTR2A, rec.Family)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rec.DocumentDate)
	assert.True(t, rec.TaxableAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, rec.TaxAmount.Equal(decimal.RequireFromString("180.00")))
	assert.True(t, rec.TotalAmount.Equal(decimal.RequireFromString("1180.00")), "total derived when column absent")
	assert.NotEmpty(t, rec.RecordID)
	assert.Equal(t, 0, rec.Seq)
}

func TestNormalize_DateLayouts(t *testing.T) {
	for _, raw := range []string{"2024-01-05", "05/01/2024", "05-01-2024", "05-Jan-2024"} {
		res := Normalize([]ingest.Row{row(2, "27AAAAA0000A1Z5", "INV001", raw, "1", "0")}, model.FamilyInvoice)
		require.Len(t, res.Records, 1, "layout %q", raw)
		assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), res.Records[0].DocumentDate, "layout %q", raw)
	}
}

func TestNormalize_ExplicitTotalWins(t *testing.T) {
	r := row(2, "27AAAAA0000A1Z5", "INV001", "2024-01-05", "1000", "180")
	r.Values[ingest.ColTotalAmount] = "1200.00"

	res := Normalize([]ingest.Row{r}, model.FamilyInvoice)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].TotalAmount.Equal(decimal.RequireFromString("1200.00")))
}

func TestNormalize_RejectsBadRows(t *testing.T) {
	rows := []ingest.Row{
		row(2, "BADGSTIN", "INV001", "2024-01-05", "1000", "180"),
		row(3, "27AAAAA0000A1Z5", "", "2024-01-05", "1000", "180"),
		row(4, "27AAAAA0000A1Z5", "INV002", "not-a-date", "1000", "180"),
		row(5, "27AAAAA0000A1Z5", "INV003", "2024-01-05", "abc", "180"),
		row(6, "27AAAAA0000A1Z5", "INV004", "2024-01-05", "1000", "180"),
	}

	res := Normalize(rows, model.FamilyGSTR2A)
	require.Len(t, res.Records, 1)
	require.Len(t, res.Rejected, 4)

	assert.Equal(t, 2, res.Rejected[0].Line)
	assert.Contains(t, res.Rejected[0].Message, "taxpayer identifier")
	assert.Contains(t, res.Rejected[1].Message, "document number")
	assert.Contains(t, res.Rejected[2].Message, "document date")
	assert.Contains(t, res.Rejected[3].Message, "taxable amount")
}

func TestNormalize_DropsExactDuplicates(t *testing.T) {
	rows := []ingest.Row{
		row(2, "27AAAAA0000A1Z5", "INV001", "2024-01-05", "1000", "180"),
		row(3, "27aaaaa0000a1z5", "inv001", "05/01/2024", "1000.00", "180.00"),
		row(4, "27AAAAA0000A1Z5", "INV001", "2024-01-05", "999", "180"),
	}

	res := Normalize(rows, model.FamilyInvoice)
	assert.Len(t, res.Records, 2, "near-duplicate with different amount survives")
	assert.Equal(t, 1, res.DuplicatesDropped)
	assert.Equal(t, []int{0, 1}, []int{res.Records[0].Seq, res.Records[1].Seq})
}
