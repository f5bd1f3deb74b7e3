package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `GSTIN,Invoice No.,Invoice Date,Taxable Value,Tax Amount,Total Value
27AAAAA0000A1Z5,INV001,2024-01-05,1000.00,180.00,1180.00
29ABCDE1234F1Z8,INV002,2024-01-06,500.00,90.00,590.00
`

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "27AAAAA0000A1Z5", rows[0].Values[ColTaxpayerID])
	assert.Equal(t, "INV001", rows[0].Values[ColDocumentNumber])
	assert.Equal(t, "2024-01-05", rows[0].Values[ColDocumentDate])
	assert.Equal(t, "1000.00", rows[0].Values[ColTaxableAmount])
	assert.Equal(t, "180.00", rows[0].Values[ColTaxAmount])
	assert.Equal(t, "1180.00", rows[0].Values[ColTotalAmount])
}

func TestParseCSV_SkipsBlankRows(t *testing.T) {
	csv := "gstin,invoice_no,date,taxable,tax\n27AAAAA0000A1Z5,INV001,2024-01-05,1,0.18\n,,,,\n"
	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseCSV_MissingColumns(t *testing.T) {
	csv := "gstin,invoice_no\n27AAAAA0000A1Z5,INV001\n"
	_, err := ParseCSV(strings.NewReader(csv))

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{ColDocumentDate, ColTaxableAmount, ColTaxAmount}, missing.Columns)
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	headers := []string{"GSTIN", "Invoice Number", "Invoice Date", "Taxable Amount", "Tax Amount"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	data := []string{"27AAAAA0000A1Z5", "INV001", "2024-01-05", "1000.00", "180.00"}
	for i, v := range data {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ParseXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "INV001", rows[0].Values[ColDocumentNumber])
	assert.Equal(t, "180.00", rows[0].Values[ColTaxAmount])
}

func TestParse_Dispatch(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV), "gstr2a_january.CSV")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Parse(strings.NewReader("x"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "invoice_no", normalizeHeader(" Invoice No. "))
	assert.Equal(t, "taxable_value", normalizeHeader("Taxable-Value"))
	assert.Equal(t, "document_date", normalizeHeader("Document  Date"))
}
