package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileFamily identifies which side of the reconciliation a file belongs to.
type FileFamily string

const (
	// FamilyGSTR2A marks authority-reported records (GSTR-2A download).
	FamilyGSTR2A FileFamily = "gstr2a"
	// FamilyInvoice marks records from the taxpayer's own books.
	FamilyInvoice FileFamily = "invoice"
)

// Valid reports whether the family is one of the two known record families.
func (f FileFamily) Valid() bool {
	return f == FamilyGSTR2A || f == FamilyInvoice
}

// SourceRecord is one normalized transaction row from either family.
// Amounts are fixed-point decimals; DocumentDate is truncated to UTC midnight.
// Seq preserves ingestion order and is the tie-break key for duplicates.
type SourceRecord struct {
	RecordID       string          `json:"record_id"`
	Family         FileFamily      `json:"family"`
	TaxpayerID     string          `json:"taxpayer_id"`
	DocumentNumber string          `json:"document_number"`
	DocumentDate   time.Time       `json:"document_date"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Seq            int             `json:"seq"`
}
