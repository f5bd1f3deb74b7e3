package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchOutcome classifies the result for one candidate pair or singleton.
type MatchOutcome string

const (
	// MatchedExact means the primary key matched and amount deltas stayed
	// within the configured tolerance.
	MatchedExact MatchOutcome = "matched_exact"
	// MatchedVariance means the pair matched on key but amounts (or the
	// document date, for secondary-key matches) differ beyond tolerance.
	MatchedVariance MatchOutcome = "matched_variance"
	// UnmatchedAuthoritySide is an authority record with no counterpart.
	UnmatchedAuthoritySide MatchOutcome = "unmatched_authority"
	// UnmatchedInvoiceSide is an invoice record never consumed by matching.
	UnmatchedInvoiceSide MatchOutcome = "unmatched_invoice"
	// DuplicateSuspect is a record sharing a primary key with another record
	// of the same batch; duplicates are excluded before any lookup.
	DuplicateSuspect MatchOutcome = "duplicate_suspect"
)

// FlagDateMismatch is set on secondary-key matches whose document dates
// differ beyond the configured day tolerance.
const FlagDateMismatch = "date-mismatch"

// MatchResult is the outcome for one record pair or singleton. Deltas are
// signed, invoice minus authority, and populated only for variance matches.
type MatchResult struct {
	Outcome        MatchOutcome     `json:"outcome"`
	TaxpayerID     string           `json:"taxpayer_id"`
	DocumentNumber string           `json:"document_number"`
	// AuthoritySeq / InvoiceSeq are ingestion positions; -1 when the side
	// did not participate in this result.
	AuthoritySeq   int              `json:"authority_seq"`
	InvoiceSeq     int              `json:"invoice_seq"`
	TaxableDelta   *decimal.Decimal `json:"taxable_delta,omitempty"`
	TaxDelta       *decimal.Decimal `json:"tax_delta,omitempty"`
	Flags          []string         `json:"flags,omitempty"`
}

// RecordError reports a record that failed schema validation and was
// excluded from matching.
type RecordError struct {
	Family FileFamily `json:"family"`
	Seq    int        `json:"seq"`
	Reason string     `json:"reason"`
}

// ToleranceSnapshot is the tolerance configuration a report was produced
// with, copied into the report so a run can be reproduced exactly.
type ToleranceSnapshot struct {
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
	DateDays int             `json:"date_days"`
}

// ReconciliationReport aggregates one (authority batch, invoice batch) run.
// It stores copies of the batch names and counts, not live references, and
// is immutable after creation; runs accumulate as append-only history.
type ReconciliationReport struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	AuthorityBatchID   string `json:"authority_batch_id"`
	AuthorityBatchName string `json:"authority_batch_name"`
	InvoiceBatchID     string `json:"invoice_batch_id"`
	InvoiceBatchName   string `json:"invoice_batch_name"`

	MatchedCount            int `json:"matched_count"`
	VarianceCount           int `json:"variance_count"`
	UnmatchedAuthorityCount int `json:"unmatched_authority_count"`
	UnmatchedInvoiceCount   int `json:"unmatched_invoice_count"`
	DuplicateCount          int `json:"duplicate_count"`

	// MatchRate is matched pairs (exact plus variance) over all pairs
	// attempted; zero when nothing was attempted.
	MatchRate float64 `json:"match_rate"`

	Tolerance    ToleranceSnapshot `json:"tolerance"`
	Results      []MatchResult     `json:"results"`
	RecordErrors []RecordError     `json:"record_errors,omitempty"`
}
