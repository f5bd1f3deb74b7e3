// Package recon pairs authority-reported records with taxpayer invoice
// records using multi-field keys, tiered fallback matching, and variance
// scoring. Reconcile is a pure function of its two input sequences and the
// tolerance configuration: no I/O, no shared state, deterministic output.
package recon

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/gstin"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

// ErrInput is the base class for run-level input failures: a whole batch is
// empty or entirely invalid. Per-record schema failures never surface here;
// they are accumulated in the report instead, so a single bad row cannot
// mask an otherwise healthy run.
var ErrInput = errors.New("invalid input batch")

var (
	ErrEmptyAuthorityBatch = fmt.Errorf("%w: authority batch is empty", ErrInput)
	ErrEmptyInvoiceBatch   = fmt.Errorf("%w: invoice batch is empty", ErrInput)
	ErrAllAuthorityInvalid = fmt.Errorf("%w: all authority records failed schema validation", ErrInput)
	ErrAllInvoiceInvalid   = fmt.Errorf("%w: all invoice records failed schema validation", ErrInput)
)

// roundingTolerance bounds the taxable+tax vs. total consistency check.
var roundingTolerance = decimal.New(1, -2)

// invEntry tracks one live invoice record during a run.
type invEntry struct {
	rec      model.SourceRecord
	consumed bool
}

// Reconcile pairs authority records against invoice records and aggregates
// the outcome. The returned report carries counts, the ordered match list,
// per-record schema errors, and the tolerance snapshot; identity fields
// (ID, timestamps, batch names) are left for the caller so two runs over
// identical inputs compare equal.
//
// Output ordering is deterministic: authority-derived outcomes in authority
// ingestion order, then invoice-side outcomes in invoice ingestion order.
func Reconcile(tol Tolerance, authority, invoices []model.SourceRecord) (*model.ReconciliationReport, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	if len(authority) == 0 {
		return nil, ErrEmptyAuthorityBatch
	}
	if len(invoices) == 0 {
		return nil, ErrEmptyInvoiceBatch
	}

	var recordErrors []model.RecordError
	validAuth := screen(authority, model.FamilyGSTR2A, &recordErrors)
	validInv := screen(invoices, model.FamilyInvoice, &recordErrors)
	if len(validAuth) == 0 {
		return nil, ErrAllAuthorityInvalid
	}
	if len(validInv) == 0 {
		return nil, ErrAllInvoiceInvalid
	}

	report := &model.ReconciliationReport{
		Tolerance:    tol.snapshot(),
		RecordErrors: recordErrors,
	}

	// Index invoices by primary key. Any key shared by two or more invoice
	// records marks all sharers as duplicate suspects, excluded before any
	// lookup; only live entries reach the primary and secondary indexes.
	primCount := make(map[string]int, len(validInv))
	for _, r := range validInv {
		primCount[primaryKey(r)]++
	}

	entries := make([]*invEntry, 0, len(validInv))
	primaryIdx := make(map[string]*invEntry, len(validInv))
	secondaryIdx := make(map[string][]*invEntry, len(validInv))
	invDup := make(map[int]bool)
	for _, r := range validInv {
		e := &invEntry{rec: r}
		entries = append(entries, e)
		if primCount[primaryKey(r)] > 1 {
			invDup[r.Seq] = true
			continue
		}
		primaryIdx[primaryKey(r)] = e
		secondaryIdx[secondaryKey(r)] = append(secondaryIdx[secondaryKey(r)], e)
	}

	// Authority pass, in ingestion order. A repeated authority primary key is
	// resolved deterministically: the earliest occurrence matches, every
	// later sharer is reported as a duplicate suspect rather than silently
	// folded in.
	seenAuth := make(map[string]bool, len(validAuth))
	for _, a := range validAuth {
		k := primaryKey(a)
		if seenAuth[k] {
			report.DuplicateCount++
			report.Results = append(report.Results, model.MatchResult{
				Outcome:        model.DuplicateSuspect,
				TaxpayerID:     a.TaxpayerID,
				DocumentNumber: a.DocumentNumber,
				AuthoritySeq:   a.Seq,
				InvoiceSeq:     -1,
			})
			continue
		}
		seenAuth[k] = true

		if e, ok := primaryIdx[k]; ok && !e.consumed {
			e.consumed = true
			report.Results = append(report.Results, matchPair(tol, a, e.rec, nil))
			continue
		}

		// Secondary fallback drops the document date. Only a unique live hit
		// is accepted; zero or ambiguous candidates leave the record
		// unmatched so the result stays explainable.
		var hit *invEntry
		unique := true
		for _, e := range secondaryIdx[secondaryKey(a)] {
			if e.consumed {
				continue
			}
			if hit != nil {
				unique = false
				break
			}
			hit = e
		}
		if hit != nil && unique {
			hit.consumed = true
			var flags []string
			if dateDiffDays(a.DocumentDate, hit.rec.DocumentDate) > tol.DateDays {
				flags = append(flags, model.FlagDateMismatch)
			}
			res := matchPair(tol, a, hit.rec, flags)
			// A fallback hit is never exact even when amounts agree; the
			// primary key did not line up.
			if res.Outcome == model.MatchedExact {
				res.Outcome = model.MatchedVariance
			}
			report.Results = append(report.Results, res)
			continue
		}

		report.Results = append(report.Results, model.MatchResult{
			Outcome:        model.UnmatchedAuthoritySide,
			TaxpayerID:     a.TaxpayerID,
			DocumentNumber: a.DocumentNumber,
			AuthoritySeq:   a.Seq,
			InvoiceSeq:     -1,
		})
	}

	// Invoice side: duplicate suspects and never-consumed records, in
	// ingestion order.
	for _, e := range entries {
		switch {
		case invDup[e.rec.Seq]:
			report.DuplicateCount++
			report.Results = append(report.Results, model.MatchResult{
				Outcome:        model.DuplicateSuspect,
				TaxpayerID:     e.rec.TaxpayerID,
				DocumentNumber: e.rec.DocumentNumber,
				AuthoritySeq:   -1,
				InvoiceSeq:     e.rec.Seq,
			})
		case !e.consumed:
			report.Results = append(report.Results, model.MatchResult{
				Outcome:        model.UnmatchedInvoiceSide,
				TaxpayerID:     e.rec.TaxpayerID,
				DocumentNumber: e.rec.DocumentNumber,
				AuthoritySeq:   -1,
				InvoiceSeq:     e.rec.Seq,
			})
		}
	}

	for _, r := range report.Results {
		switch r.Outcome {
		case model.MatchedExact:
			report.MatchedCount++
		case model.MatchedVariance:
			report.VarianceCount++
		case model.UnmatchedAuthoritySide:
			report.UnmatchedAuthorityCount++
		case model.UnmatchedInvoiceSide:
			report.UnmatchedInvoiceCount++
		}
	}

	// Match rate counts variance pairs as matched: both sides were paired,
	// the amounts just disagree.
	paired := report.MatchedCount + report.VarianceCount
	if denom := paired + report.UnmatchedAuthorityCount + report.UnmatchedInvoiceCount; denom > 0 {
		report.MatchRate = float64(paired) / float64(denom)
	}

	return report, nil
}

// matchPair classifies a keyed pair as exact or variance and records signed
// deltas (invoice minus authority) when the amounts disagree beyond the
// effective allowance.
func matchPair(tol Tolerance, a, inv model.SourceRecord, flags []string) model.MatchResult {
	res := model.MatchResult{
		TaxpayerID:     a.TaxpayerID,
		DocumentNumber: a.DocumentNumber,
		AuthoritySeq:   a.Seq,
		InvoiceSeq:     inv.Seq,
		Flags:          flags,
	}

	taxableDelta := inv.TaxableAmount.Sub(a.TaxableAmount)
	taxDelta := inv.TaxAmount.Sub(a.TaxAmount)
	allow := tol.allowance(a.TaxableAmount)

	if taxableDelta.Abs().LessThanOrEqual(allow) && taxDelta.Abs().LessThanOrEqual(allow) {
		res.Outcome = model.MatchedExact
		return res
	}

	res.Outcome = model.MatchedVariance
	res.TaxableDelta = &taxableDelta
	res.TaxDelta = &taxDelta
	return res
}

// screen validates schema invariants per record. Failures are reported and
// the record excluded; the run continues. The survivors are returned sorted
// by ingestion order so callers need not pre-sort.
func screen(records []model.SourceRecord, family model.FileFamily, errs *[]model.RecordError) []model.SourceRecord {
	valid := make([]model.SourceRecord, 0, len(records))
	for _, r := range records {
		if reason := schemaCheck(r); reason != "" {
			*errs = append(*errs, model.RecordError{Family: family, Seq: r.Seq, Reason: reason})
			continue
		}
		valid = append(valid, r)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Seq < valid[j].Seq })
	return valid
}

func schemaCheck(r model.SourceRecord) string {
	if !gstin.Valid(r.TaxpayerID) {
		return fmt.Sprintf("invalid taxpayer identifier %q", r.TaxpayerID)
	}
	if r.DocumentNumber == "" {
		return "document number is empty"
	}
	if r.DocumentDate.IsZero() {
		return "document date is missing"
	}
	if r.TaxableAmount.Add(r.TaxAmount).Sub(r.TotalAmount).Abs().GreaterThan(roundingTolerance) {
		return fmt.Sprintf("total %s does not equal taxable %s plus tax %s",
			r.TotalAmount, r.TaxableAmount, r.TaxAmount)
	}
	return ""
}

func primaryKey(r model.SourceRecord) string {
	return r.TaxpayerID + "|" + r.DocumentNumber + "|" + r.DocumentDate.Format("2006-01-02")
}

func secondaryKey(r model.SourceRecord) string {
	return r.TaxpayerID + "|" + r.DocumentNumber
}

// dateDiffDays is the absolute calendar distance between two canonical
// (UTC midnight) document dates.
func dateDiffDays(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}
