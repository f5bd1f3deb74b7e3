package recon

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
)

// ErrInvalidTolerance wraps all tolerance configuration failures. Bad values
// are rejected up front, never silently clamped.
var ErrInvalidTolerance = errors.New("invalid tolerance configuration")

// Tolerance is the matching configuration surface: an absolute amount
// allowance, a percentage allowance (0-100, applied to the authority-side
// taxable amount), and a document date fuzz window in days. The effective
// amount allowance for a pair is the larger of the two.
type Tolerance struct {
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
	DateDays int             `json:"date_days"`
}

// DefaultTolerance is one currency unit or 1% of the taxable amount,
// whichever is larger, with no date fuzz.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Amount:   decimal.New(1, 0),
		Percent:  decimal.New(1, 0),
		DateDays: 0,
	}
}

// Validate rejects negative or nonsensical tolerance values.
func (t Tolerance) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount tolerance %s is negative", ErrInvalidTolerance, t.Amount)
	}
	if t.Percent.IsNegative() {
		return fmt.Errorf("%w: percent tolerance %s is negative", ErrInvalidTolerance, t.Percent)
	}
	if t.Percent.GreaterThan(decimal.New(100, 0)) {
		return fmt.Errorf("%w: percent tolerance %s exceeds 100", ErrInvalidTolerance, t.Percent)
	}
	if t.DateDays < 0 {
		return fmt.Errorf("%w: date tolerance %d days is negative", ErrInvalidTolerance, t.DateDays)
	}
	return nil
}

// allowance is the effective amount allowance for a pair anchored on the
// authority-side taxable amount.
func (t Tolerance) allowance(taxable decimal.Decimal) decimal.Decimal {
	pct := taxable.Abs().Mul(t.Percent).Div(decimal.New(100, 0))
	if pct.GreaterThan(t.Amount) {
		return pct
	}
	return t.Amount
}

// snapshot copies the configuration into a report-embeddable value.
func (t Tolerance) snapshot() model.ToleranceSnapshot {
	return model.ToleranceSnapshot{
		Amount:   t.Amount,
		Percent:  t.Percent,
		DateDays: t.DateDays,
	}
}
