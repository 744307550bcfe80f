package cashflow

import (
	"errors"
	"fmt"
	"time"
)

// ErrLengthMismatch is returned when dates and amounts differ in length.
var ErrLengthMismatch = errors.New("payment dates and amounts differ in length")

// DiscountCurve provides discount factors for a strip of payment dates.
type DiscountCurve interface {
	DiscountFactors(asOf time.Time, dates []time.Time) []float64
}

// Schedule pairs payment dates with signed amounts. Amounts are in currency
// units of the instrument's quote currency.
type Schedule struct {
	PaymentDates []time.Time
	Amounts      []float64
}

// New validates and builds a schedule.
func New(dates []time.Time, amounts []float64) (Schedule, error) {
	if len(dates) != len(amounts) {
		return Schedule{}, fmt.Errorf("cashflow.New: %d dates vs %d amounts: %w", len(dates), len(amounts), ErrLengthMismatch)
	}
	return Schedule{PaymentDates: dates, Amounts: amounts}, nil
}

// Len returns the number of cash flows.
func (s Schedule) Len() int {
	return len(s.PaymentDates)
}

// Total returns the undiscounted sum of the amounts.
func (s Schedule) Total() float64 {
	sum := 0.0
	for _, a := range s.Amounts {
		sum += a
	}
	return sum
}

// PresentValue discounts every amount on curve as of asOf and sums them.
func (s Schedule) PresentValue(asOf time.Time, curve DiscountCurve) float64 {
	if len(s.PaymentDates) == 0 {
		return 0
	}
	dfs := curve.DiscountFactors(asOf, s.PaymentDates)
	pv := 0.0
	for i, a := range s.Amounts {
		pv += a * dfs[i]
	}
	return pv
}
