package utils

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// SingleFrequency denotes a schedule with one payment at maturity.
const SingleFrequency = "Single"

var (
	// ErrScheduleTooShort is returned when maturity is earlier than start plus one period.
	ErrScheduleTooShort = errors.New("maturity earlier than start plus one period")
	// ErrNoFuturePayment is returned when every payment of a schedule is on or before the query date.
	ErrNoFuturePayment = errors.New("no payment after date")
)

// DateSchedule is an ordered set of payment dates with the year fraction of
// the period ending at each payment. YearFractions[0] runs from StartDate to
// PaymentDates[0].
type DateSchedule struct {
	StartDate     time.Time
	PaymentDates  []time.Time
	YearFractions []float64
}

// Clip returns the sub-schedule of payments strictly after asOf.
func (s DateSchedule) Clip(asOf time.Time) DateSchedule {
	idx := s.firstAfter(asOf)
	dates := make([]time.Time, len(s.PaymentDates)-idx)
	fractions := make([]float64, len(s.YearFractions)-idx)
	copy(dates, s.PaymentDates[idx:])
	copy(fractions, s.YearFractions[idx:])
	return DateSchedule{StartDate: s.StartDate, PaymentDates: dates, YearFractions: fractions}
}

// NextPaymentIndex returns the index of the first payment strictly after asOf.
func (s DateSchedule) NextPaymentIndex(asOf time.Time) (int, error) {
	if len(s.PaymentDates) == 0 || !s.PaymentDates[len(s.PaymentDates)-1].After(asOf) {
		return 0, fmt.Errorf("NextPaymentIndex %s: %w", FormatDate(asOf), ErrNoFuturePayment)
	}
	return s.firstAfter(asOf), nil
}

// Len returns the number of payments.
func (s DateSchedule) Len() int {
	return len(s.PaymentDates)
}

func (s DateSchedule) firstAfter(asOf time.Time) int {
	return sort.Search(len(s.PaymentDates), func(i int) bool {
		return s.PaymentDates[i].After(asOf)
	})
}

// ScheduleGenerator builds payment schedules for a fixed frequency.
type ScheduleGenerator struct {
	Frequency string
	Helper    DateHelper
	delta     Delta
}

// NewScheduleGenerator returns a generator for freq, which is either
// SingleFrequency or a D/M/Y coded period such as "6M".
func NewScheduleGenerator(freq string, helper DateHelper) (ScheduleGenerator, error) {
	g := ScheduleGenerator{Frequency: freq, Helper: helper}
	if freq == SingleFrequency {
		return g, nil
	}
	delta, err := FreqToDelta(freq)
	if err != nil {
		return ScheduleGenerator{}, fmt.Errorf("NewScheduleGenerator: %w", err)
	}
	g.delta = delta
	return g, nil
}

// Generate builds the schedule between start and maturity.
//
// Periodic schedules are rolled backward from maturity; the earliest period
// is a stub running from start to the first generated date.
func (g ScheduleGenerator) Generate(start, maturity time.Time) (DateSchedule, error) {
	if g.Frequency == SingleFrequency {
		return DateSchedule{
			StartDate:     start,
			PaymentDates:  []time.Time{maturity},
			YearFractions: []float64{g.Helper.AccrualFactor(start, maturity)},
		}, nil
	}

	if g.delta.IsZero() {
		return DateSchedule{}, fmt.Errorf("Generate every %q: %w", g.Frequency, ErrUnknownFrequency)
	}
	if maturity.Before(g.delta.Shift(start, 1)) {
		return DateSchedule{}, fmt.Errorf("Generate %s -> %s every %s: %w",
			FormatDate(start), FormatDate(maturity), g.Frequency, ErrScheduleTooShort)
	}

	var backward []time.Time
	for k := 0; ; k++ {
		d := g.delta.Shift(maturity, -k)
		if !start.Before(d) {
			break
		}
		backward = append(backward, d)
	}

	n := len(backward)
	dates := make([]time.Time, n)
	for i, d := range backward {
		dates[n-1-i] = d
	}

	fractions := make([]float64, n)
	prev := start
	for i, d := range dates {
		fractions[i] = g.Helper.AccrualFactor(prev, d)
		prev = d
	}
	return DateSchedule{StartDate: start, PaymentDates: dates, YearFractions: fractions}, nil
}
