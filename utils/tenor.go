package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnknownTenorUnit is returned when a tenor string does not end in D, W, M or Y.
	ErrUnknownTenorUnit = errors.New("unknown tenor unit")
	// ErrUnknownFrequency is returned when a frequency string does not end in D, M or Y.
	ErrUnknownFrequency = errors.New("unknown frequency unit")
)

// splitTenor splits strings like "10Y" into (10, 'Y').
func splitTenor(s string) (int, byte, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("malformed tenor %q", s)
	}
	units, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed tenor %q: %w", s, err)
	}
	return units, s[len(s)-1], nil
}

// TenorFromString converts tenor strings like "1W", "3M", "10Y" to year fractions
// under the helper's day count.
func (h DateHelper) TenorFromString(tenor string) (float64, error) {
	units, metric, err := splitTenor(tenor)
	if err != nil {
		return 0, err
	}
	switch metric {
	case 'D':
		return float64(units) / float64(h.DaysInYear), nil
	case 'W':
		return float64(units) * float64(h.DaysInWeek) / float64(h.DaysInYear), nil
	case 'M':
		return float64(units) * float64(h.DaysInMonth) / float64(h.DaysInYear), nil
	case 'Y':
		return float64(units), nil
	default:
		return 0, fmt.Errorf("TenorFromString %q: %w", tenor, ErrUnknownTenorUnit)
	}
}

// Delta is a calendar step of whole days, months and years.
type Delta struct {
	Years  int
	Months int
	Days   int
}

// FreqToDelta maps frequency strings like "3M" or "1Y" to a calendar step.
func FreqToDelta(freq string) (Delta, error) {
	units, metric, err := splitTenor(freq)
	if err != nil {
		return Delta{}, err
	}
	if units <= 0 {
		return Delta{}, fmt.Errorf("FreqToDelta %q: period must be positive", freq)
	}
	switch metric {
	case 'D':
		return Delta{Days: units}, nil
	case 'M':
		return Delta{Months: units}, nil
	case 'Y':
		return Delta{Years: units}, nil
	default:
		return Delta{}, fmt.Errorf("FreqToDelta %q: %w", freq, ErrUnknownFrequency)
	}
}

// Shift moves t by n steps of d. Month and year steps clamp to the end of
// the target month (Jan 31 + 1M = Feb 28/29).
func (d Delta) Shift(t time.Time, n int) time.Time {
	if months := n * (12*d.Years + d.Months); months != 0 {
		t = AddMonth(t, months)
	}
	if d.Days != 0 {
		t = t.AddDate(0, 0, n*d.Days)
	}
	return t
}

// IsZero reports whether the step is empty.
func (d Delta) IsZero() bool {
	return d == Delta{}
}
