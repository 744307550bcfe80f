package utils

import (
	"time"

	"github.com/meenmo/mandate/config"
)

// DateHelper implements the additive day count used throughout valuation:
// every year has DaysInYear days, every month DaysInMonth days.
type DateHelper struct {
	DaysInYear  int
	DaysInMonth int
	DaysInWeek  int
}

// DefaultDateHelper returns a DateHelper configured from the active config
// (360/30/7 unless overridden).
func DefaultDateHelper() DateHelper {
	c := config.Get()
	return DateHelper{
		DaysInYear:  c.DaysInYear,
		DaysInMonth: c.DaysInMonth,
		DaysInWeek:  c.DaysInWeek,
	}
}

// AccrualFactor computes
//
//	(DaysInYear*(y2-y1) + DaysInMonth*(m2-m1) + (d2-d1)) / DaysInYear
//
// with no end-of-month adjustment. The result is negative when end precedes start.
func (h DateHelper) AccrualFactor(start, end time.Time) float64 {
	contribYear := h.DaysInYear * (end.Year() - start.Year())
	contribMonth := h.DaysInMonth * (int(end.Month()) - int(start.Month()))
	contribDay := end.Day() - start.Day()
	return float64(contribYear+contribMonth+contribDay) / float64(h.DaysInYear)
}

// Tenors returns the accrual factor from asOf to each date.
func (h DateHelper) Tenors(asOf time.Time, dates []time.Time) []float64 {
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = h.AccrualFactor(asOf, d)
	}
	return out
}
