package economy

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/mandate/curve"
)

// ErrNotFound is returned when an identifier is absent from the economy.
var ErrNotFound = errors.New("identifier not found in economy")

// Economy is a dated snapshot of market observables. It is immutable by
// convention: sensitivity analysis works on clones built by Clone or WithBump.
type Economy struct {
	Date          time.Time
	Curves        map[string]*curve.YieldCurve
	SharePrices   map[string]SharePrice
	ExchangeRates map[string]ExchangeRate

	// Fixings holds the last published fixing per forecast curve. Floating
	// instruments use it for a running accrual period instead of their own
	// configured previous fixing.
	Fixings map[string]float64
}

// New builds an economy indexing the observables by their identifiers.
func New(date time.Time, curves []*curve.YieldCurve, prices []SharePrice, rates []ExchangeRate) *Economy {
	e := &Economy{
		Date:          date,
		Curves:        make(map[string]*curve.YieldCurve, len(curves)),
		SharePrices:   make(map[string]SharePrice, len(prices)),
		ExchangeRates: make(map[string]ExchangeRate, len(rates)),
		Fixings:       map[string]float64{},
	}
	for _, c := range curves {
		e.Curves[c.ID()] = c
	}
	for _, p := range prices {
		e.SharePrices[p.ID] = p
	}
	for _, r := range rates {
		e.ExchangeRates[r.ID] = r
	}
	return e
}

// Curve resolves a yield curve by identifier.
func (e *Economy) Curve(id string) (*curve.YieldCurve, error) {
	c, ok := e.Curves[id]
	if !ok || c == nil {
		return nil, fmt.Errorf("curve %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// SharePrice resolves the spot price of ticker.
func (e *Economy) SharePrice(ticker string) (float64, error) {
	p, ok := e.SharePrices[ticker]
	if !ok {
		return 0, fmt.Errorf("share price %q: %w", ticker, ErrNotFound)
	}
	return p.Value, nil
}

// ExchangeRate resolves an exchange rate by pair identifier.
func (e *Economy) ExchangeRate(id string) (float64, error) {
	r, ok := e.ExchangeRates[id]
	if !ok {
		return 0, fmt.Errorf("exchange rate %q: %w", id, ErrNotFound)
	}
	return r.Value, nil
}

// Fixing returns the published fixing for a forecast curve, if any.
func (e *Economy) Fixing(curveID string) (float64, bool) {
	v, ok := e.Fixings[curveID]
	return v, ok
}

// Clone returns a deep copy: every curve is cloned and every map rebuilt.
func (e *Economy) Clone() *Economy {
	out := &Economy{
		Date:          e.Date,
		Curves:        make(map[string]*curve.YieldCurve, len(e.Curves)),
		SharePrices:   make(map[string]SharePrice, len(e.SharePrices)),
		ExchangeRates: make(map[string]ExchangeRate, len(e.ExchangeRates)),
		Fixings:       make(map[string]float64, len(e.Fixings)),
	}
	for id, c := range e.Curves {
		out.Curves[id] = c.Clone()
	}
	for id, p := range e.SharePrices {
		out.SharePrices[id] = p
	}
	for id, r := range e.ExchangeRates {
		out.ExchangeRates[id] = r
	}
	for id, f := range e.Fixings {
		out.Fixings[id] = f
	}
	return out
}

// WithBump returns a deep clone whose curve curveID has the yield at
// tenorIndex shifted by size. The receiver is left untouched.
func (e *Economy) WithBump(curveID string, tenorIndex int, size float64) (*Economy, error) {
	if _, err := e.Curve(curveID); err != nil {
		return nil, fmt.Errorf("WithBump: %w", err)
	}
	out := e.Clone()
	if err := out.Curves[curveID].Bump(tenorIndex, size); err != nil {
		return nil, fmt.Errorf("WithBump: %w", err)
	}
	return out, nil
}

// WithDate returns a deep clone dated d, used to roll a snapshot forward.
func (e *Economy) WithDate(d time.Time) *Economy {
	out := e.Clone()
	out.Date = d
	return out
}
