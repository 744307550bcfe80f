package instruments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/utils"
)

// Margin is the margin account of a futures position.
type Margin struct {
	InitialMargin     float64
	MaintenanceMargin float64
	Balance           float64
}

func newMargin(notional, imr, mmr float64) Margin {
	return Margin{
		InitialMargin:     notional * imr,
		MaintenanceMargin: notional * imr * mmr,
		Balance:           notional * imr,
	}
}

// MarginCall reports whether the balance has fallen below maintenance.
func (m *Margin) MarginCall() bool {
	return m.Balance < m.MaintenanceMargin
}

// settle books the variation margin for a price move from prev to next.
func (m *Margin) settle(notional, prev, next float64) float64 {
	pnl := notional * (next - prev)
	m.Balance += pnl
	return pnl
}

// FutureTerms are the terms shared by futures contracts.
type FutureTerms struct {
	QuoteCurrency         string
	Notional              float64
	StartDate             time.Time
	MaturityDate          time.Time
	InitialMarginRate     float64
	MaintenanceMarginRate float64
}

func (t FutureTerms) describe(kind Level3, underlying string) string {
	return label(string(kind), underlying, utils.FormatDate(t.StartDate), utils.FormatDate(t.MaturityDate),
		strconv.FormatFloat(t.Notional, 'f', -1, 64))
}

// EuroDollarFuture is quoted as 100 × (1 − forward rate) over
// [MaturityDate, AccrualEndDate]. MaturityDate is the accrual start.
type EuroDollarFuture struct {
	FutureTerms
	Margin
	ForecastCurve  string
	AccrualEndDate time.Time
	FuturePrice    float64
}

// NewEuroDollarFuture fixes the entry price from e unless futurePrice is given.
func NewEuroDollarFuture(t FutureTerms, forecastCurve string, accrualEnd time.Time,
	futurePrice *float64, e *economy.Economy) (*EuroDollarFuture, error) {
	f := &EuroDollarFuture{
		FutureTerms:    t,
		Margin:         newMargin(t.Notional, t.InitialMarginRate, t.MaintenanceMarginRate),
		ForecastCurve:  forecastCurve,
		AccrualEndDate: accrualEnd,
	}
	p, err := lockedPrice(futurePrice, e, func(e *economy.Economy) (float64, error) {
		forecast, err := e.Curve(forecastCurve)
		if err != nil {
			return 0, err
		}
		return f.Price(t.StartDate, forecast)
	})
	if err != nil {
		return nil, fmt.Errorf("NewEuroDollarFuture %s: %w", forecastCurve, err)
	}
	f.FuturePrice = p
	return f, nil
}

// Price is the fair futures quote seen from asOf, without convexity adjustment.
func (f *EuroDollarFuture) Price(asOf time.Time, forecast *curve.YieldCurve) (float64, error) {
	r, err := forecast.ForwardRate(asOf, f.MaturityDate, f.AccrualEndDate)
	if err != nil {
		return 0, err
	}
	return 100.0 * (1.0 - r), nil
}

// Update reprices the contract, books the variation margin and returns it.
func (f *EuroDollarFuture) Update(asOf time.Time, forecast *curve.YieldCurve) (float64, error) {
	p, err := f.Price(asOf, forecast)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	pnl := f.settle(f.Notional, f.FuturePrice, p)
	f.FuturePrice = p
	return pnl, nil
}

func (f *EuroDollarFuture) UpdateFromEconomy(e *economy.Economy) (float64, error) {
	forecast, err := e.Curve(f.ForecastCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	return f.Update(e.Date, forecast)
}

// Value is zero: futures are entered into at no cost.
func (f *EuroDollarFuture) Value() float64 { return 0 }

func (f *EuroDollarFuture) ValueFromEconomy(*economy.Economy) (float64, error) { return f.Value(), nil }

func (f *EuroDollarFuture) Classification() Classification {
	return Classification{Level1: Derivative, Level2: InterestRate, Level3: EuroDollarFutureType, QuoteCurrency: f.QuoteCurrency, Tradeable: true}
}

func (f *EuroDollarFuture) String() string {
	return f.describe(EuroDollarFutureType, f.ForecastCurve) + "_" + utils.FormatDate(f.AccrualEndDate)
}

// EquityFuture is quoted as spot / DF(asOf, maturity).
type EquityFuture struct {
	FutureTerms
	Margin
	DiscountCurve string
	Ticker        string
	FuturePrice   float64
}

// NewEquityFuture fixes the entry price from e unless futurePrice is given.
func NewEquityFuture(t FutureTerms, discountCurve, ticker string, futurePrice *float64, e *economy.Economy) (*EquityFuture, error) {
	f := &EquityFuture{
		FutureTerms:   t,
		Margin:        newMargin(t.Notional, t.InitialMarginRate, t.MaintenanceMarginRate),
		DiscountCurve: discountCurve,
		Ticker:        ticker,
	}
	p, err := lockedPrice(futurePrice, e, func(e *economy.Economy) (float64, error) {
		discount, spot, err := f.market(e)
		if err != nil {
			return 0, err
		}
		return f.Price(t.StartDate, discount, spot), nil
	})
	if err != nil {
		return nil, fmt.Errorf("NewEquityFuture %s: %w", ticker, err)
	}
	f.FuturePrice = p
	return f, nil
}

func (f *EquityFuture) market(e *economy.Economy) (*curve.YieldCurve, float64, error) {
	discount, err := e.Curve(f.DiscountCurve)
	if err != nil {
		return nil, 0, err
	}
	spot, err := e.SharePrice(f.Ticker)
	if err != nil {
		return nil, 0, err
	}
	return discount, spot, nil
}

func (f *EquityFuture) Price(asOf time.Time, discount *curve.YieldCurve, spot float64) float64 {
	return spot / discount.DiscountFactor(asOf, f.MaturityDate)
}

// Update reprices the contract, books the variation margin and returns it.
func (f *EquityFuture) Update(asOf time.Time, discount *curve.YieldCurve, spot float64) float64 {
	p := f.Price(asOf, discount, spot)
	pnl := f.settle(f.Notional, f.FuturePrice, p)
	f.FuturePrice = p
	return pnl
}

func (f *EquityFuture) UpdateFromEconomy(e *economy.Economy) (float64, error) {
	discount, spot, err := f.market(e)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	return f.Update(e.Date, discount, spot), nil
}

func (f *EquityFuture) Value() float64 { return 0 }

func (f *EquityFuture) ValueFromEconomy(*economy.Economy) (float64, error) { return f.Value(), nil }

func (f *EquityFuture) Classification() Classification {
	return Classification{Level1: Derivative, Level2: Equity, Level3: EquityFutureType, QuoteCurrency: f.QuoteCurrency, Tradeable: true}
}

func (f *EquityFuture) String() string { return f.describe(EquityFutureType, f.Ticker) }
