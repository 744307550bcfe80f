package instruments

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/utils"
)

var errNoEconomy = errors.New("no economy to fix the contract price")

// ForwardTerms are the terms shared by forward contracts.
type ForwardTerms struct {
	QuoteCurrency string
	Notional      float64
	StartDate     time.Time
	MaturityDate  time.Time
}

func (t ForwardTerms) checkStarted(asOf time.Time) error {
	if asOf.Before(t.StartDate) {
		return fmt.Errorf("valued on %s, starts %s: %w", utils.FormatDate(asOf), utils.FormatDate(t.StartDate), ErrBeforeStart)
	}
	return nil
}

func (t ForwardTerms) describe(kind Level3, underlying string) string {
	return label(string(kind), underlying, utils.FormatDate(t.StartDate), utils.FormatDate(t.MaturityDate),
		strconv.FormatFloat(t.Notional, 'f', -1, 64))
}

// lockedPrice returns *locked when set, otherwise fixes the price with
// fix against e (as seen on the contract start date).
func lockedPrice(locked *float64, e *economy.Economy, fix func(*economy.Economy) (float64, error)) (float64, error) {
	if locked != nil {
		return *locked, nil
	}
	if e == nil {
		return 0, errNoEconomy
	}
	return fix(e)
}

// EquityForward obliges the holder to buy Notional shares of Ticker at
// ForwardPrice on the maturity date.
type EquityForward struct {
	ForwardTerms
	DiscountCurve string
	Ticker        string
	ForwardPrice  float64
}

// NewEquityForward fixes the forward price from e unless forwardPrice is given.
func NewEquityForward(t ForwardTerms, discountCurve, ticker string, forwardPrice *float64, e *economy.Economy) (*EquityForward, error) {
	f := &EquityForward{ForwardTerms: t, DiscountCurve: discountCurve, Ticker: ticker}
	p, err := lockedPrice(forwardPrice, e, func(e *economy.Economy) (float64, error) {
		discount, spot, err := f.market(e)
		if err != nil {
			return 0, err
		}
		return f.Price(t.StartDate, discount, spot), nil
	})
	if err != nil {
		return nil, fmt.Errorf("NewEquityForward %s: %w", ticker, err)
	}
	f.ForwardPrice = p
	return f, nil
}

func (f *EquityForward) market(e *economy.Economy) (*curve.YieldCurve, float64, error) {
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

// Price is the fair forward price: spot / DF(asOf, maturity).
func (f *EquityForward) Price(asOf time.Time, discount *curve.YieldCurve, spot float64) float64 {
	return spot / discount.DiscountFactor(asOf, f.MaturityDate)
}

// Value marks the contract to market.
func (f *EquityForward) Value(asOf time.Time, discount *curve.YieldCurve, spot float64) (float64, error) {
	if err := f.checkStarted(asOf); err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	df := discount.DiscountFactor(asOf, f.MaturityDate)
	return f.Notional * (f.Price(asOf, discount, spot) - f.ForwardPrice) * df, nil
}

func (f *EquityForward) ValueFromEconomy(e *economy.Economy) (float64, error) {
	discount, spot, err := f.market(e)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	return f.Value(e.Date, discount, spot)
}

func (f *EquityForward) Classification() Classification {
	return Classification{Level1: Derivative, Level2: Equity, Level3: EquityForwardType, QuoteCurrency: f.QuoteCurrency}
}

func (f *EquityForward) String() string { return f.describe(EquityForwardType, f.Ticker) }

// ForwardRateAgreement locks ForwardRate over [MaturityDate, AccrualEndDate].
// MaturityDate is the accrual start.
type ForwardRateAgreement struct {
	ForwardTerms
	DiscountCurve  string
	ForecastCurve  string
	AccrualEndDate time.Time
	AccrualFactor  float64
	ForwardRate    float64
}

// NewForwardRateAgreement fixes the contract rate from e unless forwardRate is given.
func NewForwardRateAgreement(t ForwardTerms, discountCurve, forecastCurve string, accrualEnd time.Time,
	forwardRate *float64, e *economy.Economy) (*ForwardRateAgreement, error) {
	f := &ForwardRateAgreement{
		ForwardTerms:   t,
		DiscountCurve:  discountCurve,
		ForecastCurve:  forecastCurve,
		AccrualEndDate: accrualEnd,
		AccrualFactor:  utils.DefaultDateHelper().AccrualFactor(t.MaturityDate, accrualEnd),
	}
	r, err := lockedPrice(forwardRate, e, func(e *economy.Economy) (float64, error) {
		forecast, err := e.Curve(forecastCurve)
		if err != nil {
			return 0, err
		}
		return f.Rate(t.StartDate, forecast)
	})
	if err != nil {
		return nil, fmt.Errorf("NewForwardRateAgreement %s: %w", forecastCurve, err)
	}
	f.ForwardRate = r
	return f, nil
}

// Rate is the forward rate over the accrual period seen from asOf.
func (f *ForwardRateAgreement) Rate(asOf time.Time, forecast *curve.YieldCurve) (float64, error) {
	return forecast.ForwardRate(asOf, f.MaturityDate, f.AccrualEndDate)
}

// Value is notional × af × (new − locked) / (1 + af × new), discounted to asOf.
func (f *ForwardRateAgreement) Value(asOf time.Time, discount, forecast *curve.YieldCurve) (float64, error) {
	if err := f.checkStarted(asOf); err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	rate, err := f.Rate(asOf, forecast)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	v := f.Notional * f.AccrualFactor * (rate - f.ForwardRate) / (1.0 + f.AccrualFactor*rate)
	return v * discount.DiscountFactor(asOf, f.MaturityDate), nil
}

func (f *ForwardRateAgreement) ValueFromEconomy(e *economy.Economy) (float64, error) {
	discount, err := e.Curve(f.DiscountCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	forecast, err := e.Curve(f.ForecastCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	return f.Value(e.Date, discount, forecast)
}

func (f *ForwardRateAgreement) Classification() Classification {
	return Classification{Level1: Derivative, Level2: InterestRate, Level3: ForwardRateAgreementType, QuoteCurrency: f.QuoteCurrency}
}

func (f *ForwardRateAgreement) String() string {
	return f.describe(ForwardRateAgreementType, f.ForecastCurve) + "_" + utils.FormatDate(f.AccrualEndDate)
}

// CurrencyForward exchanges Notional units of BaseCurrency for QuoteCurrency
// at ForwardRate on the maturity date.
type CurrencyForward struct {
	ForwardTerms
	BaseCurrency       string
	DiscountCurveQuote string
	DiscountCurveBase  string
	ExchangeRate       string
	ForwardRate        float64
}

// NewCurrencyForward fixes the forward rate from e unless forwardRate is given.
func NewCurrencyForward(t ForwardTerms, baseCurrency, discountCurveQuote, discountCurveBase string,
	forwardRate *float64, e *economy.Economy) (*CurrencyForward, error) {
	f := &CurrencyForward{
		ForwardTerms:       t,
		BaseCurrency:       baseCurrency,
		DiscountCurveQuote: discountCurveQuote,
		DiscountCurveBase:  discountCurveBase,
		ExchangeRate:       economy.PairID(baseCurrency, t.QuoteCurrency),
	}
	r, err := lockedPrice(forwardRate, e, func(e *economy.Economy) (float64, error) {
		quote, base, spot, err := f.market(e)
		if err != nil {
			return 0, err
		}
		return f.Rate(t.StartDate, quote, base, spot), nil
	})
	if err != nil {
		return nil, fmt.Errorf("NewCurrencyForward %s: %w", f.ExchangeRate, err)
	}
	f.ForwardRate = r
	return f, nil
}

func (f *CurrencyForward) market(e *economy.Economy) (quote, base *curve.YieldCurve, spot float64, err error) {
	if quote, err = e.Curve(f.DiscountCurveQuote); err != nil {
		return nil, nil, 0, err
	}
	if base, err = e.Curve(f.DiscountCurveBase); err != nil {
		return nil, nil, 0, err
	}
	if spot, err = e.ExchangeRate(f.ExchangeRate); err != nil {
		return nil, nil, 0, err
	}
	return quote, base, spot, nil
}

// Rate is the covered-interest-parity forward: spot × DF_base / DF_quote.
func (f *CurrencyForward) Rate(asOf time.Time, quote, base *curve.YieldCurve, spot float64) float64 {
	return spot * base.DiscountFactor(asOf, f.MaturityDate) / quote.DiscountFactor(asOf, f.MaturityDate)
}

// Value marks the contract to market in the quote currency.
func (f *CurrencyForward) Value(asOf time.Time, quote, base *curve.YieldCurve, spot float64) (float64, error) {
	if err := f.checkStarted(asOf); err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	df := quote.DiscountFactor(asOf, f.MaturityDate)
	return f.Notional * (f.Rate(asOf, quote, base, spot) - f.ForwardRate) * df, nil
}

func (f *CurrencyForward) ValueFromEconomy(e *economy.Economy) (float64, error) {
	quote, base, spot, err := f.market(e)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f, err)
	}
	return f.Value(e.Date, quote, base, spot)
}

func (f *CurrencyForward) Classification() Classification {
	return Classification{Level1: Derivative, Level2: Currency, Level3: CurrencyForwardType, QuoteCurrency: f.QuoteCurrency}
}

func (f *CurrencyForward) String() string { return f.describe(CurrencyForwardType, f.ExchangeRate) }
