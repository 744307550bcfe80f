package mandate

import (
	"errors"
	"fmt"

	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/utils"
)

// ErrUnsupportedGenerator is returned for products that cannot be generated.
var ErrUnsupportedGenerator = errors.New("instrument type cannot be generated")

// Generator creates a new position of the given notional on e's date.
type Generator func(notional float64, e *economy.Economy) (instruments.Instrument, error)

// GeneratorSpec is a row of the generator table.
type GeneratorSpec struct {
	Type          instruments.Level3
	QuoteCurrency string
	DiscountCurve string
	Tenor         string
	Ticker        string
}

// NewGenerator builds the generator described by s.
func NewGenerator(s GeneratorSpec) (Generator, error) {
	switch s.Type {
	case instruments.ZeroCouponBondType:
		return ZeroCouponBondGenerator(s.QuoteCurrency, s.DiscountCurve, s.Tenor)
	case instruments.StockType:
		return StockGenerator(s.QuoteCurrency, s.Ticker), nil
	default:
		return nil, fmt.Errorf("NewGenerator %q: %w", s.Type, ErrUnsupportedGenerator)
	}
}

// ZeroCouponBondGenerator issues zero coupon bonds starting on the economy
// date and maturing tenor later.
func ZeroCouponBondGenerator(quoteCurrency, discountCurve, tenor string) (Generator, error) {
	delta, err := utils.FreqToDelta(tenor)
	if err != nil {
		return nil, fmt.Errorf("ZeroCouponBondGenerator: %w", err)
	}
	return func(notional float64, e *economy.Economy) (instruments.Instrument, error) {
		zcb, err := instruments.NewZeroCouponBond(instruments.LoanTerms{
			QuoteCurrency: quoteCurrency,
			DiscountCurve: discountCurve,
			Notional:      notional,
			StartDate:     e.Date,
			MaturityDate:  delta.Shift(e.Date, 1),
		})
		if err != nil {
			return nil, err
		}
		return zcb, nil
	}, nil
}

// StockGenerator buys notional shares of ticker.
func StockGenerator(quoteCurrency, ticker string) Generator {
	return func(notional float64, _ *economy.Economy) (instruments.Instrument, error) {
		stock, err := instruments.NewStock(quoteCurrency, ticker, notional)
		if err != nil {
			return nil, err
		}
		return stock, nil
	}
}
