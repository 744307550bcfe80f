package instruments

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/mandate/economy"
)

// ErrIncompleteDefinition is returned when a definition misses a field its product needs.
var ErrIncompleteDefinition = errors.New("incomplete instrument definition")

// Definition is a flat description of any product, as read from a portfolio
// table. Fields a product does not use are ignored.
type Definition struct {
	ID                    string
	Type                  Level3
	QuoteCurrency         string
	BaseCurrency          string
	DiscountCurve         string
	DiscountCurveBase     string
	ForecastCurve         string
	Ticker                string
	Notional              float64
	Shares                float64
	StartDate             time.Time
	MaturityDate          time.Time
	AccrualEndDate        time.Time
	PaymentFrequency      string
	FloatPaymentFrequency string
	FixedRate             *float64
	Price                 *float64
	SwapType              string
	InitialMarginRate     float64
	MaintenanceMarginRate float64
}

func (d Definition) loanTerms() LoanTerms {
	return LoanTerms{
		QuoteCurrency:    d.QuoteCurrency,
		DiscountCurve:    d.DiscountCurve,
		ForecastCurve:    d.ForecastCurve,
		Notional:         d.Notional,
		StartDate:        d.StartDate,
		MaturityDate:     d.MaturityDate,
		PaymentFrequency: d.PaymentFrequency,
	}
}

func (d Definition) forwardTerms() ForwardTerms {
	return ForwardTerms{
		QuoteCurrency: d.QuoteCurrency,
		Notional:      d.Notional,
		StartDate:     d.StartDate,
		MaturityDate:  d.MaturityDate,
	}
}

func (d Definition) futureTerms() FutureTerms {
	return FutureTerms{
		QuoteCurrency:         d.QuoteCurrency,
		Notional:              d.Notional,
		StartDate:             d.StartDate,
		MaturityDate:          d.MaturityDate,
		InitialMarginRate:     d.InitialMarginRate,
		MaintenanceMarginRate: d.MaintenanceMarginRate,
	}
}

// Factory builds instruments from definitions.
type Factory struct {
	// PreviousFixing overrides the configured fixing for floating products.
	PreviousFixing *float64
}

// Create builds the product named by d.Type. The economy fixes contract
// prices that d leaves open; it may be nil when every price is given.
func (f Factory) Create(d Definition, e *economy.Economy) (Instrument, error) {
	inst, err := f.create(d, e)
	if err != nil {
		return nil, fmt.Errorf("Factory.Create %s: %w", d.ID, err)
	}
	return inst, nil
}

func (f Factory) create(d Definition, e *economy.Economy) (Instrument, error) {
	switch d.Type {
	case ShareType:
		return NewShare(d.QuoteCurrency, d.Ticker), nil
	case StockType:
		shares := d.Shares
		if shares == 0 {
			shares = d.Notional
		}
		return NewStock(d.QuoteCurrency, d.Ticker, shares)
	case ZeroCouponBondType:
		return NewZeroCouponBond(d.loanTerms())
	case FixedRateBondType:
		if d.FixedRate == nil {
			return nil, fmt.Errorf("%s needs FixedRate: %w", d.Type, ErrIncompleteDefinition)
		}
		return NewFixedRateBond(d.loanTerms(), *d.FixedRate)
	case FloatingRateBondType:
		b, err := NewFloatingRateBond(d.loanTerms())
		if err != nil {
			return nil, err
		}
		if f.PreviousFixing != nil {
			b.PreviousFixing = *f.PreviousFixing
		}
		return b, nil
	case EquityForwardType:
		return NewEquityForward(d.forwardTerms(), d.DiscountCurve, d.Ticker, d.Price, e)
	case ForwardRateAgreementType:
		return NewForwardRateAgreement(d.forwardTerms(), d.DiscountCurve, d.ForecastCurve, d.AccrualEndDate, d.Price, e)
	case CurrencyForwardType:
		return NewCurrencyForward(d.forwardTerms(), d.BaseCurrency, d.DiscountCurve, d.DiscountCurveBase, d.Price, e)
	case EuroDollarFutureType:
		return NewEuroDollarFuture(d.futureTerms(), d.ForecastCurve, d.AccrualEndDate, d.Price, e)
	case EquityFutureType:
		return NewEquityFuture(d.futureTerms(), d.DiscountCurve, d.Ticker, d.Price, e)
	case InterestRateSwapType:
		s, err := NewInterestRateSwap(SwapTerms{
			QuoteCurrency:  d.QuoteCurrency,
			DiscountCurve:  d.DiscountCurve,
			ForecastCurve:  d.ForecastCurve,
			Notional:       d.Notional,
			StartDate:      d.StartDate,
			MaturityDate:   d.MaturityDate,
			FixedFrequency: d.PaymentFrequency,
			FloatFrequency: d.FloatPaymentFrequency,
			Type:           SwapType(d.SwapType),
		}, d.FixedRate, e)
		if err != nil {
			return nil, err
		}
		if f.PreviousFixing != nil {
			s.FloatingLeg.PreviousFixing = *f.PreviousFixing
		}
		return s, nil
	default:
		return nil, fmt.Errorf("type %q: %w", d.Type, ErrUnknownInstrument)
	}
}
