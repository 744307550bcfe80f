package instruments

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/utils"
)

// ErrZeroAnnuity is returned when the fixed leg has no remaining value per unit rate.
var ErrZeroAnnuity = errors.New("fixed leg annuity is zero")

// SwapType says whether the fixed leg is paid or received.
type SwapType string

const (
	Payer    SwapType = "Payer"
	Receiver SwapType = "Receiver"
)

// ParseSwapType validates s.
func ParseSwapType(s string) (SwapType, error) {
	switch t := SwapType(s); t {
	case Payer, Receiver:
		return t, nil
	default:
		return "", fmt.Errorf("swap type %q: %w", s, ErrUnknownSwapType)
	}
}

// SwapTerms are the economic terms of a fixed-for-floating swap.
type SwapTerms struct {
	QuoteCurrency  string
	DiscountCurve  string
	ForecastCurve  string
	Notional       float64
	StartDate      time.Time
	MaturityDate   time.Time
	FixedFrequency string
	FloatFrequency string
	Type           SwapType
}

func (t SwapTerms) leg(freq string) LoanTerms {
	return LoanTerms{
		QuoteCurrency:    t.QuoteCurrency,
		DiscountCurve:    t.DiscountCurve,
		ForecastCurve:    t.ForecastCurve,
		Notional:         t.Notional,
		StartDate:        t.StartDate,
		MaturityDate:     t.MaturityDate,
		PaymentFrequency: freq,
	}
}

// InterestRateSwap exchanges a FixedLeg paying SwapRate for a FloatingLeg.
type InterestRateSwap struct {
	SwapTerms
	SwapRate    float64
	FixedLeg    *FixedLeg
	FloatingLeg *FloatingLeg
}

// SolveParRate returns the fixed rate at which both legs have equal value.
func SolveParRate(floatLegPV, fixedLegPVAtUnitRate float64) (float64, error) {
	if fixedLegPVAtUnitRate == 0 {
		return 0, ErrZeroAnnuity
	}
	return floatLegPV / fixedLegPVAtUnitRate, nil
}

// NewInterestRateSwap builds the swap. When swapRate is nil the par rate is
// solved on e's curves as of the start date.
func NewInterestRateSwap(t SwapTerms, swapRate *float64, e *economy.Economy) (*InterestRateSwap, error) {
	if _, err := ParseSwapType(string(t.Type)); err != nil {
		return nil, fmt.Errorf("NewInterestRateSwap: %w", err)
	}
	floating, err := NewFloatingLeg(t.leg(t.FloatFrequency))
	if err != nil {
		return nil, fmt.Errorf("NewInterestRateSwap: floating leg: %w", err)
	}

	rate, err := lockedPrice(swapRate, e, func(e *economy.Economy) (float64, error) {
		return parRate(t, floating, e)
	})
	if err != nil {
		return nil, fmt.Errorf("NewInterestRateSwap: %w", err)
	}

	fixed, err := NewFixedLeg(t.leg(t.FixedFrequency), rate)
	if err != nil {
		return nil, fmt.Errorf("NewInterestRateSwap: fixed leg: %w", err)
	}
	return &InterestRateSwap{SwapTerms: t, SwapRate: rate, FixedLeg: fixed, FloatingLeg: floating}, nil
}

func parRate(t SwapTerms, floating *FloatingLeg, e *economy.Economy) (float64, error) {
	discount, err := e.Curve(t.DiscountCurve)
	if err != nil {
		return 0, err
	}
	forecast, err := e.Curve(t.ForecastCurve)
	if err != nil {
		return 0, err
	}
	unit, err := NewFixedLeg(t.leg(t.FixedFrequency), 1.0)
	if err != nil {
		return 0, fmt.Errorf("fixed leg: %w", err)
	}
	annuity, err := unit.Value(t.StartDate, discount)
	if err != nil {
		return 0, err
	}
	floatPV, err := floating.Value(t.StartDate, discount, forecast)
	if err != nil {
		return 0, err
	}
	return SolveParRate(floatPV, annuity)
}

// Value is float − fixed for a payer and fixed − float for a receiver.
func (s *InterestRateSwap) Value(asOf time.Time, discount, forecast *curve.YieldCurve) (float64, error) {
	fixed, err := s.FixedLeg.Value(asOf, discount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	float, err := s.FloatingLeg.Value(asOf, discount, forecast)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	return s.net(fixed, float)
}

func (s *InterestRateSwap) net(fixed, float float64) (float64, error) {
	switch s.Type {
	case Receiver:
		return fixed - float, nil
	case Payer:
		return float - fixed, nil
	default:
		return 0, fmt.Errorf("%s: swap type %q: %w", s, s.Type, ErrUnknownSwapType)
	}
}

func (s *InterestRateSwap) ValueFromEconomy(e *economy.Economy) (float64, error) {
	fixed, err := s.FixedLeg.ValueFromEconomy(e)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	float, err := s.FloatingLeg.ValueFromEconomy(e)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	return s.net(fixed, float)
}

func (s *InterestRateSwap) Classification() Classification {
	return Classification{Level1: Derivative, Level2: InterestRate, Level3: InterestRateSwapType, QuoteCurrency: s.QuoteCurrency}
}

func (s *InterestRateSwap) String() string {
	return label(string(InterestRateSwapType), string(s.Type), utils.FormatDate(s.StartDate), utils.FormatDate(s.MaturityDate))
}
