package instruments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/meenmo/mandate/cashflow"
	"github.com/meenmo/mandate/config"
	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/utils"
)

// LoanTerms are the contractual terms shared by bonds and swap legs.
// ForecastCurve is only read by floating instruments.
type LoanTerms struct {
	QuoteCurrency    string
	DiscountCurve    string
	ForecastCurve    string
	Notional         float64
	StartDate        time.Time
	MaturityDate     time.Time
	PaymentFrequency string
}

func (t LoanTerms) schedule() (utils.DateSchedule, error) {
	g, err := utils.NewScheduleGenerator(t.PaymentFrequency, utils.DefaultDateHelper())
	if err != nil {
		return utils.DateSchedule{}, err
	}
	return g.Generate(t.StartDate, t.MaturityDate)
}

func (t LoanTerms) describe(kind Level3) string {
	return label(string(kind), utils.FormatDate(t.StartDate), utils.FormatDate(t.MaturityDate),
		strconv.FormatFloat(t.Notional, 'f', -1, 64))
}

// FixedRateLoan pays Notional × year fraction × FixedRate per period. When
// repaysNotional is set the notional is added to the last remaining flow.
type FixedRateLoan struct {
	LoanTerms
	FixedRate float64
	Schedule  utils.DateSchedule

	class          Classification
	repaysNotional bool
}

func newFixedRateLoan(t LoanTerms, rate float64, class Classification, repays bool) (FixedRateLoan, error) {
	s, err := t.schedule()
	if err != nil {
		return FixedRateLoan{}, fmt.Errorf("%s: %w", class.Level3, err)
	}
	class.QuoteCurrency = t.QuoteCurrency
	return FixedRateLoan{LoanTerms: t, FixedRate: rate, Schedule: s, class: class, repaysNotional: repays}, nil
}

// CashFlows returns the flows still to be paid after asOf.
func (l FixedRateLoan) CashFlows(asOf time.Time) (cashflow.Schedule, error) {
	s := l.Schedule.Clip(asOf)
	amounts := make([]float64, s.Len())
	for i, yf := range s.YearFractions {
		amounts[i] = l.Notional * yf * l.FixedRate
	}
	if l.repaysNotional && len(amounts) > 0 {
		amounts[len(amounts)-1] += l.Notional
	}
	return cashflow.New(s.PaymentDates, amounts)
}

// Value discounts the remaining flows on discount.
func (l FixedRateLoan) Value(asOf time.Time, discount *curve.YieldCurve) (float64, error) {
	flows, err := l.CashFlows(asOf)
	if err != nil {
		return 0, err
	}
	return flows.PresentValue(asOf, discount), nil
}

// ValueFromEconomy values the loan on the economy's date and discount curve.
func (l FixedRateLoan) ValueFromEconomy(e *economy.Economy) (float64, error) {
	discount, err := e.Curve(l.DiscountCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l, err)
	}
	return l.Value(e.Date, discount)
}

func (l FixedRateLoan) Classification() Classification { return l.class }

func (l FixedRateLoan) String() string { return l.describe(l.class.Level3) }

// FloatingRateLoan pays Notional × year fraction × forward rate per period.
// The running period, which has already fixed, pays PreviousFixing unless
// the economy publishes a fixing for the forecast curve.
type FloatingRateLoan struct {
	LoanTerms
	PreviousFixing float64
	Schedule       utils.DateSchedule

	class          Classification
	repaysNotional bool
}

func newFloatingRateLoan(t LoanTerms, class Classification, repays bool) (FloatingRateLoan, error) {
	s, err := t.schedule()
	if err != nil {
		return FloatingRateLoan{}, fmt.Errorf("%s: %w", class.Level3, err)
	}
	class.QuoteCurrency = t.QuoteCurrency
	return FloatingRateLoan{
		LoanTerms:      t,
		PreviousFixing: config.Get().PreviousFixing,
		Schedule:       s,
		class:          class,
		repaysNotional: repays,
	}, nil
}

// CashFlows projects the remaining flows off forecast.
func (l FloatingRateLoan) CashFlows(asOf time.Time, forecast *curve.YieldCurve, previousFixing float64) (cashflow.Schedule, error) {
	s := l.Schedule.Clip(asOf)
	rates := forecast.ForwardRates(asOf, l.StartDate, s.PaymentDates, previousFixing)
	amounts := make([]float64, s.Len())
	for i, yf := range s.YearFractions {
		amounts[i] = l.Notional * yf * rates[i]
	}
	if l.repaysNotional && len(amounts) > 0 {
		amounts[len(amounts)-1] += l.Notional
	}
	return cashflow.New(s.PaymentDates, amounts)
}

// Value projects on forecast and discounts on discount using PreviousFixing.
func (l FloatingRateLoan) Value(asOf time.Time, discount, forecast *curve.YieldCurve) (float64, error) {
	return l.value(asOf, discount, forecast, l.PreviousFixing)
}

func (l FloatingRateLoan) value(asOf time.Time, discount, forecast *curve.YieldCurve, fixing float64) (float64, error) {
	flows, err := l.CashFlows(asOf, forecast, fixing)
	if err != nil {
		return 0, err
	}
	return flows.PresentValue(asOf, discount), nil
}

// ValueFromEconomy values the loan using the economy's curves and fixings.
func (l FloatingRateLoan) ValueFromEconomy(e *economy.Economy) (float64, error) {
	discount, err := e.Curve(l.DiscountCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l, err)
	}
	forecast, err := e.Curve(l.ForecastCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", l, err)
	}
	fixing := l.PreviousFixing
	if f, ok := e.Fixing(l.ForecastCurve); ok {
		fixing = f
	}
	return l.value(e.Date, discount, forecast, fixing)
}

func (l FloatingRateLoan) Classification() Classification { return l.class }

func (l FloatingRateLoan) String() string { return l.describe(l.class.Level3) }

// ZeroCouponBond pays its notional once, at maturity.
type ZeroCouponBond struct {
	FixedRateLoan
}

// NewZeroCouponBond builds a bond whose PaymentFrequency is forced to Single.
func NewZeroCouponBond(t LoanTerms) (*ZeroCouponBond, error) {
	t.PaymentFrequency = utils.SingleFrequency
	l, err := newFixedRateLoan(t, 0, Classification{
		Level1: Cash, Level2: Debt, Level3: ZeroCouponBondType, Tradeable: true,
	}, true)
	if err != nil {
		return nil, err
	}
	return &ZeroCouponBond{FixedRateLoan: l}, nil
}

// CashFlows returns the notional if maturity is still ahead, nothing otherwise.
func (b *ZeroCouponBond) CashFlows(asOf time.Time) (cashflow.Schedule, error) {
	s := b.Schedule.Clip(asOf)
	switch s.Len() {
	case 0:
		return cashflow.Schedule{}, nil
	case 1:
		return cashflow.New(s.PaymentDates, []float64{b.Notional})
	default:
		return cashflow.Schedule{}, fmt.Errorf("%s: %d payments: %w", b, s.Len(), ErrZeroCouponPayments)
	}
}

// Value discounts the notional on discount.
func (b *ZeroCouponBond) Value(asOf time.Time, discount *curve.YieldCurve) (float64, error) {
	flows, err := b.CashFlows(asOf)
	if err != nil {
		return 0, err
	}
	return flows.PresentValue(asOf, discount), nil
}

func (b *ZeroCouponBond) ValueFromEconomy(e *economy.Economy) (float64, error) {
	discount, err := e.Curve(b.DiscountCurve)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b, err)
	}
	return b.Value(e.Date, discount)
}

// FixedRateBond pays fixed coupons and repays its notional at maturity.
type FixedRateBond struct {
	FixedRateLoan
}

func NewFixedRateBond(t LoanTerms, rate float64) (*FixedRateBond, error) {
	l, err := newFixedRateLoan(t, rate, Classification{
		Level1: Cash, Level2: Debt, Level3: FixedRateBondType, Tradeable: true,
	}, true)
	if err != nil {
		return nil, err
	}
	return &FixedRateBond{FixedRateLoan: l}, nil
}

// AccruedInterest is the coupon accrued since the last payment (or the
// start date). It is zero on and after maturity.
func (b *FixedRateBond) AccruedInterest(asOf time.Time) float64 {
	idx, err := b.Schedule.NextPaymentIndex(asOf)
	if err != nil {
		return 0
	}
	accrualStart := b.Schedule.StartDate
	if idx > 0 {
		accrualStart = b.Schedule.PaymentDates[idx-1]
	}
	return b.Notional * b.FixedRate * utils.DefaultDateHelper().AccrualFactor(accrualStart, asOf)
}

// CleanPrice is the dirty value less accrued interest.
func (b *FixedRateBond) CleanPrice(asOf time.Time, discount *curve.YieldCurve) (float64, error) {
	dirty, err := b.Value(asOf, discount)
	if err != nil {
		return 0, err
	}
	return dirty - b.AccruedInterest(asOf), nil
}

// FloatingRateBond pays floating coupons and repays its notional at maturity.
type FloatingRateBond struct {
	FloatingRateLoan
}

func NewFloatingRateBond(t LoanTerms) (*FloatingRateBond, error) {
	l, err := newFloatingRateLoan(t, Classification{
		Level1: Cash, Level2: Debt, Level3: FloatingRateBondType, Tradeable: true,
	}, true)
	if err != nil {
		return nil, err
	}
	return &FloatingRateBond{FloatingRateLoan: l}, nil
}

// FixedLeg is the fixed side of a swap: coupons only, no notional exchange.
type FixedLeg struct {
	FixedRateLoan
}

func NewFixedLeg(t LoanTerms, rate float64) (*FixedLeg, error) {
	l, err := newFixedRateLoan(t, rate, Classification{
		Level1: Derivative, Level2: InterestRate, Level3: FixedLegType,
	}, false)
	if err != nil {
		return nil, err
	}
	return &FixedLeg{FixedRateLoan: l}, nil
}

// FloatingLeg is the floating side of a swap: coupons only, no notional exchange.
type FloatingLeg struct {
	FloatingRateLoan
}

func NewFloatingLeg(t LoanTerms) (*FloatingLeg, error) {
	l, err := newFloatingRateLoan(t, Classification{
		Level1: Derivative, Level2: InterestRate, Level3: FloatingLegType,
	}, false)
	if err != nil {
		return nil, err
	}
	return &FloatingLeg{FloatingRateLoan: l}, nil
}
