package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/mandate/utils"
)

var (
	// ErrInvalidCurve is returned when tenors and yields cannot define a curve.
	ErrInvalidCurve = errors.New("invalid yield curve")
	// ErrIndexOutOfRange is returned when a bump targets a tenor index the curve does not have.
	ErrIndexOutOfRange = errors.New("tenor index out of range")
	// ErrTenorNotFound is returned when a tenor value is not a curve knot.
	ErrTenorNotFound = errors.New("tenor not on curve")
	// ErrForwardInPast is returned when a forward's accrual starts before the valuation date.
	ErrForwardInPast = errors.New("accrual start before valuation date")
)

// tenorTolerance is the distance under which a requested tenor matches a knot.
const tenorTolerance = 1e-9

// YieldCurve interpolates continuously compounded zero yields over tenors
// expressed as year fractions.
type YieldCurve struct {
	id       string
	currency string
	tenors   []float64
	yields   []float64
	helper   utils.DateHelper
	spline   *spline
}

// New builds a curve with the default date helper. Tenors must be strictly
// increasing and match yields in length (at least two points).
func New(id, currency string, tenors, yields []float64) (*YieldCurve, error) {
	return NewWithHelper(id, currency, tenors, yields, utils.DefaultDateHelper())
}

// NewWithHelper builds a curve measuring time with the supplied day count.
func NewWithHelper(id, currency string, tenors, yields []float64, helper utils.DateHelper) (*YieldCurve, error) {
	if len(tenors) != len(yields) {
		return nil, fmt.Errorf("curve %s: %d tenors vs %d yields: %w", id, len(tenors), len(yields), ErrInvalidCurve)
	}
	if len(tenors) < 2 {
		return nil, fmt.Errorf("curve %s: need at least 2 points: %w", id, ErrInvalidCurve)
	}
	for i := 1; i < len(tenors); i++ {
		if !(tenors[i] > tenors[i-1]) {
			return nil, fmt.Errorf("curve %s: tenors not strictly increasing at %d: %w", id, i, ErrInvalidCurve)
		}
	}

	c := &YieldCurve{
		id:       id,
		currency: currency,
		tenors:   append([]float64(nil), tenors...),
		yields:   append([]float64(nil), yields...),
		helper:   helper,
	}
	if err := c.fit(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *YieldCurve) fit() error {
	s, err := fitSpline(c.tenors, c.yields)
	if err != nil {
		return fmt.Errorf("curve %s: %w", c.id, err)
	}
	c.spline = s
	return nil
}

// ID returns the curve identifier.
func (c *YieldCurve) ID() string { return c.id }

// Currency returns the curve currency.
func (c *YieldCurve) Currency() string { return c.currency }

// Tenors returns a copy of the knot tenors.
func (c *YieldCurve) Tenors() []float64 { return append([]float64(nil), c.tenors...) }

// Yields returns a copy of the knot yields.
func (c *YieldCurve) Yields() []float64 { return append([]float64(nil), c.yields...) }

// Yield returns the interpolated zero yield at tenor tau.
func (c *YieldCurve) Yield(tau float64) float64 {
	return c.spline.at(tau)
}

// DiscountFactor returns exp(-τ·y(τ)) with τ the accrual factor from asOf to d.
func (c *YieldCurve) DiscountFactor(asOf, d time.Time) float64 {
	tau := c.helper.AccrualFactor(asOf, d)
	return math.Exp(-tau * c.spline.at(tau))
}

// DiscountFactors evaluates DiscountFactor for each date.
func (c *YieldCurve) DiscountFactors(asOf time.Time, dates []time.Time) []float64 {
	out := make([]float64, len(dates))
	for i, tau := range c.helper.Tenors(asOf, dates) {
		out[i] = math.Exp(-tau * c.spline.at(tau))
	}
	return out
}

// ForwardRate returns the rate implied between the zero points at start and end:
//
//	(y2·τ2 − y1·τ1) / (τ2 − τ1)
func (c *YieldCurve) ForwardRate(asOf, start, end time.Time) (float64, error) {
	if asOf.After(start) {
		return 0, fmt.Errorf("ForwardRate %s on %s: %w", utils.FormatDate(start), utils.FormatDate(asOf), ErrForwardInPast)
	}
	t1 := c.helper.AccrualFactor(asOf, start)
	t2 := c.helper.AccrualFactor(asOf, end)
	if t2 == t1 {
		return 0, fmt.Errorf("ForwardRate: empty accrual period %s -> %s", utils.FormatDate(start), utils.FormatDate(end))
	}
	return forward(t1, c.spline.at(t1), t2, c.spline.at(t2)), nil
}

// ForwardRates returns the forward for each period ending at dates[i].
//
// When asOf is on or before start, the first period runs from start to
// dates[0] and every forward is read off the curve. Otherwise the first
// period has already fixed and previousFixing is used in its place.
func (c *YieldCurve) ForwardRates(asOf, start time.Time, dates []time.Time, previousFixing float64) []float64 {
	if len(dates) == 0 {
		return nil
	}

	tenors := c.helper.Tenors(asOf, dates)
	out := make([]float64, 0, len(dates))
	if !asOf.After(start) {
		tenors = append([]float64{c.helper.AccrualFactor(asOf, start)}, tenors...)
	} else {
		out = append(out, previousFixing)
	}

	yields := make([]float64, len(tenors))
	for i, tau := range tenors {
		yields[i] = c.spline.at(tau)
	}
	for i := 1; i < len(tenors); i++ {
		out = append(out, forward(tenors[i-1], yields[i-1], tenors[i], yields[i]))
	}
	return out
}

func forward(t1, y1, t2, y2 float64) float64 {
	return (y2*t2 - y1*t1) / (t2 - t1)
}

// Bump adds size to the yield at index and refits the interpolant in place.
// Callers sharing the curve see the change; use Bumped for an isolated copy.
func (c *YieldCurve) Bump(index int, size float64) error {
	if index < 0 || index >= len(c.yields) {
		return fmt.Errorf("Bump curve %s index %d of %d: %w", c.id, index, len(c.yields), ErrIndexOutOfRange)
	}
	c.yields[index] += size
	return c.fit()
}

// Bumped returns a clone of the curve with the yield at index shifted by size.
func (c *YieldCurve) Bumped(index int, size float64) (*YieldCurve, error) {
	out := c.Clone()
	if err := out.Bump(index, size); err != nil {
		return nil, err
	}
	return out, nil
}

// TenorIndex returns the knot index whose tenor equals tenor.
func (c *YieldCurve) TenorIndex(tenor float64) (int, error) {
	for i, t := range c.tenors {
		if math.Abs(t-tenor) < tenorTolerance {
			return i, nil
		}
	}
	return 0, fmt.Errorf("curve %s tenor %g: %w", c.id, tenor, ErrTenorNotFound)
}

// Clone returns a deep copy sharing no state with c.
func (c *YieldCurve) Clone() *YieldCurve {
	out := &YieldCurve{
		id:       c.id,
		currency: c.currency,
		tenors:   append([]float64(nil), c.tenors...),
		yields:   append([]float64(nil), c.yields...),
		helper:   c.helper,
	}
	out.spline = c.spline.withKnots(out.tenors, out.yields)
	return out
}
