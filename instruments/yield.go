package instruments

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/mandate/utils"
)

// ErrYieldNotConverged is returned when the yield solver leaves its bracket
// or runs out of iterations.
var ErrYieldNotConverged = errors.New("yield did not converge")

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.05
	yieldCeiling   = 0.50
	yieldGuess     = 0.025
)

// YieldToMaturity solves for the flat continuously compounded yield at which
// the remaining flows discount to dirtyPrice, on the same year fractions the
// curves use:
//
//	price(y) = Σ CF_k · exp(−y·τ_k)
//	dP/dy    = Σ −τ_k · CF_k · exp(−y·τ_k)
func (b *FixedRateBond) YieldToMaturity(asOf time.Time, dirtyPrice float64) (float64, error) {
	flows, err := b.CashFlows(asOf)
	if err != nil {
		return 0, err
	}
	if flows.Len() == 0 {
		return 0, fmt.Errorf("YieldToMaturity %s: %w", b, utils.ErrNoFuturePayment)
	}
	taus := utils.DefaultDateHelper().Tenors(asOf, flows.PaymentDates)

	y := yieldGuess
	for iter := 0; iter < yieldMaxIter; iter++ {
		price, deriv := priceAndDeriv(y, taus, flows.Amounts)
		f := price - dirtyPrice
		if math.Abs(f) < yieldTolerance*math.Max(1, math.Abs(dirtyPrice)) {
			return y, nil
		}
		if math.Abs(deriv) < 1e-15 {
			return y, fmt.Errorf("YieldToMaturity %s: flat price at iteration %d: %w", b, iter, ErrYieldNotConverged)
		}
		next := clamp(y-f/deriv, yieldFloor, yieldCeiling)
		if next == y {
			return y, fmt.Errorf("YieldToMaturity %s: stuck at %g: %w", b, y, ErrYieldNotConverged)
		}
		y = next
	}
	return y, fmt.Errorf("YieldToMaturity %s: %d iterations: %w", b, yieldMaxIter, ErrYieldNotConverged)
}

func priceAndDeriv(y float64, taus, amounts []float64) (float64, float64) {
	var price, deriv float64
	for i, tau := range taus {
		pv := amounts[i] * math.Exp(-y*tau)
		price += pv
		deriv -= tau * pv
	}
	return price, deriv
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
