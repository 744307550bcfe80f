package instruments_test

import (
	"testing"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flatCurve(t *testing.T, id string, rate float64) *curve.YieldCurve {
	t.Helper()
	c, err := curve.New(id, "EUR", []float64{0.5, 1, 2, 5, 10}, []float64{rate, rate, rate, rate, rate})
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return c
}

func slopedCurve(t *testing.T, id string) *curve.YieldCurve {
	t.Helper()
	c, err := curve.New(id, "EUR",
		[]float64{0.25, 0.5, 1, 2, 3, 5, 7, 10},
		[]float64{0.0310, 0.0305, 0.0295, 0.0280, 0.0272, 0.0268, 0.0270, 0.0276})
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return c
}

// testEconomy dated asOf with a flat 2% EUR curve, a sloped ESTR curve, a
// flat 4% USD curve, one share and one exchange rate.
func testEconomy(t *testing.T, asOf time.Time) *economy.Economy {
	t.Helper()
	return economy.New(asOf,
		[]*curve.YieldCurve{flatCurve(t, "EUR_FLAT", 0.02), slopedCurve(t, "EUR_ESTR"), flatCurve(t, "USD_SOFR", 0.04)},
		[]economy.SharePrice{economy.NewSharePrice("ASML", "EUR", 600)},
		[]economy.ExchangeRate{economy.NewExchangeRate(1.10, "EUR", "USD")},
	)
}

func ptr(v float64) *float64 { return &v }
