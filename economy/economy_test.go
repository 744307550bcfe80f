package economy_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
)

func testEconomy(t *testing.T) *economy.Economy {
	t.Helper()
	eur, err := curve.New("EUR_ESTR", "EUR", []float64{0.5, 1, 2, 5}, []float64{0.03, 0.029, 0.027, 0.026})
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return economy.New(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		[]*curve.YieldCurve{eur},
		[]economy.SharePrice{economy.NewSharePrice("ASML", "EUR", 612.5)},
		[]economy.ExchangeRate{economy.NewExchangeRate(1.09, "EUR", "USD")},
	)
}

func TestFlipRoundTrip(t *testing.T) {
	t.Parallel()

	r := economy.NewExchangeRate(1.0873, "EUR", "USD")
	f := r.Flip()
	if f.Base != "USD" || f.Quote != "EUR" || f.ID != "USD_EUR" {
		t.Fatalf("unexpected flipped rate %+v", f)
	}
	if math.Abs(f.Value-1/1.0873) > 1e-15 {
		t.Fatalf("flipped value %.15f", f.Value)
	}
	back := f.Flip()
	if back.Base != r.Base || back.Quote != r.Quote || back.ID != r.ID {
		t.Fatalf("double flip changed identity: %+v", back)
	}
	if math.Abs(back.Value-r.Value) > 1e-12 {
		t.Fatalf("double flip value %.15f want %.15f", back.Value, r.Value)
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	if _, err := e.Curve("EUR_ESTR"); err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if p, err := e.SharePrice("ASML"); err != nil || p != 612.5 {
		t.Fatalf("SharePrice = %g, %v", p, err)
	}
	if r, err := e.ExchangeRate("EUR_USD"); err != nil || r != 1.09 {
		t.Fatalf("ExchangeRate = %g, %v", r, err)
	}

	if _, err := e.Curve("USD_SOFR"); !errors.Is(err, economy.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for curve, got %v", err)
	}
	if _, err := e.SharePrice("NVDA"); !errors.Is(err, economy.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for share, got %v", err)
	}
	if _, err := e.ExchangeRate("USD_EUR"); !errors.Is(err, economy.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for fx, got %v", err)
	}
}

func TestWithBumpDoesNotAlias(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	up, err := e.WithBump("EUR_ESTR", 2, 0.0001)
	if err != nil {
		t.Fatalf("WithBump up: %v", err)
	}
	down, err := e.WithBump("EUR_ESTR", 2, -0.0001)
	if err != nil {
		t.Fatalf("WithBump down: %v", err)
	}

	base, _ := e.Curve("EUR_ESTR")
	cu, _ := up.Curve("EUR_ESTR")
	cd, _ := down.Curve("EUR_ESTR")
	if base == cu || base == cd || cu == cd {
		t.Fatalf("bumped economies share curve pointers")
	}
	if base.Yields()[2] != 0.027 {
		t.Fatalf("original yield changed: %v", base.Yields())
	}
	if !(cu.Yields()[2] > base.Yields()[2] && cd.Yields()[2] < base.Yields()[2]) {
		t.Fatalf("bump directions wrong: up %v down %v", cu.Yields(), cd.Yields())
	}

	if _, err := e.WithBump("GBP_SONIA", 0, 0.0001); !errors.Is(err, economy.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.WithBump("EUR_ESTR", 9, 0.0001); !errors.Is(err, curve.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	e.Fixings["EUR_ESTR"] = 0.031
	c := e.Clone()
	c.SharePrices["ASML"] = economy.NewSharePrice("ASML", "EUR", 1)
	c.Fixings["EUR_ESTR"] = 0
	delete(c.ExchangeRates, "EUR_USD")

	if p, _ := e.SharePrice("ASML"); p != 612.5 {
		t.Fatalf("clone mutation leaked into share prices: %g", p)
	}
	if f, ok := e.Fixing("EUR_ESTR"); !ok || f != 0.031 {
		t.Fatalf("clone mutation leaked into fixings: %g %v", f, ok)
	}
	if _, err := e.ExchangeRate("EUR_USD"); err != nil {
		t.Fatalf("clone mutation leaked into fx: %v", err)
	}

	later := e.WithDate(e.Date.AddDate(0, 1, 0))
	if !later.Date.After(e.Date) || e.Date.Month() != time.January {
		t.Fatalf("WithDate must not move the original date")
	}
}
