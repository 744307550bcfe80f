package exposure_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/exposure"
	"github.com/meenmo/mandate/instruments"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEconomy(t *testing.T) *economy.Economy {
	t.Helper()
	flat, err := curve.New("EUR_FLAT", "EUR", []float64{0.5, 1, 2, 5, 10}, []float64{0.02, 0.02, 0.02, 0.02, 0.02})
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	estr, err := curve.New("EUR_ESTR", "EUR", []float64{0.5, 1, 2, 3, 5, 7, 10},
		[]float64{0.0305, 0.0295, 0.0280, 0.0272, 0.0268, 0.0270, 0.0276})
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return economy.New(date(2024, 1, 1), []*curve.YieldCurve{flat, estr},
		[]economy.SharePrice{economy.NewSharePrice("ASML", "EUR", 600)}, nil)
}

func testPortfolio(t *testing.T, e *economy.Economy) *instruments.Portfolio {
	t.Helper()
	zcb, err := instruments.NewZeroCouponBond(instruments.LoanTerms{
		QuoteCurrency: "EUR", DiscountCurve: "EUR_FLAT", Notional: 100,
		StartDate: date(2024, 1, 1), MaturityDate: date(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("NewZeroCouponBond: %v", err)
	}
	stock, err := instruments.NewStock("EUR", "ASML", 2)
	if err != nil {
		t.Fatalf("NewStock: %v", err)
	}
	return instruments.NewPortfolio(zcb, stock)
}

func TestAssetAllocation(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	p := testPortfolio(t, e)

	eq, err := exposure.New("equity", exposure.AssetAllocationEquityKind, exposure.Params{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v, err := eq.Measure(p, e); err != nil || math.Abs(v-1200) > 1e-9 {
		t.Fatalf("equity allocation %g, %v", v, err)
	}

	debt := exposure.NewAssetAllocationDebt("debt")
	if v, err := debt.Measure(p, e); err != nil || math.Abs(v-100*math.Exp(-0.02)) > 1e-9 {
		t.Fatalf("debt allocation %g, %v", v, err)
	}
	if debt.Kind() != exposure.AssetAllocationDebtKind || debt.ID() != "debt" {
		t.Fatalf("unexpected identity %s/%s", debt.ID(), debt.Kind())
	}
}

func TestZeroDeltaOfZeroCouponBond(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	p := testPortfolio(t, e)
	zd := exposure.NewZeroDelta("zd_1y", "EUR_FLAT", 1.0, 0)
	if zd.BumpSize != 1e-4 {
		t.Fatalf("default bump %g want 1e-4", zd.BumpSize)
	}

	got, err := zd.Measure(p, e)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	want := -100 * math.Exp(-0.02)
	if math.Abs(got-want) > 1e-4 {
		t.Fatalf("zero delta %.8f want %.8f", got, want)
	}

	c, _ := e.Curve("EUR_FLAT")
	if c.Yields()[1] != 0.02 {
		t.Fatalf("measuring mutated the economy: %v", c.Yields())
	}

	other, err := exposure.NewZeroDelta("zd_5y", "EUR_FLAT", 5.0, 1e-4).Measure(p, e)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if math.Abs(other) > 1e-3 {
		t.Fatalf("5y bump should barely move a 1y bond, got %g", other)
	}
}

func TestZeroDeltaReceiverSwapIsNegative(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	swap, err := instruments.NewInterestRateSwap(instruments.SwapTerms{
		QuoteCurrency:  "EUR",
		DiscountCurve:  "EUR_ESTR",
		ForecastCurve:  "EUR_ESTR",
		Notional:       1_000_000,
		StartDate:      date(2024, 1, 1),
		MaturityDate:   date(2029, 1, 1),
		FixedFrequency: "1Y",
		FloatFrequency: "6M",
		Type:           instruments.Receiver,
	}, nil, e)
	if err != nil {
		t.Fatalf("NewInterestRateSwap: %v", err)
	}
	p := instruments.NewPortfolio(swap)

	delta, err := exposure.NewZeroDelta("zd_5y", "EUR_ESTR", 5.0, 1e-4).Measure(p, e)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if delta >= 0 {
		t.Fatalf("receiver swap delta %g should be negative", delta)
	}
}

func TestZeroDeltaErrors(t *testing.T) {
	t.Parallel()

	e := testEconomy(t)
	p := testPortfolio(t, e)

	if _, err := exposure.NewZeroDelta("x", "GBP_SONIA", 1, 0).Measure(p, e); !errors.Is(err, economy.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := exposure.NewZeroDelta("x", "EUR_FLAT", 1.5, 0).Measure(p, e); !errors.Is(err, curve.ErrTenorNotFound) {
		t.Fatalf("expected ErrTenorNotFound, got %v", err)
	}
	if _, err := exposure.New("x", "Vega", exposure.Params{}); !errors.Is(err, exposure.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := exposure.New("x", exposure.ZeroDeltaKind, exposure.Params{}); err == nil {
		t.Fatalf("expected an error for ZeroDelta without a curve")
	}
}
