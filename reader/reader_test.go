package reader_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meenmo/mandate/exposure"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/reader"
	"github.com/meenmo/mandate/utils"
)

const sampleDir = "../io/input"

var asOf = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestReadSampleEconomy(t *testing.T) {
	t.Parallel()

	e, err := reader.ReadEconomy(asOf, filepath.Join(sampleDir, "economy"))
	if err != nil {
		t.Fatalf("ReadEconomy: %v", err)
	}
	if len(e.Curves) != 2 || len(e.SharePrices) != 3 || len(e.ExchangeRates) != 1 {
		t.Fatalf("unexpected sizes: %d curves %d shares %d fx", len(e.Curves), len(e.SharePrices), len(e.ExchangeRates))
	}
	c, err := e.Curve("EUR_ESTR")
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	tenors := c.Tenors()
	if len(tenors) != 10 || math.Abs(tenors[0]-30.0/360.0) > 1e-15 || tenors[9] != 30 {
		t.Fatalf("unexpected tenors %v", tenors)
	}
	if c.Currency() != "EUR" {
		t.Fatalf("currency %q", c.Currency())
	}
	if f, ok := e.Fixing("EUR_ESTR"); !ok || f != 0.03907 {
		t.Fatalf("fixing %g %v", f, ok)
	}
	if r, err := e.ExchangeRate("EUR_USD"); err != nil || r != 1.0805 {
		t.Fatalf("EUR_USD = %g, %v", r, err)
	}
}

func TestReadEconomyOptionalFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"yield_curves.csv": "Identifier,Currency,Tenor,Yield\nGBP_SONIA,GBP,1Y,0.05\nGBP_SONIA,GBP,5Y,0.042\n",
	})
	e, err := reader.ReadEconomy(asOf, dir)
	if err != nil {
		t.Fatalf("ReadEconomy: %v", err)
	}
	if len(e.Curves) != 1 || len(e.SharePrices) != 0 || len(e.ExchangeRates) != 0 || len(e.Fixings) != 0 {
		t.Fatalf("unexpected economy %+v", e)
	}
}

func TestReadEconomyErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{
			name:  "missing curves",
			files: map[string]string{},
			want:  os.ErrNotExist,
		},
		{
			name:  "missing column",
			files: map[string]string{"yield_curves.csv": "Identifier,Tenor,Yield\nX,1Y,0.01\nX,2Y,0.01\n"},
			want:  reader.ErrMissingColumn,
		},
		{
			name:  "bad tenor",
			files: map[string]string{"yield_curves.csv": "Identifier,Currency,Tenor,Yield\nX,EUR,1Q,0.01\nX,EUR,2Y,0.01\n"},
			want:  utils.ErrUnknownTenorUnit,
		},
		{
			name:  "blank yield",
			files: map[string]string{"yield_curves.csv": "Identifier,Currency,Tenor,Yield\nX,EUR,1Y,\nX,EUR,2Y,0.01\n"},
			want:  reader.ErrEmptyCell,
		},
		{
			name: "blank share price",
			files: map[string]string{
				"yield_curves.csv": "Identifier,Currency,Tenor,Yield\nX,EUR,1Y,0.01\nX,EUR,2Y,0.01\n",
				"share_prices.csv": "Identifier,Currency,Price\nASML,EUR,\n",
			},
			want: reader.ErrEmptyCell,
		},
		{
			name: "blank exchange rate",
			files: map[string]string{
				"yield_curves.csv": "Identifier,Currency,Tenor,Yield\nX,EUR,1Y,0.01\nX,EUR,2Y,0.01\n",
				"exchange_rates.csv": "Identifier,BaseCurrency,QuoteCurrency,Rate\nUSD_EUR,USD,EUR,\n",
			},
			want: reader.ErrEmptyCell,
		},
		{
			name: "blank fixing",
			files: map[string]string{
				"yield_curves.csv": "Identifier,Currency,Tenor,Yield\nX,EUR,1Y,0.01\nX,EUR,2Y,0.01\n",
				"fixings.csv": "Identifier,Rate\nX,\n",
			},
			want: reader.ErrEmptyCell,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := reader.ReadEconomy(asOf, writeFiles(t, tc.files))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	dir := writeFiles(t, map[string]string{
		"yield_curves.csv":   "Identifier,Currency,Tenor,Yield\nX,EUR,1Y,0.01\nX,EUR,2Y,0.01\n",
		"exchange_rates.csv": "Identifier,BaseCurrency,QuoteCurrency,Rate\nUSD_EUR,EUR,USD,1.08\n",
	})
	if _, err := reader.ReadEconomy(asOf, dir); err == nil {
		t.Fatalf("expected an error for a mislabelled exchange rate")
	}
}

func TestReadSamplePortfolio(t *testing.T) {
	t.Parallel()

	e, err := reader.ReadEconomy(asOf, filepath.Join(sampleDir, "economy"))
	if err != nil {
		t.Fatalf("ReadEconomy: %v", err)
	}
	defs, err := reader.ReadDefinitions(filepath.Join(sampleDir, "portfolio"))
	if err != nil {
		t.Fatalf("ReadDefinitions: %v", err)
	}
	if len(defs) != 11 {
		t.Fatalf("got %d definitions want 11", len(defs))
	}
	btp := defs[1]
	if btp.ID != "BTP_5Y" || btp.FixedRate == nil || *btp.FixedRate != 0.035 || btp.PaymentFrequency != "6M" {
		t.Fatalf("unexpected definition %+v", btp)
	}
	if defs[3].Shares != 400 || defs[3].Notional != 0 {
		t.Fatalf("stock definition %+v", defs[3])
	}

	p, err := reader.ReadPortfolio(filepath.Join(sampleDir, "portfolio"), instruments.Factory{}, e)
	if err != nil {
		t.Fatalf("ReadPortfolio: %v", err)
	}
	if p.Len() != 11 {
		t.Fatalf("portfolio has %d instruments", p.Len())
	}
	if _, err := p.Value(e); err != nil {
		t.Fatalf("Value: %v", err)
	}
	if n := p.FilterLevel2(instruments.Equity).Len(); n != 4 {
		t.Fatalf("equity instruments %d want 4", n)
	}
}

func TestReadPortfolioBadDate(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"portfolio.csv": "Identifier,Type,DiscountCurve,Notional,StartDate,MaturityDate,QuoteCurrency\n" +
			"Z,ZeroCouponBond,EUR_ESTR,100,01/03/2024,2025-03-01,EUR\n",
	})
	if _, err := reader.ReadDefinitions(dir); err == nil {
		t.Fatalf("expected a date parse error")
	}
}

func TestReadSampleMandate(t *testing.T) {
	t.Parallel()

	m, err := reader.ReadMandate(filepath.Join(sampleDir, "mandate"))
	if err != nil {
		t.Fatalf("ReadMandate: %v", err)
	}
	if len(m.Targets) != 5 || len(m.Generators) != 3 {
		t.Fatalf("got %d targets %d generators", len(m.Targets), len(m.Generators))
	}
	zd, ok := m.Targets[3].Exposure.(exposure.ZeroDelta)
	if !ok {
		t.Fatalf("target 3 is %T", m.Targets[3].Exposure)
	}
	if zd.CurveID != "EUR_ESTR" || zd.Tenor != 5 || m.Targets[3].Target != -2000000 {
		t.Fatalf("unexpected zero delta %+v target %g", zd, m.Targets[3].Target)
	}

	e, err := reader.ReadEconomy(asOf, filepath.Join(sampleDir, "economy"))
	if err != nil {
		t.Fatalf("ReadEconomy: %v", err)
	}
	p, err := reader.ReadPortfolio(filepath.Join(sampleDir, "portfolio"), instruments.Factory{}, e)
	if err != nil {
		t.Fatalf("ReadPortfolio: %v", err)
	}
	devs, err := m.DeviationVector(p, e)
	if err != nil {
		t.Fatalf("DeviationVector: %v", err)
	}
	for i, d := range devs {
		if d < -1 || d > 1 {
			t.Fatalf("deviation %d = %g outside [-1, 1]", i, d)
		}
	}
}

func TestReadMandateUnknownKind(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"exposures.csv": "Identifier,Type,CurveIdentifier,Tenor,Target\nV,Vega,EUR_ESTR,5Y,0\n",
	})
	if _, err := reader.ReadMandate(dir); !errors.Is(err, exposure.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestReadMandateBlankTarget(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"exposures.csv": "Identifier,Type,CurveIdentifier,Tenor,Target\nEQUITY,AssetAllocationEquity,,,\n",
	})
	if _, err := reader.ReadMandate(dir); !errors.Is(err, reader.ErrEmptyCell) {
		t.Fatalf("expected ErrEmptyCell, got %v", err)
	}
}
