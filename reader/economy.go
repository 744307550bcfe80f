package reader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/meenmo/mandate/curve"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/logger"
	"github.com/meenmo/mandate/utils"
)

const (
	yieldCurveFile   = "yield_curves.csv"
	sharePriceFile   = "share_prices.csv"
	exchangeRateFile = "exchange_rates.csv"
	fixingFile       = "fixings.csv"
)

// ReadEconomy loads the economy snapshot stored in dir and dates it asOf.
// Share prices, exchange rates and fixings are optional files.
func ReadEconomy(asOf time.Time, dir string) (*economy.Economy, error) {
	curves, err := readYieldCurves(filepath.Join(dir, yieldCurveFile))
	if err != nil {
		return nil, fmt.Errorf("ReadEconomy: %w", err)
	}
	prices, err := readSharePrices(filepath.Join(dir, sharePriceFile))
	if err != nil {
		return nil, fmt.Errorf("ReadEconomy: %w", err)
	}
	rates, err := readExchangeRates(filepath.Join(dir, exchangeRateFile))
	if err != nil {
		return nil, fmt.Errorf("ReadEconomy: %w", err)
	}

	e := economy.New(asOf, curves, prices, rates)
	if err := readFixings(filepath.Join(dir, fixingFile), e.Fixings); err != nil {
		return nil, fmt.Errorf("ReadEconomy: %w", err)
	}

	logger.GetLogger().WithComponent("reader").WithFields(logger.Fields{
		"dir":            dir,
		"as_of":          utils.FormatDate(asOf),
		"curves":         len(curves),
		"share_prices":   len(prices),
		"exchange_rates": len(rates),
		"fixings":        len(e.Fixings),
	}).Debug("economy loaded")
	return e, nil
}

// readOptional is readTable that treats a missing file as an empty table.
func readOptional(path string, required ...string) (*table, error) {
	t, err := readTable(path, required...)
	if errors.Is(err, fs.ErrNotExist) {
		return &table{path: path}, nil
	}
	return t, err
}

func readYieldCurves(path string) ([]*curve.YieldCurve, error) {
	t, err := readTable(path, "Identifier", "Currency", "Tenor", "Yield")
	if err != nil {
		return nil, err
	}

	type points struct {
		currency       string
		tenors, yields []float64
	}
	var order []string
	byID := map[string]*points{}
	helper := utils.DefaultDateHelper()

	err = t.each(func(r row) error {
		id := r.str("Identifier")
		tenor, err := helper.TenorFromString(r.str("Tenor"))
		if err != nil {
			return r.errorf("Tenor", err)
		}
		y, err := r.requiredFloat("Yield")
		if err != nil {
			return err
		}
		pts, seen := byID[id]
		if !seen {
			pts = &points{currency: r.str("Currency")}
			byID[id] = pts
			order = append(order, id)
		}
		pts.tenors = append(pts.tenors, tenor)
		pts.yields = append(pts.yields, y)
		return nil
	})
	if err != nil {
		return nil, err
	}

	curves := make([]*curve.YieldCurve, 0, len(order))
	for _, id := range order {
		pts := byID[id]
		c, err := curve.NewWithHelper(id, pts.currency, pts.tenors, pts.yields, helper)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		curves = append(curves, c)
	}
	return curves, nil
}

func readSharePrices(path string) ([]economy.SharePrice, error) {
	t, err := readOptional(path, "Identifier", "Currency", "Price")
	if err != nil {
		return nil, err
	}
	var out []economy.SharePrice
	err = t.each(func(r row) error {
		p, err := r.requiredFloat("Price")
		if err != nil {
			return err
		}
		out = append(out, economy.NewSharePrice(r.str("Identifier"), r.str("Currency"), p))
		return nil
	})
	return out, err
}

func readExchangeRates(path string) ([]economy.ExchangeRate, error) {
	t, err := readOptional(path, "Identifier", "BaseCurrency", "QuoteCurrency", "Rate")
	if err != nil {
		return nil, err
	}
	var out []economy.ExchangeRate
	err = t.each(func(r row) error {
		v, err := r.requiredFloat("Rate")
		if err != nil {
			return err
		}
		rate := economy.NewExchangeRate(v, r.str("BaseCurrency"), r.str("QuoteCurrency"))
		if id := r.str("Identifier"); id != "" && id != rate.ID {
			return r.errorf("Identifier", fmt.Errorf("%q does not match %s", id, rate.ID))
		}
		out = append(out, rate)
		return nil
	})
	return out, err
}

func readFixings(path string, into map[string]float64) error {
	t, err := readOptional(path, "Identifier", "Rate")
	if err != nil {
		return err
	}
	return t.each(func(r row) error {
		v, err := r.requiredFloat("Rate")
		if err != nil {
			return err
		}
		into[r.str("Identifier")] = v
		return nil
	})
}
