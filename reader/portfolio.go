package reader

import (
	"fmt"
	"path/filepath"

	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/logger"
)

const portfolioFile = "portfolio.csv"

// ReadDefinitions reads the instrument definitions stored in dir.
func ReadDefinitions(dir string) ([]instruments.Definition, error) {
	path := filepath.Join(dir, portfolioFile)
	t, err := readTable(path, "Identifier", "Type")
	if err != nil {
		return nil, fmt.Errorf("ReadDefinitions: %w", err)
	}

	var defs []instruments.Definition
	err = t.each(func(r row) error {
		d, err := definition(r)
		if err != nil {
			return err
		}
		defs = append(defs, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ReadDefinitions: %w", err)
	}
	return defs, nil
}

func definition(r row) (instruments.Definition, error) {
	d := instruments.Definition{
		ID:                    r.str("Identifier"),
		Type:                  instruments.Level3(r.str("Type")),
		QuoteCurrency:         r.str("QuoteCurrency"),
		BaseCurrency:          r.str("BaseCurrency"),
		DiscountCurve:         r.str("DiscountCurve"),
		DiscountCurveBase:     r.str("DiscountCurveBase"),
		ForecastCurve:         r.str("ForecastCurve"),
		Ticker:                r.str("Ticker"),
		PaymentFrequency:      r.str("PaymentFrequency"),
		FloatPaymentFrequency: r.str("FloatPaymentFrequency"),
		SwapType:              r.str("SwapType"),
	}

	var err error
	floats := []struct {
		col string
		dst *float64
	}{
		{"Notional", &d.Notional},
		{"Shares", &d.Shares},
		{"InitialMarginRate", &d.InitialMarginRate},
		{"MaintenanceMarginRate", &d.MaintenanceMarginRate},
	}
	for _, f := range floats {
		if *f.dst, _, err = r.float(f.col); err != nil {
			return d, err
		}
	}
	if d.FixedRate, err = r.floatPtr("FixedRate"); err != nil {
		return d, err
	}
	if d.Price, err = r.floatPtr("Price"); err != nil {
		return d, err
	}
	if d.StartDate, err = r.date("StartDate"); err != nil {
		return d, err
	}
	if d.MaturityDate, err = r.date("MaturityDate"); err != nil {
		return d, err
	}
	if d.AccrualEndDate, err = r.date("AccrualEndDate"); err != nil {
		return d, err
	}
	return d, nil
}

// ReadPortfolio reads the definitions in dir and builds them with f. e fixes
// the contract prices the definitions leave open.
func ReadPortfolio(dir string, f instruments.Factory, e *economy.Economy) (*instruments.Portfolio, error) {
	defs, err := ReadDefinitions(dir)
	if err != nil {
		return nil, err
	}
	p := instruments.NewPortfolio()
	for _, d := range defs {
		inst, err := f.Create(d, e)
		if err != nil {
			return nil, fmt.Errorf("ReadPortfolio: %w", err)
		}
		p.Add(inst)
	}
	logger.GetLogger().WithComponent("reader").WithFields(logger.Fields{
		"dir":         dir,
		"instruments": p.Len(),
	}).Debug("portfolio loaded")
	return p, nil
}
