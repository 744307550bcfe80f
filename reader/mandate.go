package reader

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/meenmo/mandate/exposure"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/logger"
	"github.com/meenmo/mandate/mandate"
	"github.com/meenmo/mandate/utils"
)

const (
	exposureFile  = "exposures.csv"
	generatorFile = "generators.csv"
)

// ReadMandate reads exposure targets and, when present, instrument
// generators from dir.
func ReadMandate(dir string) (*mandate.Mandate, error) {
	targets, err := readTargets(filepath.Join(dir, exposureFile))
	if err != nil {
		return nil, fmt.Errorf("ReadMandate: %w", err)
	}
	generators, err := readGenerators(filepath.Join(dir, generatorFile))
	if err != nil {
		return nil, fmt.Errorf("ReadMandate: %w", err)
	}
	logger.GetLogger().WithComponent("reader").WithFields(logger.Fields{
		"dir":        dir,
		"exposures":  len(targets),
		"generators": len(generators),
	}).Debug("mandate loaded")
	return mandate.New(targets, generators), nil
}

// parseTenor accepts a year fraction ("5", "0.25") or a tenor code ("5Y", "3M").
func parseTenor(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	return utils.DefaultDateHelper().TenorFromString(s)
}

func readTargets(path string) ([]mandate.Target, error) {
	t, err := readTable(path, "Identifier", "Type", "Target")
	if err != nil {
		return nil, err
	}
	var out []mandate.Target
	err = t.each(func(r row) error {
		tenor, err := parseTenor(r.str("Tenor"))
		if err != nil {
			return r.errorf("Tenor", err)
		}
		bump, _, err := r.float("BumpSize")
		if err != nil {
			return err
		}
		x, err := exposure.New(r.str("Identifier"), exposure.Kind(r.str("Type")), exposure.Params{
			CurveID:  r.str("CurveIdentifier"),
			Tenor:    tenor,
			BumpSize: bump,
		})
		if err != nil {
			return r.errorf("Type", err)
		}
		target, err := r.requiredFloat("Target")
		if err != nil {
			return err
		}
		out = append(out, mandate.Target{Exposure: x, Target: target})
		return nil
	})
	return out, err
}

func readGenerators(path string) ([]mandate.Generator, error) {
	t, err := readOptional(path, "Type")
	if err != nil {
		return nil, err
	}
	var out []mandate.Generator
	err = t.each(func(r row) error {
		g, err := mandate.NewGenerator(mandate.GeneratorSpec{
			Type:          instruments.Level3(r.str("Type")),
			QuoteCurrency: r.str("QuoteCurrency"),
			DiscountCurve: r.str("DiscountCurve"),
			Tenor:         r.str("Tenor"),
			Ticker:        r.str("Ticker"),
		})
		if err != nil {
			return r.errorf("Type", err)
		}
		out = append(out, g)
		return nil
	})
	return out, err
}
