package mandate

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/mandate/config"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/exposure"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/logger"
)

var (
	// ErrNotionalOutOfBounds is returned when a trade notional is outside [MinNotional, MaxNotional].
	ErrNotionalOutOfBounds = errors.New("notional outside mandate bounds")
	// ErrGeneratorCount is returned when the number of notionals differs from the number of generators.
	ErrGeneratorCount = errors.New("one notional per generator required")
)

// Target pairs an exposure with the level the mandate aims for.
type Target struct {
	Exposure exposure.Exposure
	Target   float64
}

// Mandate is an ordered set of exposure targets plus the instruments a
// trader may add to reach them.
type Mandate struct {
	Targets     []Target
	Generators  []Generator
	MinNotional float64
	MaxNotional float64
	Epsilon     float64
}

// New builds a mandate with bounds and epsilon from the valuation config.
func New(targets []Target, generators []Generator) *Mandate {
	c := config.Get()
	return &Mandate{
		Targets:     targets,
		Generators:  generators,
		MinNotional: c.MinNotional,
		MaxNotional: c.MaxNotional,
		Epsilon:     c.DeviationEpsilon,
	}
}

// Deviation is clip((actual+eps)/(target+eps) − 1, −1, 1). An undefined
// ratio counts as no deviation.
func Deviation(actual, target, eps float64) float64 {
	d := (actual+eps)/(target+eps) - 1.0
	if math.IsNaN(d) {
		return 0
	}
	return math.Max(-1, math.Min(1, d))
}

// Measures evaluates every exposure in mandate order.
func (m *Mandate) Measures(p *instruments.Portfolio, e *economy.Economy) ([]float64, error) {
	out := make([]float64, len(m.Targets))
	for i, t := range m.Targets {
		v, err := t.Exposure.Measure(p, e)
		if err != nil {
			return nil, fmt.Errorf("Mandate: exposure %s: %w", t.Exposure.ID(), err)
		}
		out[i] = v
	}
	return out, nil
}

// DeviationVector returns the clamped deviation of each exposure, in mandate order.
func (m *Mandate) DeviationVector(p *instruments.Portfolio, e *economy.Economy) ([]float64, error) {
	measures, err := m.Measures(p, e)
	if err != nil {
		return nil, err
	}
	for i, t := range m.Targets {
		measures[i] = Deviation(measures[i], t.Target, m.Epsilon)
	}
	return measures, nil
}

// ExposureDeviations maps each exposure id to its clamped deviation.
func (m *Mandate) ExposureDeviations(p *instruments.Portfolio, e *economy.Economy) (map[string]float64, error) {
	devs, err := m.DeviationVector(p, e)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(devs))
	for i, t := range m.Targets {
		out[t.Exposure.ID()] = devs[i]
	}
	return out, nil
}

// AbsExposureDeviation is the sum of absolute deviations.
func (m *Mandate) AbsExposureDeviation(p *instruments.Portfolio, e *economy.Economy) (float64, error) {
	devs, err := m.DeviationVector(p, e)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, d := range devs {
		total += math.Abs(d)
	}
	return total, nil
}

// Trade adds one instrument per generator to p, sized by the matching
// notional. Zero notionals are skipped. Nothing is added if any notional is
// out of bounds or any generator fails.
func (m *Mandate) Trade(p *instruments.Portfolio, notionals []float64, e *economy.Economy) error {
	if len(notionals) != len(m.Generators) {
		return fmt.Errorf("Trade: %d notionals for %d generators: %w", len(notionals), len(m.Generators), ErrGeneratorCount)
	}
	for i, n := range notionals {
		if n < m.MinNotional || n > m.MaxNotional {
			return fmt.Errorf("Trade: notional %d = %g not in [%g, %g]: %w", i, n, m.MinNotional, m.MaxNotional, ErrNotionalOutOfBounds)
		}
	}

	trades := make([]instruments.Instrument, 0, len(notionals))
	for i, n := range notionals {
		if n == 0 {
			continue
		}
		inst, err := m.Generators[i](n, e)
		if err != nil {
			return fmt.Errorf("Trade: generator %d: %w", i, err)
		}
		trades = append(trades, inst)
	}
	log := logger.GetLogger().WithComponent("mandate")
	for _, inst := range trades {
		p.Add(inst)
		log.WithFields(logger.Fields{"instrument": inst.String()}).Debug("traded")
	}
	return nil
}
