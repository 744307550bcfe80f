package instruments

import (
	"fmt"

	"github.com/meenmo/mandate/economy"
)

// Portfolio holds instruments in insertion order.
type Portfolio struct {
	instruments []Instrument
}

func NewPortfolio(instruments ...Instrument) *Portfolio {
	return &Portfolio{instruments: append([]Instrument(nil), instruments...)}
}

func (p *Portfolio) Add(i Instrument) {
	p.instruments = append(p.instruments, i)
}

func (p *Portfolio) Len() int {
	return len(p.instruments)
}

// Instruments returns a copy of the held instruments.
func (p *Portfolio) Instruments() []Instrument {
	return append([]Instrument(nil), p.instruments...)
}

// Value sums the value of every instrument on e.
func (p *Portfolio) Value(e *economy.Economy) (float64, error) {
	values, err := p.Values(e)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total, nil
}

// Values returns each instrument's value, in portfolio order.
func (p *Portfolio) Values(e *economy.Economy) ([]float64, error) {
	out := make([]float64, len(p.instruments))
	for i, inst := range p.instruments {
		v, err := inst.ValueFromEconomy(e)
		if err != nil {
			return nil, fmt.Errorf("Portfolio.Value: %w", err)
		}
		out[i] = v
	}
	return out, nil
}

// FilterLevel1 returns a new portfolio with the instruments of class l.
func (p *Portfolio) FilterLevel1(l Level1) *Portfolio {
	return p.filter(func(c Classification) bool { return c.Level1 == l })
}

// FilterLevel2 returns a new portfolio with the instruments of asset class l.
func (p *Portfolio) FilterLevel2(l Level2) *Portfolio {
	return p.filter(func(c Classification) bool { return c.Level2 == l })
}

func (p *Portfolio) filter(keep func(Classification) bool) *Portfolio {
	out := &Portfolio{}
	for _, inst := range p.instruments {
		if keep(inst.Classification()) {
			out.instruments = append(out.instruments, inst)
		}
	}
	return out
}

// UpdateFutures settles every held future against e and returns the total
// variation margin.
func (p *Portfolio) UpdateFutures(e *economy.Economy) (float64, error) {
	total := 0.0
	for _, inst := range p.instruments {
		f, ok := inst.(Future)
		if !ok {
			continue
		}
		pnl, err := f.UpdateFromEconomy(e)
		if err != nil {
			return 0, fmt.Errorf("Portfolio.UpdateFutures: %w", err)
		}
		total += pnl
	}
	return total, nil
}
