package exposure

import (
	"errors"
	"fmt"

	"github.com/meenmo/mandate/config"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/logger"
)

// ErrUnknownKind is returned by New for unsupported exposure kinds.
var ErrUnknownKind = errors.New("unknown exposure kind")

// Kind names an exposure measure.
type Kind string

const (
	AssetAllocationEquityKind Kind = "AssetAllocationEquity"
	AssetAllocationDebtKind   Kind = "AssetAllocationDebt"
	ZeroDeltaKind             Kind = "ZeroDelta"
)

// Exposure measures one risk or allocation figure of a portfolio.
type Exposure interface {
	ID() string
	Kind() Kind
	Measure(p *instruments.Portfolio, e *economy.Economy) (float64, error)
}

// Params carries the kind-specific settings read from a mandate table.
type Params struct {
	CurveID  string
	Tenor    float64
	BumpSize float64
}

// New builds an exposure of kind k.
func New(id string, k Kind, p Params) (Exposure, error) {
	switch k {
	case AssetAllocationEquityKind:
		return AssetAllocationEquity{id: id}, nil
	case AssetAllocationDebtKind:
		return AssetAllocationDebt{id: id}, nil
	case ZeroDeltaKind:
		if p.CurveID == "" {
			return nil, fmt.Errorf("exposure %s: ZeroDelta needs a curve", id)
		}
		return NewZeroDelta(id, p.CurveID, p.Tenor, p.BumpSize), nil
	default:
		return nil, fmt.Errorf("exposure %s: kind %q: %w", id, k, ErrUnknownKind)
	}
}

// AssetAllocationEquity is the value of the equity instruments held.
type AssetAllocationEquity struct{ id string }

func NewAssetAllocationEquity(id string) AssetAllocationEquity { return AssetAllocationEquity{id: id} }

func (a AssetAllocationEquity) ID() string { return a.id }
func (a AssetAllocationEquity) Kind() Kind { return AssetAllocationEquityKind }

func (a AssetAllocationEquity) Measure(p *instruments.Portfolio, e *economy.Economy) (float64, error) {
	return p.FilterLevel2(instruments.Equity).Value(e)
}

// AssetAllocationDebt is the value of the debt instruments held.
type AssetAllocationDebt struct{ id string }

func NewAssetAllocationDebt(id string) AssetAllocationDebt { return AssetAllocationDebt{id: id} }

func (a AssetAllocationDebt) ID() string { return a.id }
func (a AssetAllocationDebt) Kind() Kind { return AssetAllocationDebtKind }

func (a AssetAllocationDebt) Measure(p *instruments.Portfolio, e *economy.Economy) (float64, error) {
	return p.FilterLevel2(instruments.Debt).Value(e)
}

// ZeroDelta is the sensitivity of the portfolio value to the zero yield of
// one curve at one tenor, by central difference:
//
//	(V(y+ε) − V(y−ε)) / 2ε
type ZeroDelta struct {
	id       string
	CurveID  string
	Tenor    float64
	BumpSize float64
}

// NewZeroDelta builds a ZeroDelta exposure. A non-positive bump uses the
// configured default.
func NewZeroDelta(id, curveID string, tenor, bump float64) ZeroDelta {
	if bump <= 0 {
		bump = config.Get().BumpSize
	}
	return ZeroDelta{id: id, CurveID: curveID, Tenor: tenor, BumpSize: bump}
}

func (z ZeroDelta) ID() string { return z.id }
func (z ZeroDelta) Kind() Kind { return ZeroDeltaKind }

func (z ZeroDelta) Measure(p *instruments.Portfolio, e *economy.Economy) (float64, error) {
	c, err := e.Curve(z.CurveID)
	if err != nil {
		return 0, fmt.Errorf("ZeroDelta %s: %w", z.id, err)
	}
	idx, err := c.TenorIndex(z.Tenor)
	if err != nil {
		return 0, fmt.Errorf("ZeroDelta %s: %w", z.id, err)
	}

	up, err := e.WithBump(z.CurveID, idx, z.BumpSize)
	if err != nil {
		return 0, fmt.Errorf("ZeroDelta %s: %w", z.id, err)
	}
	down, err := e.WithBump(z.CurveID, idx, -z.BumpSize)
	if err != nil {
		return 0, fmt.Errorf("ZeroDelta %s: %w", z.id, err)
	}

	vUp, err := p.Value(up)
	if err != nil {
		return 0, fmt.Errorf("ZeroDelta %s: %w", z.id, err)
	}
	vDown, err := p.Value(down)
	if err != nil {
		return 0, fmt.Errorf("ZeroDelta %s: %w", z.id, err)
	}
	delta := (vUp - vDown) / (2.0 * z.BumpSize)

	logger.GetLogger().WithComponent("exposure").WithFields(logger.Fields{
		"exposure": z.id,
		"curve":    z.CurveID,
		"tenor":    z.Tenor,
		"delta":    delta,
	}).Debug("zero delta")
	return delta, nil
}
