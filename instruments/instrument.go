package instruments

import (
	"errors"
	"strings"

	"github.com/meenmo/mandate/economy"
)

var (
	// ErrZeroCouponPayments is returned when a zero coupon schedule has more
	// than one future payment.
	ErrZeroCouponPayments = errors.New("zero coupon bond must have at most one future payment")
	// ErrUnknownSwapType is returned for swap types other than Payer and Receiver.
	ErrUnknownSwapType = errors.New("unknown swap type")
	// ErrBeforeStart is returned when a forward is valued before its start date.
	ErrBeforeStart = errors.New("valuation date before start date")
	// ErrUnknownInstrument is returned by the factory for unsupported products.
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrZeroShares is returned when a stock position holds no shares.
	ErrZeroShares = errors.New("stock must hold a non-zero number of shares")
)

// Level1 separates cash instruments from derivatives.
type Level1 string

const (
	Cash       Level1 = "Cash"
	Derivative Level1 = "Derivative"
)

// Level2 is the asset class.
type Level2 string

const (
	Equity       Level2 = "Equity"
	Debt         Level2 = "Debt"
	InterestRate Level2 = "InterestRate"
	Currency     Level2 = "Currency"
)

// Level3 names the concrete product.
type Level3 string

const (
	ShareType                Level3 = "Share"
	StockType                Level3 = "Stock"
	ZeroCouponBondType       Level3 = "ZeroCouponBond"
	FixedRateBondType        Level3 = "FixedRateBond"
	FloatingRateBondType     Level3 = "FloatingRateBond"
	FixedLegType             Level3 = "FixedLeg"
	FloatingLegType          Level3 = "FloatingLeg"
	EquityForwardType        Level3 = "EquityForward"
	ForwardRateAgreementType Level3 = "ForwardRateAgreement"
	CurrencyForwardType      Level3 = "CurrencyForward"
	EuroDollarFutureType     Level3 = "EuroDollarFuture"
	EquityFutureType         Level3 = "EquityFuture"
	InterestRateSwapType     Level3 = "InterestRateSwap"
)

// Classification tags an instrument. Tradeable instruments can be held at
// any notional; non-tradeable ones only exist as building blocks or are
// valued but not generated by a mandate.
type Classification struct {
	Level1        Level1
	Level2        Level2
	Level3        Level3
	QuoteCurrency string
	Tradeable     bool
}

// Instrument is any product that can be valued against an economy.
type Instrument interface {
	Classification() Classification
	ValueFromEconomy(e *economy.Economy) (float64, error)
	String() string
}

// Future is an instrument carrying a running margin account.
type Future interface {
	Instrument
	UpdateFromEconomy(e *economy.Economy) (float64, error)
	MarginCall() bool
}

func label(parts ...string) string {
	return strings.Join(parts, "_")
}
