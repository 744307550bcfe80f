package economy

import "fmt"

// Observable is a named numerical quote observed in the market.
type Observable struct {
	ID    string
	Value float64
}

func (o Observable) String() string { return o.ID }

// ExchangeRate is the amount of Quote currency paid for one unit of Base.
type ExchangeRate struct {
	Observable
	Base  string
	Quote string
}

// NewExchangeRate builds a rate identified as "<base>_<quote>".
func NewExchangeRate(value float64, base, quote string) ExchangeRate {
	return ExchangeRate{
		Observable: Observable{ID: PairID(base, quote), Value: value},
		Base:       base,
		Quote:      quote,
	}
}

// PairID returns the identifier of the base/quote pair.
func PairID(base, quote string) string {
	return fmt.Sprintf("%s_%s", base, quote)
}

// Flip returns the same rate quoted the other way round.
func (r ExchangeRate) Flip() ExchangeRate {
	return NewExchangeRate(1.0/r.Value, r.Quote, r.Base)
}

// SharePrice is the spot price of one share of Ticker.
type SharePrice struct {
	Observable
	Currency string
}

// NewSharePrice builds a share price quote.
func NewSharePrice(ticker, currency string, value float64) SharePrice {
	return SharePrice{Observable: Observable{ID: ticker, Value: value}, Currency: currency}
}

// InterestRate is an annualised rate expressed as a decimal (0.025 == 2.5%).
type InterestRate struct {
	Observable
	Currency string
}

// NewInterestRate builds an interest rate quote.
func NewInterestRate(id, currency string, value float64) InterestRate {
	return InterestRate{Observable: Observable{ID: id, Value: value}, Currency: currency}
}
