package instruments

import (
	"fmt"
	"strconv"

	"github.com/meenmo/mandate/economy"
)

// Share is a single share of Ticker.
type Share struct {
	QuoteCurrency string
	Ticker        string
}

func NewShare(quoteCurrency, ticker string) *Share {
	return &Share{QuoteCurrency: quoteCurrency, Ticker: ticker}
}

// Value returns the share price unchanged.
func (s *Share) Value(price float64) float64 { return price }

func (s *Share) ValueFromEconomy(e *economy.Economy) (float64, error) {
	price, err := e.SharePrice(s.Ticker)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	return s.Value(price), nil
}

func (s *Share) Classification() Classification {
	return Classification{Level1: Cash, Level2: Equity, Level3: ShareType, QuoteCurrency: s.QuoteCurrency, Tradeable: true}
}

func (s *Share) String() string { return label(string(ShareType), s.Ticker) }

// Stock is a position of Shares shares of Ticker. Negative positions are short.
type Stock struct {
	Share
	Shares float64
}

func NewStock(quoteCurrency, ticker string, shares float64) (*Stock, error) {
	if shares == 0 {
		return nil, fmt.Errorf("NewStock %s: %w", ticker, ErrZeroShares)
	}
	return &Stock{Share: Share{QuoteCurrency: quoteCurrency, Ticker: ticker}, Shares: shares}, nil
}

func (s *Stock) Value(price float64) float64 { return price * s.Shares }

func (s *Stock) ValueFromEconomy(e *economy.Economy) (float64, error) {
	price, err := e.SharePrice(s.Ticker)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	return s.Value(price), nil
}

func (s *Stock) Classification() Classification {
	c := s.Share.Classification()
	c.Level3 = StockType
	return c
}

func (s *Stock) String() string {
	return label(string(StockType), s.Ticker, strconv.FormatFloat(s.Shares, 'f', -1, 64))
}
