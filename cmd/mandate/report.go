package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	formatJSON = "json"
	formatText = "text"

	amountPlaces  = 2
	measurePlaces = 6
)

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(amountPlaces)
}

func measure(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(measurePlaces)
}

// display renders v in the minor units of currency code, falling back to a
// plain decimal for codes go-money does not know.
func display(v float64, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount(v).StringFixed(amountPlaces) + " " + code
	}
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

func checkFormat(f string) error {
	switch f {
	case formatJSON, formatText:
		return nil
	}
	return fmt.Errorf("unknown output format %q", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
