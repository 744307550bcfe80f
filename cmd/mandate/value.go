package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/meenmo/mandate/logger"
	"github.com/meenmo/mandate/utils"
)

type valueCmd struct {
	app    *app
	format string
}

type valueLine struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

type valueReport struct {
	RunID       string          `json:"run_id"`
	AsOf        string          `json:"as_of"`
	Instruments []valueLine     `json:"instruments"`
	Total       decimal.Decimal `json:"total"`
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value every portfolio instrument against the economy" }
func (*valueCmd) Usage() string {
	return `value [-format json|text]:
  Print the value of each instrument and the portfolio total.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatJSON, "output format: json or text")
}

func (c *valueCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkFormat(c.format); err != nil {
		fmt.Fprintln(c.app.stderr, err)
		return subcommands.ExitUsageError
	}
	s, err := c.app.load()
	if err != nil {
		fmt.Fprintln(c.app.stderr, err)
		return subcommands.ExitFailure
	}

	rep := valueReport{RunID: s.runID, AsOf: utils.FormatDate(s.asOf)}
	var total float64
	for _, p := range s.positions {
		v, err := p.inst.ValueFromEconomy(s.economy)
		if err != nil {
			s.log.WithError(err).WithFields(logger.Fields{"id": p.id}).Error("valuation failed")
			return subcommands.ExitFailure
		}
		total += v
		cls := p.inst.Classification()
		rep.Instruments = append(rep.Instruments, valueLine{
			ID:       p.id,
			Type:     string(cls.Level3),
			Currency: cls.QuoteCurrency,
			Value:    amount(v),
		})
	}
	rep.Total = amount(total)
	s.log.WithFields(logger.Fields{"total": total}).Info("portfolio valued")

	if c.format == formatJSON {
		if err := writeJSON(c.app.stdout, rep); err != nil {
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	tw := newTable(c.app.stdout)
	fmt.Fprintln(tw, "ID\tTYPE\tVALUE")
	for i, p := range s.positions {
		l := rep.Instruments[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.id, l.Type, display(l.Value.InexactFloat64(), l.Currency))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\n", rep.Total.StringFixed(amountPlaces))
	if err := tw.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
