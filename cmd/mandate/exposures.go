package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/meenmo/mandate/mandate"
	"github.com/meenmo/mandate/utils"
)

type exposuresCmd struct {
	app    *app
	format string
}

type exposureLine struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Measure   decimal.Decimal `json:"measure"`
	Target    decimal.Decimal `json:"target"`
	Deviation decimal.Decimal `json:"deviation"`
}

type exposureReport struct {
	RunID     string         `json:"run_id"`
	AsOf      string         `json:"as_of"`
	Exposures []exposureLine `json:"exposures"`
}

func (*exposuresCmd) Name() string     { return "exposures" }
func (*exposuresCmd) Synopsis() string { return "measure the mandate exposures of the portfolio" }
func (*exposuresCmd) Usage() string {
	return `exposures [-format json|text]:
  Print each mandate exposure next to its target.
`
}

func (c *exposuresCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatJSON, "output format: json or text")
}

func (c *exposuresCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkFormat(c.format); err != nil {
		fmt.Fprintln(c.app.stderr, err)
		return subcommands.ExitUsageError
	}
	s, m, err := c.app.loadMandate()
	if err != nil {
		fmt.Fprintln(c.app.stderr, err)
		return subcommands.ExitFailure
	}
	measures, err := m.Measures(s.portfolio, s.economy)
	if err != nil {
		s.log.WithError(err).Error("exposure measurement failed")
		return subcommands.ExitFailure
	}

	rep := exposureReport{RunID: s.runID, AsOf: utils.FormatDate(s.asOf)}
	for i, t := range m.Targets {
		rep.Exposures = append(rep.Exposures, exposureLine{
			ID:        t.Exposure.ID(),
			Kind:      string(t.Exposure.Kind()),
			Measure:   measure(measures[i]),
			Target:    measure(t.Target),
			Deviation: measure(mandate.Deviation(measures[i], t.Target, m.Epsilon)),
		})
	}

	if c.format == formatJSON {
		if err := writeJSON(c.app.stdout, rep); err != nil {
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	tw := newTable(c.app.stdout)
	fmt.Fprintln(tw, "ID\tKIND\tMEASURE\tTARGET\tDEVIATION")
	for _, l := range rep.Exposures {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Kind, l.Measure, l.Target, l.Deviation)
	}
	if err := tw.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
