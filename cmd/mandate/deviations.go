package main

import (
	"context"
	"flag"
	"fmt"
	"math"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/meenmo/mandate/logger"
	"github.com/meenmo/mandate/utils"
)

type deviationsCmd struct {
	app    *app
	format string
}

type deviationReport struct {
	RunID      string                     `json:"run_id"`
	AsOf       string                     `json:"as_of"`
	Deviations map[string]decimal.Decimal `json:"deviations"`
	Absolute   decimal.Decimal            `json:"absolute"`
}

func (*deviationsCmd) Name() string     { return "deviations" }
func (*deviationsCmd) Synopsis() string { return "report how far the portfolio is from its mandate" }
func (*deviationsCmd) Usage() string {
	return `deviations [-format json|text]:
  Print the clipped relative deviation per exposure and their absolute sum.
`
}

func (c *deviationsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatJSON, "output format: json or text")
}

func (c *deviationsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkFormat(c.format); err != nil {
		fmt.Fprintln(c.app.stderr, err)
		return subcommands.ExitUsageError
	}
	s, m, err := c.app.loadMandate()
	if err != nil {
		fmt.Fprintln(c.app.stderr, err)
		return subcommands.ExitFailure
	}
	devs, err := m.DeviationVector(s.portfolio, s.economy)
	if err != nil {
		s.log.WithError(err).Error("deviation failed")
		return subcommands.ExitFailure
	}

	ids := make([]string, len(m.Targets))
	var abs float64
	rep := deviationReport{
		RunID:      s.runID,
		AsOf:       utils.FormatDate(s.asOf),
		Deviations: make(map[string]decimal.Decimal, len(devs)),
	}
	for i, t := range m.Targets {
		ids[i] = t.Exposure.ID()
		rep.Deviations[ids[i]] = measure(devs[i])
		abs += math.Abs(devs[i])
	}
	rep.Absolute = measure(abs)
	s.log.WithFields(logger.Fields{"absolute": abs}).Info("mandate deviation")

	if c.format == formatJSON {
		if err := writeJSON(c.app.stdout, rep); err != nil {
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	tw := newTable(c.app.stdout)
	fmt.Fprintln(tw, "ID\tDEVIATION")
	for _, id := range ids {
		fmt.Fprintf(tw, "%s\t%s\n", id, rep.Deviations[id])
	}
	fmt.Fprintf(tw, "ABSOLUTE\t%s\n", rep.Absolute)
	if err := tw.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
