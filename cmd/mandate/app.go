package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/meenmo/mandate/config"
	"github.com/meenmo/mandate/economy"
	"github.com/meenmo/mandate/instruments"
	"github.com/meenmo/mandate/logger"
	"github.com/meenmo/mandate/mandate"
	"github.com/meenmo/mandate/reader"
	"github.com/meenmo/mandate/utils"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

// position is a portfolio instrument with the identifier it was defined under.
type position struct {
	id   string
	inst instruments.Instrument
}

// session is a loaded valuation run.
type session struct {
	runID     string
	asOf      time.Time
	run       *config.RunConfig
	log       *logger.Entry
	economy   *economy.Economy
	positions []position
	portfolio *instruments.Portfolio
}

// load reads the run configuration, applies it and loads the economy and
// portfolio it points at.
func (a *app) load() (*session, error) {
	started := time.Now()
	rc, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.GetLogger().Configure(rc.Logging); err != nil {
		return nil, err
	}
	config.Set(rc.Valuation)

	asOf, err := rc.Date()
	if err != nil {
		return nil, err
	}
	s := &session{runID: uuid.NewString(), asOf: asOf, run: rc}
	s.log = logger.GetLogger().WithComponent("cmd").WithFields(logger.Fields{
		"run_id": s.runID,
		"as_of":  utils.FormatDate(asOf),
	})

	if s.economy, err = reader.ReadEconomy(asOf, rc.EconomyDir); err != nil {
		return nil, err
	}
	defs, err := reader.ReadDefinitions(rc.PortfolioDir)
	if err != nil {
		return nil, err
	}
	s.portfolio = instruments.NewPortfolio()
	for _, d := range defs {
		inst, err := instruments.Factory{}.Create(d, s.economy)
		if err != nil {
			return nil, err
		}
		s.positions = append(s.positions, position{id: d.ID, inst: inst})
		s.portfolio.Add(inst)
	}

	logger.LogDuration(s.log, "load", started, logger.Fields{"instruments": s.portfolio.Len()})
	return s, nil
}

// loadMandate additionally reads the mandate named by the run configuration.
func (a *app) loadMandate() (*session, *mandate.Mandate, error) {
	s, err := a.load()
	if err != nil {
		return nil, nil, err
	}
	m, err := reader.ReadMandate(s.run.MandateDir)
	if err != nil {
		return nil, nil, fmt.Errorf("mandate: %w", err)
	}
	return s, m, nil
}
