package engine

import (
	"math"

	"github.com/fincast/fincast/internal/models"
)

// salesPool is the running headcount of one sales role. pending holds the
// hires scheduled last month; they onboard at the start of the next month.
type salesPool struct {
	running int
	pending int
}

// step applies last month's scheduled hires, then schedules this month's
// shortfall for next month. Returns the on-board headcount for this month
// and the newly scheduled hires.
func (p *salesPool) step(required int) (current, hires int) {
	p.running += p.pending
	p.pending = 0

	short := required - p.running
	if short < 0 {
		short = 0
	}
	p.pending = short
	return p.running, short
}

// runSales sizes SDR and closer headcount from this month's lead flow with
// the one-month hiring lag.
func (st *engineState) runSales(in models.SimulationInputs, totalMQLs, totalSALs int) models.SalesTeamData {
	cfg := in.Sales

	requiredSDRs := 0
	if cfg.MQLsPerSDR > 0 {
		requiredSDRs = int(math.Ceil(float64(totalMQLs) / cfg.MQLsPerSDR))
	}
	requiredClosers := 0
	if cfg.SALsPerCloser > 0 {
		requiredClosers = int(math.Ceil(float64(totalSALs) / cfg.SALsPerCloser))
	}

	currentSDRs, sdrHires := st.sdrs.step(requiredSDRs)
	currentClosers, closerHires := st.closers.step(requiredClosers)

	return models.SalesTeamData{
		RequiredSDRs:    requiredSDRs,
		CurrentSDRs:     currentSDRs,
		SDRHires:        sdrHires,
		RequiredClosers: requiredClosers,
		CurrentClosers:  currentClosers,
		CloserHires:     closerHires,
		PayrollCost: float64(currentSDRs)*cfg.SDRSalary +
			float64(currentClosers)*cfg.CloserSalary +
			cfg.FixedCosts,
	}
}
