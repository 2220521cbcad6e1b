// Package engine implements the 12-month projection: a pure function from
// an assumption snapshot to an ordered sequence of month records. All
// cross-month state (cohort ledgers, accumulated client base, running
// headcounts) lives in an engine state threaded through the month loop, so
// runs are independent and re-entrant.
package engine

import (
	"github.com/fincast/fincast/internal/models"
)

type engineState struct {
	contracts     map[models.Tier]map[models.Product][]*contractCohort
	wallets       map[models.Tier][]*wtpCohort
	active        map[models.Tier]map[models.Product]int
	prevHeadcount map[models.ServiceLine]int
	sdrs          salesPool
	closers       salesPool
}

func newEngineState(in models.SimulationInputs) *engineState {
	st := &engineState{
		contracts:     make(map[models.Tier]map[models.Product][]*contractCohort, len(models.AllTiers)),
		wallets:       make(map[models.Tier][]*wtpCohort, len(models.AllTiers)),
		active:        make(map[models.Tier]map[models.Product]int, len(models.AllTiers)),
		prevHeadcount: make(map[models.ServiceLine]int, len(models.AllServiceLines)),
		sdrs:          salesPool{running: in.Sales.InitialSDRs},
		closers:       salesPool{running: in.Sales.InitialClosers},
	}
	for _, t := range models.AllTiers {
		st.contracts[t] = make(map[models.Product][]*contractCohort, 2)
		st.active[t] = make(map[models.Product]int, len(models.AllProducts))
	}
	for _, line := range models.AllServiceLines {
		st.prevHeadcount[line] = in.Capacity.InitialHeadcount[line]
	}
	return st
}

// ProjectMonths computes the full 12-month projection from a complete input
// snapshot. It fails fast on input shape violations and on a non-positive
// cost-per-lead when the offending month is reached; no partial result is
// ever returned.
func ProjectMonths(in models.SimulationInputs) ([]models.MonthlyData, error) {
	if err := validateInputs(in); err != nil {
		return nil, err
	}
	st := newEngineState(in)
	out := make([]models.MonthlyData, 0, monthsInHorizon)
	for month := 1; month <= monthsInHorizon; month++ {
		md, err := st.computeMonth(in, month)
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, nil
}

func (st *engineState) computeMonth(in models.SimulationInputs, month int) (models.MonthlyData, error) {
	funnel, err := runFunnel(in, month)
	if err != nil {
		return models.MonthlyData{}, err
	}

	for _, t := range models.AllTiers {
		st.openCohorts(month, t, funnel.tiers[t].activatedByProduct)
	}
	renewals := st.processRenewals(in, month)

	// Recurring products accumulate their activated base; point-in-time
	// products only ever show the current month's activations.
	activeClients := make(map[models.Tier]map[models.Product]int, len(models.AllTiers))
	for _, t := range models.AllTiers {
		activeClients[t] = make(map[models.Product]int, len(models.AllProducts))
		for _, p := range models.AllProducts {
			activated := funnel.tiers[t].activatedByProduct[p]
			if p.Recurring() {
				st.active[t][p] += activated
				activeClients[t][p] = st.active[t][p]
			} else {
				activeClients[t][p] = activated
			}
		}
	}

	wtp := make(map[models.Tier]models.WTPTierMonthlyData, len(models.AllTiers))
	expansionRevenue := make(map[models.Tier]map[models.Product]float64, len(models.AllTiers))
	for _, t := range models.AllTiers {
		goLiveRevenue := 0.0
		for _, p := range models.AllProducts {
			goLiveRevenue += funnel.tiers[t].newRevenue[p]
		}
		data, byProduct := st.runExpansion(in, month, t, funnel.tiers[t].data.Activations, goLiveRevenue)
		wtp[t] = data
		expansionRevenue[t] = byProduct
	}

	revenue := make(map[models.Tier]map[models.Product]models.RevenueBreakdown, len(models.AllTiers))
	funnelData := make(map[models.Tier]models.TierFunnelData, len(models.AllTiers))
	totals := models.MonthTotals{Leads: funnel.leads}
	totalSALs := 0
	for _, t := range models.AllTiers {
		tf := funnel.tiers[t]
		funnelData[t] = tf.data
		totalSALs += tf.data.TotalSALs

		revenue[t] = make(map[models.Product]models.RevenueBreakdown, len(models.AllProducts))
		for _, p := range models.AllProducts {
			cell := models.RevenueBreakdown{
				New:                  tf.newRevenue[p],
				Expansion:            expansionRevenue[t][p],
				ActivationAdjustment: tf.activationAdjustment[p],
			}
			if p.Renewable() {
				cell.Renewal = renewals[t][p].revenue
			}
			revenue[t][p] = cell

			totals.NewRevenue += cell.New
			totals.RenewalRevenue += cell.Renewal
			totals.ExpansionRevenue += cell.Expansion
			totals.LegacyRevenue += cell.Legacy
			totals.ActiveClients += activeClients[t][p]
		}
	}
	totals.TotalRevenue = totals.NewRevenue + totals.RenewalRevenue +
		totals.ExpansionRevenue + totals.LegacyRevenue

	capacity := st.runCapacity(in, funnel, totals.TotalRevenue)
	sales := st.runSales(in, funnel.totalMQLs, totalSALs)

	return models.MonthlyData{
		Month:         month,
		Leads:         funnel.leads,
		TotalMQLs:     funnel.totalMQLs,
		Funnel:        funnelData,
		Revenue:       revenue,
		ActiveClients: activeClients,
		Capacity:      capacity,
		WTP:           wtp,
		Sales:         sales,
		Totals:        totals,
	}, nil
}
