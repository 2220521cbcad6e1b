package engine

import (
	"math"

	"github.com/fincast/fincast/internal/models"
)

// runCapacity turns this month's client base into required hours,
// headcount, squads, turnover and hires per service line, plus the
// book-of-business account sizing. Point-in-time clients are this month's
// project activations only; recurring clients are the accumulated base.
func (st *engineState) runCapacity(in models.SimulationInputs, funnel funnelResult, totalRevenue float64) models.CapacityPlanData {
	cfg := in.Capacity

	clients := map[models.ServiceLine]map[models.Tier]int{
		models.LineRecurring:   {},
		models.LinePointInTime: {},
	}
	for _, t := range models.AllTiers {
		recurring := 0
		for _, p := range models.AllProducts {
			if p.Recurring() {
				recurring += st.active[t][p]
			}
		}
		clients[models.LineRecurring][t] = recurring

		pointInTime := 0
		for _, p := range models.AllProducts {
			if !p.Recurring() {
				pointInTime += funnel.tiers[t].activatedByProduct[p]
			}
		}
		clients[models.LinePointInTime][t] = pointInTime
	}

	effectiveHours := cfg.ProductiveHours * cfg.AvailabilityFactor
	lines := make(map[models.ServiceLine]models.ServiceLineCapacity, len(models.AllServiceLines))
	prevByLine := make(map[models.ServiceLine]int, len(models.AllServiceLines))

	for _, line := range models.AllServiceLines {
		lc := models.ServiceLineCapacity{Clients: clients[line]}
		for _, t := range models.AllTiers {
			lc.TotalClients += clients[line][t]
			hoursPerClient := 0.0
			for _, roleHours := range cfg.RoleHours[line] {
				hoursPerClient += roleHours[t]
			}
			lc.RequiredHours += float64(clients[line][t]) * hoursPerClient
		}
		if effectiveHours > 0 {
			lc.RequiredHeadcount = int(math.Ceil(lc.RequiredHours / effectiveHours))
		}
		if cfg.SquadHeadcount > 0 {
			lc.RequiredSquads = int(math.Ceil(float64(lc.RequiredHeadcount) / float64(cfg.SquadHeadcount)))
		}

		prev := st.prevHeadcount[line]
		prevByLine[line] = prev
		lc.Turnover = round(float64(prev) * cfg.TurnoverRate)
		hires := (lc.RequiredHeadcount - prev) + lc.Turnover
		if hires < 0 {
			hires = 0
		}
		lc.Hires = hires
		lines[line] = lc
	}

	// Recurring staff freed by a shrinking requirement cover point-in-time
	// hiring need; reallocation never flows the other way.
	recurring := lines[models.LineRecurring]
	pointInTime := lines[models.LinePointInTime]
	redeployable := (prevByLine[models.LineRecurring] - recurring.Turnover) - recurring.RequiredHeadcount
	if redeployable < 0 {
		redeployable = 0
	}
	offsetHires := pointInTime.Hires - redeployable
	if offsetHires < 0 {
		offsetHires = 0
	}

	for _, line := range models.AllServiceLines {
		st.prevHeadcount[line] = lines[line].RequiredHeadcount
	}

	plan := models.CapacityPlanData{
		Lines:                  lines,
		Redeployed:             redeployable,
		PointInTimeHiresOffset: offsetHires,
		RequiredAccounts:       make(map[models.Tier]int, len(models.AllTiers)),
	}
	for _, t := range models.AllTiers {
		accounts := 0
		if cap := cfg.AccountCapacity[t]; cap > 0 {
			accounts = int(math.Ceil(float64(clients[models.LineRecurring][t]) / float64(cap)))
		}
		plan.RequiredAccounts[t] = accounts
		plan.TotalAccounts += accounts
	}

	plan.TotalHeadcount = recurring.RequiredHeadcount + pointInTime.RequiredHeadcount
	if plan.TotalHeadcount > 0 {
		plan.RevenuePerHeadcount = totalRevenue / float64(plan.TotalHeadcount)
	}
	totalSquads := recurring.RequiredSquads + pointInTime.RequiredSquads
	capacityHours := float64(totalSquads*cfg.SquadHeadcount) * cfg.ProductiveHours
	if capacityHours > 0 {
		plan.HoursUtilization = (recurring.RequiredHours + pointInTime.RequiredHours) / capacityHours
	}
	return plan
}
