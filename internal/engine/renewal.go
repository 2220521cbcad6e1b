package engine

import (
	"github.com/fincast/fincast/internal/models"
)

// contractCohort tracks clients activated into a renewable product in one
// month. remainingClients is the pool each renewal event draws from; a
// cohort stops contributing once renewalsSoFar hits the policy maximum but
// is never removed from the ledger.
type contractCohort struct {
	originMonth      int
	initialClients   int
	remainingClients int
	renewalsSoFar    int
}

// renewalOutcome is one tier/product cell's renewal activity for a month.
type renewalOutcome struct {
	clients int
	revenue float64
}

// openCohorts appends a cohort for every renewable product that activated
// clients this month.
func (st *engineState) openCohorts(month int, tier models.Tier, activated map[models.Product]int) {
	for _, p := range models.AllProducts {
		if !p.Renewable() {
			continue
		}
		n := activated[p]
		if n <= 0 {
			continue
		}
		st.contracts[tier][p] = append(st.contracts[tier][p], &contractCohort{
			originMonth:      month,
			initialClients:   n,
			remainingClients: n,
		})
	}
}

// processRenewals applies scheduled renewal events to every open cohort.
// A cohort renews when its age is a positive multiple of the policy cycle
// and it has renewals left. Renewal revenue uses the product's contract
// ticket for the renewal month (the ticket series already carries the
// monthly-ticket-times-cycle contract value).
func (st *engineState) processRenewals(in models.SimulationInputs, month int) map[models.Tier]map[models.Product]renewalOutcome {
	out := make(map[models.Tier]map[models.Product]renewalOutcome, len(models.AllTiers))
	for _, t := range models.AllTiers {
		out[t] = make(map[models.Product]renewalOutcome, 2)
		for _, p := range models.AllProducts {
			if !p.Renewable() {
				continue
			}
			cycle, rate, maxRenewals := renewalTerms(in.Renewal, t, p)
			if cycle <= 0 {
				out[t][p] = renewalOutcome{}
				continue
			}
			ticket := in.Pricing[t].Tickets[p][month-1]

			var cell renewalOutcome
			for _, c := range st.contracts[t][p] {
				age := month - c.originMonth
				if age <= 0 || age%cycle != 0 || c.renewalsSoFar >= maxRenewals {
					continue
				}
				renewing := round(float64(c.remainingClients) * rate)
				if renewing > c.remainingClients {
					renewing = c.remainingClients
				}
				if renewing < 0 {
					renewing = 0
				}
				cell.clients += renewing
				cell.revenue += float64(renewing) * ticket
				c.remainingClients -= renewing
				c.renewalsSoFar++
			}
			out[t][p] = cell
		}
	}
	return out
}

func renewalTerms(policy models.RenewalPolicy, tier models.Tier, p models.Product) (cycle int, rate float64, maxRenewals int) {
	if p == models.ProductExecutarLoyalty {
		return policy.LoyaltyCycleMonths[tier], policy.LoyaltyRenewalRate, policy.LoyaltyMaxRenewals
	}
	return policy.NoLoyaltyCycleMonths, policy.NoLoyaltyRenewalRate, policy.NoLoyaltyMaxRenewals
}
