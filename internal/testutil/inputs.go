// Package testutil provides a complete, deterministic assumption snapshot
// for tests. The numbers describe a single "hot" enterprise tier fed by a
// constant marketing plan; the remaining tiers are present (the engine
// requires complete maps) but receive no lead share.
package testutil

import (
	"github.com/fincast/fincast/internal/models"
)

// Series returns a 12-entry monthly series holding v.
func Series(v float64) []float64 {
	s := make([]float64, 12)
	for i := range s {
		s[i] = v
	}
	return s
}

// SampleInputs builds a valid assumption snapshot. Callers mutate the
// returned value to shape scenarios; every map is freshly allocated.
func SampleInputs() models.SimulationInputs {
	in := models.SimulationInputs{
		Marketing: models.MarketingPlan{
			Spend:         Series(100000),
			CostPerLead:   Series(100),
			LeadToMQLRate: Series(0.1),
		},
		Funnel:  map[models.Tier]models.FunnelMetrics{},
		Pricing: map[models.Tier]models.TierPricing{},
		Renewal: models.RenewalPolicy{
			LoyaltyCycleMonths:   map[models.Tier]int{},
			NoLoyaltyCycleMonths: 2,
			LoyaltyRenewalRate:   0.6,
			NoLoyaltyRenewalRate: 0.5,
			LoyaltyMaxRenewals:   2,
			NoLoyaltyMaxRenewals: 3,
		},
		Capacity: models.CapacityConfig{
			RoleHours: map[models.ServiceLine]map[string]map[models.Tier]float64{
				models.LineRecurring: {
					"analyst": tierHours(2.0),
					"manager": tierHours(0.5),
				},
				models.LinePointInTime: {
					"consultant": tierHours(4.0),
				},
			},
			SquadHeadcount:     8,
			ProductiveHours:    160,
			AvailabilityFactor: 0.9,
			TurnoverRate:       0.07,
			InitialHeadcount: map[models.ServiceLine]int{
				models.LineRecurring:   10,
				models.LinePointInTime: 5,
			},
			AccountCapacity: map[models.Tier]int{
				models.TierEnterprise: 15,
				models.TierLarge:      33,
				models.TierMedium:     50,
				models.TierSmall:      100,
				models.TierTiny:       100,
			},
		},
		Sales: models.SalesConfig{
			MQLsPerSDR:     200,
			SALsPerCloser:  50,
			InitialSDRs:    1,
			InitialClosers: 1,
			SDRSalary:      4000,
			CloserSalary:   6000,
			FixedCosts:     10000,
		},
		WTP: map[models.Tier]models.WTPConfig{},
	}

	for _, t := range models.AllTiers {
		share := 0.0
		if t == models.TierEnterprise {
			share = 1.0
		}
		in.Funnel[t] = models.FunnelMetrics{
			MQLShare:              Series(share),
			MQLToSQLRate:          Series(0.5),
			OutboundSALRate:       Series(0.2),
			SALToWonRate:          Series(0.5),
			ActivationRate:        Series(0.8),
			RevenueActivationRate: Series(0.9),
		}
		in.Pricing[t] = models.TierPricing{
			Tickets: map[models.Product][]float64{
				models.ProductSaber:             Series(10000),
				models.ProductTer:               Series(8000),
				models.ProductExecutarNoLoyalty: Series(6000),
				models.ProductExecutarLoyalty:   Series(35000),
				models.ProductPotencializar:     Series(4000),
			},
			Mix: map[models.Product][]float64{
				models.ProductSaber:             Series(0.3),
				models.ProductTer:               Series(0.2),
				models.ProductExecutarNoLoyalty: Series(0.2),
				models.ProductExecutarLoyalty:   Series(0.2),
				models.ProductPotencializar:     Series(0.1),
			},
		}
		in.Renewal.LoyaltyCycleMonths[t] = 7

		wallet := 0.0
		if t == models.TierEnterprise {
			wallet = 50000
		}
		in.WTP[t] = models.WTPConfig{
			AnnualWallet:   wallet,
			DesiredCapture: Series(0.05),
			ExpansionMix: map[models.Product]float64{
				models.ProductSaber:             0.3,
				models.ProductTer:               0.2,
				models.ProductExecutarNoLoyalty: 0.2,
				models.ProductExecutarLoyalty:   0.2,
				models.ProductPotencializar:     0.1,
			},
			ExpansionTicket: map[models.Product]float64{
				models.ProductSaber:             5000,
				models.ProductTer:               4000,
				models.ProductExecutarNoLoyalty: 3000,
				models.ProductExecutarLoyalty:   6000,
				models.ProductPotencializar:     2000,
			},
		}
	}
	return in
}

func tierHours(v float64) map[models.Tier]float64 {
	out := make(map[models.Tier]float64, len(models.AllTiers))
	for _, t := range models.AllTiers {
		out[t] = v
	}
	return out
}
