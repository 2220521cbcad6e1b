package engine

import (
	"fmt"
	"math"

	"github.com/fincast/fincast/internal/models"
)

// funnelResult is the outcome of one month's funnel pass.
type funnelResult struct {
	leads     int
	totalMQLs int
	tiers     map[models.Tier]tierFunnel
}

// tierFunnel carries one tier's funnel counts plus the per-product
// breakdowns downstream stages consume.
type tierFunnel struct {
	data                 models.TierFunnelData
	wonByProduct         map[models.Product]int
	activatedByProduct   map[models.Product]int
	newRevenue           map[models.Product]float64
	activationAdjustment map[models.Product]float64
}

// runFunnel converts the month's marketing spend into per-tier, per-product
// won and activated clients. month is 1-based.
func runFunnel(in models.SimulationInputs, month int) (funnelResult, error) {
	idx := month - 1

	cpl := in.Marketing.CostPerLead[idx]
	if cpl <= 0 {
		return funnelResult{}, fmt.Errorf("month %d: cost per lead must be positive, got %v", month, cpl)
	}
	leads := round(in.Marketing.Spend[idx] / cpl)
	totalMQLs := round(float64(leads) * in.Marketing.LeadToMQLRate[idx])

	res := funnelResult{
		leads:     leads,
		totalMQLs: totalMQLs,
		tiers:     make(map[models.Tier]tierFunnel, len(models.AllTiers)),
	}

	for _, t := range models.AllTiers {
		fm := in.Funnel[t]
		pricing := in.Pricing[t]

		mqls := round(float64(totalMQLs) * fm.MQLShare[idx])
		sqls := round(float64(mqls) * fm.MQLToSQLRate[idx])

		// Inbound SALs are a 100% pass-through of SQLs; outbound is an
		// extra share layered on top.
		inbound := sqls
		outbound := round(float64(sqls) * fm.OutboundSALRate[idx])
		totalSALs := inbound + outbound

		// Floor keeps WONs from over-counting fractional deals.
		wons := int(math.Floor(float64(totalSALs) * fm.SALToWonRate[idx]))

		mix := make(map[models.Product]float64, len(models.AllProducts))
		ticket := make(map[models.Product]float64, len(models.AllProducts))
		buckets := make([]bucket, 0, len(models.AllProducts))
		for _, p := range models.AllProducts {
			mix[p] = pricing.Mix[p][idx]
			ticket[p] = pricing.Tickets[p][idx]
			buckets = append(buckets, bucket{product: p, weight: mix[p], ticket: ticket[p]})
		}

		wonByProduct := allocateByWeight(wons, buckets, productsByMixDesc(mix, ticket))

		revenue := make(map[models.Product]float64, len(models.AllProducts))
		adjustment := make(map[models.Product]float64, len(models.AllProducts))
		for _, p := range models.AllProducts {
			revenue[p] = float64(wonByProduct[p]) * ticket[p]
			adjustment[p] = revenue[p] * (1 - fm.RevenueActivationRate[idx])
		}

		activated, activations := deriveActivations(wons, fm.ActivationRate[idx], revenue, ticket)

		res.tiers[t] = tierFunnel{
			data: models.TierFunnelData{
				MQLs:         mqls,
				SQLs:         sqls,
				InboundSALs:  inbound,
				OutboundSALs: outbound,
				TotalSALs:    totalSALs,
				Wons:         wons,
				Activations:  activations,
			},
			wonByProduct:         wonByProduct,
			activatedByProduct:   activated,
			newRevenue:           revenue,
			activationAdjustment: adjustment,
		}
	}

	return res, nil
}

// deriveActivations re-derives won clients per product from revenue/ticket,
// floors each product's activation count, then reconciles the per-product
// sum against floor(totalWons*rate): shortfall is credited to higher-ticket
// products first, excess (possible only under inconsistent inputs) is
// removed from the cheapest products first.
func deriveActivations(wons int, rate float64, revenue, ticket map[models.Product]float64) (map[models.Product]int, int) {
	counts := make(map[models.Product]int, len(models.AllProducts))
	sum := 0
	for _, p := range models.AllProducts {
		derived := 0
		if ticket[p] > 0 {
			derived = int(math.Floor(revenue[p] / ticket[p]))
		}
		n := int(math.Floor(float64(derived) * rate))
		if n < 0 {
			n = 0
		}
		counts[p] = n
		sum += n
	}

	target := int(math.Floor(float64(wons) * rate))
	if target < 0 {
		target = 0
	}
	if diff := target - sum; diff > 0 {
		distributeRemainder(counts, diff, productsByTicketDesc(ticket))
	} else if diff < 0 {
		distributeRemainder(counts, diff, productsByTicketAsc(ticket))
	}
	return counts, target
}

// round is round-half-away-from-zero, matching the reference model.
func round(x float64) int {
	return int(math.Round(x))
}
