package engine

import (
	"math"

	"github.com/fincast/fincast/internal/models"
)

// wtpCohort tracks one acquisition cohort's lifetime wallet. The cohort
// lives for the rest of the horizon; shareOfWalletActived grows
// monotonically and never exceeds totalShareOfWallet.
type wtpCohort struct {
	monthOfBirth         int
	clients              int
	revenueAtGoLive      float64
	totalShareOfWallet   float64
	shareOfWalletActived float64
}

// runExpansion performs one tier's wallet-share pass for the month: births
// a cohort from this month's go-lives, then walks every open cohort and
// converts its remaining wallet headroom into expansion units against the
// desired-capture schedule.
func (st *engineState) runExpansion(in models.SimulationInputs, month int, tier models.Tier, goLiveClients int, goLiveRevenue float64) (models.WTPTierMonthlyData, map[models.Product]float64) {
	cfg := in.WTP[tier]

	if goLiveClients > 0 {
		total := float64(goLiveClients) * cfg.AnnualWallet
		st.wallets[tier] = append(st.wallets[tier], &wtpCohort{
			monthOfBirth:    month,
			clients:         goLiveClients,
			revenueAtGoLive: goLiveRevenue,
			// The go-live purchase itself counts toward the wallet,
			// clamped so the ceiling invariant holds from birth.
			totalShareOfWallet:   total,
			shareOfWalletActived: math.Min(goLiveRevenue, total),
		})
	}

	expansions := make(map[models.Product]int, len(models.AllProducts))
	revenueByProduct := make(map[models.Product]float64, len(models.AllProducts))

	unit := 0.0
	buckets := make([]bucket, 0, len(models.AllProducts))
	for _, p := range models.AllProducts {
		unit += cfg.ExpansionMix[p] * cfg.ExpansionTicket[p]
		buckets = append(buckets, bucket{product: p, weight: cfg.ExpansionMix[p], ticket: cfg.ExpansionTicket[p]})
	}
	ascTicket := productsByTicketAsc(cfg.ExpansionTicket)

	for _, c := range st.wallets[tier] {
		age := month - c.monthOfBirth
		if age <= 0 {
			continue
		}
		schedule := cfg.DesiredCapture
		// January-born medium-tier cohorts follow their own schedule when
		// one is configured; this matches the reference spreadsheet and is
		// intentionally not normalized away.
		if tier == models.TierMedium && c.monthOfBirth == 1 && len(cfg.DesiredCaptureJanuary) == monthsInHorizon {
			schedule = cfg.DesiredCaptureJanuary
		}
		// Schedule lookup is lagged by one month (indexed age-1), again
		// matching the reference model.
		if age-1 >= len(schedule) {
			continue
		}
		desired := schedule[age-1]

		remaining := c.totalShareOfWallet - c.shareOfWalletActived
		if remaining < 0 {
			remaining = 0
		}
		target := math.Min(c.revenueAtGoLive*desired, remaining)
		if target <= 0 || unit <= 0 {
			continue
		}

		// Ceiling guarantees forward progress on small targets, at the
		// cost of slightly overshooting the month's target.
		numExpansions := int(math.Ceil(target / unit))
		alloc := allocateByWeight(numExpansions, buckets, ascTicket)

		cohortRevenue := 0.0
		for _, p := range models.AllProducts {
			if alloc[p] == 0 {
				continue
			}
			r := float64(alloc[p]) * cfg.ExpansionTicket[p]
			expansions[p] += alloc[p]
			revenueByProduct[p] += r
			cohortRevenue += r
		}
		c.shareOfWalletActived = math.Min(c.totalShareOfWallet, c.shareOfWalletActived+cohortRevenue)
	}

	data := models.WTPTierMonthlyData{
		GoLiveClients: goLiveClients,
		GoLiveRevenue: goLiveRevenue,
		Expansions:    expansions,
	}
	for _, r := range revenueByProduct {
		data.ExpansionRevenue += r
	}
	for _, c := range st.wallets[tier] {
		data.WalletCeiling += c.totalShareOfWallet
		data.WalletActivated += c.shareOfWalletActived
	}
	return data, revenueByProduct
}
