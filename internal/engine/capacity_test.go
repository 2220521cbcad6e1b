package engine

import (
	"math"
	"testing"

	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/testutil"
)

func TestRunCapacitySizesLines(t *testing.T) {
	in := testutil.SampleInputs()
	st := newEngineState(in)

	// 11 accumulated recurring clients and 13 fresh point-in-time
	// activations, all enterprise.
	st.active[models.TierEnterprise][models.ProductExecutarLoyalty] = 5
	st.active[models.TierEnterprise][models.ProductExecutarNoLoyalty] = 4
	st.active[models.TierEnterprise][models.ProductPotencializar] = 2
	funnel := funnelResult{tiers: map[models.Tier]tierFunnel{
		models.TierEnterprise: {activatedByProduct: map[models.Product]int{
			models.ProductSaber: 8,
			models.ProductTer:   5,
		}},
	}}

	plan := st.runCapacity(in, funnel, 500000)

	rec := plan.Lines[models.LineRecurring]
	if rec.TotalClients != 11 {
		t.Fatalf("recurring clients = %d", rec.TotalClients)
	}
	// 11 clients at 2.5 role hours each against 144 effective hours.
	if rec.RequiredHours != 27.5 || rec.RequiredHeadcount != 1 {
		t.Fatalf("recurring hours=%v headcount=%d", rec.RequiredHours, rec.RequiredHeadcount)
	}
	if rec.Turnover != 1 || rec.Hires != 0 {
		t.Fatalf("recurring turnover=%d hires=%d", rec.Turnover, rec.Hires)
	}

	pit := plan.Lines[models.LinePointInTime]
	if pit.TotalClients != 13 || pit.RequiredHours != 52 || pit.RequiredHeadcount != 1 {
		t.Fatalf("point-in-time line: %+v", pit)
	}

	// 10 recurring staff minus 1 turnover minus 1 required leaves 8 free.
	if plan.Redeployed != 8 {
		t.Fatalf("redeployed = %d", plan.Redeployed)
	}
	if plan.PointInTimeHiresOffset != 0 {
		t.Fatalf("offset hires = %d", plan.PointInTimeHiresOffset)
	}

	if plan.RequiredAccounts[models.TierEnterprise] != 1 || plan.TotalAccounts != 1 {
		t.Fatalf("accounts: %+v", plan.RequiredAccounts)
	}
	if plan.TotalHeadcount != 2 || plan.RevenuePerHeadcount != 250000 {
		t.Fatalf("headcount=%d revenue/head=%v", plan.TotalHeadcount, plan.RevenuePerHeadcount)
	}

	wantUtil := (27.5 + 52) / float64(2*8*160)
	if math.Abs(plan.HoursUtilization-wantUtil) > 1e-9 {
		t.Fatalf("utilization = %v, want %v", plan.HoursUtilization, wantUtil)
	}
}

func TestRunCapacityHiresOnGrowth(t *testing.T) {
	in := testutil.SampleInputs()
	st := newEngineState(in)
	st.prevHeadcount[models.LineRecurring] = 1

	// 600 recurring clients need ceil(1500/144) = 11 heads against a
	// carried headcount of 1.
	st.active[models.TierEnterprise][models.ProductExecutarLoyalty] = 600
	plan := st.runCapacity(in, funnelResult{tiers: map[models.Tier]tierFunnel{}}, 0)

	rec := plan.Lines[models.LineRecurring]
	if rec.RequiredHeadcount != 11 {
		t.Fatalf("required headcount = %d", rec.RequiredHeadcount)
	}
	if rec.Turnover != 0 || rec.Hires != 10 {
		t.Fatalf("turnover=%d hires=%d", rec.Turnover, rec.Hires)
	}
	if plan.Redeployed != 0 {
		t.Fatalf("redeployed = %d with a growing requirement", plan.Redeployed)
	}
	if st.prevHeadcount[models.LineRecurring] != 11 {
		t.Fatalf("carried headcount = %d", st.prevHeadcount[models.LineRecurring])
	}
}
