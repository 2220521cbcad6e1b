package engine_test

import (
	"strings"
	"testing"

	"github.com/fincast/fincast/internal/engine"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/testutil"
)

func TestProjectMonthsFirstMonthFunnel(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	if len(monthly) != 12 {
		t.Fatalf("expected 12 months, got %d", len(monthly))
	}

	m1 := monthly[0]
	if m1.Month != 1 {
		t.Fatalf("first record month = %d", m1.Month)
	}
	if m1.Leads != 1000 || m1.TotalMQLs != 100 {
		t.Fatalf("leads=%d mqls=%d", m1.Leads, m1.TotalMQLs)
	}

	ent := m1.Funnel[models.TierEnterprise]
	if ent.MQLs != 100 || ent.SQLs != 50 {
		t.Fatalf("enterprise mqls=%d sqls=%d", ent.MQLs, ent.SQLs)
	}
	if ent.InboundSALs != 50 || ent.OutboundSALs != 10 || ent.TotalSALs != 60 {
		t.Fatalf("enterprise sals: %+v", ent)
	}
	if ent.Wons != 30 {
		t.Fatalf("enterprise wons = %d", ent.Wons)
	}
	if ent.Activations != 24 {
		t.Fatalf("enterprise activations = %d", ent.Activations)
	}

	// Spend is concentrated on enterprise; every other tier stays cold.
	for _, tier := range models.AllTiers {
		if tier == models.TierEnterprise {
			continue
		}
		if f := m1.Funnel[tier]; f.MQLs != 0 || f.Wons != 0 || f.Activations != 0 {
			t.Fatalf("tier %s should be idle, got %+v", tier, f)
		}
	}

	if m1.Totals.NewRevenue != 396000 {
		t.Fatalf("month 1 new revenue = %v", m1.Totals.NewRevenue)
	}
	if m1.Totals.RenewalRevenue != 0 || m1.Totals.ExpansionRevenue != 0 {
		t.Fatalf("month 1 should have no renewal or expansion revenue: %+v", m1.Totals)
	}
}

func TestRevenueIdentity(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	for _, md := range monthly {
		sum := md.Totals.NewRevenue + md.Totals.RenewalRevenue +
			md.Totals.ExpansionRevenue + md.Totals.LegacyRevenue
		if diff := md.Totals.TotalRevenue - sum; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("month %d: total %v != component sum %v", md.Month, md.Totals.TotalRevenue, sum)
		}
		if md.Totals.LegacyRevenue != 0 {
			t.Fatalf("month %d: unexpected legacy revenue %v", md.Month, md.Totals.LegacyRevenue)
		}
	}
}

func TestFunnelMonotonicity(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	for _, md := range monthly {
		for _, tier := range models.AllTiers {
			f := md.Funnel[tier]
			if f.Wons > f.TotalSALs {
				t.Fatalf("month %d tier %s: wons %d > sals %d", md.Month, tier, f.Wons, f.TotalSALs)
			}
			if f.Activations > f.Wons {
				t.Fatalf("month %d tier %s: activations %d > wons %d", md.Month, tier, f.Activations, f.Wons)
			}
		}
	}
}

// Every activated client must land in exactly one product bucket: the
// recurring base grows by the recurring share and the point-in-time count
// carries the rest, so the two together reconcile to the tier's activations.
func TestActivationSplitReconciles(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	prevRecurring := map[models.Tier]int{}
	for _, md := range monthly {
		for _, tier := range models.AllTiers {
			recurring := 0
			pointInTime := 0
			for _, p := range models.AllProducts {
				if p.Recurring() {
					recurring += md.ActiveClients[tier][p]
				} else {
					pointInTime += md.ActiveClients[tier][p]
				}
			}
			gained := (recurring - prevRecurring[tier]) + pointInTime
			if gained != md.Funnel[tier].Activations {
				t.Fatalf("month %d tier %s: gained %d clients, activated %d",
					md.Month, tier, gained, md.Funnel[tier].Activations)
			}
			prevRecurring[tier] = recurring
		}
	}
}

func TestWalletCeilingInvariant(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	for _, md := range monthly {
		for _, tier := range models.AllTiers {
			w := md.WTP[tier]
			if w.WalletActivated > w.WalletCeiling+1e-6 {
				t.Fatalf("month %d tier %s: activated wallet %v exceeds ceiling %v",
					md.Month, tier, w.WalletActivated, w.WalletCeiling)
			}
		}
	}
}

func TestExpansionStartsMonthAfterGoLive(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	if r := monthly[0].WTP[models.TierEnterprise].ExpansionRevenue; r != 0 {
		t.Fatalf("month 1 expansion revenue = %v, cohorts must wait a month", r)
	}
	// Month 2: only the month-1 cohort is old enough. Its go-live revenue
	// was 396000, desired capture 5%, expansion unit 4300, so 5 expansion
	// sales for 20000 in revenue.
	if r := monthly[1].WTP[models.TierEnterprise].ExpansionRevenue; r != 20000 {
		t.Fatalf("month 2 expansion revenue = %v, want 20000", r)
	}
}

func TestSalesHiringLag(t *testing.T) {
	monthly, err := engine.ProjectMonths(testutil.SampleInputs())
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	m1 := monthly[0].Sales
	if m1.RequiredClosers != 2 || m1.CurrentClosers != 1 || m1.CloserHires != 1 {
		t.Fatalf("month 1 closers: %+v", m1)
	}
	m2 := monthly[1].Sales
	if m2.CurrentClosers != 2 || m2.CloserHires != 0 {
		t.Fatalf("month 2 closers should show last month's hire on board: %+v", m2)
	}
	if m1.PayrollCost != 1*4000+1*6000+10000 {
		t.Fatalf("month 1 payroll = %v", m1.PayrollCost)
	}
}

func TestLoyaltyRenewalSchedule(t *testing.T) {
	in := testutil.SampleInputs()
	// Single burst of spend, all of it sold as the loyalty product.
	for i := 1; i < 12; i++ {
		in.Marketing.Spend[i] = 0
	}
	soloMix(in, models.TierEnterprise, models.ProductExecutarLoyalty)

	monthly, err := engine.ProjectMonths(in)
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	// 24 activated clients in month 1, 7-month cycle, 60% renewal rate:
	// the only renewal event in the horizon is month 8, 14 clients.
	for _, md := range monthly {
		want := 0.0
		if md.Month == 8 {
			want = 14 * 35000
		}
		if got := md.Totals.RenewalRevenue; got != want {
			t.Fatalf("month %d renewal revenue = %v, want %v", md.Month, got, want)
		}
	}
}

func TestNoLoyaltyRenewalSchedule(t *testing.T) {
	in := testutil.SampleInputs()
	for i := 1; i < 12; i++ {
		in.Marketing.Spend[i] = 0
	}
	soloMix(in, models.TierEnterprise, models.ProductExecutarNoLoyalty)

	monthly, err := engine.ProjectMonths(in)
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	// 24 clients, 2-month cycle, 50% rate, 3 renewals max: 12 renew in
	// month 3, 6 in month 5, 3 in month 7, then the cohort is exhausted.
	want := map[int]float64{3: 12 * 6000, 5: 6 * 6000, 7: 3 * 6000}
	for _, md := range monthly {
		if got := md.Totals.RenewalRevenue; got != want[md.Month] {
			t.Fatalf("month %d renewal revenue = %v, want %v", md.Month, got, want[md.Month])
		}
	}
}

func TestZeroWalletNeverExpands(t *testing.T) {
	in := testutil.SampleInputs()
	cfg := in.WTP[models.TierEnterprise]
	cfg.AnnualWallet = 0
	in.WTP[models.TierEnterprise] = cfg

	monthly, err := engine.ProjectMonths(in)
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	for _, md := range monthly {
		if md.Totals.ExpansionRevenue != 0 {
			t.Fatalf("month %d: expansion revenue %v with a zero wallet", md.Month, md.Totals.ExpansionRevenue)
		}
	}
}

func TestWholeFunnelConversion(t *testing.T) {
	in := testutil.SampleInputs()
	in.Marketing.Spend = testutil.Series(1700)
	in.Marketing.LeadToMQLRate = testutil.Series(1)
	fm := in.Funnel[models.TierEnterprise]
	fm.MQLToSQLRate = testutil.Series(1)
	fm.OutboundSALRate = testutil.Series(0)
	fm.SALToWonRate = testutil.Series(1)
	fm.ActivationRate = testutil.Series(1)
	in.Funnel[models.TierEnterprise] = fm

	monthly, err := engine.ProjectMonths(in)
	if err != nil {
		t.Fatalf("ProjectMonths: %v", err)
	}
	f := monthly[0].Funnel[models.TierEnterprise]
	if f.TotalSALs != 17 || f.Wons != 17 || f.Activations != 17 {
		t.Fatalf("lossless funnel should carry all 17 leads through: %+v", f)
	}
}

func TestCostPerLeadMustBePositive(t *testing.T) {
	in := testutil.SampleInputs()
	in.Marketing.CostPerLead[3] = 0

	_, err := engine.ProjectMonths(in)
	if err == nil {
		t.Fatal("expected error for zero cost per lead")
	}
	if !strings.Contains(err.Error(), "month 4") {
		t.Fatalf("error should name the offending month: %v", err)
	}
}

func TestInputShapeValidation(t *testing.T) {
	short := testutil.SampleInputs()
	short.Marketing.Spend = short.Marketing.Spend[:11]
	if _, err := engine.ProjectMonths(short); err == nil {
		t.Fatal("expected error for truncated spend series")
	}

	missing := testutil.SampleInputs()
	delete(missing.Funnel, models.TierMedium)
	if _, err := engine.ProjectMonths(missing); err == nil {
		t.Fatal("expected error for missing funnel tier")
	}
}

// soloMix points a tier's entire product mix at one product.
func soloMix(in models.SimulationInputs, tier models.Tier, product models.Product) {
	pricing := in.Pricing[tier]
	for _, p := range models.AllProducts {
		v := 0.0
		if p == product {
			v = 1.0
		}
		pricing.Mix[p] = testutil.Series(v)
	}
	in.Pricing[tier] = pricing
}
