package engine

import (
	"testing"

	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/testutil"
)

// A renewal rate above 1 must drain the cohort, never drive it negative.
func TestRenewalClampsToRemainingClients(t *testing.T) {
	in := testutil.SampleInputs()
	in.Renewal.NoLoyaltyRenewalRate = 1.5
	st := newEngineState(in)

	st.openCohorts(1, models.TierEnterprise, map[models.Product]int{
		models.ProductExecutarNoLoyalty: 24,
	})
	out := st.processRenewals(in, 3)

	cell := out[models.TierEnterprise][models.ProductExecutarNoLoyalty]
	if cell.clients != 24 {
		t.Fatalf("renewing clients = %d, want the full pool of 24", cell.clients)
	}
	c := st.contracts[models.TierEnterprise][models.ProductExecutarNoLoyalty][0]
	if c.remainingClients != 0 {
		t.Fatalf("remaining clients = %d", c.remainingClients)
	}
}

func TestOpenCohortsSkipsNonRenewable(t *testing.T) {
	in := testutil.SampleInputs()
	st := newEngineState(in)

	st.openCohorts(1, models.TierEnterprise, map[models.Product]int{
		models.ProductSaber:           10,
		models.ProductPotencializar:   5,
		models.ProductExecutarLoyalty: 3,
	})
	if n := len(st.contracts[models.TierEnterprise][models.ProductExecutarLoyalty]); n != 1 {
		t.Fatalf("loyalty cohorts = %d", n)
	}
	if n := len(st.contracts[models.TierEnterprise][models.ProductSaber]); n != 0 {
		t.Fatalf("point-in-time product opened %d cohorts", n)
	}
	if n := len(st.contracts[models.TierEnterprise][models.ProductPotencializar]); n != 0 {
		t.Fatalf("non-renewable recurring product opened %d cohorts", n)
	}
}
