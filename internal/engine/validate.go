package engine

import (
	"fmt"

	"github.com/fincast/fincast/internal/models"
)

// monthsInHorizon is the fixed projection length. Every monthly assumption
// series must carry exactly this many entries.
const monthsInHorizon = 12

// validateInputs performs the fail-fast shape checks: every monthly series
// has exactly 12 entries and every per-tier / per-product map covers the
// full enumeration. Rate plausibility (mix sums, negative rates) is the
// caller's responsibility and deliberately not checked here.
func validateInputs(in models.SimulationInputs) error {
	if err := checkSeries("marketing.spend", in.Marketing.Spend); err != nil {
		return err
	}
	if err := checkSeries("marketing.costPerLead", in.Marketing.CostPerLead); err != nil {
		return err
	}
	if err := checkSeries("marketing.leadToMqlRate", in.Marketing.LeadToMQLRate); err != nil {
		return err
	}

	for _, t := range models.AllTiers {
		fm, ok := in.Funnel[t]
		if !ok {
			return fmt.Errorf("funnel: missing tier %q", t)
		}
		series := map[string][]float64{
			"mqlShare":              fm.MQLShare,
			"mqlToSqlRate":          fm.MQLToSQLRate,
			"outboundSalRate":       fm.OutboundSALRate,
			"salToWonRate":          fm.SALToWonRate,
			"activationRate":        fm.ActivationRate,
			"revenueActivationRate": fm.RevenueActivationRate,
		}
		for name, s := range series {
			if err := checkSeries(fmt.Sprintf("funnel[%s].%s", t, name), s); err != nil {
				return err
			}
		}

		pricing, ok := in.Pricing[t]
		if !ok {
			return fmt.Errorf("pricing: missing tier %q", t)
		}
		for _, p := range models.AllProducts {
			tickets, ok := pricing.Tickets[p]
			if !ok {
				return fmt.Errorf("pricing[%s].tickets: missing product %q", t, p)
			}
			if err := checkSeries(fmt.Sprintf("pricing[%s].tickets[%s]", t, p), tickets); err != nil {
				return err
			}
			mix, ok := pricing.Mix[p]
			if !ok {
				return fmt.Errorf("pricing[%s].mix: missing product %q", t, p)
			}
			if err := checkSeries(fmt.Sprintf("pricing[%s].mix[%s]", t, p), mix); err != nil {
				return err
			}
		}

		if _, ok := in.Renewal.LoyaltyCycleMonths[t]; !ok {
			return fmt.Errorf("renewal.loyaltyCycleMonths: missing tier %q", t)
		}
		if _, ok := in.Capacity.AccountCapacity[t]; !ok {
			return fmt.Errorf("capacity.accountCapacity: missing tier %q", t)
		}

		wtp, ok := in.WTP[t]
		if !ok {
			return fmt.Errorf("wtp: missing tier %q", t)
		}
		if err := checkSeries(fmt.Sprintf("wtp[%s].desiredCapture", t), wtp.DesiredCapture); err != nil {
			return err
		}
		if len(wtp.DesiredCaptureJanuary) != 0 {
			if err := checkSeries(fmt.Sprintf("wtp[%s].desiredCaptureJanuary", t), wtp.DesiredCaptureJanuary); err != nil {
				return err
			}
		}
		for _, p := range models.AllProducts {
			if _, ok := wtp.ExpansionMix[p]; !ok {
				return fmt.Errorf("wtp[%s].expansionMix: missing product %q", t, p)
			}
			if _, ok := wtp.ExpansionTicket[p]; !ok {
				return fmt.Errorf("wtp[%s].expansionTicket: missing product %q", t, p)
			}
		}
	}

	for _, line := range models.AllServiceLines {
		roles, ok := in.Capacity.RoleHours[line]
		if !ok {
			return fmt.Errorf("capacity.roleHours: missing service line %q", line)
		}
		for role, hours := range roles {
			for _, t := range models.AllTiers {
				if _, ok := hours[t]; !ok {
					return fmt.Errorf("capacity.roleHours[%s][%s]: missing tier %q", line, role, t)
				}
			}
		}
		if _, ok := in.Capacity.InitialHeadcount[line]; !ok {
			return fmt.Errorf("capacity.initialHeadcount: missing service line %q", line)
		}
	}

	return nil
}

func checkSeries(name string, s []float64) error {
	if len(s) != monthsInHorizon {
		return fmt.Errorf("%s: expected %d monthly entries, got %d", name, monthsInHorizon, len(s))
	}
	return nil
}
