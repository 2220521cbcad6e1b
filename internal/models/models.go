// Package models contains the shared data types for the fincast simulator:
// the assumption set fed to the projection engine, the per-month output
// records, and the persisted Simulation envelope.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier is a customer size segment. The set is closed; every per-tier map in
// SimulationInputs must carry an entry for each member.
type Tier string

const (
	TierEnterprise Tier = "enterprise"
	TierLarge      Tier = "large"
	TierMedium     Tier = "medium"
	TierSmall      Tier = "small"
	TierTiny       Tier = "tiny"
)

// AllTiers fixes the iteration order used by the engine.
var AllTiers = []Tier{TierEnterprise, TierLarge, TierMedium, TierSmall, TierTiny}

// Product is a service line a client can be activated into.
type Product string

const (
	ProductSaber             Product = "saber"
	ProductTer               Product = "ter"
	ProductExecutarNoLoyalty Product = "executarNoLoyalty"
	ProductExecutarLoyalty   Product = "executarLoyalty"
	ProductPotencializar     Product = "potencializar"
)

// AllProducts fixes the iteration order used by the engine.
var AllProducts = []Product{
	ProductSaber,
	ProductTer,
	ProductExecutarNoLoyalty,
	ProductExecutarLoyalty,
	ProductPotencializar,
}

// Renewable reports whether activations into the product open a contract
// cohort with a scheduled renewal policy.
func (p Product) Renewable() bool {
	return p == ProductExecutarLoyalty || p == ProductExecutarNoLoyalty
}

// Recurring reports whether the product belongs to the recurring service
// line for capacity planning. Non-recurring products are point-in-time
// projects: their client counts do not accumulate month over month.
func (p Product) Recurring() bool {
	switch p {
	case ProductExecutarLoyalty, ProductExecutarNoLoyalty, ProductPotencializar:
		return true
	}
	return false
}

// ServiceLine groups products for capacity planning.
type ServiceLine string

const (
	LineRecurring   ServiceLine = "recurring"
	LinePointInTime ServiceLine = "pointInTime"
)

var AllServiceLines = []ServiceLine{LineRecurring, LinePointInTime}

// Line returns the service line the product is staffed under.
func (p Product) Line() ServiceLine {
	if p.Recurring() {
		return LineRecurring
	}
	return LinePointInTime
}

// MarketingPlan is the top-line monthly marketing assumption set. Each
// series must have exactly 12 entries (January..December).
type MarketingPlan struct {
	Spend         []float64 `json:"spend"`
	CostPerLead   []float64 `json:"costPerLead"`
	LeadToMQLRate []float64 `json:"leadToMqlRate"`
}

// FunnelMetrics holds one tier's monthly funnel conversion series.
// All series must have exactly 12 entries.
type FunnelMetrics struct {
	MQLShare              []float64 `json:"mqlShare"`
	MQLToSQLRate          []float64 `json:"mqlToSqlRate"`
	OutboundSALRate       []float64 `json:"outboundSalRate"`
	SALToWonRate          []float64 `json:"salToWonRate"`
	ActivationRate        []float64 `json:"activationRate"`
	RevenueActivationRate []float64 `json:"revenueActivationRate"`
}

// TierPricing holds one tier's per-product ticket and product-mix series.
// Tickets are total contract value for the period: for multi-month contract
// products the monthly ticket times the contract duration is pre-applied by
// the caller. Mix fractions are expected to sum to 1 per month (not
// validated by the engine).
type TierPricing struct {
	Tickets map[Product][]float64 `json:"tickets"`
	Mix     map[Product][]float64 `json:"mix"`
}

// RenewalPolicy parameterizes contract-cohort renewals. The loyalty cycle
// length is per tier; the no-loyalty cycle length is global.
type RenewalPolicy struct {
	LoyaltyCycleMonths   map[Tier]int `json:"loyaltyCycleMonths"`
	NoLoyaltyCycleMonths int          `json:"noLoyaltyCycleMonths"`
	LoyaltyRenewalRate   float64      `json:"loyaltyRenewalRate"`
	NoLoyaltyRenewalRate float64      `json:"noLoyaltyRenewalRate"`
	LoyaltyMaxRenewals   int          `json:"loyaltyMaxRenewals"`
	NoLoyaltyMaxRenewals int          `json:"noLoyaltyMaxRenewals"`
}

// CapacityConfig drives the capacity planning stage.
type CapacityConfig struct {
	// RoleHours maps service line -> role name -> tier -> monthly hours
	// required to serve one client.
	RoleHours map[ServiceLine]map[string]map[Tier]float64 `json:"roleHours"`

	SquadHeadcount     int                 `json:"squadHeadcount"`
	ProductiveHours    float64             `json:"productiveHours"`
	AvailabilityFactor float64             `json:"availabilityFactor"`
	TurnoverRate       float64             `json:"turnoverRate"`
	InitialHeadcount   map[ServiceLine]int `json:"initialHeadcount"`
	AccountCapacity    map[Tier]int        `json:"accountCapacity"`
}

// SalesConfig drives the sales staffing stage.
type SalesConfig struct {
	MQLsPerSDR     float64 `json:"mqlsPerSdr"`
	SALsPerCloser  float64 `json:"salsPerCloser"`
	InitialSDRs    int     `json:"initialSdrs"`
	InitialClosers int     `json:"initialClosers"`
	SDRSalary      float64 `json:"sdrSalary"`
	CloserSalary   float64 `json:"closerSalary"`
	FixedCosts     float64 `json:"fixedCosts"`
}

// WTPConfig parameterizes wallet-share expansion for one tier.
type WTPConfig struct {
	// AnnualWallet is the theoretical yearly spending ceiling per client.
	AnnualWallet float64 `json:"annualWallet"`

	// DesiredCapture is the 12-entry capture-rate schedule indexed by
	// cohort age minus one (the engine preserves the reference model's
	// one-month lag).
	DesiredCapture []float64 `json:"desiredCapture"`

	// DesiredCaptureJanuary, when present (12 entries), replaces
	// DesiredCapture for January-born cohorts of the medium tier.
	DesiredCaptureJanuary []float64 `json:"desiredCaptureJanuary,omitempty"`

	ExpansionMix    map[Product]float64 `json:"expansionMix"`
	ExpansionTicket map[Product]float64 `json:"expansionTicket"`
}

// SimulationInputs is the immutable assumption snapshot consumed by a
// projection run.
type SimulationInputs struct {
	Marketing MarketingPlan          `json:"marketing"`
	Funnel    map[Tier]FunnelMetrics `json:"funnel"`
	Pricing   map[Tier]TierPricing   `json:"pricing"`
	Renewal   RenewalPolicy          `json:"renewal"`
	Capacity  CapacityConfig         `json:"capacity"`
	Sales     SalesConfig            `json:"sales"`
	WTP       map[Tier]WTPConfig     `json:"wtp"`
}

// TierFunnelData is one tier's funnel counts for one month.
type TierFunnelData struct {
	MQLs         int `json:"mqls"`
	SQLs         int `json:"sqls"`
	InboundSALs  int `json:"inboundSals"`
	OutboundSALs int `json:"outboundSals"`
	TotalSALs    int `json:"totalSals"`
	Wons         int `json:"wons"`
	Activations  int `json:"activations"`
}

// RevenueBreakdown splits one tier/product cell's monthly revenue by
// source. Legacy is carried for output-shape stability and is always zero
// under the active policy. ActivationAdjustment is the portion of won
// revenue assumed lost to imperfect activation; it is reported, not
// subtracted from new revenue.
type RevenueBreakdown struct {
	New                  float64 `json:"new"`
	Renewal              float64 `json:"renewal"`
	Expansion            float64 `json:"expansion"`
	Legacy               float64 `json:"legacy"`
	ActivationAdjustment float64 `json:"activationAdjustment"`
}

// ServiceLineCapacity is the capacity requirement of one service line for
// one month.
type ServiceLineCapacity struct {
	Clients           map[Tier]int `json:"clients"`
	TotalClients      int          `json:"totalClients"`
	RequiredHours     float64      `json:"requiredHours"`
	RequiredHeadcount int          `json:"requiredHeadcount"`
	RequiredSquads    int          `json:"requiredSquads"`
	Turnover          int          `json:"turnover"`
	Hires             int          `json:"hires"`
}

// CapacityPlanData is the nested capacity record inside MonthlyData.
type CapacityPlanData struct {
	Lines map[ServiceLine]ServiceLineCapacity `json:"lines"`

	// Redeployed is recurring-line staff freed by a falling requirement
	// and counted against point-in-time hiring need.
	Redeployed             int `json:"redeployed"`
	PointInTimeHiresOffset int `json:"pointInTimeHiresOffset"`

	RequiredAccounts    map[Tier]int `json:"requiredAccounts"`
	TotalAccounts       int          `json:"totalAccounts"`
	TotalHeadcount      int          `json:"totalHeadcount"`
	RevenuePerHeadcount float64      `json:"revenuePerHeadcount"`
	HoursUtilization    float64      `json:"hoursUtilization"`
}

// WTPTierMonthlyData summarizes one tier's wallet-share expansion for one
// month.
type WTPTierMonthlyData struct {
	GoLiveClients    int             `json:"goLiveClients"`
	GoLiveRevenue    float64         `json:"goLiveRevenue"`
	ExpansionRevenue float64         `json:"expansionRevenue"`
	Expansions       map[Product]int `json:"expansions"`

	// WalletCeiling and WalletActivated aggregate the tier's open cohorts
	// after this month's expansion pass.
	WalletCeiling   float64 `json:"walletCeiling"`
	WalletActivated float64 `json:"walletActivated"`
}

// SalesTeamData is the sales staffing record for one month. Current
// headcounts are pre-hire values; hires scheduled this month onboard next
// month.
type SalesTeamData struct {
	RequiredSDRs    int     `json:"requiredSdrs"`
	CurrentSDRs     int     `json:"currentSdrs"`
	SDRHires        int     `json:"sdrHires"`
	RequiredClosers int     `json:"requiredClosers"`
	CurrentClosers  int     `json:"currentClosers"`
	CloserHires     int     `json:"closerHires"`
	PayrollCost     float64 `json:"payrollCost"`
}

// MonthTotals aggregates one month across tiers and products.
type MonthTotals struct {
	Leads            int     `json:"totalLeads"`
	NewRevenue       float64 `json:"totalNewRevenue"`
	RenewalRevenue   float64 `json:"totalRenewalRevenue"`
	ExpansionRevenue float64 `json:"totalExpansionRevenue"`
	LegacyRevenue    float64 `json:"totalLegacyRevenue"`
	TotalRevenue     float64 `json:"totalRevenue"`
	ActiveClients    int     `json:"totalActiveClients"`
}

// MonthlyData is one fully-derived month record, 1..12.
type MonthlyData struct {
	Month         int                                   `json:"month"`
	Leads         int                                   `json:"leads"`
	TotalMQLs     int                                   `json:"totalMqls"`
	Funnel        map[Tier]TierFunnelData               `json:"funnel"`
	Revenue       map[Tier]map[Product]RevenueBreakdown `json:"revenue"`
	ActiveClients map[Tier]map[Product]int              `json:"activeClients"`
	Capacity      CapacityPlanData                      `json:"capacity"`
	WTP           map[Tier]WTPTierMonthlyData           `json:"wtp"`
	Sales         SalesTeamData                         `json:"sales"`
	Totals        MonthTotals                           `json:"totals"`
}

// Simulation is the persisted record: the input snapshot plus the engine
// output. MonthlyData is always recomputed from Inputs on create and on
// every inputs update; it is never edited independently.
type Simulation struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Inputs      SimulationInputs `json:"inputs"`
	MonthlyData []MonthlyData    `json:"monthlyData"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
