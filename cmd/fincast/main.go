// Command fincast runs a single projection from a YAML scenario file and
// prints a per-month summary. Handy for reconciling assumption changes
// against the reference spreadsheet without a running service.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fincast/fincast/internal/engine"
	"github.com/fincast/fincast/internal/models"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file with simulation inputs")
	verbose := flag.Bool("v", false, "print per-tier funnel detail")
	flag.Parse()

	if *scenarioPath == "" {
		log.Fatalf("usage: fincast --scenario assumptions.yaml")
	}

	inputs, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("load scenario: %v", err)
	}

	monthly, err := engine.ProjectMonths(inputs)
	if err != nil {
		log.Fatalf("project: %v", err)
	}

	fmt.Printf("%-6s %8s %10s %14s %14s %14s %14s %8s\n",
		"month", "leads", "actives", "new", "renewal", "expansion", "total", "heads")
	annual := 0.0
	for _, md := range monthly {
		annual += md.Totals.TotalRevenue
		fmt.Printf("%-6d %8d %10d %14.2f %14.2f %14.2f %14.2f %8d\n",
			md.Month,
			md.Totals.Leads,
			md.Totals.ActiveClients,
			md.Totals.NewRevenue,
			md.Totals.RenewalRevenue,
			md.Totals.ExpansionRevenue,
			md.Totals.TotalRevenue,
			md.Capacity.TotalHeadcount,
		)
		if *verbose {
			for _, t := range models.AllTiers {
				tf := md.Funnel[t]
				fmt.Printf("       %-12s mqls=%d sqls=%d sals=%d wons=%d activations=%d\n",
					t, tf.MQLs, tf.SQLs, tf.TotalSALs, tf.Wons, tf.Activations)
			}
		}
	}
	fmt.Printf("annual revenue: %.2f\n", annual)
}

func loadScenario(path string) (models.SimulationInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.SimulationInputs{}, fmt.Errorf("read scenario: %w", err)
	}
	var inputs models.SimulationInputs
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return models.SimulationInputs{}, fmt.Errorf("parse scenario: %w", err)
	}
	return inputs, nil
}
