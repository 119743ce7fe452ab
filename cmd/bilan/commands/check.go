package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/terrawatt/balance-engine/console"
	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/heating"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
	"github.com/terrawatt/balance-engine/transport"
)

var checkScenario string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the consistency checker without generating a workbook",
	Long: `Compare the native decimal computation of every declared quantity
against its rendered ODF formula, on the knob defaults and on random
perturbations around them. The same gate runs inside generate; this
command runs it standalone so a scenario or a formula change can be
validated in isolation, with no network and no database.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Scenario YAML file (defaults to the reference preset)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	sc := scenario.ReferenceScenario()
	if checkScenario != "" {
		loaded, err := scenario.Load(checkScenario)
		if err != nil {
			return console.Error("Cannot load scenario", err.Error(), []string{
				"Check the YAML syntax",
				"Knob names must match the declaration table",
			})
		}
		sc = loaded
	}
	bundle, err := sc.Bundle()
	if err != nil {
		return console.Error("Invalid scenario", err.Error(), nil)
	}

	reg, err := scenario.NewRegistry()
	if err != nil {
		return err
	}

	var quantities []engine.Quantity
	quantities = append(quantities, heating.Quantities(bundle.Heating)...)
	quantities = append(quantities, transport.Quantities()...)
	quantities = append(quantities, sectors.Quantities()...)

	checker := engine.NewChecker(reg)
	if err := checker.VerifyReferences(quantities); err != nil {
		return console.Error("Reference verification failed", err.Error(), []string{
			"A formula references a knob missing from the declaration table",
		})
	}

	console.Step("Checking %d quantities for scenario %q...\n", len(quantities), sc.Name)
	report, err := checker.Run(quantities, engine.Options{})
	if err != nil {
		return checkFailure(err)
	}
	// The run covers defaults and perturbations; the loaded scenario gets
	// the same treatment.
	live := bundle.Sample()
	for _, q := range quantities {
		if err := checker.Check(q, live, "scenario"); err != nil {
			return checkFailure(err)
		}
	}

	console.Success("All %d quantities agree across %d samples\n", report.Quantities, report.Samples)
	for _, r := range report.Results {
		console.Printf("  %-40s max delta %s\n", r.Name, r.MaxDelta.String())
	}
	return nil
}

func checkFailure(err error) error {
	var m *engine.MismatchError
	if errors.As(err, &m) {
		return console.ErrorWithContext(
			"Consistency check failed",
			"A rendered formula disagrees with the native computation.",
			map[string]string{
				"quantity": m.Quantity,
				"table":    m.Table,
				"sample":   m.Sample,
				"native":   m.Native.String(),
				"formula":  m.Interpreted.String(),
			},
			nil,
		)
	}
	return err
}
