package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/terrawatt/balance-engine/console"
	"github.com/terrawatt/balance-engine/document"
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/scenario"
)

var (
	generateYear         int
	generateOutput       string
	generateDB           string
	generateCacheDir     string
	generateScenarioFile string
	generateSkipDownload bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full pipeline and export the ODS workbook",
	Long: `Run the five pipeline stages: download the reference series, compute
the consumption models, compute the synthesis, generate the workbook
and record the run in the database.

Every derived cell in the workbook carries both the computed value and
the live ODF formula. Two gates protect the export: the consistency
checker compares native and formula arithmetic across perturbed knob
samples before any table is built, and the document audit re-evaluates
every written formula afterwards. A workbook that disagrees with the
engine is never saved.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateYear, "year", 2023, "eco2mix year to download")
	generateCmd.Flags().StringVar(&generateOutput, "output", "moulinette.ods", "Output workbook path")
	generateCmd.Flags().StringVar(&generateDB, "db", "data/bilan.db", "SQLite database path")
	generateCmd.Flags().StringVar(&generateCacheDir, "cache-dir", "data/cache", "Raw API response cache directory")
	generateCmd.Flags().StringVar(&generateScenarioFile, "scenario", "", "Scenario YAML file (defaults to the reference preset)")
	generateCmd.Flags().BoolVar(&generateSkipDownload, "skip-download", false, "Reuse the stored reference series instead of fetching")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sc := scenario.ReferenceScenario()
	if generateScenarioFile != "" {
		loaded, err := scenario.Load(generateScenarioFile)
		if err != nil {
			return console.Error("Cannot load scenario", err.Error(), []string{
				"Check the YAML syntax",
				"Knob names must match the declaration table; see bilan check",
			})
		}
		sc = loaded
	}
	bundle, err := sc.Bundle()
	if err != nil {
		return console.Error("Invalid scenario", err.Error(), nil)
	}

	console.Banner(fmt.Sprintf("LA MOULINETTE - %s (%d)", sc.Name, sc.Year))

	st, err := openStore(generateDB)
	if err != nil {
		return console.Error("Cannot open database", err.Error(), []string{
			"Check the --db directory exists and is writable",
		})
	}
	defer st.Close()

	if err := st.SetMetadata(ctx, "pipeline_start", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := st.SetMetadata(ctx, "year", strconv.Itoa(generateYear)); err != nil {
		return err
	}

	if generateSkipDownload {
		console.Step("[1/5] Using cached reference series (--skip-download)\n")
		production, err := st.LoadProduction(ctx)
		if err != nil {
			return err
		}
		solar, err := st.LoadSolar(ctx)
		if err != nil {
			return err
		}
		if len(production) == 0 || len(solar) == 0 {
			return console.Error(
				"No stored reference series",
				"The database has no downloaded production or solar rows to build on.",
				[]string{
					fmt.Sprintf("Download first: bilan download --year %d --db %s", generateYear, generateDB),
					"Drop --skip-download to let generate fetch them",
				},
			)
		}
		console.Success("Production: %d rows, solar: %d rows\n", len(production), len(solar))
	} else {
		if err := downloadReference(ctx, st, generateYear, generateCacheDir, "[1/5] "); err != nil {
			return err
		}
	}

	console.Step("[2/5] Computing consumption models...\n")
	if err := document.ComputeConsumption(ctx, bundle, st); err != nil {
		return err
	}
	params, err := st.LoadParameters(ctx)
	if err != nil {
		return err
	}
	heatingRows, err := st.LoadHeating(ctx)
	if err != nil {
		return err
	}
	sectorRows, err := st.LoadSectors(ctx)
	if err != nil {
		return err
	}
	console.Info("  all %d knobs via knob registry\n", len(params))
	console.Success("Heating: %d rows (COP variable)\n", len(heatingRows))
	console.Success("Sectors: %d rows (transport, industry, tertiary, agriculture)\n", len(sectorRows))

	console.Step("[3/5] Computing synthesis...\n")
	res, err := document.ComputeSynthesis(ctx, bundle, st)
	if err != nil {
		return err
	}
	if len(res.Missing) > 0 {
		console.Warning("%d reference values missing, substituted with defaults\n", len(res.Missing))
	}
	console.Success("Synthesis: %d rows, gas backup: %s TWh/year\n", res.Rows, res.GasTotalTwh.StringFixed(1))

	console.Step("[4/5] Generating ODS...\n")
	doc, err := document.Build(ctx, document.Input{Bundle: bundle, Store: st})
	if err != nil {
		return err
	}
	if err := document.Audit(doc); err != nil {
		return console.Error("Document audit failed", err.Error(), []string{
			"The written formulas no longer reproduce the written values",
			"Re-run with the reference scenario to isolate the knob: bilan generate --skip-download",
		})
	}
	console.Success("Audited %d formula cells against the engine\n", doc.AuditedCells())

	if err := ods.WriteFile(generateOutput, doc.Tables); err != nil {
		return err
	}
	info, err := os.Stat(generateOutput)
	if err != nil {
		return err
	}
	console.Success("Saved %s (%d bytes, %d sheets)\n", generateOutput, info.Size(), len(doc.Tables))

	if err := st.SetMetadata(ctx, "gas_total_twh", res.GasTotalTwh.String()); err != nil {
		return err
	}
	if err := st.SetMetadata(ctx, "pipeline_end", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	console.Step("[5/5] Pipeline complete!\n")
	if gwc, ok := bundle.KnobValue("solar_capacity_gwc"); ok {
		console.Info("  Gas backup: %s TWh/year @ %s GWc solar\n", res.GasTotalTwh.StringFixed(1), gwc.String())
	}
	console.Info("  Open %s in LibreOffice to explore formulas\n", generateOutput)
	return nil
}
