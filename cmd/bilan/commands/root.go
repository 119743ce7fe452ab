package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/terrawatt/balance-engine/store/sqlite"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bilan",
	Short: "Bilan - National electricity balance scenario engine",
	Long: `Bilan computes a national electricity balance for a chosen transition
scenario and exports it as an auditable ODS workbook.

Every derived cell carries both the engine's computed value and the live
spreadsheet formula, so the result can be explored, recalculated and
challenged in LibreOffice without trusting the code that produced it.

Typical flow:
  bilan download --year 2023
  bilan generate --scenario sobriete.yaml --output sobriete.ods
  bilan check`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// openStore opens the SQLite database, creating its directory first.
func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir %s: %w", dir, err)
		}
	}
	return sqlite.New(path)
}
