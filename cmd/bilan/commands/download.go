package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/terrawatt/balance-engine/console"
	"github.com/terrawatt/balance-engine/fetch"
	"github.com/terrawatt/balance-engine/store"
)

var (
	downloadYear     int
	downloadCacheDir string
	downloadDB       string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the RTE and PVGIS reference series",
	Long: `Download one year of eco2mix nuclear and hydro production and the
PVGIS solar capacity factors, average them into the month x slot grid
and store them in the database.

Raw API responses are cached under --cache-dir, so re-running is cheap
and works offline once the cache is warm. Later generate and serve runs
read only the database, never the network.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().IntVar(&downloadYear, "year", 2023, "eco2mix year to download")
	downloadCmd.Flags().StringVar(&downloadCacheDir, "cache-dir", "data/cache", "Raw API response cache directory")
	downloadCmd.Flags().StringVar(&downloadDB, "db", "data/bilan.db", "SQLite database path")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(downloadDB)
	if err != nil {
		return console.Error("Cannot open database", err.Error(), []string{
			"Check the --db directory exists and is writable",
		})
	}
	defer st.Close()

	if err := downloadReference(ctx, st, downloadYear, downloadCacheDir, ""); err != nil {
		return err
	}
	if err := st.SetMetadata(ctx, "year", strconv.Itoa(downloadYear)); err != nil {
		return err
	}

	console.Success("Reference series stored in %s\n", downloadDB)
	return nil
}

// downloadReference fetches both reference series and persists them. The
// prefix carries the pipeline step label when called from generate.
func downloadReference(ctx context.Context, st store.Store, year int, cacheDir, prefix string) error {
	console.Step("%sDownloading RTE eco2mix data (year=%d)...\n", prefix, year)
	rte := fetch.NewRTE(fetch.RTEConfig{CacheDir: cacheDir})
	production, err := rte.Production(ctx, year)
	if err != nil {
		return console.Error("eco2mix download failed", err.Error(), []string{
			"Check your network connection",
			"Retry in a minute: the OpenDataSoft API throttles bursts",
		})
	}
	if err := st.SaveProduction(ctx, production); err != nil {
		return err
	}
	console.Success("Stored %d rows\n", len(production))

	console.Step("%sDownloading PVGIS solar capacity factors...\n", prefix)
	pvgis := fetch.NewPVGIS(fetch.PVGISConfig{CacheDir: cacheDir})
	solar, err := pvgis.CapacityFactors(ctx)
	if err != nil {
		return console.Error("PVGIS download failed", err.Error(), []string{
			"Check your network connection",
			"The JRC API is paused between locations; a full fetch takes a few seconds",
		})
	}
	if err := st.SaveSolar(ctx, solar); err != nil {
		return err
	}
	console.Success("Stored %d rows\n", len(solar))
	return nil
}
