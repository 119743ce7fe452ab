package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/terrawatt/balance-engine/api"
	"github.com/terrawatt/balance-engine/console"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scenario API over HTTP",
	Long: `Start the HTTP API: list the built-in presets, execute scenario runs
and stream the resulting ODS workbooks.

Runs execute against the reference series already stored in the
database. Run 'bilan download' first: the server never touches the
network.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "data/bilan.db", "SQLite database path")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := openStore(serveDB)
	if err != nil {
		return console.Error("Cannot open database", err.Error(), []string{
			fmt.Sprintf("Run: bilan download --year 2023 --db %s first", serveDB),
			"Check the --db directory exists and is writable",
		})
	}
	defer st.Close()

	handler := api.NewHandler(st)
	router := api.NewRouter(handler)

	janitor := api.NewRetentionJanitor(handler)
	janitor.Start()
	defer janitor.Stop()

	// Scenario runs execute the whole pipeline inside the request handler,
	// so the write timeout is generous where the read timeout is not.
	srv := &http.Server{
		Addr:         serveAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", serveAddr)
		log.Printf("📊 API available at http://localhost%s/api", serveAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}
