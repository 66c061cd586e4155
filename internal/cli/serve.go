package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiftdesk/shiftdesk/internal/api"
	"github.com/shiftdesk/shiftdesk/internal/app/ledger"
	"github.com/shiftdesk/shiftdesk/internal/daemon"
	"github.com/shiftdesk/shiftdesk/internal/infra/cache"
	"github.com/shiftdesk/shiftdesk/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Start the HTTP API server backed by the local sqlite store.
Run 'shiftdesk import' first to seed the store from the source sheets.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	snapshots := cache.New(cfg.Store.CacheTTLDuration(), nil, cache.FetchFromStore(db))
	eng := ledger.New(db, snapshots, time.Now)

	server := api.NewServer(db, snapshots, eng, cfg.Periods.Default)
	server.SetAllowedOrigin(cfg.API.AllowedOrigin)
	if cfg.API.MetricsEnabled {
		server.EnableMetrics()
	}

	addr := cfg.API.Addr()
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("shiftdesk: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		log.Printf("shiftdesk: %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
