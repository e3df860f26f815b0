package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetops-data/deviation.report/internal/api"
	"github.com/fleetops-data/deviation.report/internal/config"
	"github.com/fleetops-data/deviation.report/internal/engine"
	"github.com/fleetops-data/deviation.report/internal/monitoring"
	"github.com/fleetops-data/deviation.report/internal/refpath"
	"github.com/fleetops-data/deviation.report/internal/timeutil"
	"github.com/fleetops-data/deviation.report/internal/version"
)

var (
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	configPath = flag.String("config", "", "Path to JSON config file")
)

func main() {
	flag.Parse()
	log.Printf("deviation.report %s", version.String())

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	apiKey, err := config.APIKey()
	if err != nil {
		log.Fatalf("failed to read intake secret: %v", err)
	}

	// Reference paths are operationally static; a missing or malformed
	// source aborts startup rather than running a partial fleet.
	paths, err := refpath.Load(cfg.GetPathDir(), cfg.GetFlightPaths())
	if err != nil {
		log.Fatalf("failed to load reference paths: %v", err)
	}
	log.Printf("loaded reference paths for %v", paths.CallSigns())

	metrics, err := monitoring.NewCollector(nil)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	eng := engine.New(paths, timeutil.RealClock{}, cfg.GetThresholdFeet())
	server := api.NewServer(eng, apiKey, metrics)

	mux := http.NewServeMux()
	mux.Handle("/", server.LoggingMiddleware(server.ServeMux()))
	mux.Handle("/metrics", metrics.Handler())

	addr := cfg.GetListen()
	if *listen != "" {
		addr = *listen
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Printf("graceful shutdown complete")
}
