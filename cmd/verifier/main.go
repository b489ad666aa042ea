package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Raizedd/compass/internal/config"
	"github.com/Raizedd/compass/internal/health"
	"github.com/Raizedd/compass/internal/orchestrator"
)

func main() {
	log.Printf("Connectivity Verifier starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Configuration loaded")
	log.Printf("  Target: %s:%d (%s)", cfg.DBHost, cfg.DBPort, cfg.DBKind)
	if cfg.TopologyProfile != "" {
		log.Printf("  Topology Profile: %s", cfg.TopologyProfile)
	}

	orch := orchestrator.NewOrchestrator(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := orch.Start(ctx); err != nil {
		log.Fatalf("Failed to start verifier: %v", err)
	}

	if cfg.WatchInterval > 0 {
		// Watch mode: keep re-verifying until shutdown, with the latest
		// verdict surfaced on /health.
		status := health.NewStatus(fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort), cfg.WatchInterval)
		orch.AttachHealth(status)
		status.Serve(cfg.HealthPort)

		go func() {
			if err := orch.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("Verifier error: %v", err)
			}
		}()

		<-sigChan
		log.Printf("Shutdown signal received...")
		cancel()

		if err := orch.Stop(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		log.Printf("Verifier stopped successfully")
		return
	}

	// One-shot mode: exit code carries the verdict.
	go func() {
		<-sigChan
		log.Printf("Shutdown signal received...")
		cancel()
	}()

	rep, err := orch.RunOnce(ctx)

	if stopErr := orch.Stop(); stopErr != nil {
		log.Printf("Error during shutdown: %v", stopErr)
	}

	if err != nil {
		log.Fatalf("Verification run failed: %v", err)
	}
	if !rep.Passed {
		os.Exit(1)
	}
}
