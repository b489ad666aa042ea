// Package orchestrator wires configuration, fixture provisioning, the
// data service and the verifier into one-shot or periodic verification
// runs.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Raizedd/compass/internal/config"
	"github.com/Raizedd/compass/internal/connection"
	"github.com/Raizedd/compass/internal/dataservice"
	"github.com/Raizedd/compass/internal/fixture"
	"github.com/Raizedd/compass/internal/health"
	"github.com/Raizedd/compass/internal/history"
	"github.com/Raizedd/compass/internal/provisioner"
	"github.com/Raizedd/compass/internal/report"
	"github.com/Raizedd/compass/internal/verifier"
)

type Orchestrator struct {
	config   *config.Config
	desc     *connection.Descriptor
	expected *fixture.Fixture
	policy   verifier.RetryPolicy

	prov        *provisioner.Provisioner
	provisioned bool

	publisher *report.Publisher
	store     *history.Store
	status    *health.Status
}

func NewOrchestrator(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		config: cfg,
		policy: verifier.RetryPolicy{
			InitialWait: cfg.InitialBackoff,
			MaxWait:     cfg.MaxBackoff,
			Budget:      cfg.ConnectBudget,
		},
	}
}

// AttachHealth wires a health status so every run updates the endpoint.
func (o *Orchestrator) AttachHealth(status *health.Status) {
	o.status = status
}

// Start validates the target, loads the fixture, provisions the topology
// profile when one is configured, and connects the optional reporting
// sinks. It does not run a verification; call RunOnce or Run.
func (o *Orchestrator) Start(ctx context.Context) error {
	log.Printf("Starting Connectivity Verifier...")

	desc, err := connection.NewDescriptor(connection.Options{
		Kind:     o.config.DBKind,
		Hostname: o.config.DBHost,
		Port:     o.config.DBPort,
		Username: o.config.DBUsername,
		Password: o.config.DBPassword,
		Database: o.config.DBName,
		TLS:      o.config.DBTLS,
	})
	if err != nil {
		return err
	}
	o.desc = desc

	if o.config.FixturePath != "" {
		o.expected, err = fixture.Load(o.config.FixturePath)
		if err != nil {
			return err
		}
		log.Printf("Loaded expected fixture: %s", o.config.FixturePath)
	}

	if o.config.TopologyProfile != "" {
		o.prov, err = provisioner.New()
		if err != nil {
			return err
		}
		if err := o.prov.Up(ctx, o.config.TopologyProfile); err != nil {
			return fmt.Errorf("failed to provision %s: %w", o.config.TopologyProfile, err)
		}
		o.provisioned = true
	}

	if o.config.NatsURL != "" {
		o.publisher, err = report.NewPublisher(o.config.NatsURL)
		if err != nil {
			return err
		}
	}

	if o.config.RedisAddr != "" {
		o.store, err = history.NewStore(o.config.RedisAddr, o.config.RedisPassword, o.config.RedisDB)
		if err != nil {
			return err
		}
	}

	log.Printf("Target: %s (%s)", desc.Address(), desc.Kind())
	return nil
}

// RunOnce performs a single connect-verify-disconnect cycle and ships
// the report to the configured sinks. A fresh data service is built per
// run so no connection state leaks between runs.
func (o *Orchestrator) RunOnce(ctx context.Context) (*report.Report, error) {
	svc, err := dataservice.New(o.desc)
	if err != nil {
		return nil, err
	}

	verdict := verifier.New(svc, o.policy).Verify(ctx, o.expected)

	if verdict.Passed {
		log.Printf("Verification PASSED for %s (connect %v, total %v)",
			o.desc.Address(), verdict.ConnectWait, verdict.Elapsed)
	} else {
		log.Printf("Verification FAILED for %s: %v",
			o.desc.Address(), verdict.FailureKinds())
		for _, f := range verdict.Failures {
			log.Printf("  - %v", f)
		}
	}

	rep := report.FromVerdict(verdict, o.desc.Address(), o.desc.Kind(), o.config.TopologyProfile)

	if o.publisher != nil {
		if err := o.publisher.Publish(rep); err != nil {
			log.Printf("Warning: failed to publish verdict: %v", err)
		}
	}
	if o.store != nil {
		if err := o.store.Record(ctx, rep); err != nil {
			log.Printf("Warning: failed to record verdict: %v", err)
		}
	}
	if o.status != nil {
		run := health.RunSummary{
			RunID:       rep.RunID,
			Target:      rep.Target,
			Passed:      rep.Passed,
			CompletedAt: rep.CreatedAt,
		}
		for _, f := range rep.Failures {
			run.Failures = append(run.Failures, f.Kind)
		}
		o.status.RecordRun(run)
	}

	return rep, nil
}

// Run re-verifies on the configured interval until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.config.WatchInterval <= 0 {
		return fmt.Errorf("watch mode requires WATCH_INTERVAL")
	}

	ticker := time.NewTicker(o.config.WatchInterval)
	defer ticker.Stop()

	for {
		if _, err := o.RunOnce(ctx); err != nil {
			log.Printf("Verification run error: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stop tears down the provisioned fixture and closes reporting sinks.
func (o *Orchestrator) Stop() error {
	if o.provisioned {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := o.prov.Down(ctx, o.config.TopologyProfile); err != nil {
			log.Printf("Warning: failed to tear down fixture: %v", err)
		}
	}
	if o.prov != nil {
		o.prov.Close()
	}

	if o.publisher != nil {
		o.publisher.Close()
	}
	if o.store != nil {
		o.store.Close()
	}

	return nil
}
