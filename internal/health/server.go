// Package health serves the watch-mode health endpoint. The endpoint
// reports the outcome of the most recent verification run, so an
// operator polling /health sees whether the target is still reachable
// without digging through logs.
package health

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// RunSummary is the slice of a verification run the endpoint exposes.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	Target      string    `json:"target"`
	Passed      bool      `json:"passed"`
	Failures    []string  `json:"failures,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Status accumulates run outcomes for the endpoint. Safe for use from
// the verification loop and HTTP handlers concurrently.
type Status struct {
	target        string
	watchInterval time.Duration
	startTime     time.Time

	mu        sync.Mutex
	runsTotal int
	lastRun   *RunSummary
}

func NewStatus(target string, watchInterval time.Duration) *Status {
	return &Status{
		target:        target,
		watchInterval: watchInterval,
		startTime:     time.Now(),
	}
}

// RecordRun registers a completed verification run.
func (s *Status) RecordRun(run RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runsTotal++
	s.lastRun = &run
}

type Response struct {
	Status               string      `json:"status"`
	Service              string      `json:"service"`
	Target               string      `json:"target"`
	WatchIntervalSeconds int64       `json:"watch_interval_seconds"`
	UptimeSeconds        int64       `json:"uptime_seconds"`
	RunsTotal            int         `json:"runs_total"`
	LastRun              *RunSummary `json:"last_run,omitempty"`
	Timestamp            int64       `json:"timestamp"`
}

// snapshot derives the endpoint payload. "starting" until the first run
// completes, then "healthy" or "failing" per the latest verdict.
func (s *Status) snapshot() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := "starting"
	if s.lastRun != nil {
		if s.lastRun.Passed {
			state = "healthy"
		} else {
			state = "failing"
		}
	}

	return &Response{
		Status:               state,
		Service:              "connectivity-verifier",
		Target:               s.target,
		WatchIntervalSeconds: int64(s.watchInterval.Seconds()),
		UptimeSeconds:        int64(time.Since(s.startTime).Seconds()),
		RunsTotal:            s.runsTotal,
		LastRun:              s.lastRun,
		Timestamp:            time.Now().Unix(),
	}
}

func (s *Status) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(s.snapshot())
	})
	return mux
}

// Serve starts the endpoint in the background.
func (s *Status) Serve(port string) {
	log.Printf("Health check listening on : %s", port)

	go func() {
		if err := http.ListenAndServe(":"+port, s.Handler()); err != nil {
			log.Fatalf("Health server failed: %v", err)
		}
	}()
}
