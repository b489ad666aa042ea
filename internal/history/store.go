// Package history persists verdict reports in Redis so repeated runs
// against the same target build up an inspectable record.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/Raizedd/compass/internal/report"
)

// recentLimit caps the per-target recent list.
const recentLimit = 100

type Store struct {
	rdb *redis.Client
}

func NewStore(addr, password string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Connected to Redis: %s", addr)

	return &Store{rdb: rdb}, nil
}

// Record stores the report under its run ID and pushes it onto the
// target's recent list.
func (s *Store) Record(ctx context.Context, r *report.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := s.rdb.Set(ctx, VerdictKey(r.RunID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	recentKey := RecentKey(r.Target)
	if err := s.rdb.LPush(ctx, recentKey, r.RunID).Err(); err != nil {
		return fmt.Errorf("failed to push recent entry: %w", err)
	}
	if err := s.rdb.LTrim(ctx, recentKey, 0, recentLimit-1).Err(); err != nil {
		return fmt.Errorf("failed to trim recent list: %w", err)
	}

	return nil
}

// Get fetches one report by run ID.
func (s *Store) Get(ctx context.Context, runID string) (*report.Report, error) {
	data, err := s.rdb.Get(ctx, VerdictKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &r, nil
}

// Recent returns up to n of the latest reports for a target, newest first.
func (s *Store) Recent(ctx context.Context, target string, n int) ([]*report.Report, error) {
	ids, err := s.rdb.LRange(ctx, RecentKey(target), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent runs: %w", err)
	}

	reports := make([]*report.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// GetClient exposes the underlying Redis client for diagnostics and
// test cleanup.
func (s *Store) GetClient() *redis.Client {
	return s.rdb
}

func VerdictKey(runID string) string {
	return fmt.Sprintf("verdict:%s", runID)
}

func RecentKey(target string) string {
	return fmt.Sprintf("verdicts:recent:%s", target)
}
