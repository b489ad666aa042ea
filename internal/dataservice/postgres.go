package dataservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Raizedd/compass/internal/connection"
)

// PostgresService drives a PostgreSQL server through pgx. The pool field
// is mutex-guarded against a connect attempt finishing concurrently with
// the cleanup disconnect.
type PostgresService struct {
	desc *connection.Descriptor

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewPostgresService(desc *connection.Descriptor) *PostgresService {
	return &PostgresService{desc: desc}
}

func (s *PostgresService) Connect(ctx context.Context, notify func(error)) {
	notify(s.connect(ctx))
}

func (s *PostgresService) connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.desc.DriverURL())
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to reach server: %w", err)
	}

	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()
	return nil
}

func (s *PostgresService) Instance(ctx context.Context) (*InstanceMetadata, error) {
	s.mu.Lock()
	pool := s.pool
	s.mu.Unlock()
	if pool == nil {
		return nil, ErrNotConnected
	}

	var version string
	if err := pool.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}

	var inRecovery bool
	if err := pool.QueryRow(ctx, "SELECT pg_is_in_recovery()").Scan(&inRecovery); err != nil {
		return nil, fmt.Errorf("failed to read recovery state: %w", err)
	}

	role := "primary"
	if inRecovery {
		role = "replica"
	}

	return &InstanceMetadata{
		ID:           s.desc.Address(),
		Writable:     !inRecovery,
		TopologyRole: role,
		Version:      version,
		Genuine:      true,
	}, nil
}

func (s *PostgresService) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	pool := s.pool
	s.pool = nil
	s.mu.Unlock()
	if pool == nil {
		return nil
	}

	pool.Close()
	return nil
}
