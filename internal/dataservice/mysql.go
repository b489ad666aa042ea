package dataservice

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"

	"github.com/Raizedd/compass/internal/connection"
)

// MySQLService drives a MySQL server through database/sql. The db field
// is mutex-guarded against a connect attempt finishing concurrently with
// the cleanup disconnect.
type MySQLService struct {
	desc *connection.Descriptor

	mu sync.Mutex
	db *sql.DB
}

func NewMySQLService(desc *connection.Descriptor) *MySQLService {
	return &MySQLService{desc: desc}
}

func (s *MySQLService) Connect(ctx context.Context, notify func(error)) {
	notify(s.connect(ctx))
}

func (s *MySQLService) connect(ctx context.Context) error {
	db, err := sql.Open("mysql", s.desc.DriverURL())
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to reach server: %w", err)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	return nil
}

func (s *MySQLService) Instance(ctx context.Context) (*InstanceMetadata, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, ErrNotConnected
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}

	var readOnly int
	if err := db.QueryRowContext(ctx, "SELECT @@global.read_only").Scan(&readOnly); err != nil {
		return nil, fmt.Errorf("failed to read read_only flag: %w", err)
	}

	role := "primary"
	if readOnly != 0 {
		role = "replica"
	}

	return &InstanceMetadata{
		ID:           s.desc.Address(),
		Writable:     readOnly == 0,
		TopologyRole: role,
		Version:      version,
		Genuine:      true,
	}, nil
}

func (s *MySQLService) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()
	if db == nil {
		return nil
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}
