// Package dataservice provides adapters exposing a live database through
// the connect / instance / disconnect surface the verifier drives.
package dataservice

import (
	"context"
	"errors"
)

// DataService is the narrow surface every database adapter implements.
//
// Connect establishes the connection and reports the outcome through
// notify. Adapters call notify exactly once per Connect; the verifier
// counts invocations, so a misbehaving adapter that fires twice is
// detected rather than silently tolerated.
type DataService interface {
	Connect(ctx context.Context, notify func(error))
	Instance(ctx context.Context) (*InstanceMetadata, error)
	Disconnect(ctx context.Context) error
}

var (
	// ErrNotConnected - Instance or Disconnect called before a successful Connect.
	ErrNotConnected = errors.New("dataservice: not connected to database")

	// ErrUnsupportedKind - no adapter registered for the requested database kind.
	ErrUnsupportedKind = errors.New("dataservice: unsupported database kind")
)
