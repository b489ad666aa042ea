package dataservice

import (
	"github.com/Raizedd/compass/internal/connection"
)

// New returns the adapter matching the descriptor's database kind.
func New(desc *connection.Descriptor) (DataService, error) {
	switch desc.Kind() {
	case connection.KindMongoDB:
		return NewMongoService(desc), nil
	case connection.KindPostgres:
		return NewPostgresService(desc), nil
	case connection.KindMySQL:
		return NewMySQLService(desc), nil
	default:
		return nil, ErrUnsupportedKind
	}
}
