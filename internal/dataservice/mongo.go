package dataservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Raizedd/compass/internal/connection"
)

// MongoService drives a MongoDB deployment through the official driver.
// The client field is mutex-guarded: a connect attempt that outlives its
// wait budget finishes on another goroutine than the cleanup disconnect.
type MongoService struct {
	desc *connection.Descriptor

	mu     sync.Mutex
	client *mongo.Client
}

func NewMongoService(desc *connection.Descriptor) *MongoService {
	return &MongoService{desc: desc}
}

func (s *MongoService) Connect(ctx context.Context, notify func(error)) {
	notify(s.connect(ctx))
}

func (s *MongoService) connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(s.desc.DriverURL()).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to reach server: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	return nil
}

func (s *MongoService) Instance(ctx context.Context) (*InstanceMetadata, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return nil, ErrNotConnected
	}

	admin := client.Database("admin")

	hello, err := admin.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Raw()
	if err != nil {
		return nil, fmt.Errorf("hello command failed: %w", err)
	}

	buildInfo, err := admin.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Raw()
	if err != nil {
		return nil, fmt.Errorf("buildInfo command failed: %w", err)
	}

	meta := &InstanceMetadata{
		ID:       s.desc.Address(),
		Writable: rawBool(hello, "isWritablePrimary") || rawBool(hello, "ismaster"),
		Mongos:   rawString(hello, "msg") == "isdbgrid",
		Version:  rawString(buildInfo, "version"),
		Genuine:  isGenuineMongoDB(hello, buildInfo),
		DataLake: rawHas(buildInfo, "dataLake"),
	}
	meta.TopologyRole = topologyRole(hello, meta.Mongos)

	// hostInfo needs clusterMonitor on hardened deployments; missing host
	// facts are not a fetch failure.
	if hostInfo, err := admin.RunCommand(ctx, bson.D{{Key: "hostInfo", Value: 1}}).Raw(); err == nil {
		meta.Host.OS = rawString(hostInfo, "os", "type")
		meta.Host.Hostname = rawString(hostInfo, "system", "hostname")
		meta.Host.Arch = rawString(hostInfo, "system", "cpuArch")
	}

	return meta, nil
}

func (s *MongoService) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()
	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// isGenuineMongoDB spots wire-compatible imitations: CosmosDB responses
// carry a "_t" discriminator, DocumentDB advertises itself in buildInfo.
func isGenuineMongoDB(hello, buildInfo bson.Raw) bool {
	if rawHas(hello, "_t") || rawHas(buildInfo, "_t") {
		return false
	}
	if rawHas(buildInfo, "documentdb") {
		return false
	}
	return true
}

func topologyRole(hello bson.Raw, mongos bool) string {
	switch {
	case mongos:
		return "mongos"
	case rawString(hello, "setName") == "":
		return "standalone"
	case rawBool(hello, "isWritablePrimary") || rawBool(hello, "ismaster"):
		return "primary"
	case rawBool(hello, "secondary"):
		return "secondary"
	default:
		return "other"
	}
}

func rawBool(doc bson.Raw, path ...string) bool {
	v, err := doc.LookupErr(path...)
	if err != nil {
		return false
	}
	b, ok := v.BooleanOK()
	return ok && b
}

func rawString(doc bson.Raw, path ...string) string {
	v, err := doc.LookupErr(path...)
	if err != nil {
		return ""
	}
	s, _ := v.StringValueOK()
	return s
}

func rawHas(doc bson.Raw, path ...string) bool {
	_, err := doc.LookupErr(path...)
	return err == nil
}
