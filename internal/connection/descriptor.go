// Package connection builds connection descriptors and derives the
// driver connection string for each supported database kind.
package connection

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Supported database kinds.
const (
	KindMongoDB  = "mongodb"
	KindPostgres = "postgres"
	KindMySQL    = "mysql"
)

var (
	ErrMissingHostname = errors.New("connection: hostname is required")
	ErrInvalidPort     = errors.New("connection: port must be between 1 and 65535")
	ErrUnsupportedKind = errors.New("connection: unsupported database kind")
)

// Options carries the user-supplied pieces of a connection target.
type Options struct {
	Kind     string
	Hostname string
	Port     int
	Username string
	Password string
	Database string
	TLS      bool
}

// Descriptor is an immutable connection target. Build one with
// NewDescriptor; there is no way to mutate it afterwards.
type Descriptor struct {
	kind     string
	hostname string
	port     int
	username string
	password string
	database string
	tls      bool
}

// NewDescriptor validates opts and freezes them into a Descriptor.
func NewDescriptor(opts Options) (*Descriptor, error) {
	if opts.Hostname == "" {
		return nil, ErrMissingHostname
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, ErrInvalidPort
	}

	switch opts.Kind {
	case KindMongoDB, KindPostgres, KindMySQL:
	case "postgresql":
		opts.Kind = KindPostgres
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, opts.Kind)
	}

	return &Descriptor{
		kind:     opts.Kind,
		hostname: opts.Hostname,
		port:     opts.Port,
		username: opts.Username,
		password: opts.Password,
		database: opts.Database,
		tls:      opts.TLS,
	}, nil
}

func (d *Descriptor) Kind() string     { return d.kind }
func (d *Descriptor) Hostname() string { return d.hostname }
func (d *Descriptor) Port() int        { return d.port }
func (d *Descriptor) Database() string { return d.database }
func (d *Descriptor) TLS() bool        { return d.tls }

// Address returns the "hostname:port" form used as the instance identity.
func (d *Descriptor) Address() string {
	return net.JoinHostPort(d.hostname, strconv.Itoa(d.port))
}

// DriverURL derives the connection string the driver for this kind expects.
func (d *Descriptor) DriverURL() string {
	switch d.kind {
	case KindMongoDB:
		return d.mongoURL()
	case KindPostgres:
		return d.postgresURL()
	case KindMySQL:
		return d.mysqlDSN()
	}
	return ""
}

func (d *Descriptor) mongoURL() string {
	u := &url.URL{
		Scheme: "mongodb",
		Host:   d.Address(),
		Path:   "/" + d.database,
	}
	if d.username != "" {
		u.User = url.UserPassword(d.username, d.password)
	}

	q := url.Values{}
	q.Set("directConnection", "true")
	if d.tls {
		q.Set("tls", "true")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func (d *Descriptor) postgresURL() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   d.Address(),
		Path:   "/" + d.database,
	}
	if d.username != "" {
		u.User = url.UserPassword(d.username, d.password)
	}

	q := url.Values{}
	if d.tls {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// mysqlDSN builds the go-sql-driver DSN form: user:pass@tcp(host:port)/db.
func (d *Descriptor) mysqlDSN() string {
	cred := ""
	if d.username != "" {
		cred = d.username
		if d.password != "" {
			cred += ":" + d.password
		}
		cred += "@"
	}

	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, d.Address(), d.database)
	if d.tls {
		dsn += "?tls=true"
	}
	return dsn
}
