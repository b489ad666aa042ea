package provisioner

import (
	"github.com/docker/go-connections/nat"
)

// Profile describes one named topology a test group can be run against.
type Profile struct {
	ID            string
	Kind          string
	Image         string
	ContainerPort nat.Port
	HostPort      string
	Cmd           []string
	Env           []string
}

var profiles = map[string]Profile{
	"standalone": {
		ID:            "standalone",
		Kind:          "mongodb",
		Image:         "mongo:4.4",
		ContainerPort: "27017/tcp",
		HostPort:      "27020",
	},
	"standalone-postgres": {
		ID:            "standalone-postgres",
		Kind:          "postgres",
		Image:         "postgres:16-alpine",
		ContainerPort: "5432/tcp",
		HostPort:      "5440",
		Env:           []string{"POSTGRES_PASSWORD=verifier", "POSTGRES_USER=verifier"},
	},
	"standalone-mysql": {
		ID:            "standalone-mysql",
		Kind:          "mysql",
		Image:         "mysql:8",
		ContainerPort: "3306/tcp",
		HostPort:      "3320",
		Env:           []string{"MYSQL_ROOT_PASSWORD=verifier"},
	},
}

// LookupProfile returns the named profile.
func LookupProfile(id string) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

// ProfileIDs lists the known profile names, for error messages.
func ProfileIDs() []string {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	return ids
}
