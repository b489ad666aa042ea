package dataservice

// HostFacts describes the operating system of the remote server, as far
// as the adapter can discover it. Fields the server refuses to report
// (for example hostInfo without clusterMonitor rights) stay empty.
type HostFacts struct {
	OS       string `json:"os,omitempty"`
	Arch     string `json:"arch,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

// InstanceMetadata is a read-only snapshot of the remote server taken
// immediately after a successful connect. It is compared against an
// expected fixture and then discarded.
type InstanceMetadata struct {
	// ID is the instance identity in "hostname:port" form.
	ID string `json:"id"`

	Writable     bool   `json:"writable"`
	Mongos       bool   `json:"mongos"`
	TopologyRole string `json:"topology_role"`
	Version      string `json:"version"`

	Host HostFacts `json:"host"`

	// Genuine is false when the server advertises itself as a
	// wire-compatible imitation (CosmosDB, DocumentDB).
	Genuine bool `json:"genuine"`

	// DataLake is true for managed data-lake frontends.
	DataLake bool `json:"data_lake"`
}
