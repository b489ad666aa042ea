// Package fixture loads expected-instance fixtures and compares them
// against fetched instance metadata. Only fields present in the fixture
// are checked: absent fields pass unconditionally, which keeps fixtures
// usable across server versions and host platforms.
package fixture

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Raizedd/compass/internal/dataservice"
)

// Fixture is a partial InstanceMetadata used as the comparison oracle.
// Pointer fields distinguish "must equal false" from "not checked".
type Fixture struct {
	ID     string        `yaml:"id,omitempty"`
	Client *ClientFacts  `yaml:"client,omitempty"`
	Build  *BuildFacts   `yaml:"build,omitempty"`
	Host   *HostPatterns `yaml:"host,omitempty"`

	Genuine  *bool `yaml:"genuine,omitempty"`
	DataLake *bool `yaml:"data_lake,omitempty"`
}

type ClientFacts struct {
	Writable *bool `yaml:"writable,omitempty"`
	Mongos   *bool `yaml:"mongos,omitempty"`
}

type BuildFacts struct {
	// Version is a pattern: interpreted as a regular expression, or as a
	// plain substring when it does not compile.
	Version string `yaml:"version,omitempty"`
}

type HostPatterns struct {
	OS       string `yaml:"os,omitempty"`
	Arch     string `yaml:"arch,omitempty"`
	Hostname string `yaml:"hostname,omitempty"`
}

// Mismatch records one fixture field the metadata failed to satisfy.
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %q, got %q", m.Field, m.Expected, m.Actual)
}

// Load reads a fixture from a YAML file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	return &f, nil
}

// Match compares meta against the fixture field by field and returns
// every mismatch found. An empty slice means the metadata satisfies the
// fixture.
func (f *Fixture) Match(meta *dataservice.InstanceMetadata) []Mismatch {
	var mismatches []Mismatch

	check := func(field, expected, actual string) {
		if expected != "" && expected != actual {
			mismatches = append(mismatches, Mismatch{field, expected, actual})
		}
	}
	checkBool := func(field string, expected *bool, actual bool) {
		if expected != nil && *expected != actual {
			mismatches = append(mismatches, Mismatch{
				field, fmt.Sprintf("%t", *expected), fmt.Sprintf("%t", actual),
			})
		}
	}
	checkPattern := func(field, pattern, actual string) {
		if pattern != "" && !matchPattern(pattern, actual) {
			mismatches = append(mismatches, Mismatch{field, pattern, actual})
		}
	}

	check("id", f.ID, meta.ID)
	checkBool("genuine", f.Genuine, meta.Genuine)
	checkBool("data_lake", f.DataLake, meta.DataLake)

	if f.Client != nil {
		checkBool("client.writable", f.Client.Writable, meta.Writable)
		checkBool("client.mongos", f.Client.Mongos, meta.Mongos)
	}

	if f.Build != nil {
		checkPattern("build.version", f.Build.Version, meta.Version)
	}

	if f.Host != nil {
		checkPattern("host.os", f.Host.OS, meta.Host.OS)
		checkPattern("host.arch", f.Host.Arch, meta.Host.Arch)
		checkPattern("host.hostname", f.Host.Hostname, meta.Host.Hostname)
	}

	return mismatches
}

// matchPattern treats pattern as a regular expression, falling back to a
// case-insensitive substring test when it does not compile.
func matchPattern(pattern, s string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
	}
	return re.MatchString(s)
}
