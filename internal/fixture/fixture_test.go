package fixture_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raizedd/compass/internal/dataservice"
	"github.com/Raizedd/compass/internal/fixture"
)

func boolPtr(v bool) *bool { return &v }

func standaloneMeta() *dataservice.InstanceMetadata {
	return &dataservice.InstanceMetadata{
		ID:           "localhost:27020",
		Writable:     true,
		Mongos:       false,
		TopologyRole: "standalone",
		Version:      "4.4.6",
		Host:         dataservice.HostFacts{OS: "Ubuntu", Arch: "x86_64"},
		Genuine:      true,
	}
}

func TestMatch_StandaloneScenario(t *testing.T) {
	f := &fixture.Fixture{
		ID: "localhost:27020",
		Client: &fixture.ClientFacts{
			Writable: boolPtr(true),
			Mongos:   boolPtr(false),
		},
		Build: &fixture.BuildFacts{Version: `4\.4\.[1-9]+$`},
	}

	assert.Empty(t, f.Match(standaloneMeta()))
}

func TestMatch_VersionPatternRejected(t *testing.T) {
	f := &fixture.Fixture{
		Build: &fixture.BuildFacts{Version: `4\.4\.[1-9]+$`},
	}

	meta := standaloneMeta()
	meta.Version = "4.4.0"

	mismatches := f.Match(meta)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "build.version", mismatches[0].Field)
	assert.Equal(t, "4.4.0", mismatches[0].Actual)
}

func TestMatch_AbsentFieldsNotChecked(t *testing.T) {
	// Only the id is specified; everything else passes regardless.
	f := &fixture.Fixture{ID: "localhost:27020"}

	meta := standaloneMeta()
	meta.Writable = false
	meta.Version = "9.9.9"

	assert.Empty(t, f.Match(meta))
}

func TestMatch_FalseIsStillChecked(t *testing.T) {
	// A pointer set to false is a real expectation, not an absent field.
	f := &fixture.Fixture{
		Client: &fixture.ClientFacts{Mongos: boolPtr(false)},
	}

	meta := standaloneMeta()
	meta.Mongos = true

	mismatches := f.Match(meta)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "client.mongos", mismatches[0].Field)
	assert.Equal(t, "false", mismatches[0].Expected)
	assert.Equal(t, "true", mismatches[0].Actual)
}

func TestMatch_IDMismatch(t *testing.T) {
	f := &fixture.Fixture{ID: "localhost:27017"}

	mismatches := f.Match(standaloneMeta())
	require.Len(t, mismatches, 1)
	assert.Equal(t, "id", mismatches[0].Field)
	assert.Equal(t, "localhost:27017", mismatches[0].Expected)
	assert.Equal(t, "localhost:27020", mismatches[0].Actual)
}

func TestMatch_HostPattern(t *testing.T) {
	f := &fixture.Fixture{
		Host: &fixture.HostPatterns{OS: "(?i)ubuntu"},
	}

	assert.Empty(t, f.Match(standaloneMeta()))
}

func TestMatch_InvalidRegexFallsBackToSubstring(t *testing.T) {
	// "Ubuntu (" does not compile as a regex; a case-insensitive
	// substring check applies instead.
	f := &fixture.Fixture{
		Host: &fixture.HostPatterns{OS: "ubuntu ("},
	}

	meta := standaloneMeta()
	meta.Host.OS = "Ubuntu (22.04)"

	assert.Empty(t, f.Match(meta))
}

func TestMatch_GenuineFlag(t *testing.T) {
	f := &fixture.Fixture{Genuine: boolPtr(true)}

	meta := standaloneMeta()
	meta.Genuine = false

	mismatches := f.Match(meta)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "genuine", mismatches[0].Field)
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standalone.yaml")
	content := `
id: localhost:27020
client:
  writable: true
  mongos: false
build:
  version: '4\.4\.[1-9]+$'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := fixture.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:27020", f.ID)
	require.NotNil(t, f.Client)
	require.NotNil(t, f.Client.Writable)
	assert.True(t, *f.Client.Writable)
	require.NotNil(t, f.Client.Mongos)
	assert.False(t, *f.Client.Mongos)
	require.NotNil(t, f.Build)
	assert.Equal(t, `4\.4\.[1-9]+$`, f.Build.Version)

	assert.Empty(t, f.Match(standaloneMeta()))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := fixture.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
