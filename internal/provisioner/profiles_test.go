package provisioner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raizedd/compass/internal/provisioner"
)

func TestLookupProfile_Standalone(t *testing.T) {
	p, ok := provisioner.LookupProfile("standalone")

	require.True(t, ok)
	assert.Equal(t, "mongodb", p.Kind)
	assert.Equal(t, "mongo:4.4", p.Image)
	assert.Equal(t, "27020", p.HostPort)
}

func TestLookupProfile_Unknown(t *testing.T) {
	_, ok := provisioner.LookupProfile("sharded-web-scale")

	assert.False(t, ok)
}

func TestProfileIDs_CoversAllKinds(t *testing.T) {
	ids := provisioner.ProfileIDs()

	assert.Len(t, ids, 3)

	kinds := map[string]bool{}
	for _, id := range ids {
		p, ok := provisioner.LookupProfile(id)
		require.True(t, ok)
		kinds[p.Kind] = true
	}
	assert.True(t, kinds["mongodb"])
	assert.True(t, kinds["postgres"])
	assert.True(t, kinds["mysql"])
}
