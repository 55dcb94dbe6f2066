package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTripsInception(t *testing.T) {
	icp, err := NewInception(validInceptionParams())
	require.NoError(t, err)
	b, err := icp.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, TypeInception, parsed.Type())
	assert.Equal(t, icp.SAID(), parsed.SAID())
}

func TestParseRejectsDelegatedTypes(t *testing.T) {
	_, err := Parse([]byte(`{"v":"KERI10JSON000000_","t":"dip"}`))
	require.Error(t, err)
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse([]byte(`{"v":"KERI10JSON000000_","t":"bogus"}`))
	require.Error(t, err)
}

func TestEqualDetectsIdenticalAndDifferentEvents(t *testing.T) {
	icp, err := NewInception(validInceptionParams())
	require.NoError(t, err)

	same, err := Equal(icp, icp)
	require.NoError(t, err)
	assert.True(t, same)

	ixn, err := NewInteraction(validInteractionParams())
	require.NoError(t, err)

	diff, err := Equal(icp, ixn)
	require.NoError(t, err)
	assert.False(t, diff)
}
