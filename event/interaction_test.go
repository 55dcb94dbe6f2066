package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInteractionParams() InteractionParams {
	return InteractionParams{
		Prefix:      "Eprefixxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Sequence:    1,
		PriorDigest: "Epriorxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Anchors:     []Anchor{{"schema": "example"}},
	}
}

func TestNewInteractionCarriesAnchors(t *testing.T) {
	ixn, err := NewInteraction(validInteractionParams())
	require.NoError(t, err)
	assert.Len(t, ixn.Anchors(), 1)
	assert.Equal(t, "ixn", string(ixn.Type()))
}

func TestNewInteractionRejectsZeroSequence(t *testing.T) {
	p := validInteractionParams()
	p.Sequence = 0
	_, err := NewInteraction(p)
	require.Error(t, err)
}

func TestNewInteractionRejectsEmptyPrefix(t *testing.T) {
	p := validInteractionParams()
	p.Prefix = ""
	_, err := NewInteraction(p)
	require.Error(t, err)
}

func TestNewInteractionDefaultsNilAnchorsToEmptyList(t *testing.T) {
	p := validInteractionParams()
	p.Anchors = nil
	ixn, err := NewInteraction(p)
	require.NoError(t, err)
	assert.NotNil(t, ixn.Anchors())
	assert.Len(t, ixn.Anchors(), 0)
}
