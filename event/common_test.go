package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersifyAndParseVersionSize(t *testing.T) {
	v := versify(123)
	assert.Equal(t, "KERI10JSON000123_", v)

	size, err := parseVersionSize(v)
	require.NoError(t, err)
	assert.Equal(t, 123, size)
}

func TestParseVersionSizeRejectsMalformed(t *testing.T) {
	_, err := parseVersionSize("KERI10JSON12_")
	require.Error(t, err)

	_, err = parseVersionSize("NOTKERI000123_")
	require.Error(t, err)
}

func TestParseThresholdInceptionIsDecimal(t *testing.T) {
	n, err := ParseThreshold(TypeInception, "10")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestParseThresholdRotationIsHex(t *testing.T) {
	n, err := ParseThreshold(TypeRotation, "a")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestComputeCommitmentSortsKeys(t *testing.T) {
	a, err := ComputeCommitment([]string{"Dbbb", "Daaa"}, 1)
	require.NoError(t, err)
	b, err := ComputeCommitment([]string{"Daaa", "Dbbb"}, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeCommitmentVariesWithThreshold(t *testing.T) {
	a, err := ComputeCommitment([]string{"Daaa"}, 1)
	require.NoError(t, err)
	b, err := ComputeCommitment([]string{"Daaa"}, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAmple(t *testing.T) {
	assert.Equal(t, 1, Ample(1))
	assert.Equal(t, 2, Ample(2))
	assert.Equal(t, 2, Ample(3))
	assert.Equal(t, 3, Ample(4))
}
