package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfIsDeterministic(t *testing.T) {
	a, err := Of([]byte("hello"))
	require.NoError(t, err)
	b, err := Of([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, a.QB64(), b.QB64())
	assert.Equal(t, "E", a.QB64()[:1])
}

func TestOfDiffersOnInput(t *testing.T) {
	a, err := Of([]byte("hello"))
	require.NoError(t, err)
	b, err := Of([]byte("world"))
	require.NoError(t, err)
	assert.NotEqual(t, a.QB64(), b.QB64())
}

func TestFromQB64RoundTrip(t *testing.T) {
	d, err := Of([]byte("round trip"))
	require.NoError(t, err)
	parsed, err := FromQB64(d.QB64())
	require.NoError(t, err)
	assert.Equal(t, d.QB64(), parsed.QB64())
}

func TestVerify(t *testing.T) {
	d, err := Of([]byte("verify me"))
	require.NoError(t, err)

	ok, err := Verify(d, []byte("verify me"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(d, []byte("not the same data"))
	require.NoError(t, err)
	assert.False(t, ok)
}
