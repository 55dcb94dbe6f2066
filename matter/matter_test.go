package matter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromRawRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x01}, 32)
	m, err := NewFromRaw(CodeEd25519Seed, raw)
	require.NoError(t, err)
	assert.Equal(t, CodeEd25519Seed, m.Code())
	assert.Len(t, m.QB64(), 44)
	assert.True(t, bytes.Equal(raw, m.Raw()))

	decoded, err := DecodeQB64(m.QB64())
	require.NoError(t, err)
	assert.Equal(t, m.Code(), decoded.Code())
	assert.True(t, bytes.Equal(m.Raw(), decoded.Raw()))
}

func TestNewFromRawWrongSize(t *testing.T) {
	_, err := NewFromRaw(CodeEd25519Seed, []byte{0x01, 0x02})
	require.Error(t, err)
}

func TestDecodeQB64UnknownCode(t *testing.T) {
	_, err := DecodeQB64("Z" + string(bytes.Repeat([]byte{'a'}, 43)))
	require.Error(t, err)
}

func TestDecodeQB64Empty(t *testing.T) {
	_, err := DecodeQB64("")
	require.Error(t, err)
}

func TestSignatureCodeSizing(t *testing.T) {
	raw := bytes.Repeat([]byte{0xAB}, 64)
	m, err := NewFromRaw(CodeEd25519Sig, raw)
	require.NoError(t, err)
	assert.Len(t, m.QB64(), 88)
	assert.Equal(t, "0B", string(m.Code()))
}

func TestBytesIsCodePlusRaw(t *testing.T) {
	raw := bytes.Repeat([]byte{0x02}, 32)
	m, err := NewFromRaw(CodeBlake3_256, raw)
	require.NoError(t, err)
	b := m.Bytes()
	assert.Equal(t, "E", string(b[:1]))
	assert.True(t, bytes.Equal(raw, b[1:]))
}
