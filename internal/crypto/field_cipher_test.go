package crypto

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := NewFieldCipher(bytes.Repeat([]byte{7}, keyLength))
	require.NoError(t, err)
	return c
}

func TestSealOpenRoundTrip(t *testing.T) {
	c := testCipher(t)

	sealed, err := c.Seal("12.345.678-5")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "12.345.678-5")

	again, err := c.Seal("12.345.678-5")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonces must differ")

	plain, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "12.345.678-5", plain)

	twice, err := c.Seal(sealed)
	require.NoError(t, err)
	assert.Equal(t, sealed, twice)
}

func TestOpenPassesPlaintextThrough(t *testing.T) {
	c := testCipher(t)
	plain, err := c.Open("12.345.678-5")
	require.NoError(t, err)
	assert.Equal(t, "12.345.678-5", plain)

	empty, err := c.Seal("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNilCipherIsIdentity(t *testing.T) {
	var c *FieldCipher
	s, err := c.Seal("1-9")
	require.NoError(t, err)
	assert.Equal(t, "1-9", s)

	p, err := c.OpenPtr(nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestOpenRejectsTampering(t *testing.T) {
	c := testCipher(t)
	sealed, err := c.Seal("1-9")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = c.Open(sealedPrefix + base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Open(sealedPrefix + "AAAA")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Open(sealedPrefix + "%%%")
	assert.ErrorIs(t, err, ErrMalformed)

	other, err := NewFieldCipher(bytes.Repeat([]byte{8}, keyLength))
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestKeyFromBase64(t *testing.T) {
	key := bytes.Repeat([]byte{1}, keyLength)
	got, err := KeyFromBase64(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = KeyFromBase64(base64.StdEncoding.EncodeToString(key[:16]))
	assert.Error(t, err)
	_, err = KeyFromBase64("not base64!")
	assert.Error(t, err)

	_, err = NewFieldCipher(key[:10])
	assert.Error(t, err)
}
