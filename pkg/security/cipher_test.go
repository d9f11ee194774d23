package security

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBox(t *testing.T) *CipherBox {
	t.Helper()
	key, _, err := GenerateKey()
	require.NoError(t, err)
	box, err := NewCipherBox(key)
	require.NoError(t, err)
	return box
}

func TestCipherBox_RoundTrip(t *testing.T) {
	box := newTestBox(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "name", plaintext: "Asha Rao"},
		{name: "email", plaintext: "asha@x.com"},
		{name: "unicode", plaintext: "Zoë Ñúñez 李"},
		{name: "long", plaintext: strings.Repeat("0123456789", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := box.Encrypt(tt.plaintext)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, sealed)

			opened, err := box.Decrypt(sealed)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, opened)
		})
	}
}

func TestCipherBox_EmptyString(t *testing.T) {
	box := newTestBox(t)

	sealed, err := box.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", sealed)

	opened, err := box.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", opened)
}

func TestCipherBox_NonceIsRandom(t *testing.T) {
	box := newTestBox(t)

	a, err := box.Encrypt("same input")
	require.NoError(t, err)
	b, err := box.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipherBox_DecryptFailures(t *testing.T) {
	box := newTestBox(t)
	other := newTestBox(t)

	foreign, err := other.Encrypt("sealed elsewhere")
	require.NoError(t, err)

	sealed, err := box.Encrypt("tamper me")
	require.NoError(t, err)
	blob, err := base64.RawURLEncoding.DecodeString(sealed)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xFF
	tampered := base64.RawURLEncoding.EncodeToString(blob)

	blob[0] = 0x7F
	wrongVersion := base64.RawURLEncoding.EncodeToString(blob)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "not base64", ciphertext: "@@@not-base64@@@"},
		{name: "too short", ciphertext: base64.RawURLEncoding.EncodeToString([]byte{sealedFieldVersion, 1, 2, 3})},
		{name: "wrong key", ciphertext: foreign},
		{name: "tampered tag", ciphertext: tampered},
		{name: "unknown version", ciphertext: wrongVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := box.Decrypt(tt.ciphertext)
			require.Error(t, err)

			var decErr *DecryptionError
			assert.True(t, errors.As(err, &decErr))
		})
	}
}

func TestNewCipherBox_RejectsShortKey(t *testing.T) {
	_, err := NewCipherBox([]byte("too short"))
	assert.Error(t, err)
}
