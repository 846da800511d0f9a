package security

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(0x11)

	inputs := [][]byte{
		[]byte("hello"),
		[]byte(""),
		[]byte("a much longer plaintext with unicode: café — 東京"),
		{0x00, 0xff, 0x00, 0xff},
	}
	for _, plaintext := range inputs {
		ciphertext, err := Encrypt(plaintext, key)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := Decrypt(ciphertext, key)
		require.NoError(t, err)
		assert.Equal(t, len(plaintext), len(decrypted))
		assert.True(t, bytes.Equal(plaintext, decrypted))
	}
}

func TestEncryptNonceUnique(t *testing.T) {
	key := testKey(0x22)
	a, err := Encrypt([]byte("same input"), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same input"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptWrongKey(t *testing.T) {
	ciphertext, err := Encrypt([]byte("secret"), testKey(0x11))
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, testKey(0x12))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptTampered(t *testing.T) {
	key := testKey(0x11)
	ciphertext, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	ciphertext[len(ciphertext)-1] ^= 0x01
	_, err = Decrypt(ciphertext, key)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptTruncated(t *testing.T) {
	_, err := Decrypt([]byte("short"), testKey(0x11))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptBadKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("x"), []byte("too-short"))
	assert.Error(t, err)
}
