package audit

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/ahmetcoskunkizilkaya/resto-backend/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDetailsCleartextWithoutKey(t *testing.T) {
	s := &DBSink{}

	raw, err := s.encodeDetails(map[string]any{"plan_id": "pro"})
	require.NoError(t, err)

	var details map[string]any
	require.NoError(t, json.Unmarshal(raw, &details))
	assert.Equal(t, "pro", details["plan_id"])
}

func TestEncodeDetailsSealedWithKey(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	s := &DBSink{key: key}

	raw, err := s.encodeDetails(map[string]any{"email": "owner@acme.example.com"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "owner@acme.example.com", "details must not persist in cleartext")

	var env encryptedDetails
	require.NoError(t, json.Unmarshal(raw, &env))
	sealed, err := base64.StdEncoding.DecodeString(env.Enc)
	require.NoError(t, err)

	plain, err := security.Decrypt(sealed, key)
	require.NoError(t, err)
	var details map[string]any
	require.NoError(t, json.Unmarshal(plain, &details))
	assert.Equal(t, "owner@acme.example.com", details["email"])

	// the wrong key never opens the envelope
	other := make([]byte, 32)
	_, err = security.Decrypt(sealed, other)
	assert.ErrorIs(t, err, security.ErrDecryptionFailed)
}
