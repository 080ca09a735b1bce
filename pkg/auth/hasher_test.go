package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher(t *testing.T) *CredentialHasher {
	t.Helper()
	h, err := NewCredentialHasher(HasherConfig{Iterations: 10, KeyLength: 32, Algorithm: "sha256", SaltLength: 16})
	require.NoError(t, err)
	return h
}

func TestNewCredentialHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     HasherConfig
		wantErr error
	}{
		{"valid", HasherConfig{Iterations: 1, KeyLength: 16, Algorithm: "SHA512", SaltLength: 8}, nil},
		{"unknown digest", HasherConfig{Iterations: 1, KeyLength: 16, Algorithm: "md5", SaltLength: 8}, ErrUnsupportedDigest},
		{"zero iterations", HasherConfig{KeyLength: 16, Algorithm: "sha1", SaltLength: 8}, ErrInvalidHasherConf},
		{"zero key length", HasherConfig{Iterations: 1, Algorithm: "sha1", SaltLength: 8}, ErrInvalidHasherConf},
		{"zero salt length", HasherConfig{Iterations: 1, KeyLength: 16, Algorithm: "sha1"}, ErrInvalidHasherConf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := NewCredentialHasher(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestCredentialHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"sha1", "sha256", "sha384", "sha512"} {
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			h, err := NewCredentialHasher(HasherConfig{Iterations: 50, KeyLength: 64, Algorithm: alg, SaltLength: 16})
			require.NoError(t, err)

			salt, err := h.GenerateSalt()
			require.NoError(t, err)
			assert.Len(t, salt, 32)

			hash := h.Derive("secret1", salt)
			assert.Len(t, hash, 128)
			assert.Equal(t, hash, h.Derive("secret1", salt))

			assert.True(t, h.Verify("secret1", salt, hash))
			assert.False(t, h.Verify("secret2", salt, hash))

			otherSalt, err := h.GenerateSalt()
			require.NoError(t, err)
			assert.NotEqual(t, salt, otherSalt)
			assert.False(t, h.Verify("secret1", otherSalt, hash))
		})
	}
}

func TestCredentialHasher_VerifyEmptyInputs(t *testing.T) {
	t.Parallel()

	h := testHasher(t)
	hash := h.Derive("", "")

	assert.False(t, h.Verify("", "", hash))
	assert.False(t, h.Verify("pw", "salt", ""))
}
