package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// HasherConfig holds the key-derivation parameters.
type HasherConfig struct {
	Iterations int    `env:"CRYPTO_ITERATIONS" envDefault:"100000"`
	KeyLength  int    `env:"CRYPTO_HASH_LENGTH" envDefault:"64"`
	Algorithm  string `env:"CRYPTO_HASH_ALGORITHM" envDefault:"sha512"`
	SaltLength int    `env:"CRYPTO_SALT_LENGTH" envDefault:"16"`
}

var digests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// CredentialHasher derives and verifies salted PBKDF2 password hashes.
// Both salts and hashes are hex encoded.
type CredentialHasher struct {
	cfg    HasherConfig
	digest func() hash.Hash
}

// NewCredentialHasher validates cfg and returns a ready hasher.
func NewCredentialHasher(cfg HasherConfig) (*CredentialHasher, error) {
	digest, ok := digests[strings.ToLower(cfg.Algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDigest, cfg.Algorithm)
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", ErrInvalidHasherConf)
	}
	if cfg.KeyLength <= 0 {
		return nil, fmt.Errorf("%w: key length must be positive", ErrInvalidHasherConf)
	}
	if cfg.SaltLength <= 0 {
		return nil, fmt.Errorf("%w: salt length must be positive", ErrInvalidHasherConf)
	}

	return &CredentialHasher{cfg: cfg, digest: digest}, nil
}

// GenerateSalt returns SaltLength random bytes, hex encoded.
func (h *CredentialHasher) GenerateSalt() (string, error) {
	b := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Derive computes the hex encoded PBKDF2 hash of password with salt.
func (h *CredentialHasher) Derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), h.cfg.Iterations, h.cfg.KeyLength, h.digest)
	return hex.EncodeToString(key)
}

// Verify recomputes the hash and compares it in constant time.
func (h *CredentialHasher) Verify(password, salt, expectedHash string) bool {
	if salt == "" || expectedHash == "" {
		return false
	}
	actual := h.Derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHash)) == 1
}
