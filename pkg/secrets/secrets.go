package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the master key length in bytes.
const KeySize = 32

// Config holds the base64 encoded master key.
type Config struct {
	Key string `env:"SECRETS_KEY"`
}

// Cipher seals and opens values for a single purpose.
type Cipher struct {
	aead cipher.AEAD
}

// New derives the purpose key from masterKey.
func New(masterKey []byte, purpose string) (*Cipher, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}

	key := make([]byte, KeySize)
	defer clear(key)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte("authkit/"+purpose)), key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return &Cipher{aead: aead}, nil
}

// NewFromConfig decodes cfg.Key, standard or URL-safe base64.
func NewFromConfig(cfg Config, purpose string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(cfg.Key)
	if err != nil {
		key, err = base64.RawURLEncoding.DecodeString(cfg.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	defer clear(key)
	return New(key, purpose)
}

// Encrypt returns nonce||ciphertext||tag.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n+c.aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	plaintext, err := c.aead.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// EncryptString seals s. The empty string stays empty.
func (c *Cipher) EncryptString(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	out, err := c.Encrypt([]byte(s))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (c *Cipher) DecryptString(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}
	out, err := c.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateKey returns a random master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
