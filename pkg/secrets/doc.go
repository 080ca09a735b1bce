// Package secrets encrypts small values, such as third party access tokens,
// before they are persisted.
//
// A Cipher is AES-256-GCM under a key derived with HKDF-SHA256 from a master
// key and a purpose string, so one master key can serve unrelated uses
// without their ciphertexts being interchangeable:
//
//	c, err := secrets.NewFromConfig(cfg, "oauth-provider-tokens")
//	sealed, err := c.EncryptString(token)
//	token, err := c.DecryptString(sealed)
//
// Ciphertexts are nonce||ciphertext||tag, URL-safe base64 encoded by the
// string helpers.
package secrets
