package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Cypher handles the API-key credential material. An API key decodes to the
// owning partner id, but only under the partner's secret; the transported
// form is additionally encrypted under the service key so raw key material
// never appears on the wire.
type Cypher struct {
	key []byte
}

// NewCypher derives a 256-bit service key from the configured passphrase
func NewCypher(passphrase string) *Cypher {
	sum := sha256.Sum256([]byte(passphrase))
	return &Cypher{key: sum[:]}
}

// EncryptString encrypts plaintext under the service key
func (c *Cypher) EncryptString(plaintext string) (string, error) {
	return seal(c.key, plaintext)
}

// DecryptString decrypts ciphertext produced by EncryptString
func (c *Cypher) DecryptString(ciphertext string) (string, error) {
	return open(c.key, ciphertext)
}

// GenerateAPIKeyPair creates a fresh secret and the matching API key for a
// partner. The returned apiKey is the transport form (inner key encrypted
// under the service key); the secret is the raw value the partner presents
// in the x-api-secret header.
func (c *Cypher) GenerateAPIKeyPair(partnerID string) (apiKey, secret string, err error) {
	raw := make([]byte, 16)
	if _, err = rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate secret: %w", err)
	}
	secret = hex.EncodeToString(raw)

	inner, err := seal(deriveKey(secret), partnerID)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode api key: %w", err)
	}

	apiKey, err = c.EncryptString(inner)
	if err != nil {
		return "", "", fmt.Errorf("failed to encrypt api key: %w", err)
	}

	return apiKey, secret, nil
}

// DecodeAPIKey recovers the partner id from the inner api key form using the
// partner secret. The caller must first strip the transport layer with
// DecryptString.
func (c *Cypher) DecodeAPIKey(innerKey, secret string) (string, error) {
	partnerID, err := open(deriveKey(secret), innerKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode api key: %w", err)
	}
	return partnerID, nil
}

func deriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// seal encrypts with AES-256-GCM, nonce prepended, base64 encoded
func seal(key []byte, plaintext string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func open(key []byte, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
