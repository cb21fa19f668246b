package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// AES-256 key length
	keyLength = 32
	// sealedPrefix marks values produced by Seal so plaintext written before
	// sealing was enabled can still be read.
	sealedPrefix = "enc:v1:"
)

// ErrMalformed is returned when a sealed value cannot be opened.
var ErrMalformed = errors.New("crypto: malformed sealed value")

// FieldCipher seals short personal identifiers (RUT, phone) with AES-256-GCM
// before they are written to the store. A nil *FieldCipher passes values
// through unchanged.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher creates a FieldCipher from a 32-byte key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid key length: must be %d bytes for AES-256", keyLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// KeyFromBase64 decodes a standard base64 key as found in ENCRYPTION_KEY.
func KeyFromBase64(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid key length: got %d bytes, want %d", len(key), keyLength)
	}
	return key, nil
}

// Seal encrypts plainText and returns "enc:v1:" + base64(nonce|ciphertext).
// Empty strings and already sealed values are returned as is.
func (c *FieldCipher) Seal(plainText string) (string, error) {
	if c == nil || plainText == "" || IsSealed(plainText) {
		return plainText, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plainText), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the sealed prefix are returned as is.
func (c *FieldCipher) Open(value string) (string, error) {
	if c == nil || !IsSealed(value) {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n := c.aead.NonceSize()
	if len(raw) < n+c.aead.Overhead() {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}
	plain, err := c.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(plain), nil
}

// SealPtr and OpenPtr apply Seal and Open to optional fields.
func (c *FieldCipher) SealPtr(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := c.Seal(*v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *FieldCipher) OpenPtr(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := c.Open(*v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IsSealed reports whether value was produced by Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}
