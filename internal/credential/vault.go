package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	// KeySize is the required length of the encryption key (AES-256).
	KeySize = 32

	ivSize  = 16
	tagSize = 16
)

// Vault encrypts and decrypts stored Personal Access Tokens with
// AES-256-GCM. Envelopes have the form <ivHex>:<cipherHex>:<tagHex>.
// A Vault is safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewVault creates a Vault keyed by a 32-byte secret.
func NewVault(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("encryption key must be %d bytes, got %d", KeySize, len(key)),
		}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &ConfigurationError{Message: err.Error()}
	}

	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, &ConfigurationError{Message: err.Error()}
	}

	return &Vault{aead: aead, rand: rand.Reader}, nil
}

// Encrypt seals plaintext under a fresh random IV.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(v.rand, iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	sealed := v.aead.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		hex.EncodeToString(iv),
		hex.EncodeToString(ciphertext),
		hex.EncodeToString(tag),
	}, ":"), nil
}

// Decrypt opens an envelope produced by Encrypt. It returns a
// *FormatError when the envelope is malformed and an
// *AuthenticationError when the tag does not verify.
func (v *Vault) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", &FormatError{
			Message: fmt.Sprintf("expected 3 fields, got %d", len(parts)),
		}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", &FormatError{Message: "iv is not hex"}
	}
	if len(iv) != ivSize {
		return "", &FormatError{
			Message: fmt.Sprintf("iv must be %d bytes, got %d", ivSize, len(iv)),
		}
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", &FormatError{Message: "ciphertext is not hex"}
	}

	tag, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", &FormatError{Message: "tag is not hex"}
	}
	if len(tag) != tagSize {
		return "", &AuthenticationError{
			Err: fmt.Errorf("tag must be %d bytes, got %d", tagSize, len(tag)),
		}
	}

	plaintext, err := v.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}

	return string(plaintext), nil
}
