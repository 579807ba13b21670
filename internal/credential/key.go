package credential

import (
	"fmt"
	"os"
)

const (
	// EncryptionKeyEnv is the environment variable holding the PAT
	// encryption key.
	EncryptionKeyEnv = "GITHUB_PAT_ENCRYPTION_KEY"

	// EncryptionKeyName is the keyring entry used when the environment
	// variable is not set.
	EncryptionKeyName = "github-pat-encryption-key"
)

// LoadEncryptionKey returns the process-wide PAT encryption key from the
// environment, falling back to the system keyring. A missing key or one
// that is not exactly 32 bytes is a *ConfigurationError.
func LoadEncryptionKey() ([]byte, error) {
	return loadEncryptionKey(os.Getenv, NewSecretStore().Get)
}

func loadEncryptionKey(
	getenv func(string) string,
	fromKeyring func(string) (string, error),
) ([]byte, error) {
	key := getenv(EncryptionKeyEnv)
	if key == "" {
		stored, err := fromKeyring(EncryptionKeyName)
		if err != nil {
			return nil, &ConfigurationError{
				Message: fmt.Sprintf("%s is not set and no key is stored in the keyring: %v", EncryptionKeyEnv, err),
			}
		}
		key = stored
	}

	if len(key) != KeySize {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("%s must be a %d-byte string, got %d bytes", EncryptionKeyEnv, KeySize, len(key)),
		}
	}

	return []byte(key), nil
}
