package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "kaneo-sync"

// ErrSecretNotFound is returned when the keyring has no entry for a name.
var ErrSecretNotFound = errors.New("secret not found in keyring")

// SecretStore keeps named secrets, such as the PAT encryption key, in the
// operating system keyring.
type SecretStore struct {
	open func() (keyring.Keyring, error)
}

// NewSecretStore returns a SecretStore backed by the system keyring,
// falling back to an encrypted file under ~/.config/kaneo-sync.
func NewSecretStore() *SecretStore {
	return &SecretStore{open: openSystemKeyring}
}

// newSecretStoreWith wraps an already opened keyring.
func newSecretStoreWith(ring keyring.Keyring) *SecretStore {
	return &SecretStore{open: func() (keyring.Keyring, error) { return ring, nil }}
}

func openSystemKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.FileBackend,
		},
		KeychainTrustApplication: true,
		FileDir:                  "~/.config/kaneo-sync/secrets",
		FilePasswordFunc:         keyring.FixedStringPrompt("kaneo-sync keyring passphrase"),
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get returns the secret stored under name. A missing entry yields an
// error wrapping ErrSecretNotFound.
func (s *SecretStore) Get(name string) (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%q: %w", name, ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading secret %q: %w", name, err)
	}
	return string(item.Data), nil
}

// Set stores value under name, replacing any previous entry.
func (s *SecretStore) Set(name, value string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	item := keyring.Item{
		Key:         name,
		Data:        []byte(value),
		Label:       "Kaneo GitHub sync",
		Description: "kaneo-sync " + name,
	}
	if err := ring.Set(item); err != nil {
		return fmt.Errorf("storing secret %q: %w", name, err)
	}
	return nil
}

// Delete removes the secret stored under name. Deleting a missing entry
// is not an error.
func (s *SecretStore) Delete(name string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	err = ring.Remove(name)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing secret %q: %w", name, err)
	}
	return nil
}
