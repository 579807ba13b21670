package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestSecretStore(t *testing.T) {
	s := newSecretStoreWith(keyring.NewArrayKeyring(nil))

	if _, err := s.Get(EncryptionKeyName); !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}

	const key = "0123456789abcdef0123456789abcdef"
	if err := s.Set(EncryptionKeyName, key); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(EncryptionKeyName)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != key {
		t.Fatalf("got %q, want %q", got, key)
	}

	if err := s.Delete(EncryptionKeyName); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(EncryptionKeyName); err != nil {
		t.Fatalf("deleting a missing secret must succeed: %v", err)
	}
	if _, err := s.Get(EncryptionKeyName); !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound after delete, got %v", err)
	}
}

func TestLoadEncryptionKeyFromSecretStore(t *testing.T) {
	s := newSecretStoreWith(keyring.NewArrayKeyring([]keyring.Item{
		{Key: EncryptionKeyName, Data: []byte("abcdefghijklmnopqrstuvwxyz012345")},
	}))

	key, err := loadEncryptionKey(func(string) string { return "" }, s.Get)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := NewVault(key); err != nil {
		t.Fatalf("stored key must build a vault: %v", err)
	}
}
