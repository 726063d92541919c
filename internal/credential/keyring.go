package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "nemukerja"

// SessionKey is the keyring key holding the backend session cookie.
const SessionKey = "session"

// SessionEnv overrides the stored session when set.
const SessionEnv = "NEMUKERJA_SESSION"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/nemukerja/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("nemukerja-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Vault reads and writes credentials in a keyring.
type Vault struct {
	ring keyring.Keyring
}

// Open opens the system keyring.
func Open() (*Vault, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an already opened keyring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Get retrieves a credential value by key.
func (v *Vault) Get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (v *Vault) Set(key string, value string) error {
	err := v.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key.
func (v *Vault) Delete(key string) error {
	if err := v.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Session returns the session cookie value. The environment wins over the
// keyring; a missing keyring entry yields "" with no error.
func (v *Vault) Session(getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if s := strings.TrimSpace(getenv(SessionEnv)); s != "" {
		return s, nil
	}
	if v == nil {
		return "", nil
	}

	s, err := v.Get(SessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	v, err := Open()
	if err != nil {
		return "", err
	}
	return v.Get(key)
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	v, err := Open()
	if err != nil {
		return err
	}
	return v.Set(key, value)
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	v, err := Open()
	if err != nil {
		return err
	}
	return v.Delete(key)
}
