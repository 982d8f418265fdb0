package storage

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name for solconnect entries.
const DefaultService = "solconnect"

// Keyring is the OS keychain surface used by KeyringStore.
type Keyring interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

// OSKeyring implements Keyring using the OS keychain.
type OSKeyring struct{}

// Set stores a secret in the OS keyring.
func (OSKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

// Get retrieves a secret from the OS keyring.
func (OSKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

// Delete removes a secret from the OS keyring.
func (OSKeyring) Delete(service, user string) error {
	return keyring.Delete(service, user)
}

// KeyringStore is a Store kept in the OS keychain (macOS Keychain, Secret
// Service, Windows Credential Manager).
type KeyringStore struct {
	service string
	ring    Keyring
}

// NewKeyringStore creates a keyring-backed store. A nil ring uses the OS
// keyring; an empty service uses DefaultService.
func NewKeyringStore(service string, ring Keyring) *KeyringStore {
	if service == "" {
		service = DefaultService
	}
	if ring == nil {
		ring = OSKeyring{}
	}
	return &KeyringStore{service: service, ring: ring}
}

// Get returns the value for key.
func (k *KeyringStore) Get(key string) (string, error) {
	v, err := k.ring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

// Set stores value under key.
func (k *KeyringStore) Set(key, value string) error {
	return k.ring.Set(k.service, key, value)
}

// Delete removes key.
func (k *KeyringStore) Delete(key string) error {
	err := k.ring.Delete(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
