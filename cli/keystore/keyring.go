package keystore

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the service name keys are stored under.
const DefaultKeyringService = "chatjpt"

// indexUser holds the JSON list of stored names, since OS keyrings cannot
// enumerate the entries of a service.
const indexUser = "__chatjpt_index__"

// KeyringKeystore implements Keystore on top of the OS keyring
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux).
type KeyringKeystore struct {
	service string
	mu      sync.Mutex
}

// NewKeyringKeystore returns a keystore that stores entries under service.
func NewKeyringKeystore(service string) *KeyringKeystore {
	return &KeyringKeystore{service: service}
}

// Set stores a key-value pair.
func (k *KeyringKeystore) Set(name, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := keyring.Set(k.service, name, value); err != nil {
		return err
	}

	names, err := k.index()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		names = append(names, name)
	}
	return k.saveIndex(names)
}

// Get retrieves a value by name.
func (k *KeyringKeystore) Get(name string) (string, error) {
	value, err := keyring.Get(k.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", &ErrKeyNotFound{Name: name}
	}
	return value, err
}

// Delete removes a key by name.
func (k *KeyringKeystore) Delete(name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := keyring.Delete(k.service, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return &ErrKeyNotFound{Name: name}
		}
		return err
	}

	names, err := k.index()
	if err != nil {
		return err
	}
	return k.saveIndex(slices.DeleteFunc(names, func(n string) bool { return n == name }))
}

// List returns all stored key names.
func (k *KeyringKeystore) List() ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	names, err := k.index()
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

func (k *KeyringKeystore) index() ([]string, error) {
	raw, err := keyring.Get(k.service, indexUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (k *KeyringKeystore) saveIndex(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return keyring.Set(k.service, indexUser, string(data))
}

var _ Keystore = (*KeyringKeystore)(nil)
