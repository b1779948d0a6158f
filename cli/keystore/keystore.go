// Package keystore provides secure storage for API keys.
package keystore

import (
	"fmt"
	"path/filepath"

	"github.com/petal-labs/chatjpt/cli/config"
)

// Backend names accepted by NewKeystore.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns error if not found.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// DefaultKeystorePath returns the default keystore file path.
// - macOS/Linux: ~/.chatjpt/keys.enc
// - Windows: %USERPROFILE%\.chatjpt\keys.enc
func DefaultKeystorePath() string {
	return filepath.Join(config.HomeDir(), ".chatjpt", "keys.enc")
}

// NewKeystore opens the named backend. An empty name selects the
// encrypted file at DefaultKeystorePath.
func NewKeystore(backend string) (Keystore, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKeystore(DefaultKeystorePath(), DefaultMasterKeySource())
	case BackendKeyring:
		return NewKeyringKeystore(DefaultKeyringService), nil
	default:
		return nil, fmt.Errorf("unknown keystore backend %q (expected: %s, %s)", backend, BackendFile, BackendKeyring)
	}
}
