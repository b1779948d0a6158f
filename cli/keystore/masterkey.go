package keystore

import (
	"crypto/sha256"
	"errors"
	"os"
)

// EnvMasterKey is the environment variable read by DefaultMasterKeySource.
const EnvMasterKey = "CHATJPT_MASTER_KEY"

// MasterKeySource supplies the secret the file keystore derives its
// encryption keys from.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// StaticMasterKey is a fixed master key.
type StaticMasterKey []byte

// MasterKey implements MasterKeySource.
func (k StaticMasterKey) MasterKey() ([]byte, error) {
	if len(k) == 0 {
		return nil, errors.New("master key is empty")
	}
	return []byte(k), nil
}

// EnvMasterKeySource reads the master key from an environment variable.
type EnvMasterKeySource struct {
	Var string
}

// MasterKey implements MasterKeySource.
func (s EnvMasterKeySource) MasterKey() ([]byte, error) {
	v := os.Getenv(s.Var)
	if v == "" {
		return nil, errors.New(s.Var + " is not set")
	}
	return []byte(v), nil
}

// MachineMasterKeySource derives a master key from the host name and user.
// It only protects against casual reads of the keystore file.
type MachineMasterKeySource struct{}

// MasterKey implements MasterKeySource.
func (MachineMasterKeySource) MasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	sum := sha256.Sum256([]byte(hostname + ":" + username + ":chatjpt-keystore"))
	return sum[:], nil
}

// DefaultMasterKeySource uses CHATJPT_MASTER_KEY when it is set and the
// machine-derived key otherwise.
func DefaultMasterKeySource() MasterKeySource {
	if os.Getenv(EnvMasterKey) != "" {
		return EnvMasterKeySource{Var: EnvMasterKey}
	}
	return MachineMasterKeySource{}
}
