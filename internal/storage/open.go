package storage

import (
	"github.com/mrz1836/solconnect/internal/config"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Open returns the Store described by sc. For the file backend the
// passphrase is read from the variable named by sc.PassphraseEnv through
// getenv; a configured but empty variable is a config error. The returned
// path is empty for backends other than file.
func Open(sc config.SessionConfig, getenv func(string) string) (Store, string, error) {
	switch sc.Storage {
	case config.StorageMemory:
		return NewMemoryStore(), "", nil
	case config.StorageKeyring:
		return NewKeyringStore(DefaultService, OSKeyring{}), "", nil
	case config.StorageFile:
		path := config.ExpandHome(sc.File)
		var passphrase string
		if name := sc.PassphraseEnv; name != "" {
			if getenv != nil {
				passphrase = getenv(name)
			}
			if passphrase == "" {
				return nil, "", walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
					"session.passphrase_env": name,
					"reason":                 "variable is empty",
				})
			}
		}
		return NewFileStore(path, passphrase), path, nil
	default:
		return nil, "", walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"session.storage": sc.Storage})
	}
}
