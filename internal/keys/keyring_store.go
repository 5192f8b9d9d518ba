package keys

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	DefaultKeyringService = "dossier"
	DefaultKeyringUser    = "api-token"
)

// KeyringStore keeps the token in the system keyring.
type KeyringStore struct {
	Service string
	User    string
}

func (s *KeyringStore) Get() (string, error) {
	val, err := keyring.Get(s.service(), s.user())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

func (s *KeyringStore) Put(token string) error {
	return keyring.Set(s.service(), s.user(), token)
}

func (s *KeyringStore) Delete() error {
	err := keyring.Delete(s.service(), s.user())
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

func (s *KeyringStore) user() string {
	if s != nil && s.User != "" {
		return s.User
	}
	return DefaultKeyringUser
}

// KeyringAvailable reports whether a system keyring backend appears supported.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_probe_")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
