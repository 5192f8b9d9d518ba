// Package keys resolves the optional backend API token.
package keys

import (
	"errors"
	"fmt"
	"strings"
)

// TokenStore holds the bearer token for the research backend.
type TokenStore interface {
	Get() (string, error)
	Put(token string) error
	Delete() error
}

var ErrKeyNotFound = errors.New("key not found")

const (
	ProviderConfig  = "config"
	ProviderKeyring = "keyring"
)

// ConfigStore keeps the token in config-managed storage. Save, when set,
// persists changes (e.g. rewriting config.toml).
type ConfigStore struct {
	Token string
	Save  func(token string) error
}

func (s *ConfigStore) Get() (string, error) {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return "", ErrKeyNotFound
	}
	return strings.TrimSpace(s.Token), nil
}

func (s *ConfigStore) Put(token string) error {
	s.Token = strings.TrimSpace(token)
	if s.Save != nil {
		return s.Save(s.Token)
	}
	return nil
}

func (s *ConfigStore) Delete() error {
	if s == nil {
		return nil
	}
	return s.Put("")
}

// Select returns the store for provider ("" means config).
func Select(provider string, cfg *ConfigStore) (TokenStore, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderConfig:
		return cfg, nil
	case ProviderKeyring:
		return &KeyringStore{}, nil
	default:
		return nil, fmt.Errorf("unknown token provider %q", provider)
	}
}

// Lookup returns the token, or "" when none is stored.
func Lookup(s TokenStore) (string, error) {
	tok, err := s.Get()
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return tok, err
}
