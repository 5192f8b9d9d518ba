package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestConfigStoreRoundTrip(t *testing.T) {
	var saved []string
	store := &ConfigStore{Save: func(tok string) error {
		saved = append(saved, tok)
		return nil
	}}

	_, err := store.Get()
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Put(" secret "))
	got, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	require.NoError(t, store.Delete())
	_, err = store.Get()
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, []string{"secret", ""}, saved)
}

func TestKeyringStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{}

	tok, err := Lookup(store)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Put("s3cret"))
	tok, err = Lookup(store)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", tok)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete(), "deleting a missing token is not an error")
	_, err = store.Get()
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSelect(t *testing.T) {
	cfg := &ConfigStore{Token: "x"}

	s, err := Select("", cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, s)

	s, err = Select("Keyring", cfg)
	require.NoError(t, err)
	assert.IsType(t, &KeyringStore{}, s)

	_, err = Select("vault", cfg)
	assert.Error(t, err)
}
