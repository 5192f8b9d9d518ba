package editor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEditor(t *testing.T, script string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ed.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return p
}

func TestCommandPrefersVisual(t *testing.T) {
	t.Setenv("VISUAL", "code -w")
	t.Setenv("EDITOR", "vim")
	got, err := Command()
	require.NoError(t, err)
	assert.Equal(t, "code -w", got)

	t.Setenv("VISUAL", " ")
	got, err = Command()
	require.NoError(t, err)
	assert.Equal(t, "vim", got)
}

func TestOpenReportsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\n"), 0o600))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", fakeEditor(t, `echo 'default_theme = "light"' >> "$1"`))

	var out bytes.Buffer
	changed, err := Open(context.Background(), path, Streams{Out: &out, Err: &out})
	require.NoError(t, err)
	assert.True(t, changed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[ui]\ndefault_theme = \"light\"\n", string(data))
}

func TestOpenUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", fakeEditor(t, "exit 0"))

	changed, err := Open(context.Background(), path, Streams{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOpenEditorFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", fakeEditor(t, "exit 3"))

	_, err := Open(context.Background(), path, Streams{})
	require.Error(t, err)
}
