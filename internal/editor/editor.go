// Package editor opens files in the user's editor.
package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither $VISUAL, $EDITOR nor a fallback is found.
var ErrNoEditor = errors.New("no editor found; set $EDITOR or $VISUAL")

// Command returns the editor command line from env, or a common terminal
// editor on PATH.
func Command() (string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", ErrNoEditor
}

// Streams are handed to the editor process.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Open edits path in place and reports whether its bytes changed.
func Open(ctx context.Context, path string, s Streams) (changed bool, err error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	ed, err := Command()
	if err != nil {
		return false, err
	}
	// Run via sh so editor commands with flags ("code -w") work.
	cmd := exec.CommandContext(ctx, "sh", "-c", `$EDITORCMD "$FILEPATH"`)
	cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = s.In, s.Out, s.Err
	if err := cmd.Run(); err != nil {
		return false, err
	}
	after, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(before, after), nil
}
