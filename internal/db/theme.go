package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ThemeKey is the preference key holding the saved theme.
const ThemeKey = "dossier.theme"

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts dark or light in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q (use dark or light)", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// LoadTheme returns the saved theme, or fallback when none is saved or the
// saved value is unreadable.
func LoadTheme(ctx context.Context, s Store, fallback Theme) (Theme, error) {
	v, err := s.GetPref(ctx, ThemeKey)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	t, perr := ParseTheme(v)
	if perr != nil {
		return fallback, nil
	}
	return t, nil
}

func SaveTheme(ctx context.Context, s Store, t Theme) error {
	return s.SetPref(ctx, ThemeKey, string(t))
}
