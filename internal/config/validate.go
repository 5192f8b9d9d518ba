package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem found in v as one error.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}

	base := strings.TrimSpace(v.GetString("api.base_url"))
	if base == "" {
		add("api.base_url is required")
	} else if u, err := url.Parse(base); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("api.base_url must be an http(s) URL, got %q", base)
	}

	for _, key := range []string{"api.timeout", "search.debounce", "research.progress_interval"} {
		d, err := cast.ToDurationE(v.Get(key))
		if err != nil {
			add("%s is not a duration: %v", key, v.Get(key))
			continue
		}
		if d <= 0 {
			add("%s must be greater than 0", key)
		}
	}

	switch p := v.GetString("api.token_provider"); p {
	case "", "config", "keyring":
	default:
		add("api.token_provider must be config or keyring, got %q", p)
	}

	switch t := strings.ToLower(v.GetString("ui.default_theme")); t {
	case "dark", "light":
	default:
		add("ui.default_theme must be dark or light, got %q", t)
	}

	switch l := strings.ToLower(v.GetString("log.level")); l {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level must be one of debug, info, warn, error; got %q", l)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
}
