package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# dossier configuration (TOML)", ""}
	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		writeTOMLOptionLines(&lines, o.Key, o.Default, o.Comment)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			writeTOMLOptionLines(&lines, o.Key, o.Default, o.Comment)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderValuesTOML renders the effective value of every known option. Keys
// listed in masked are shown as "***" when set.
func RenderValuesTOML(v *viper.Viper, masked ...string) string {
	hide := make(map[string]bool, len(masked))
	for _, k := range masked {
		hide[k] = true
	}
	opts := GetConfigOptions()
	for i, o := range opts {
		switch o.Default.(type) {
		case bool:
			opts[i].Default = v.GetBool(o.Key)
		default:
			val := v.GetString(o.Key)
			if hide[o.Key] && val != "" {
				val = "***"
			}
			opts[i].Default = val
		}
		opts[i].Comment = ""
	}
	var lines []string
	if used := v.ConfigFileUsed(); used != "" {
		lines = append(lines, "# from "+used, "")
	}
	top, sections, order := groupOptions(opts)
	for _, o := range top {
		writeTOMLOptionLines(&lines, o.Key, o.Default, "")
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			lines = append(lines, tomlLine(o.Key, o.Default))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func tomlLine(key string, value any) string {
	var l []string
	writeTOMLOptionLines(&l, key, value, "")
	return l[0]
}

// UpdateTOML merges missing defaults into an existing TOML string and
// comments out keys that are no longer known.
func UpdateTOML(existing string) (string, bool) {
	lines := strings.Split(existing, "\n")
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	sectionEnd := make(map[string]int)
	section := ""
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";"):
			out = append(out, line)
			continue
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			sectionEnd[section] = len(out)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		full := key
		if section != "" {
			full = section + "." + key
		}
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
		} else {
			out = append(out, line)
		}
		if section != "" {
			sectionEnd[section] = len(out)
		}
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	top, sections, order := groupOptions(missing)

	// Existing tables get their missing keys appended in place; TOML forbids
	// repeating a table header. Insert bottom-up so indexes stay valid.
	var fresh, inPlace []string
	for _, s := range order {
		if _, ok := sectionEnd[s]; ok {
			inPlace = append(inPlace, s)
		} else {
			fresh = append(fresh, s)
		}
	}
	sort.Slice(inPlace, func(i, j int) bool { return sectionEnd[inPlace[i]] > sectionEnd[inPlace[j]] })
	for _, s := range inPlace {
		at := sectionEnd[s]
		add := []string{}
		for _, o := range sections[s] {
			writeTOMLOptionLines(&add, o.Key, o.Default, o.Comment)
		}
		out = append(out[:at], append(add, out[at:]...)...)
	}
	// Top-level keys must precede any table header to stay top-level.
	if len(top) > 0 {
		head := []string{"# Added by config update"}
		for _, o := range top {
			writeTOMLOptionLines(&head, o.Key, o.Default, o.Comment)
		}
		out = append(head, out...)
	}
	if len(fresh) > 0 {
		out = append(out, "", "# Added by config update")
		for _, s := range fresh {
			out = append(out, "["+s+"]")
			for _, o := range sections[s] {
				writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
			}
		}
	}
	return strings.Join(out, "\n"), true
}

// groupOptions splits dotted keys into sections, keeping first-seen order.
func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	top := make([]ConfigOption, 0)
	sections := make(map[string][]ConfigOption)
	order := make([]string, 0)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func writeTOMLOptionLines(lines *[]string, key string, value any, comment string) {
	if comment != "" {
		*lines = append(*lines, "# "+comment)
	}
	switch v := value.(type) {
	case string:
		*lines = append(*lines, fmt.Sprintf("%s = %q", key, v), "")
	case bool, int, int64, float64:
		*lines = append(*lines, fmt.Sprintf("%s = %v", key, v), "")
	}
}

// UpsertValue sets a dotted key in TOML text, replacing an existing
// assignment or adding it to its table.
func UpsertValue(existing, key string, value any) string {
	table, name, dotted := strings.Cut(key, ".")
	if !dotted {
		table, name = "", key
	}
	var assign []string
	writeTOMLOptionLines(&assign, name, value, "")
	line := assign[0]

	lines := strings.Split(existing, "\n")
	section := ""
	tableEnd := -1
	if table == "" {
		tableEnd = 0
	}
	for i, l := range lines {
		trim := strings.TrimSpace(l)
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			if section == table {
				tableEnd = i + 1
			}
			continue
		}
		if section != table {
			continue
		}
		if k, ok := parseTOMLKey(l); ok && k == name {
			lines[i] = line
			return strings.Join(lines, "\n")
		}
		if trim != "" && table != "" {
			tableEnd = i + 1
		}
	}
	if tableEnd < 0 {
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
			lines = append(lines, "")
		}
		lines = append(lines, "["+table+"]", line)
		return strings.Join(lines, "\n")
	}
	lines = append(lines[:tableEnd], append([]string{line}, lines[tableEnd:]...)...)
	return strings.Join(lines, "\n")
}
