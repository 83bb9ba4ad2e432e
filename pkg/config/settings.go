// Package config loads the optional project configuration file into a
// Settings tree and decodes the parts of it the pipeline consults.
//
// No key is required. Every accessor returns a safe default when a key is
// missing or holds a value of the wrong shape.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Settings is an arbitrarily nested mapping parsed from YAML, TOML or JSON.
// It is created once per run and treated as read-only afterwards.
type Settings map[string]any

// Has reports whether key is present with a non-nil value.
func (s Settings) Has(key string) bool {
	v, ok := s[key]
	return ok && v != nil
}

// Section returns the nested mapping under key, or an empty Settings.
func (s Settings) Section(key string) Settings {
	if m, ok := asMap(s[key]); ok {
		return m
	}
	return Settings{}
}

// Lookup walks a dotted path such as "deploy.docker.image".
func (s Settings) Lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := s
	for i, part := range parts {
		v, ok := current[part]
		if !ok || v == nil {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := asMap(v)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// String returns the value under key rendered as a string, or def.
func (s Settings) String(key, def string) string {
	switch v := s[key].(type) {
	case string:
		if v == "" {
			return def
		}
		return v
	case nil:
		return def
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		return def
	}
}

// Bool follows the loose truthiness configuration authors expect: true,
// "true"/"yes"/"on"/"1" and non-zero numbers are true.
func (s Settings) Bool(key string) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true
		}
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

// Int returns the value under key as an int, or def. YAML and JSON numbers
// arrive as float64, TOML integers as int64.
func (s Settings) Int(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// StringMap returns a flat mapping under key with every value rendered as
// a string. Nested containers are skipped.
func (s Settings) StringMap(key string) map[string]string {
	m, ok := asMap(s[key])
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k := range m {
		switch m[k].(type) {
		case map[string]any, []any:
			continue
		}
		out[k] = m.String(k, "")
	}
	return out
}

// Keys returns the top-level keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asMap(v any) (Settings, bool) {
	switch m := v.(type) {
	case Settings:
		return m, true
	case map[string]any:
		return Settings(m), true
	}
	return nil, false
}
