// Copyright © 2024 The ELPS authors

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
	"github.com/luthersystems/jsvet/state"
)

// optionKeys are the config keys forwarded to state.Options.Set.
var optionKeys = []string{
	"indent", "maxlen", "maxerr", "esversion", "esnext", "moz", "module",
	"funcscope", "nonbsp", "multistr", "node", "undef", "strict", "shadow",
	"unused", "latedef",
}

// Config is the linter configuration assembled from a config file, JSVET_
// environment variables and command line flags.
type Config struct {
	Options    state.Options
	Predefined map[string]bool
	Exported   []string
	Ignored    []diagnostic.Code
}

// LoadConfig reads a Config from v.  Keys that are not set keep their
// defaults.  The key set mirrors .jshintrc: option names, "predef" or
// "globals" (a list of names or a map of name to writable), "exported" and
// "-Wxxx" entries that silence a warning.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Options:    state.DefaultOptions(),
		Predefined: make(map[string]bool),
	}
	for _, key := range optionKeys {
		if !v.IsSet(key) {
			continue
		}
		if err := cfg.Options.Set(key, cast.ToString(v.Get(key))); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if v.IsSet("maxlenexception") {
		re, err := regexp.Compile(v.GetString("maxlenexception"))
		if err != nil {
			return nil, fmt.Errorf("config: maxlenexception: %w", err)
		}
		cfg.Options.MaxLenException = re
	}
	raw, err := rawConfig(v.ConfigFileUsed())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	for _, key := range []string{"predef", "globals"} {
		value, ok := raw[key]
		if !ok {
			value = v.Get(key)
		}
		if err := addGlobals(cfg.Predefined, value); err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
	}
	cfg.Exported = v.GetStringSlice("exported")

	// viper lowercases keys, so "-W117" arrives as "-w117".
	for _, key := range v.AllKeys() {
		name, ok := strings.CutPrefix(key, "-w")
		if !ok || !v.GetBool(key) {
			continue
		}
		code := diagnostic.Code("W" + name)
		if !code.Known() {
			return nil, fmt.Errorf("config: unknown warning: %s", code)
		}
		cfg.Ignored = append(cfg.Ignored, code)
	}
	sort.Slice(cfg.Ignored, func(i, j int) bool { return cfg.Ignored[i] < cfg.Ignored[j] })
	return cfg, nil
}

// rawConfig decodes a JSON or TOML config file without viper's key
// lowercasing, so global names keep their case.  Other formats return nil.
func rawConfig(file string) (map[string]any, error) {
	if file == "" {
		return nil, nil
	}
	var decode func([]byte, any) error
	switch ext := filepath.Ext(file); {
	case ext == ".json" || filepath.Base(file) == ".jshintrc":
		decode = json.Unmarshal
	case ext == ".toml":
		decode = toml.Unmarshal
	default:
		return nil, nil
	}
	b, err := os.ReadFile(file) //nolint:gosec // user-specified config file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	raw := make(map[string]any)
	if err := decode(b, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return raw, nil
}

// addGlobals merges a predef/globals value into dst.  A list declares read
// only names; a map gives each name's writability.
func addGlobals(dst map[string]bool, value any) error {
	switch val := value.(type) {
	case nil:
		return nil
	case []any, []string:
		names, err := cast.ToStringSliceE(val)
		if err != nil {
			return err
		}
		for _, name := range names {
			dst[name] = false
		}
	case string:
		for _, name := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' }) {
			dst[name] = false
		}
	default:
		m, err := cast.ToStringMapE(val)
		if err != nil {
			return err
		}
		for name, w := range m {
			writable, err := cast.ToBoolE(w)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			dst[name] = writable
		}
	}
	return nil
}

// Linter builds a linter for cfg reporting the named checks (all when
// checks is empty).
func (cfg *Config) Linter(checks []string) (*lint.Linter, error) {
	opts := cfg.Options
	l := &lint.Linter{
		Options:    &opts,
		Predefined: cfg.Predefined,
		Exported:   cfg.Exported,
		Ignored:    cfg.Ignored,
	}
	for _, name := range checks {
		a, err := lint.AnalyzerByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		l.Analyzers = append(l.Analyzers, a)
	}
	return l, nil
}
