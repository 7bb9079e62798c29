// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/state"
)

func viperFrom(t *testing.T, typ, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType(typ)
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, state.DefaultOptions(), cfg.Options)
	assert.Empty(t, cfg.Predefined)
	assert.Empty(t, cfg.Exported)
	assert.Empty(t, cfg.Ignored)
}

func TestLoadConfig_JSHintRC(t *testing.T) {
	v := viperFrom(t, "json", `{
		"esversion": 6,
		"undef": false,
		"unused": "vars",
		"latedef": "nofunc",
		"node": true,
		"maxlen": 100,
		"maxlenexception": "^\\s*// https?:",
		"globals": {"jquery": false, "app": true},
		"exported": ["main"],
		"-W117": true,
		"-W098": false
	}`)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Options.ESVersion)
	assert.False(t, cfg.Options.Undef)
	assert.Equal(t, state.UnusedVars, cfg.Options.Unused)
	assert.Equal(t, state.LatedefNoFunc, cfg.Options.Latedef)
	assert.True(t, cfg.Options.Node)
	assert.Equal(t, 100, cfg.Options.MaxLen)
	require.NotNil(t, cfg.Options.MaxLenException)
	assert.True(t, cfg.Options.MaxLenException.MatchString("  // http://example.com"))
	assert.Equal(t, map[string]bool{"jquery": false, "app": true}, cfg.Predefined)
	assert.Equal(t, []string{"main"}, cfg.Exported)
	assert.Equal(t, []diagnostic.Code{"W117"}, cfg.Ignored)
}

func TestLoadConfig_PredefList(t *testing.T) {
	v := viperFrom(t, "yaml", "predef:\n  - define\n  - require\n")
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"define": false, "require": false}, cfg.Predefined)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("JSVET_ESVERSION", "8")
	t.Setenv("JSVET_UNDEF", "false")
	v := viper.New()
	configure(v, filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Options.ESVersion)
	assert.False(t, cfg.Options.Undef)
}

func TestLoadConfig_Errors(t *testing.T) {
	for name, content := range map[string]string{
		"bad value":   `{"esversion": 4}`,
		"bad mode":    `{"unused": "sometimes"}`,
		"bad pattern": `{"maxlenexception": "("}`,
		"bad code":    `{"-W999": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(viperFrom(t, "json", content))
			assert.Error(t, err)
		})
	}
}

func TestConfigure_JSHintRC(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, ".jshintrc")
	require.NoError(t, os.WriteFile(rc, []byte(`{"esversion": 6, "-W117": true, "globals": {"jQuery": false, "$": true}}`), 0o600))

	v := viper.New()
	configure(v, rc)
	require.NoError(t, v.ReadInConfig())
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Options.ESVersion)
	assert.Equal(t, []diagnostic.Code{"W117"}, cfg.Ignored)
	assert.Equal(t, map[string]bool{"jQuery": false, "$": true}, cfg.Predefined)
}

func TestConfigure_TOMLKeepsCase(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".jsvet.toml")
	require.NoError(t, os.WriteFile(file, []byte("undef = false\npredef = [\"MyLib\"]\n"), 0o600))

	v := viper.New()
	configure(v, file)
	require.NoError(t, v.ReadInConfig())
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.False(t, cfg.Options.Undef)
	assert.Equal(t, map[string]bool{"MyLib": false}, cfg.Predefined)
}

func TestConfig_Linter(t *testing.T) {
	cfg := &Config{Options: state.DefaultOptions(), Ignored: []diagnostic.Code{"W098"}}
	l, err := cfg.Linter([]string{"undef", " unused"})
	require.NoError(t, err)
	require.Len(t, l.Analyzers, 2)
	assert.Equal(t, "undef", l.Analyzers[0].Name)
	assert.Equal(t, "unused", l.Analyzers[1].Name)
	assert.Equal(t, cfg.Ignored, l.Ignored)

	_, err = cfg.Linter([]string{"nope"})
	assert.EqualError(t, err, "unknown check: nope")
}
