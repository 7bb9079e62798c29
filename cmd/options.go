// Copyright © 2024 The ELPS authors

package cmd

import "github.com/spf13/viper"

// Option configures an exported command factory (LintCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	viper  *viper.Viper
	config *Config
}

// WithViper makes the command read its configuration from v instead of the
// process wide viper instance.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) { c.viper = v }
}

// WithConfig injects a fully resolved configuration, bypassing viper.
// Embedders use it to lint with a fixed option set.
func WithConfig(cfg *Config) Option {
	return func(c *cmdConfig) { c.config = cfg }
}

func newCmdConfig(opts []Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}

// resolveConfig returns the injected configuration, or loads one from the
// configured viper instance.
func (c *cmdConfig) resolveConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	v := c.viper
	if v == nil {
		v = viper.GetViper()
	}
	return LoadConfig(v)
}
