// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/jftlv/internal/server"
	"github.com/pdiddy/jftlv/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables and config files resolve even when no flag is bound.
func setDefaults(v *viper.Viper) {
	v.SetDefault("conversion.output_dir", "data/text")
	v.SetDefault("conversion.force", false)

	v.SetDefault("parser.year", time.Now().Year())
	v.SetDefault("parser.join", string(types.JoinSpace))
	v.SetDefault("parser.format_file", "")

	v.SetDefault("store.dir", "data/index")
	v.SetDefault("store.max_results", 20)

	v.SetDefault("server.addr", server.DefaultAddr)
	v.SetDefault("server.timezone", server.DefaultTimezone)
	v.SetDefault("server.cache_ttl", server.DefaultCacheTTL)
	v.SetDefault("server.rate_limit", 0.0)
	v.SetDefault("server.burst", 10)

	// The processing year is the setting most often overridden, so it also
	// answers to a short variable name.
	v.BindEnv("parser.year", "JFTLV_PARSER_YEAR", "JFTLV_YEAR")
}

// bindFlags binds the named flags of cmd to configuration keys. Binding
// happens when a command runs, so commands sharing a key do not overwrite
// each other's bindings.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration: flag, then environment,
// then config file, then default.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if !cfg.Parser.Join.Valid() {
		return types.Config{}, fmt.Errorf("unknown join mode %q: use space or newline", cfg.Parser.Join)
	}
	return cfg, nil
}

// commandConfig binds the command's flags and loads the configuration.
func commandConfig(cmd *cobra.Command, keys map[string]string) (types.Config, error) {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, keys); err != nil {
		return types.Config{}, err
	}
	return loadConfig(v)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling configuration: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
