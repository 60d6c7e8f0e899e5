// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the jftlv CLI. It turns the daily
// reading book from PDF into dated JSON entries, stores them, and serves
// the reading for the current day.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the jftlv CLI.
var rootCmd = &cobra.Command{
	Use:   "jftlv",
	Short: "Turn a daily-reading PDF into dated JSON entries",
	Long: `jftlv extracts the text of a daily-reading book, splits it into one entry
per calendar day, and writes the entries as JSON.

Each stage is a subcommand: convert (PDF to text), parse (text to JSON),
store (index and query entries), and serve (today's reading over HTTP).
run chains convert and parse in one go.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		format, _ := cmd.Flags().GetString("log-format")
		return setupLogging(verbose, format)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./jftlv.yaml or ~/.config/jftlv/jftlv.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show informational parser diagnostics")
	rootCmd.PersistentFlags().String("log-format", "text", "diagnostic log format: text or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("jftlv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "jftlv"))
		}
	}

	viper.SetEnvPrefix("JFTLV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging configures the standard logrus logger used for diagnostics.
func setupLogging(verbose bool, format string) error {
	logrus.SetOutput(os.Stderr)
	switch format {
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q: use text or json", format)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
