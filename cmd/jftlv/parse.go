// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/jftlv/internal/parse"
)

var parseCmd = &cobra.Command{
	Use:   "parse <text-file>",
	Short: "Split extracted text into dated JSON entries",
	Long: `Parse reads a text file produced by convert, splits it into one block per
date label, extracts title, quote, reference, body, and affirmation from each
block, and writes the entries as a JSON array.

Blocks that cannot be parsed are skipped with a warning. Use --verbose to
also see entries with missing optional fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// parserFlags maps parser configuration keys to flag names. The parse and
// run commands share them.
var parserFlags = map[string]string{
	"parser.year":        "year",
	"parser.join":        "join",
	"parser.format_file": "format-file",
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd, parserFlags)
	if err != nil {
		return err
	}

	p, err := parse.New(cfg.Parser)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = jsonPath(args[0])
	}

	res, err := parse.ParseFile(p, args[0], output, os.Stdout)
	if err != nil {
		return err
	}
	logDiagnostics(logrus.StandardLogger(), res.Diagnostics)
	return nil
}

// jsonPath returns the default output path for a text file: the same path
// with a .json extension.
func jsonPath(textPath string) string {
	return strings.TrimSuffix(textPath, filepath.Ext(textPath)) + ".json"
}

// logDiagnostics logs skipped blocks as warnings and missing fields at
// debug level.
func logDiagnostics(log logrus.FieldLogger, diags []parse.Diagnostic) {
	for _, d := range diags {
		entry := log.WithFields(logrus.Fields{
			"block": d.Block,
			"label": d.Label,
			"field": d.Field,
		})
		if d.Strategy != "" {
			entry = entry.WithField("strategy", d.Strategy)
		}
		if d.Severity == parse.SeverityWarning {
			entry.Warn(d.Message)
			continue
		}
		entry.Debug(d.Message)
	}
}

func addParserFlags(cmd *cobra.Command) {
	cmd.Flags().Int("year", 0, "processing year for entry dates (default: current year)")
	cmd.Flags().String("join", "space", "join convention for body and affirmation: space or newline")
	cmd.Flags().String("format-file", "", "YAML marker table (default: built-in Latvian table)")
}

func init() {
	addParserFlags(parseCmd)
	parseCmd.Flags().StringP("output", "o", "", "output JSON file (default: input path with .json)")

	rootCmd.AddCommand(parseCmd)
}
