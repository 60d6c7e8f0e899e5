// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/jftlv/internal/convert"
	"github.com/pdiddy/jftlv/internal/parse"
	"github.com/pdiddy/jftlv/internal/store"
	"github.com/pdiddy/jftlv/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <pdf>",
	Short: "Convert a PDF and parse it into JSON entries in one go",
	Long: `Run extracts the text of the PDF into the conversion output directory,
parses it, and writes the entries as JSON. With --ingest the JSON file is
also loaded into the store.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	keys := map[string]string{
		"conversion.output_dir": "text-dir",
		"conversion.force":      "force",
		"store.dir":             "store-dir",
	}
	for k, v := range parserFlags {
		keys[k] = v
	}
	cfg, err := commandConfig(cmd, keys)
	if err != nil {
		return err
	}

	// Build the parser first so a bad format table fails before extraction.
	p, err := parse.New(cfg.Parser)
	if err != nil {
		return err
	}

	pdfPath := args[0]
	c := &convert.PlainTextConverter{Log: os.Stderr}
	if convert.ConvertFile(c, pdfPath, cfg.Conversion, os.Stdout) == types.ConversionFailed {
		return fmt.Errorf("converting %s failed", pdfPath)
	}
	textPath := convert.TextPath(pdfPath, cfg.Conversion.OutputDir)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = jsonPath(pdfPath)
	}
	res, err := parse.ParseFile(p, textPath, output, os.Stdout)
	if err != nil {
		return err
	}
	logDiagnostics(logrus.StandardLogger(), res.Diagnostics)

	ingest, _ := cmd.Flags().GetBool("ingest")
	if !ingest {
		return nil
	}
	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()
	return ingestFiles(cmd.Context(), s, []string{output}, os.Stdout)
}

func init() {
	addParserFlags(runCmd)
	runCmd.Flags().String("text-dir", "data/text", "directory for the extracted text file")
	runCmd.Flags().Bool("force", false, "re-extract even if the text file exists")
	runCmd.Flags().StringP("output", "o", "", "output JSON file (default: PDF path with .json)")
	runCmd.Flags().Bool("ingest", false, "load the entries into the store")
	runCmd.Flags().String("store-dir", "data/index", "directory containing entries.db")

	rootCmd.AddCommand(runCmd)
}
