// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/jftlv/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <pdf>...",
	Short: "Extract the text layer of PDF files",
	Long: `Convert writes the embedded text of each PDF to a .txt file in the output
directory, one line per text line, pages in order. Existing text files are
skipped unless --force is given. Image-only pages produce no text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd, map[string]string{
		"conversion.output_dir": "output-dir",
		"conversion.force":      "force",
	})
	if err != nil {
		return err
	}

	c := &convert.PlainTextConverter{Log: os.Stderr}
	result := convert.ConvertBatch(c, args, cfg.Conversion, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("output-dir", "data/text", "directory for extracted text files")
	convertCmd.Flags().Bool("force", false, "re-extract even if the text file exists")

	rootCmd.AddCommand(convertCmd)
}
