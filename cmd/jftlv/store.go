// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/jftlv/internal/parse"
	"github.com/pdiddy/jftlv/internal/server"
	"github.com/pdiddy/jftlv/internal/store"
	"github.com/pdiddy/jftlv/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Index entries and look them up by day or text",
	Long: `Store manages a local SQLite database of parsed entries. Use subcommands to
ingest JSON files written by parse, show the reading for a day, search the
entries by text, or export them.`,
}

// storeFlags maps store configuration keys to the persistent flags of the
// store command.
var storeFlags = map[string]string{
	"store.dir":         "store-dir",
	"store.max_results": "max-results",
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <json-file>...",
	Short: "Ingest parsed JSON entry files",
	Long: `Ingest loads each JSON file into the store under its base name, replacing
the entries previously ingested from it. Unchanged files are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	return ingestFiles(cmd.Context(), s, args, os.Stdout)
}

func ingestFiles(ctx context.Context, s *store.Store, paths []string, w io.Writer) error {
	var failed int
	for _, p := range paths {
		if _, err := s.IngestFile(ctx, p, w); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", p, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed ingesting", failed)
	}
	return nil
}

// --- today subcommand ---

var storeTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the reading for today or a given day",
	Long: `Today prints the entry for the current day in the configured time zone,
or for the day given with --date as MM-DD.`,
	Args: cobra.NoArgs,
	RunE: runStoreToday,
}

func runStoreToday(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore(cmd, map[string]string{"server.timezone": "timezone"})
	if err != nil {
		return err
	}
	defer s.Close()

	key, _ := cmd.Flags().GetString("date")
	if key == "" {
		loc, err := time.LoadLocation(cfg.Server.Timezone)
		if err != nil {
			return fmt.Errorf("loading time zone %q: %w", cfg.Server.Timezone, err)
		}
		key = types.DayKey(time.Now().In(loc))
	}

	month, day, err := store.ParseDayKey(key)
	if err != nil {
		return err
	}
	e, err := s.Lookup(cmd.Context(), month, day)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return parse.WriteJSON(os.Stdout, []types.Entry{e})
	}
	printEntry(os.Stdout, e)
	return nil
}

func printEntry(w io.Writer, e types.Entry) {
	fmt.Fprintf(w, "%s\n%s\n\n", e.DateLabel, e.Title)
	for _, part := range []string{e.Quote, e.Reference, e.Body, e.Affirmation} {
		if part != "" {
			fmt.Fprintf(w, "%s\n\n", part)
		}
	}
}

// --- search subcommand ---

var storeSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search over titles, quotes, and bodies",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStoreSearch,
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := s.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return parse.WriteJSON(os.Stdout, results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-6s  %-16s  %s\n", "Day", "Label", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for _, e := range results {
		day := e.Date
		if m, d, err := e.Day(); err == nil {
			day = fmt.Sprintf("%02d-%02d", int(m), d)
		}
		fmt.Fprintf(os.Stdout, "%-6s  %-16s  %s\n", day, e.DateLabel, e.Title)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored entries to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = "yaml"
	}
	if output == "" {
		output = s.DefaultExportPath(format)
	}

	switch format {
	case "yaml":
		err = s.ExportYAML(cmd.Context(), output)
	case "json":
		err = s.ExportJSON(cmd.Context(), output)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", output)
	return nil
}

// --- shared helpers ---

// openStore resolves the configuration with the store flags plus extra and
// opens the store.
func openStore(cmd *cobra.Command, extra ...map[string]string) (*store.Store, types.Config, error) {
	keys := map[string]string{}
	for k, v := range storeFlags {
		keys[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			keys[k] = v
		}
	}

	cfg, err := commandConfig(cmd, keys)
	if err != nil {
		return nil, types.Config{}, err
	}
	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return nil, types.Config{}, err
	}
	return s, cfg, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("store-dir", "data/index", "directory containing entries.db")
	storeCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	storeTodayCmd.Flags().String("date", "", "day to show as MM-DD (default: today)")
	storeTodayCmd.Flags().String("timezone", server.DefaultTimezone, "time zone that decides today")
	storeTodayCmd.Flags().Bool("json", false, "output the entry as JSON")

	storeSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use --max-results)")
	storeSearchCmd.Flags().Bool("json", false, "output results as JSON")

	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().StringP("output", "o", "", "output file (default: <store-dir>/export.<format>)")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeTodayCmd)
	storeCmd.AddCommand(storeSearchCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
