// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/jftlv/internal/server"
	"github.com/pdiddy/jftlv/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve today's reading over HTTP",
	Long: `Serve answers GET / with a small reading page and GET /api/today with the
entry for the current day as JSON. Entries come from the store built with
"jftlv store ingest". The server stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd, map[string]string{
		"store.dir":         "store-dir",
		"server.addr":       "addr",
		"server.timezone":   "timezone",
		"server.cache_ttl":  "cache-ttl",
		"server.rate_limit": "rate-limit",
		"server.burst":      "burst",
	})
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	srv, err := server.New(s, cfg.Server, server.WithLogger(logrus.StandardLogger()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}

func init() {
	serveCmd.Flags().String("store-dir", "data/index", "directory containing entries.db")
	serveCmd.Flags().String("addr", server.DefaultAddr, "listen address")
	serveCmd.Flags().String("timezone", server.DefaultTimezone, "time zone that decides today")
	serveCmd.Flags().Duration("cache-ttl", server.DefaultCacheTTL, "how long a day's entry is cached")
	serveCmd.Flags().Float64("rate-limit", 0, "requests per second (0 = unlimited)")
	serveCmd.Flags().Int("burst", 10, "rate limiter burst size")

	rootCmd.AddCommand(serveCmd)
}
