// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the reading for the current calendar day over HTTP:
// a small HTML page at / and the entry itself as JSON at /api/today.
package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	_ "time/tzdata"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pdiddy/jftlv/internal/store"
	"github.com/pdiddy/jftlv/pkg/types"
)

const (
	DefaultAddr     = ":8080"
	DefaultTimezone = "Europe/Riga"
	DefaultCacheTTL = 5 * time.Minute
	defaultBurst    = 10

	// cacheControl matches the lookup cache lifetime.
	cacheControl    = "public, max-age=300"
	shutdownTimeout = 5 * time.Second
)

//go:embed index.html
var indexHTML []byte

// Lookuper finds the entry for a calendar day. *store.Store implements it.
type Lookuper interface {
	Lookup(ctx context.Context, month time.Month, day int) (types.Entry, error)
}

// Server answers today's-reading requests from a Lookuper.
type Server struct {
	addr    string
	lookup  Lookuper
	loc     *time.Location
	now     func() time.Time
	cache   *gocache.Cache
	ttl     time.Duration
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the logger for request failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// New builds a Server. Zero config fields take their defaults; a zero
// RateLimit disables request limiting.
func New(lookup Lookuper, cfg types.ServerConfig, opts ...Option) (*Server, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", tz, err)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	s := &Server{
		addr:   addr,
		lookup: lookup,
		loc:    loc,
		now:    time.Now,
		cache:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
		log:    logrus.StandardLogger(),
	}

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = defaultBurst
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Today returns the MM-DD key of the current day in the server's time zone.
func (s *Server) Today() string {
	return types.DayKey(s.now().In(s.loc))
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.handleIndex)
	mux.HandleFunc("/api/today", s.handleToday)
	mux.HandleFunc("/", handleNotFound)
	return s.limit(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	key := s.Today()

	body, err := s.todayJSON(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No entry found for today")
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("day", key).Error("looking up entry")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// todayJSON returns the encoded entry for key, memoized for the cache TTL.
func (s *Server) todayJSON(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), nil
	}

	month, day, err := store.ParseDayKey(key)
	if err != nil {
		return nil, err
	}
	entry, err := s.lookup.Lookup(ctx, month, day)
	if err != nil {
		return nil, err
	}

	body, err := encodeJSON(entry)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, body, s.ttl)
	return body, nil
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "Not found")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := encodeJSON(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
