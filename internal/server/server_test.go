// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/jftlv/internal/store"
	"github.com/pdiddy/jftlv/pkg/types"
)

// fakeLookup serves entries from a map keyed by MM-DD and counts calls.
type fakeLookup struct {
	mu      sync.Mutex
	entries map[string]types.Entry
	err     error
	calls   int
}

func (f *fakeLookup) Lookup(_ context.Context, month time.Month, day int) (types.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return types.Entry{}, f.err
	}
	key := fmt.Sprintf("%02d-%02d", int(month), day)
	e, ok := f.entries[key]
	if !ok {
		return types.Entry{}, fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	return e, nil
}

var newYear = types.Entry{
	Date: "2025-01-01", DateLabel: "1. janvāris", Title: "Cerība",
	Quote: "“Mēs atradām cerību.”", Reference: "Bāzes teksts, 12. lpp.",
	Body: "Šodien <es> zinu & ticu.", Affirmation: "Tikai šodien es turēšos pie cerības.",
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T, lookup Lookuper, cfg types.ServerConfig, now time.Time) *Server {
	t.Helper()
	s, err := New(lookup, cfg, WithClock(fixedClock(now)), WithLogger(quietLogger()))
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestTodayUsesTimezone(t *testing.T) {
	// 22:30 UTC on Dec 31 is already Jan 1 in Riga.
	now := time.Date(2024, time.December, 31, 22, 30, 0, 0, time.UTC)

	tests := []struct {
		tz   string
		want string
	}{
		{tz: "", want: "01-01"},
		{tz: "Europe/Riga", want: "01-01"},
		{tz: "UTC", want: "12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			s := newTestServer(t, &fakeLookup{}, types.ServerConfig{Timezone: tt.tz}, now)
			assert.Equal(t, tt.want, s.Today())
		})
	}
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	_, err := New(&fakeLookup{}, types.ServerConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestAPITodayFound(t *testing.T) {
	lookup := &fakeLookup{entries: map[string]types.Entry{"01-01": newYear}}
	s := newTestServer(t, lookup, types.ServerConfig{}, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	rec := get(t, s.Handler(), "/api/today")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), `"dateLV":"1. janvāris"`)
	assert.Contains(t, rec.Body.String(), `<es> zinu & ticu`)

	var got types.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	if diff := cmp.Diff(newYear, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestAPITodayNotFound(t *testing.T) {
	s := newTestServer(t, &fakeLookup{}, types.ServerConfig{}, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))

	rec := get(t, s.Handler(), "/api/today")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "No entry found for today"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestAPITodayStoreError(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("database is locked")}
	s := newTestServer(t, lookup, types.ServerConfig{}, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	rec := get(t, s.Handler(), "/api/today")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "locked")
}

func TestAPITodayIsCached(t *testing.T) {
	lookup := &fakeLookup{entries: map[string]types.Entry{"01-01": newYear}}
	s := newTestServer(t, lookup, types.ServerConfig{CacheTTL: time.Hour}, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	h := s.Handler()

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(t, h, "/api/today").Code)
	}
	assert.Equal(t, 1, lookup.calls)
}

func TestMissesAreNotCached(t *testing.T) {
	lookup := &fakeLookup{}
	s := newTestServer(t, lookup, types.ServerConfig{}, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	h := s.Handler()

	get(t, h, "/api/today")
	get(t, h, "/api/today")
	assert.Equal(t, 2, lookup.calls)
}

func TestIndexAndUnknownPaths(t *testing.T) {
	s := newTestServer(t, &fakeLookup{}, types.ServerConfig{}, time.Now())
	h := s.Handler()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/today")

	for _, path := range []string{"/favicon.ico", "/api", "/api/tomorrow"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
			assert.Equal(t, "Not found", rec.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	lookup := &fakeLookup{entries: map[string]types.Entry{"01-01": newYear}}
	cfg := types.ServerConfig{RateLimit: 0.001, Burst: 2}
	s := newTestServer(t, lookup, cfg, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/today").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/today").Code)

	rec := get(t, h, "/api/today")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error": "Too many requests"}`, rec.Body.String())
}

func TestListenAndServeShutsDown(t *testing.T) {
	s, err := New(&fakeLookup{}, types.ServerConfig{Addr: "127.0.0.1:0"}, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
