package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "shown" || entry["k"] != "v" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a timestamp field")
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v (%s)", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestGormTraceLevels(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 3 }
	ctx := context.Background()

	cases := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantLevel string
	}{
		{"error", gormlogger.Warn, time.Now(), errors.New("boom"), "error"},
		{"not found ignored", gormlogger.Warn, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"slow", gormlogger.Warn, time.Now().Add(-2 * time.Second), nil, "warn"},
		{"fast under warn", gormlogger.Warn, time.Now(), nil, ""},
		{"fast under info", gormlogger.Info, time.Now(), nil, "debug"},
		{"silent", gormlogger.Silent, time.Now(), errors.New("boom"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			g := &Gorm{
				Log:                       New("debug", "json", &buf),
				SlowThreshold:             time.Second,
				IgnoreRecordNotFoundError: true,
			}
			g.LogMode(tc.level).Trace(ctx, tc.begin, query, tc.err)

			entries := decodeLines(t, &buf)
			if tc.wantLevel == "" {
				if len(entries) != 0 {
					t.Fatalf("expected no output, got %v", entries)
				}
				return
			}
			if len(entries) != 1 {
				t.Fatalf("expected one entry, got %v", entries)
			}
			e := entries[0]
			if e["level"] != tc.wantLevel || e["component"] != "gorm" || e["sql"] != "SELECT 1" || e["rows"] != float64(3) {
				t.Fatalf("unexpected entry: %v", e)
			}
		})
	}
}

func TestGormLogModeCopies(t *testing.T) {
	var buf bytes.Buffer
	g := &Gorm{Log: New("debug", "json", &buf), Level: gormlogger.Warn}

	g.LogMode(gormlogger.Silent).Error(context.Background(), "hidden %d", 1)
	g.Info(context.Background(), "hidden too")
	g.Error(context.Background(), "shown %d", 2)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["message"] != "shown 2" || entries[0]["level"] != "error" {
		t.Fatalf("unexpected entries: %v", entries)
	}
	if g.Level != gormlogger.Warn {
		t.Fatalf("LogMode must not change the receiver, got %v", g.Level)
	}
}

func TestGormUsesContextLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	g := &Gorm{Log: New("debug", "json", &base), Level: gormlogger.Warn}

	reqLog := New("debug", "json", &scoped).With().Str("request_id", "abc").Logger()
	ctx := reqLog.WithContext(context.Background())

	g.Trace(ctx, time.Now(), func() (string, int64) { return "DELETE FROM x", 0 }, errors.New("locked"))

	if base.Len() != 0 {
		t.Fatalf("base logger should be unused: %s", base.String())
	}
	entries := decodeLines(t, &scoped)
	if len(entries) != 1 || entries[0]["request_id"] != "abc" || entries[0]["error"] != "locked" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}
