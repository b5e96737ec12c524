package logger

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// New builds a timestamped logger. format "console" gives human-readable output,
// anything else writes JSON lines.
func New(level, format string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Gorm routes GORM's logging through zerolog. Failed queries log at error,
// slow ones at warn and the rest at debug when the level is Info.
type Gorm struct {
	Log                       zerolog.Logger
	Level                     gormlogger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

func (g *Gorm) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *g
	c.Level = level
	return &c
}

func (g *Gorm) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.Level >= gormlogger.Info {
		g.logger(ctx).Info().Msgf(msg, args...)
	}
}

func (g *Gorm) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.Level >= gormlogger.Warn {
		g.logger(ctx).Warn().Msgf(msg, args...)
	}
}

func (g *Gorm) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.Level >= gormlogger.Error {
		g.logger(ctx).Error().Msgf(msg, args...)
	}
}

func (g *Gorm) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.Level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var ev *zerolog.Event
	switch {
	case err != nil && g.Level >= gormlogger.Error &&
		!(g.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound)):
		ev = g.logger(ctx).Error().Err(err)
	case g.SlowThreshold > 0 && elapsed > g.SlowThreshold && g.Level >= gormlogger.Warn:
		ev = g.logger(ctx).Warn().Dur("threshold", g.SlowThreshold)
	case g.Level >= gormlogger.Info:
		ev = g.logger(ctx).Debug()
	default:
		return
	}

	sql, rows := fc()
	ev.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("query")
}

// logger prefers the request-scoped logger carried by ctx.
func (g *Gorm) logger(ctx context.Context) *zerolog.Logger {
	log := g.Log
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		log = *l
	}
	log = log.With().Str("component", "gorm").Logger()
	return &log
}
