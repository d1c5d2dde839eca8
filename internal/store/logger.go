package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slogLogger routes GORM messages and SQL traces to a slog.Logger. Statements
// are logged at debug, slow statements at warn and failures at error. Record
// not found is an expected outcome and never logged as a failure.
type slogLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

// NewLogger returns a GORM logger writing to l. slow == 0 disables slow query
// warnings.
func NewLogger(l *slog.Logger, slow time.Duration) logger.Interface {
	return &slogLogger{log: l, level: logger.Info, slow: slow}
}

func (l *slogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.InfoContext(ctx, "gorm_info", "message", fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.WarnContext(ctx, "gorm_warn", "message", fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.ErrorContext(ctx, "gorm_error", "message", fmt.Sprintf(msg, data...))
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	ms := float64(elapsed.Microseconds()) / 1000.0
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.log.ErrorContext(ctx, "sql_error", "sql", sql, "rows", rows, "latency_ms", ms, "error", err)
	case l.slow != 0 && elapsed > l.slow && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.WarnContext(ctx, "sql_slow", "sql", sql, "rows", rows, "latency_ms", ms, "threshold_ms", l.slow.Milliseconds())
	case l.level >= logger.Info && l.log.Enabled(ctx, slog.LevelDebug):
		sql, rows := fc()
		l.log.DebugContext(ctx, "sql", "sql", sql, "rows", rows, "latency_ms", ms)
	}
}
