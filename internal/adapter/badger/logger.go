package badger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// slogLogger routes Badger's printf-style logging into slog.
type slogLogger struct {
	log *slog.Logger
}

func newLogger(log *slog.Logger) *slogLogger {
	return &slogLogger{log: log.With("component", "badger")}
}

func (l *slogLogger) Errorf(format string, args ...any)   { l.emit(slog.LevelError, format, args) }
func (l *slogLogger) Warningf(format string, args ...any) { l.emit(slog.LevelWarn, format, args) }
func (l *slogLogger) Infof(format string, args ...any)    { l.emit(slog.LevelInfo, format, args) }
func (l *slogLogger) Debugf(format string, args ...any)   { l.emit(slog.LevelDebug, format, args) }

func (l *slogLogger) emit(level slog.Level, format string, args []any) {
	ctx := context.Background()
	if !l.log.Enabled(ctx, level) {
		return
	}
	l.log.Log(ctx, level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}
