package log

import (
	"github.com/kataras/golog"
)

var gologLevels = map[LogLevel]golog.Level{
	LogLevelDebug: golog.DebugLevel,
	LogLevelInfo:  golog.InfoLevel,
	LogLevelWarn:  golog.WarnLevel,
	LogLevelError: golog.ErrorLevel,
	LogLevelNone:  golog.DisableLevel,
}

// GologLogger writes through a kataras/golog logger. Messages below the
// wrapper's level are dropped before they reach golog.
type GologLogger struct {
	logger *golog.Logger
	level  LogLevel
}

var _ Logger = (*GologLogger)(nil)

// NewGologLogger wraps logger at info level. A nil logger uses golog.Default.
func NewGologLogger(logger *golog.Logger) *GologLogger {
	if logger == nil {
		logger = golog.Default
	}
	return &GologLogger{logger: logger, level: LogLevelInfo}
}

func (l *GologLogger) logf(level LogLevel, format string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Logf(gologLevels[level], format, v...)
}

func (l *GologLogger) Debug(format string, v ...any) { l.logf(LogLevelDebug, format, v...) }
func (l *GologLogger) Info(format string, v ...any)  { l.logf(LogLevelInfo, format, v...) }
func (l *GologLogger) Warn(format string, v ...any)  { l.logf(LogLevelWarn, format, v...) }
func (l *GologLogger) Error(format string, v ...any) { l.logf(LogLevelError, format, v...) }

// Named returns a golog child logger whose lines are prefixed with name,
// for example a graph or engine name. The child starts at the parent's
// level.
func (l *GologLogger) Named(name string) *GologLogger {
	return &GologLogger{logger: l.logger.Child(name), level: l.level}
}

// SetLevel sets the level on both the wrapper and the golog logger.
func (l *GologLogger) SetLevel(level LogLevel) {
	gl, ok := gologLevels[level]
	if !ok {
		level, gl = LogLevelInfo, golog.InfoLevel
	}
	l.level = level
	l.logger.Level = gl
}

// GetLevel returns the current log level
func (l *GologLogger) GetLevel() LogLevel {
	return l.level
}
