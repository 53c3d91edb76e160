package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap logger to the Logger interface. Messages are
// formatted printf-style through the sugared logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger wraps logger. A nil logger falls back to zap.NewNop.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{sugar: logger.Sugar()}
}

func (l *ZapLogger) Debug(format string, v ...any) { l.sugar.Debugf(format, v...) }
func (l *ZapLogger) Info(format string, v ...any)  { l.sugar.Infof(format, v...) }
func (l *ZapLogger) Warn(format string, v ...any)  { l.sugar.Warnf(format, v...) }
func (l *ZapLogger) Error(format string, v ...any) { l.sugar.Errorf(format, v...) }

// With returns a child logger carrying the given key/value pairs.
func (l *ZapLogger) With(keysAndValues ...any) *ZapLogger {
	return &ZapLogger{sugar: l.sugar.With(keysAndValues...)}
}

// ZapLevel maps a LogLevel onto the zap equivalent.
func ZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelNone:
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}
