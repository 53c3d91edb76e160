package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestNewGologLogger(t *testing.T) {
	logger := NewGologLogger(golog.New())

	assert.NotNil(t, logger)
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestGologLogger_LevelControl(t *testing.T) {
	logger := NewGologLogger(golog.New())

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())

	logger.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelError, logger.GetLevel())

	logger.SetLevel(LogLevelNone)
	assert.Equal(t, LogLevelNone, logger.GetLevel())
}

func TestGologLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)

	logger := NewGologLogger(glogger)
	logger.SetLevel(LogLevelError)

	logger.Debug("filtered %d", 1)
	logger.Info("filtered %d", 2)
	logger.Warn("filtered %d", 3)
	logger.Error("node %s failed", "sum")

	out := buf.String()
	assert.Contains(t, out, "node sum failed")
	assert.NotContains(t, out, "filtered")
}

func TestGologLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)

	logger := NewGologLogger(glogger)
	logger.SetLevel(LogLevelDebug)
	graphLogger := logger.Named("pricing")
	assert.Equal(t, LogLevelDebug, graphLogger.GetLevel())

	graphLogger.Debug("evaluate %s", "total")
	assert.Contains(t, buf.String(), "pricing")
	assert.Contains(t, buf.String(), "evaluate total")

	graphLogger.SetLevel(LogLevelWarn)
	buf.Reset()
	graphLogger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, LogLevelDebug, logger.GetLevel())
}

func TestGologLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := NewGologLogger(nil)
	logger.SetLevel(LogLevel(42))
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}
