// Package log provides the leveled logging interface used by the lazy and
// streaming engines.
//
// # Log Levels
//
//   - LogLevelDebug: every evaluation pass and propagation step
//   - LogLevelInfo: run start and stop, source exhaustion
//   - LogLevelWarn: a failed branch that the engine kept running past
//   - LogLevelError: failures that end a run
//   - LogLevelNone: disables all output
//
// # Implementations
//
// DefaultLogger writes through the standard library logger with a
// "[tributary] " prefix. NoOpLogger discards everything. GologLogger and
// ZapLogger wrap github.com/kataras/golog and go.uber.org/zap respectively:
//
//	glogger := golog.New()
//	logger := log.NewGologLogger(glogger)
//	logger.SetLevel(log.LogLevelDebug)
//
//	zl, _ := zap.NewDevelopment()
//	engine := streaming.NewEngine(streaming.RunConfig{Logger: log.NewZapLogger(zl)})
//
// # Package-level logger
//
// Engines that are not given a logger use GetDefaultLogger, which starts out
// as a DefaultLogger at warn level. SetDefaultLogger and SetLogLevel replace
// it; both are safe for concurrent use.
package log
