package servicelayer

// Logger is the structured logging interface the layer reports through.
// Messages carry variadic key-value pairs, compatible with slog, zap's
// sugared logger, and similar libraries:
//
//	logger.Debug("Constructed service", "service", "geo.projector")
type Logger interface {
	// Info logs normal lifecycle events: layer started, layer destroyed.
	Info(msg string, args ...any)

	// Error logs failures that do not abort the current operation, such
	// as a destructor error during best-effort teardown.
	Error(msg string, args ...any)

	// Warn logs unusual but non-fatal conditions, such as an undeclared
	// dynamic lookup.
	Warn(msg string, args ...any)

	// Debug logs per-service diagnostics: construction, sharing,
	// destruction.
	Debug(msg string, args ...any)
}

// NoopLogger discards everything. It is the default when New is given a
// nil logger.
type NoopLogger struct{}

func (NoopLogger) Info(msg string, args ...any)  {}
func (NoopLogger) Error(msg string, args ...any) {}
func (NoopLogger) Warn(msg string, args ...any)  {}
func (NoopLogger) Debug(msg string, args ...any) {}
