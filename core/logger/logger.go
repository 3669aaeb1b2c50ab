package logger

// Logger is the logging facade used by the planner packages.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	// Infow logs a message with structured fields.
	Infow(msg string, fields map[string]any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
