package interfaces

// Logger defines the key/value logging contract used by the seeders and the inspector.
// keyvals are alternating string keys and values; a trailing odd key is dropped.
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
	SetLevel(level string)
	// WithContext returns a child logger that stamps every event with ctx.
	WithContext(ctx map[string]interface{}) Logger
}
