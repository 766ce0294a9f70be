package interfaces

// Logger is the structured logging surface shared by the API server and the form controller.
// keyvals are alternating key/value pairs; non-string keys are skipped.
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
	SetLevel(level string)
	WithContext(ctx map[string]interface{}) Logger
}
