package logger

// NoOpLogger discards everything. Used by tests and by commands that only print reports.
type NoOpLogger struct{}

// NewNop creates a new no-op logger instance.
func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}

func (l *NoOpLogger) Info(msg string, fields ...Field) {}

func (l *NoOpLogger) Warn(msg string, fields ...Field) {}

func (l *NoOpLogger) Error(msg string, fields ...Field) {}

func (l *NoOpLogger) With(fields ...Field) Logger {
	return l
}

func (l *NoOpLogger) Sync() error {
	return nil
}
