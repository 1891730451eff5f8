package argdoc

import "time"

// Note records one observable degradation: a converter reference the codec
// dropped instead of failing. Notes are attached to the loaded parser so
// non-strict substitutions are never silent.
type Note struct {
	Op     string
	Dest   string
	Path   string
	Detail string
}

// LogEvent describes one dump or load step for logging.
type LogEvent struct {
	Op       string
	Prog     string
	Dest     string
	Path     string
	Detail   string
	Duration time.Duration
	Err      error
}

// Logger records codec events.
type Logger interface {
	LogCodec(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogCodec implements Logger.
func (f LoggerFunc) LogCodec(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogCodec(LogEvent) {}
