package disposal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/disposable/errors"
)

// Diagnostic is a single diagnostic line about one instance.
//
// Err is nil for lines emitted by LogOperation. Count is the disposal count
// after the operation, or the retains discarded by Dispose for
// dispose_with_retains.
type Diagnostic struct {
	Err       *errors.Error
	Type      string
	Operation string
	Addr      uintptr
	Count     uint
	State     State
}

// Instance returns the instance identifier, "<type>(<addr>)".
func (d Diagnostic) Instance() string {
	return fmt.Sprintf("%s(%#x)", d.Type, d.Addr)
}

// String formats the diagnostic as one line.
func (d Diagnostic) String() string {
	s := d.Instance() + " " + d.Operation
	if d.Err != nil {
		s += ": " + string(d.Err.Kind)
		if d.Err.Detail != "" {
			s += " (" + d.Err.Detail + ")"
		}
	}
	return s
}

// Sink receives diagnostics. Emit must not block for long; it runs on the
// caller's goroutine.
type Sink interface {
	Emit(Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

// Emit calls f(d).
func (f SinkFunc) Emit(d Diagnostic) {
	f(d)
}

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// MultiSink fans a diagnostic out to several sinks in order.
type MultiSink []Sink

// Emit delivers d to every sink.
func (m MultiSink) Emit(d Diagnostic) {
	for _, s := range m {
		if s != nil {
			s.Emit(d)
		}
	}
}

// LoggerSink writes diagnostics through zap. A nil Logger uses the package
// logger at the time of the call.
type LoggerSink struct {
	Logger *zap.Logger
}

// Emit logs d. Violations are logged at warn level, LogOperation lines at info.
func (s LoggerSink) Emit(d Diagnostic) {
	l := s.Logger
	if l == nil {
		l = Logger()
	}

	fields := []zap.Field{
		zap.String("instance", d.Instance()),
		zap.String("type", d.Type),
		zap.Uintptr("addr", d.Addr),
		zap.String("op", d.Operation),
		zap.Stringer("state", d.State),
		zap.Uint("count", d.Count),
	}
	if d.Err == nil {
		l.Info("disposal guard", fields...)
		return
	}
	fields = append(fields, zap.String("kind", string(d.Err.Kind)), zap.Error(d.Err))
	l.Warn("disposal protocol violation", fields...)
}
