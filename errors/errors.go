package errors

import (
	"fmt"
	"strings"
)

// Op names the tracker operation that detected a violation
type Op string

const (
	OpRetain  Op = "retain"  // RetainDisposable
	OpRelease Op = "release" // ReleaseDisposable
	OpDispose Op = "dispose" // Dispose
	OpGuard   Op = "guard"   // IsDisposedWithLogIfTrue
	OpSink    Op = "sink"    // diagnostic delivery
	OpObserve Op = "observe" // event delivery
)

// Kind categorizes the violation
type Kind string

const (
	KindRetainAfterDispose  Kind = "retain_after_dispose"
	KindReleaseAtZero       Kind = "release_at_zero"
	KindReleaseAfterDispose Kind = "release_after_dispose"
	KindReleaseUntracked    Kind = "release_untracked"
	KindDisposeUntracked    Kind = "dispose_untracked"
	KindDoubleDispose       Kind = "double_dispose"
	KindDisposeWithRetains  Kind = "dispose_with_retains"
	KindUseAfterDispose     Kind = "use_after_dispose"

	// Delivery failures, logged and never passed to a sink
	KindSinkPanic     Kind = "sink_panic"
	KindObserverPanic Kind = "observer_panic"
)

// Error describes a protocol violation on a single instance
type Error struct {
	Cause    error
	Op       Op
	Kind     Kind
	Type     string
	Instance string
	Detail   string
	Count    uint
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" || e.Instance != "" {
		b.WriteString(" on ")
		b.WriteString(e.Type)
		if e.Instance != "" {
			b.WriteByte('(')
			b.WriteString(e.Instance)
			b.WriteByte(')')
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Op == t.Op && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Type sets the Go type name of the instance
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Instance sets the instance identity
func (b *Builder) Instance(id string) *Builder {
	b.err.Instance = id
	return b
}

// Count sets the reference count observed when the violation occurred
func (b *Builder) Count(n uint) *Builder {
	b.err.Count = n
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// RetainAfterDispose creates the error for a retain on a disposed instance
func RetainAfterDispose(typ, instance string) *Error {
	return New(OpRetain, KindRetainAfterDispose).
		Type(typ).
		Instance(instance).
		Detail("instance is disposed, retain ignored").
		Build()
}

// ReleaseAtZero creates the error for a release that would underflow the count
func ReleaseAtZero(typ, instance string) *Error {
	return New(OpRelease, KindReleaseAtZero).
		Type(typ).
		Instance(instance).
		Detail("disposal count is already zero").
		Build()
}

// ReleaseAfterDispose creates the error for a release on a disposed instance
func ReleaseAfterDispose(typ, instance string) *Error {
	return New(OpRelease, KindReleaseAfterDispose).
		Type(typ).
		Instance(instance).
		Detail("instance is disposed, release ignored").
		Build()
}

// ReleaseUntracked creates the error for a release on an instance that was never made disposable
func ReleaseUntracked(typ, instance string) *Error {
	return New(OpRelease, KindReleaseUntracked).
		Type(typ).
		Instance(instance).
		Detail("instance is not disposable").
		Build()
}

// DisposeUntracked creates the error for a dispose on an instance that was never made disposable
func DisposeUntracked(typ, instance string) *Error {
	return New(OpDispose, KindDisposeUntracked).
		Type(typ).
		Instance(instance).
		Detail("instance is not disposable").
		Build()
}

// DoubleDispose creates the error for a second dispose
func DoubleDispose(typ, instance string) *Error {
	return New(OpDispose, KindDoubleDispose).
		Type(typ).
		Instance(instance).
		Detail("instance is already disposed").
		Build()
}

// DisposeWithRetains creates the error for a dispose while retains are outstanding
func DisposeWithRetains(typ, instance string, count uint) *Error {
	return New(OpDispose, KindDisposeWithRetains).
		Type(typ).
		Instance(instance).
		Count(count).
		Detail("disposed with %d outstanding retains", count).
		Build()
}

// UseAfterDispose creates the error for a guarded call on a disposed instance
func UseAfterDispose(typ, instance, caller string) *Error {
	return New(OpGuard, KindUseAfterDispose).
		Type(typ).
		Instance(instance).
		Detail("%s called after dispose", caller).
		Build()
}

// Wrap wraps an existing error with violation context
func Wrap(op Op, kind Kind, cause error, detail string) *Error {
	return New(op, kind).
		Cause(cause).
		Detail("%s", detail).
		Build()
}
