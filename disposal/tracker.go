package disposal

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/disposable/assoc"
	"github.com/wippyai/disposable/errors"
)

// Tracker owns the diagnostic sink, the observers, and the registry used for
// instances that do not carry their own assoc.Table.
type Tracker struct {
	registry  *assoc.Registry
	sink      Sink
	observers []Observer
	obsMu     sync.RWMutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSink sets the diagnostic sink. A nil sink discards diagnostics.
func WithSink(s Sink) Option {
	return func(t *Tracker) {
		if s == nil {
			s = Discard
		}
		t.sink = s
	}
}

// WithRegistry sets the registry that holds side tables for instances that
// are not assoc.Holders. Defaults to assoc.Default.
func WithRegistry(r *assoc.Registry) Option {
	return func(t *Tracker) {
		if r != nil {
			t.registry = r
		}
	}
}

// WithObserver subscribes o to lifecycle events.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		if o != nil {
			t.observers = append(t.observers, o)
		}
	}
}

// New creates a tracker. Without options it logs through the package logger
// and stores side tables in assoc.Default.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		registry: assoc.Default,
		sink:     LoggerSink{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track returns the disposal view of p. A nil tracker or nil p yields the
// zero Instance, on which every operation is a no-op.
//
// Pointers to zero-size types also yield the zero Instance, and a warning is
// logged through the package logger: distinct zero-size values may share one
// address, so they cannot be told apart.
func Track[T any](t *Tracker, p *T) Instance {
	if t == nil || p == nil {
		return Instance{}
	}
	typ := reflect.TypeFor[*T]().String()
	if unsafe.Sizeof(*p) == 0 {
		Logger().Warn("disposal cannot track zero-size type", zap.String("type", typ))
		return Instance{}
	}
	reg := t.registry
	return Instance{
		tracker: t,
		typ:     typ,
		addr:    uintptr(unsafe.Pointer(p)),
		table: func(create bool) *assoc.Table {
			if create {
				return assoc.TableFor(reg, p)
			}
			tbl, _ := assoc.Lookup(reg, p)
			return tbl
		},
	}
}

// Subscribe adds an observer for lifecycle events. Observers may subscribe
// and unsubscribe from inside OnDisposalEvent; the change applies from the
// next event.
func (t *Tracker) Subscribe(o Observer) {
	if o == nil {
		return
	}
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer. Observers are matched by value, so only
// comparable observers (typically pointers) can be removed; others are left
// subscribed.
func (t *Tracker) Unsubscribe(o Observer) {
	if o == nil {
		return
	}
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if sameObserver(obs, o) {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// emit delivers d to the sink. A failing sink never reaches the caller.
func (t *Tracker) emit(d Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrap(errors.OpSink, errors.KindSinkPanic,
				fmt.Errorf("%v", r), d.Instance()+" "+d.Operation)
			Logger().Error("disposal sink panicked",
				zap.String("instance", d.Instance()),
				zap.String("op", d.Operation),
				zap.Error(err))
		}
	}()
	t.sink.Emit(d)
}

func (t *Tracker) notify(e Event) {
	t.obsMu.RLock()
	observers := slices.Clone(t.observers)
	t.obsMu.RUnlock()

	for _, o := range observers {
		t.deliver(o, e)
	}
}

func sameObserver(a, b Observer) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}

func (t *Tracker) deliver(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrap(errors.OpObserve, errors.KindObserverPanic,
				fmt.Errorf("%v", r), e.Type.String()+" event")
			Logger().Error("disposal observer panicked",
				zap.Stringer("event", e.Type),
				zap.Error(err))
		}
	}()
	o.OnDisposalEvent(e)
}
