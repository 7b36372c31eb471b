package disposal

import (
	"fmt"
	"runtime"

	"github.com/wippyai/disposable/assoc"
	"github.com/wippyai/disposable/errors"
)

var recordKey = assoc.NewReservedKey("disposal.record")

// Instance is the disposal view of one object, returned by Track.
type Instance struct {
	tracker *Tracker
	table   func(create bool) *assoc.Table
	typ     string
	addr    uintptr
}

// Type returns the Go type of the tracked pointer, e.g. "*pool.Conn".
func (in Instance) Type() string {
	return in.typ
}

// Addr returns the address of the tracked object.
func (in Instance) Addr() uintptr {
	return in.addr
}

// String returns "<type>(<addr>)".
func (in Instance) String() string {
	if in.table == nil {
		return "<nil>"
	}
	return in.id()
}

func (in Instance) id() string {
	return fmt.Sprintf("%s(%#x)", in.typ, in.addr)
}

func (in Instance) record() *record {
	if in.table == nil {
		return nil
	}
	tbl := in.table(false)
	if tbl == nil {
		return nil
	}
	v, ok := tbl.Value(recordKey)
	if !ok {
		return nil
	}
	rec, _ := v.(*record)
	return rec
}

// MakeDisposable opts the instance into tracking. Calling it again has no
// effect, including after Dispose.
func (in Instance) MakeDisposable() {
	if in.table == nil {
		return
	}
	tbl := in.table(true)
	if _, stored := tbl.AssociateIfAbsent(recordKey, &record{state: Active}); stored {
		in.tracker.notify(in.event(EventMade, 0))
	}
}

// IsDisposable reports whether MakeDisposable has been called. It stays true
// after disposal.
func (in Instance) IsDisposable() bool {
	return in.record() != nil
}

// State returns the current disposal state.
func (in Instance) State() State {
	rec := in.record()
	if rec == nil {
		return NotTracked
	}
	state, _ := rec.snapshot()
	return state
}

// IsDisposed reports whether Dispose has been called on a disposable instance.
func (in Instance) IsDisposed() bool {
	return in.State() == Disposed
}

// DisposalCount returns the number of outstanding retains. It is 0 for
// instances that are not tracked or already disposed.
func (in Instance) DisposalCount() uint {
	rec := in.record()
	if rec == nil {
		return 0
	}
	_, count := rec.snapshot()
	return count
}

// RetainDisposable increments the disposal count. It is a no-op on
// instances that are not tracked; on a disposed instance it only reports a
// violation.
func (in Instance) RetainDisposable() {
	rec := in.record()
	if rec == nil {
		return
	}

	rec.mu.Lock()
	if rec.state == Disposed {
		rec.mu.Unlock()
		in.violation("RetainDisposable", errors.RetainAfterDispose(in.typ, in.hexAddr()), Disposed, 0)
		return
	}
	rec.count++
	count := rec.count
	rec.mu.Unlock()

	in.tracker.notify(in.event(EventRetained, count))
}

// ReleaseDisposable decrements the disposal count. Releasing at zero, after
// dispose, or on an instance that is not tracked reports a violation and
// changes nothing. Reaching zero does not dispose the instance.
func (in Instance) ReleaseDisposable() {
	if in.table == nil {
		return
	}
	rec := in.record()
	if rec == nil {
		in.violation("ReleaseDisposable", errors.ReleaseUntracked(in.typ, in.hexAddr()), NotTracked, 0)
		return
	}

	rec.mu.Lock()
	switch {
	case rec.state == Disposed:
		rec.mu.Unlock()
		in.violation("ReleaseDisposable", errors.ReleaseAfterDispose(in.typ, in.hexAddr()), Disposed, 0)
		return
	case rec.count == 0:
		rec.mu.Unlock()
		in.violation("ReleaseDisposable", errors.ReleaseAtZero(in.typ, in.hexAddr()), Active, 0)
		return
	}
	rec.count--
	count := rec.count
	rec.mu.Unlock()

	in.tracker.notify(in.event(EventReleased, count))
}

// Dispose moves the instance to the terminal Disposed state and forces the
// count to zero. Outstanding retains and repeated disposal are reported as
// violations; neither prevents the instance from ending up disposed.
func (in Instance) Dispose() {
	if in.table == nil {
		return
	}
	rec := in.record()
	if rec == nil {
		in.violation("Dispose", errors.DisposeUntracked(in.typ, in.hexAddr()), NotTracked, 0)
		return
	}

	rec.mu.Lock()
	if rec.state == Disposed {
		rec.mu.Unlock()
		in.violation("Dispose", errors.DoubleDispose(in.typ, in.hexAddr()), Disposed, 0)
		return
	}
	outstanding := rec.count
	rec.state = Disposed
	rec.count = 0
	rec.mu.Unlock()

	in.tracker.notify(in.event(EventDisposed, 0))
	if outstanding > 0 {
		in.violation("Dispose", errors.DisposeWithRetains(in.typ, in.hexAddr(), outstanding), Disposed, outstanding)
	}
}

// IsDisposedWithLogIfTrue is IsDisposed, but when the instance is disposed it
// also emits a diagnostic naming the calling function. Put it at the top of
// methods that must refuse to run after disposal.
func (in Instance) IsDisposedWithLogIfTrue() bool {
	if !in.IsDisposed() {
		return false
	}
	caller := callerName(3)
	in.violation(caller, errors.UseAfterDispose(in.typ, in.hexAddr(), caller), Disposed, 0)
	return true
}

// LogOperation emits a diagnostic line naming the instance and op, using
// the same format the tracker uses for its own guard points.
func (in Instance) LogOperation(op string) {
	if in.table == nil {
		return
	}
	state, count := NotTracked, uint(0)
	if rec := in.record(); rec != nil {
		state, count = rec.snapshot()
	}
	in.tracker.emit(Diagnostic{
		Type:      in.typ,
		Addr:      in.addr,
		Operation: op,
		State:     state,
		Count:     count,
	})
}

// AssociateValue stores value under key with owning semantics. A nil value
// removes the key.
func (in Instance) AssociateValue(value any, key assoc.Key) {
	if in.table == nil {
		return
	}
	if value == nil {
		if tbl := in.table(false); tbl != nil {
			tbl.Delete(key)
		}
		return
	}
	in.table(true).Associate(key, value)
}

// WeaklyAssociateValue stores ref under key without extending the lifetime
// of the referenced value.
func (in Instance) WeaklyAssociateValue(ref assoc.WeakRef, key assoc.Key) {
	if in.table == nil {
		return
	}
	if _, ok := ref.Value(); !ok {
		if tbl := in.table(false); tbl != nil {
			tbl.Delete(key)
		}
		return
	}
	in.table(true).AssociateWeak(key, ref)
}

// AssociatedValueForKey returns the value stored under key, or (nil, false)
// if it was never set, was removed, or was weakly held and has been collected.
func (in Instance) AssociatedValueForKey(key assoc.Key) (any, bool) {
	if in.table == nil {
		return nil, false
	}
	tbl := in.table(false)
	if tbl == nil {
		return nil, false
	}
	return tbl.Value(key)
}

func (in Instance) hexAddr() string {
	return fmt.Sprintf("%#x", in.addr)
}

func (in Instance) event(typ EventType, count uint) Event {
	return Event{
		Type:     typ,
		TypeName: in.typ,
		Addr:     in.addr,
		Count:    count,
	}
}

func (in Instance) violation(op string, err *errors.Error, state State, count uint) {
	in.tracker.emit(Diagnostic{
		Err:       err,
		Type:      in.typ,
		Addr:      in.addr,
		Operation: op,
		State:     state,
		Count:     count,
	})
	e := in.event(EventViolation, count)
	e.Kind = err.Kind
	in.tracker.notify(e)
}

// callerName returns the function skip frames above runtime.Callers.
func callerName(skip int) string {
	var pcs [1]uintptr
	if runtime.Callers(skip, pcs[:]) == 0 {
		return "unknown"
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.Function == "" {
		return "unknown"
	}
	return frame.Function
}
