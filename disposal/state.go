package disposal

import "sync"

// State is the disposal state of an instance.
type State uint8

const (
	// NotTracked means MakeDisposable was never called.
	NotTracked State = iota
	// Active means the instance is disposable and not yet disposed.
	Active
	// Disposed is terminal.
	Disposed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case NotTracked:
		return "not_tracked"
	case Active:
		return "active"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// record is the per-instance disposal record. A record only exists once
// MakeDisposable has been called, so its state is never NotTracked.
type record struct {
	mu    sync.Mutex
	state State
	count uint
}

func (r *record) snapshot() (State, uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.count
}
