package disposable

import (
	"sync/atomic"

	"github.com/wippyai/disposable/disposal"
)

var defaultTracker atomic.Pointer[disposal.Tracker]

// Default returns the process-wide tracker used by For.
func Default() *disposal.Tracker {
	if t := defaultTracker.Load(); t != nil {
		return t
	}
	defaultTracker.CompareAndSwap(nil, disposal.New())
	return defaultTracker.Load()
}

// SetDefault replaces the process-wide tracker. A nil tracker restores a
// fresh default on next use.
func SetDefault(t *disposal.Tracker) {
	defaultTracker.Store(t)
}

// For returns the disposal view of p on the default tracker.
func For[T any](p *T) disposal.Instance {
	return disposal.Track(Default(), p)
}
