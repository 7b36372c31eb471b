package disposal

import (
	"sync"

	"github.com/wippyai/disposable/assoc"
	"github.com/wippyai/disposable/errors"
)

type conn struct {
	name string
	fd   [4]int
}

type embedded struct {
	assoc.Table
	name string
}

type recorder struct {
	diags []Diagnostic
	mu    sync.Mutex
}

func (r *recorder) Emit(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

func (r *recorder) all() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diags...)
}

func (r *recorder) kinds() []errors.Kind {
	var kinds []errors.Kind
	for _, d := range r.all() {
		if d.Err != nil {
			kinds = append(kinds, d.Err.Kind)
		}
	}
	return kinds
}

type testObserver struct {
	events []Event
}

func (o *testObserver) OnDisposalEvent(e Event) {
	o.events = append(o.events, e)
}

func newTestTracker() (*Tracker, *recorder) {
	rec := &recorder{}
	return New(WithSink(rec), WithRegistry(assoc.NewRegistry())), rec
}
