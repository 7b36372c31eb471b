package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wippyai/disposable/assoc"
	"github.com/wippyai/disposable/disposal"
)

type session struct {
	id   string
	data [4]int
}

func newTracked(t *testing.T) (*Collector, *disposal.Tracker) {
	t.Helper()
	c := NewCollector(prometheus.NewRegistry())
	tr := disposal.New(
		disposal.WithSink(disposal.Discard),
		disposal.WithRegistry(assoc.NewRegistry()),
		disposal.WithObserver(c),
	)
	return c, tr
}

func TestCollector_Events(t *testing.T) {
	c, tr := newTracked(t)
	in := disposal.Track(tr, &session{id: "a"})

	in.MakeDisposable()
	in.RetainDisposable()
	in.RetainDisposable()
	in.ReleaseDisposable()

	if got := testutil.ToFloat64(c.events.WithLabelValues("made")); got != 1 {
		t.Errorf("made = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("retained")); got != 2 {
		t.Errorf("retained = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("released")); got != 1 {
		t.Errorf("released = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.outstanding); got != 1 {
		t.Errorf("outstanding = %v, want 1", got)
	}
}

func TestCollector_Violations(t *testing.T) {
	c, tr := newTracked(t)
	in := disposal.Track(tr, &session{id: "b"})

	in.MakeDisposable()
	in.ReleaseDisposable()
	in.RetainDisposable()
	in.RetainDisposable()
	in.Dispose()
	in.Dispose()
	in.RetainDisposable()

	if got := testutil.ToFloat64(c.violations.WithLabelValues("release_at_zero")); got != 1 {
		t.Errorf("release_at_zero = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.violations.WithLabelValues("dispose_with_retains")); got != 1 {
		t.Errorf("dispose_with_retains = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.violations.WithLabelValues("double_dispose")); got != 1 {
		t.Errorf("double_dispose = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.violations.WithLabelValues("retain_after_dispose")); got != 1 {
		t.Errorf("retain_after_dispose = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.outstanding); got != 0 {
		t.Errorf("outstanding = %v, want 0 after dispose discards retains", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("disposed")); got != 1 {
		t.Errorf("disposed = %v, want 1", got)
	}
}

func TestCollector_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.OnDisposalEvent(disposal.Event{Type: disposal.EventMade})

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 series (events, outstanding), got %d", n)
	}

	if NewCollector(nil) == nil {
		t.Fatal("NewCollector(nil) should still return a collector")
	}
}
