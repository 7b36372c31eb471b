package disposal

import (
	"math/rand"
	"testing"
)

// The count always equals retains minus successful releases and never
// underflows, for arbitrary retain/release sequences on an active instance.
func TestProperty_CountMatchesBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 200; round++ {
		tr, _ := newTestTracker()
		in := Track(tr, &conn{})
		in.MakeDisposable()

		var want uint
		for step := 0; step < 50; step++ {
			if rng.Intn(2) == 0 {
				in.RetainDisposable()
				want++
			} else {
				in.ReleaseDisposable()
				if want > 0 {
					want--
				}
			}
			if got := in.DisposalCount(); got != want {
				t.Fatalf("round %d step %d: count = %d, want %d", round, step, got, want)
			}
		}
	}
}

// Dispose always ends disposed with a zero count, and nothing after it moves
// the instance out of that state.
func TestProperty_DisposeIsTerminal(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for round := 0; round < 100; round++ {
		tr, _ := newTestTracker()
		in := Track(tr, &conn{})
		in.MakeDisposable()

		for i := rng.Intn(10); i > 0; i-- {
			in.RetainDisposable()
		}
		in.Dispose()

		if !in.IsDisposed() || in.DisposalCount() != 0 {
			t.Fatalf("round %d: disposed=%v count=%d", round, in.IsDisposed(), in.DisposalCount())
		}

		for step := 0; step < 20; step++ {
			switch rng.Intn(4) {
			case 0:
				in.RetainDisposable()
			case 1:
				in.ReleaseDisposable()
			case 2:
				in.Dispose()
			case 3:
				in.MakeDisposable()
			}
			if !in.IsDisposed() || in.DisposalCount() != 0 || !in.IsDisposable() {
				t.Fatalf("round %d step %d: left the disposed state", round, step)
			}
		}
	}
}

// Every violation leaves the observable state exactly as it was.
func TestProperty_ViolationsDoNotChangeState(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for round := 0; round < 100; round++ {
		tr, rec := newTestTracker()
		in := Track(tr, &conn{})
		if rng.Intn(3) > 0 {
			in.MakeDisposable()
		}

		for step := 0; step < 30; step++ {
			state, count := in.State(), in.DisposalCount()
			before := len(rec.kinds())

			switch rng.Intn(3) {
			case 0:
				in.RetainDisposable()
			case 1:
				in.ReleaseDisposable()
			case 2:
				if rng.Intn(4) == 0 {
					in.Dispose()
				}
			}

			if len(rec.kinds()) == before {
				continue
			}
			last := rec.all()[len(rec.all())-1]
			if last.Err.Kind == "dispose_with_retains" {
				continue
			}
			if in.State() != state || in.DisposalCount() != count {
				t.Fatalf("round %d step %d: violation %s changed state %v/%d -> %v/%d",
					round, step, last.Err.Kind, state, count, in.State(), in.DisposalCount())
			}
		}
	}
}
