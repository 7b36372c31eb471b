package disposable

import (
	"testing"

	"github.com/wippyai/disposable/assoc"
	"github.com/wippyai/disposable/disposal"
)

type widget struct {
	name string
	n    [2]int
}

func TestDefault(t *testing.T) {
	defer SetDefault(nil)

	a := Default()
	if a == nil {
		t.Fatal("Default returned nil")
	}
	if Default() != a {
		t.Fatal("Default should be stable")
	}

	custom := disposal.New(disposal.WithRegistry(assoc.NewRegistry()))
	SetDefault(custom)
	if Default() != custom {
		t.Fatal("SetDefault did not replace the tracker")
	}

	SetDefault(nil)
	if Default() == nil || Default() == custom {
		t.Fatal("SetDefault(nil) should restore a fresh default")
	}
}

func TestFor(t *testing.T) {
	defer SetDefault(nil)
	SetDefault(disposal.New(disposal.WithSink(disposal.Discard), disposal.WithRegistry(assoc.NewRegistry())))

	w := &widget{name: "w"}
	For(w).MakeDisposable()
	For(w).RetainDisposable()

	if For(w).DisposalCount() != 1 {
		t.Fatalf("Expected count 1, got %d", For(w).DisposalCount())
	}
	if For(&widget{}).IsDisposable() {
		t.Fatal("other instances must not be affected")
	}
	if For[widget](nil).IsDisposable() {
		t.Fatal("nil pointer must not be disposable")
	}
}
