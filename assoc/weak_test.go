package assoc

import (
	"runtime"
	"testing"
	"time"
)

type payload struct {
	name string
	data [8]int
}

func TestWeak_Nil(t *testing.T) {
	ref := Weak[payload](nil)
	if _, ok := ref.Value(); ok {
		t.Fatal("weak reference to nil should be absent")
	}

	var zero WeakRef
	if _, ok := zero.Value(); ok {
		t.Fatal("zero WeakRef should be absent")
	}
}

func TestTable_WeakRoundTrip(t *testing.T) {
	var tbl Table
	k := NewKey("parent")
	p := &payload{name: "parent"}

	tbl.AssociateWeak(k, Weak(p))

	v, ok := tbl.Value(k)
	if !ok {
		t.Fatal("weak value should be present while referenced")
	}
	if v.(*payload) != p {
		t.Fatalf("Expected %p, got %v", p, v)
	}
	runtime.KeepAlive(p)
}

func TestTable_WeakExpires(t *testing.T) {
	var tbl Table
	k := NewKey("parent")

	func() {
		p := &payload{name: "short-lived"}
		tbl.AssociateWeak(k, Weak(p))
		if _, ok := tbl.Value(k); !ok {
			t.Fatal("weak value should be present before collection")
		}
	}()

	runtime.GC()

	if v, ok := tbl.Value(k); ok {
		t.Fatalf("weak value should be absent after collection, got %v", v)
	}
	if tbl.Len() != 0 {
		t.Fatalf("expired entry should not count, Len() = %d", tbl.Len())
	}
}

func TestTable_StrongKeepsAlive(t *testing.T) {
	var tbl Table
	k := NewKey("owned")
	var ref WeakRef

	func() {
		p := &payload{name: "owned"}
		tbl.Associate(k, p)
		ref = Weak(p)
	}()

	runtime.GC()

	if _, ok := ref.Value(); !ok {
		t.Fatal("strongly associated value must survive collection")
	}
	v, ok := tbl.Value(k)
	if !ok || v.(*payload).name != "owned" {
		t.Fatalf("Expected owned payload, got %v", v)
	}
}

func TestTable_OverwriteReleasesOwned(t *testing.T) {
	var tbl Table
	k := NewKey("k")
	var first WeakRef

	func() {
		p := &payload{name: "first"}
		first = Weak(p)
		tbl.Associate(k, p)
	}()
	tbl.Associate(k, &payload{name: "second"})

	runtime.GC()

	if _, ok := first.Value(); ok {
		t.Fatal("overwritten value should no longer be owned by the table")
	}
	v, _ := tbl.Value(k)
	if v.(*payload).name != "second" {
		t.Fatalf("Expected second, got %v", v)
	}
}

func TestTable_AssociateExpiredWeak(t *testing.T) {
	var tbl Table
	k := NewKey("k")
	var ref WeakRef

	func() {
		ref = Weak(&payload{name: "gone"})
	}()
	runtime.GC()

	tbl.Associate(k, "old")
	tbl.AssociateWeak(k, ref)
	if _, ok := tbl.Value(k); ok {
		t.Fatal("associating an expired reference should clear the key")
	}
}

func TestRegistry_TableFor(t *testing.T) {
	r := NewRegistry()
	p := &payload{name: "a"}

	if _, ok := Lookup(r, p); ok {
		t.Fatal("Lookup must not find a table before TableFor")
	}
	if r.Len() != 0 {
		t.Fatal("Lookup must not create a table")
	}

	tbl := TableFor(r, p)
	if tbl == nil {
		t.Fatal("TableFor returned nil")
	}
	if again := TableFor(r, p); again != tbl {
		t.Fatal("TableFor must return the same table for the same instance")
	}
	if found, ok := Lookup(r, p); !ok || found != tbl {
		t.Fatal("Lookup should find the table created by TableFor")
	}

	other := &payload{name: "b"}
	if TableFor(r, other) == tbl {
		t.Fatal("distinct instances must get distinct tables")
	}
	if r.Len() != 2 {
		t.Fatalf("Expected 2 tables, got %d", r.Len())
	}
	runtime.KeepAlive(p)
	runtime.KeepAlive(other)
}

func TestRegistry_Nil(t *testing.T) {
	r := NewRegistry()
	if TableFor[payload](r, nil) != nil {
		t.Fatal("TableFor(nil) should return nil")
	}
	if _, ok := Lookup[payload](r, nil); ok {
		t.Fatal("Lookup(nil) should report absent")
	}
}

func TestRegistry_Holder(t *testing.T) {
	r := NewRegistry()
	h := &holder{id: 7}

	if TableFor(r, h) != &h.Table {
		t.Fatal("TableFor should use the embedded table of a Holder")
	}
	if r.Len() != 0 {
		t.Fatal("Holder instances must not be registered")
	}
}

func TestRegistry_TeardownAfterCollection(t *testing.T) {
	r := NewRegistry()
	k := NewKey("k")

	func() {
		p := &payload{name: "transient"}
		TableFor(r, p).Associate(k, "meta")
	}()

	deadline := time.Now().Add(5 * time.Second)
	for r.Len() != 0 && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	if r.Len() != 0 {
		t.Fatalf("table should be torn down after the instance is collected, Len() = %d", r.Len())
	}
}

type empty struct{}

func TestRegistry_ZeroSizeType(t *testing.T) {
	r := NewRegistry()
	a, b := &empty{}, &empty{}

	if TableFor(r, a) != nil {
		t.Fatal("zero-size instances have no identity and must get no table")
	}
	if _, ok := Lookup(r, b); ok {
		t.Fatal("Lookup must not find a table for a zero-size instance")
	}
	if r.Len() != 0 {
		t.Fatalf("Expected no tables, got %d", r.Len())
	}
}
