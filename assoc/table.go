package assoc

import (
	"sort"
	"sync"
)

// Holder is implemented by instances that carry their own side table.
// Types that embed Table satisfy it.
type Holder interface {
	Associations() *Table
}

type entry struct {
	value any
	ref   WeakRef
	weak  bool
}

func (e entry) load() (any, bool) {
	if e.weak {
		return e.ref.Value()
	}
	return e.value, true
}

// Table is a per-instance side table mapping keys to associated values.
// The zero value is an empty table.
type Table struct {
	entries map[Key]entry
	mu      sync.RWMutex
}

// Associations returns t, so that types embedding Table implement Holder.
func (t *Table) Associations() *Table {
	return t
}

// Associate stores value under key with owning semantics, replacing any
// previous entry. A nil value removes the key unless it is reserved.
func (t *Table) Associate(key Key, value any) {
	if !key.Valid() {
		return
	}
	if value == nil {
		t.Delete(key)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[Key]entry)
	}
	t.entries[key] = entry{value: value}
}

// AssociateWeak stores ref under key without extending the referenced
// value's lifetime. An already expired ref removes the key.
func (t *Table) AssociateWeak(key Key, ref WeakRef) {
	if !key.Valid() {
		return
	}
	if _, ok := ref.Value(); !ok {
		t.Delete(key)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[Key]entry)
	}
	t.entries[key] = entry{ref: ref, weak: true}
}

// AssociateIfAbsent stores value under key unless a live value is already
// present. It returns the value held after the call and whether value was
// stored.
func (t *Table) AssociateIfAbsent(key Key, value any) (any, bool) {
	if !key.Valid() || value == nil {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok {
		if v, live := e.load(); live {
			return v, false
		}
	}
	if t.entries == nil {
		t.entries = make(map[Key]entry)
	}
	t.entries[key] = entry{value: value}
	return value, true
}

// Value returns the value stored under key. It reports (nil, false) if the
// key was never set, was removed, or holds a weak reference whose value has
// been collected.
func (t *Table) Value(key Key) (any, bool) {
	if !key.Valid() {
		return nil, false
	}

	t.mu.RLock()
	e, ok := t.entries[key]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}

	v, live := e.load()
	if !live {
		t.pruneExpired(key)
	}
	return v, live
}

// Delete removes key from the table. Reserved keys are kept.
func (t *Table) Delete(key Key) {
	if key.Reserved() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if _, live := e.load(); live {
			n++
		}
	}
	return n
}

// Keys returns the keys of all live entries, sorted by name.
func (t *Table) Keys() []Key {
	t.mu.RLock()
	keys := make([]Key, 0, len(t.entries))
	for k, e := range t.entries {
		if _, live := e.load(); live {
			keys = append(keys, k)
		}
	}
	t.mu.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Clear removes every entry except those under reserved keys.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.entries {
		if !k.Reserved() {
			delete(t.entries, k)
		}
	}
}

// reset drops every entry, reserved or not. It runs when the instance
// owning the table is gone.
func (t *Table) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// pruneExpired removes key if it still holds an expired weak entry.
func (t *Table) pruneExpired(key Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok && e.weak {
		if _, live := e.ref.Value(); !live {
			delete(t.entries, key)
		}
	}
}
