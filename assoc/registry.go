package assoc

import (
	"runtime"
	"sync"
	"unsafe"
	"weak"
)

// Default is the process-wide registry.
var Default = NewRegistry()

// Registry holds side tables for instances that do not carry their own,
// keyed by instance identity.
type Registry struct {
	tables map[any]*Table
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[any]*Table),
	}
}

// TableFor returns the side table of p, creating it on first use. If p
// implements Holder its own table is returned. A nil p, or a pointer to a
// zero-size type, yields nil: distinct zero-size values may share an
// address, so they have no identity to key a table by.
func TableFor[T any](r *Registry, p *T) *Table {
	if p == nil || unsafe.Sizeof(*p) == 0 {
		return nil
	}
	if h, ok := any(p).(Holder); ok {
		return h.Associations()
	}

	key := weak.Make(p)

	r.mu.RLock()
	t, ok := r.tables[key]
	r.mu.RUnlock()
	if ok {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tables[key]; ok {
		return t
	}
	t = &Table{}
	r.tables[key] = t
	runtime.AddCleanup(p, r.teardown, any(key))
	return t
}

// Lookup returns the side table of p without creating one.
func Lookup[T any](r *Registry, p *T) (*Table, bool) {
	if p == nil || unsafe.Sizeof(*p) == 0 {
		return nil, false
	}
	if h, ok := any(p).(Holder); ok {
		t := h.Associations()
		return t, t != nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[weak.Make(p)]
	return t, ok
}

// Len returns the number of instances that currently have a table.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// teardown runs once, after the instance behind key has been collected.
func (r *Registry) teardown(key any) {
	r.mu.Lock()
	t := r.tables[key]
	delete(r.tables, key)
	r.mu.Unlock()

	if t != nil {
		t.reset()
	}
}
