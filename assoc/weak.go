package assoc

import "weak"

// WeakRef is a non-owning reference to a value.
type WeakRef struct {
	load func() any
}

// Weak returns a weak reference to p. A nil p yields a reference that is
// always absent.
func Weak[T any](p *T) WeakRef {
	if p == nil {
		return WeakRef{}
	}
	wp := weak.Make(p)
	return WeakRef{load: func() any {
		v := wp.Value()
		if v == nil {
			return nil
		}
		return v
	}}
}

// Value returns the referenced pointer, or (nil, false) once it has been
// collected.
func (r WeakRef) Value() (any, bool) {
	if r.load == nil {
		return nil, false
	}
	v := r.load()
	return v, v != nil
}
