package assoc

// Key is an opaque association key. Keys compare by identity.
// The zero Key is invalid: stores under it are ignored and lookups report absent.
type Key struct {
	p *keyName
}

type keyName struct {
	name     string
	reserved bool
}

// NewKey returns a new key. The name is only used for debugging.
func NewKey(name string) Key {
	return Key{p: &keyName{name: name}}
}

// NewReservedKey returns a key whose entry survives Delete and Clear. The
// entry is only dropped when the table's instance is torn down. Packages
// that keep private state in another type's table use it so that the
// owner of the table cannot erase that state.
func NewReservedKey(name string) Key {
	return Key{p: &keyName{name: name, reserved: true}}
}

// Valid reports whether k was created by NewKey or NewReservedKey.
func (k Key) Valid() bool {
	return k.p != nil
}

// Reserved reports whether k was created by NewReservedKey.
func (k Key) Reserved() bool {
	return k.p != nil && k.p.reserved
}

// String returns the debug name of the key.
func (k Key) String() string {
	if k.p == nil {
		return "<invalid>"
	}
	return k.p.name
}
