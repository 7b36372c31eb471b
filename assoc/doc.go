// Package assoc attaches out-of-band values to object instances.
//
// An association is a (key, value) pair stored in a per-instance side table.
// Values are held either strongly (the table keeps them reachable) or weakly
// (the table never extends their lifetime and reports them absent once they
// have been collected).
//
// # Keys
//
// Keys are opaque tokens that compare by identity. Declare them once, usually
// as package-level variables:
//
//	var ownerKey = assoc.NewKey("owner")
//
// Two keys created with the same name are still distinct.
//
// Keys made with NewReservedKey hold state that belongs to another package.
// Their entries survive Delete and Clear and only go away with the instance.
//
// # Tables
//
// The zero Table is ready to use. A type can carry its own table by
// embedding it, which makes the type an assoc.Holder:
//
//	type Conn struct {
//	    assoc.Table
//	    fd int
//	}
//
//	c := &Conn{}
//	c.Associate(ownerKey, pool)
//	v, ok := c.Value(ownerKey)
//
// # Weak Associations
//
// Weak references are built from pointers with Weak:
//
//	c.AssociateWeak(parentKey, assoc.Weak(parent))
//
// Once parent is collected, Value(parentKey) reports (nil, false). Expired
// entries are pruned lazily on lookup.
//
// # Registry
//
// Types that cannot embed a Table get one from a Registry, keyed by instance
// identity:
//
//	t := assoc.TableFor(assoc.Default, conn)
//	t.Associate(ownerKey, pool)
//
// The registry keys its tables by weak pointer, so it never keeps an instance
// alive. A cleanup attached with runtime.AddCleanup drops the table once the
// instance is collected. Pointers to zero-size types get no table, since
// distinct zero-size values may share an address. Values strongly associated
// with an instance must not reference that instance, or the pair is never
// collected.
//
// # Thread Safety
//
// Table and Registry are safe for concurrent use.
package assoc
