// Package disposal tracks an explicit dispose/retain/release protocol on top
// of ordinary Go values.
//
// Go's garbage collector decides when memory is freed, but many objects have
// a logical end of life earlier than that: a closed connection, a returned
// pool buffer, a torn down session. This package lets such objects opt into
// tracking so that use after that point, and unbalanced manual retains, show
// up as diagnostics instead of silent misbehavior.
//
// # State Machine
//
// Every instance starts NotTracked. MakeDisposable moves it to Active with a
// count of zero:
//
//	NotTracked --MakeDisposable--> Active(0)
//	Active(k)  --RetainDisposable--> Active(k+1)
//	Active(k)  --ReleaseDisposable--> Active(k-1)   (k > 0)
//	Active(k)  --Dispose--> Disposed                 (count forced to 0)
//
// Reaching a count of zero never disposes an instance. Disposal is always an
// explicit Dispose call.
//
// # Usage
//
//	tracker := disposal.New(disposal.WithSink(disposal.LoggerSink{Logger: log}))
//
//	func (c *Conn) Close() {
//	    disposal.Track(tracker, c).Dispose()
//	}
//
//	func (c *Conn) Write(p []byte) (int, error) {
//	    if disposal.Track(tracker, c).IsDisposedWithLogIfTrue() {
//	        return 0, net.ErrClosed
//	    }
//	    ...
//	}
//
// Instance is a short-lived view. Holding one keeps the object reachable, so
// create it where it is used rather than storing it.
//
// Instances of zero-size types (such as struct{}) cannot be tracked, because
// distinct values may share one address. Track returns the zero Instance for
// them and logs a warning.
//
// # Protocol Violations
//
// Misuse never panics and never returns an error. Retain after dispose,
// release at zero, double dispose and similar mistakes leave the state
// unchanged and produce a Diagnostic delivered to the tracker's Sink. The
// default sink writes through the package logger, which is a no-op until
// SetLogger is called.
//
// # Storage
//
// The disposal record lives in the instance's associated-value table (see
// package assoc) under a private reserved key, so clearing the table does
// not erase it. Types that embed assoc.Table keep the record inline; other types get a table from the tracker's registry, which
// never keeps the instance alive.
//
// # Thread Safety
//
// Each operation is atomic with respect to the instance's record. The order
// in which concurrent callers reach an instance is not defined; callers that
// depend on a particular sequence must serialize it themselves.
package disposal
