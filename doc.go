// Package disposable instruments object lifecycles independently of Go's
// garbage collector.
//
// It catches two kinds of bugs the collector cannot: use of an object after
// it has been logically disposed (its memory is still live, but it should no
// longer be used), and unbalanced manual retain/release calls layered on top
// of disposal. Instrumentation is opt-in and per instance, and misuse is only
// ever reported through a diagnostic sink, never as a panic or an error, so
// it can stay enabled in production code.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	disposable/          Root package with the default tracker facade
//	├── assoc/           Per-instance associated values (strong and weak)
//	├── disposal/        Dispose/retain/release state machine and diagnostics
//	├── errors/          Structured protocol violation values
//	├── metrics/         Prometheus observer for lifecycle events
//	└── cmd/disposaltrace  Script runner and interactive inspector
//
// # Quick Start
//
// Opt an object in and dispose it explicitly:
//
//	conn := &Conn{}
//	disposable.For(conn).MakeDisposable()
//
//	func (c *Conn) Write(p []byte) (int, error) {
//	    if disposable.For(c).IsDisposedWithLogIfTrue() {
//	        return 0, net.ErrClosed
//	    }
//	    ...
//	}
//
//	func (c *Conn) Close() error {
//	    disposable.For(c).Dispose()
//	    return nil
//	}
//
// Diagnostics go to the disposal package logger, a no-op until configured:
//
//	disposal.SetLogger(zap.Must(zap.NewDevelopment()))
//
// # Associated Values
//
// Arbitrary values can be attached to any pointer without changing its type:
//
//	var traceKey = assoc.NewKey("trace")
//
//	disposable.For(conn).AssociateValue(span, traceKey)
//	disposable.For(conn).WeaklyAssociateValue(assoc.Weak(pool), poolKey)
//
// # Thread Safety
//
// Every operation is atomic for a single instance. The order of concurrent
// operations on the same instance is up to the caller.
//
// # Memory Model
//
// Disposal records and associated values live in side tables that never keep
// an instance alive. Side tables of collected instances are torn down by a
// runtime cleanup. Values strongly associated with an instance must not point
// back at it, or neither is ever collected.
package disposable
