// Package errors provides structured values describing disposal protocol
// violations.
//
// Violations are categorized by Op (the tracker operation that detected them)
// and Kind (what went wrong). The Error type carries the instance's Go type,
// its identity, and the reference count observed at the time.
//
// The disposal tracker never returns these values. They travel inside
// diagnostics so that sinks and observers can log or match them:
//
//	if errors.Is(d.Err, errors.New(errors.OpRetain, errors.KindRetainAfterDispose).Build()) {
//	    ...
//	}
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.OpRelease, errors.KindReleaseAtZero).
//		Type("*net.TCPConn").
//		Instance("0xc000012345").
//		Detail("count already zero").
//		Build()
//
// Or use the convenience constructors for the common patterns.
package errors
