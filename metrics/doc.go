// Package metrics exports disposal lifecycle events as Prometheus metrics.
//
// A Collector is a disposal.Observer. Subscribe it to a tracker and register
// it with a Prometheus registry:
//
//	c := metrics.NewCollector(prometheus.DefaultRegisterer)
//	tracker := disposal.New(disposal.WithObserver(c))
//
// Exported series:
//
//	disposable_tracker_events_total{event}       transitions by event type
//	disposable_tracker_violations_total{kind}    protocol violations by kind
//	disposable_tracker_outstanding_retains       retains not yet released or disposed
package metrics
