// Package metrics defines the sinks recording planning metrics. A sink
// implements MetricsSink and any of the optional recorder interfaces; callers
// type-assert for the optional ones. Sinks are created from configuration
// through the factory registry and combined with NewMultiSink when several
// are configured.
package metrics
