/*
Package observability provides Prometheus instrumentation for the wanderbuddy core.

Metrics is nil-safe: components hold a *Metrics that may be nil, and every
method is a no-op on a nil receiver, so instrumentation is opt-in.
*/
package observability
