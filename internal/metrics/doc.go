// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with the default registry at init through
// promauto. Callers use the Record* helpers rather than touching the vectors
// directly so label sets stay consistent.
package metrics
