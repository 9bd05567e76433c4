// Package metrics holds the Prometheus collectors of the service.
package metrics

// Namespace prefixes every metric name.
const Namespace = "vecrag"
