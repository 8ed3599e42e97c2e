// Package prometheus renders coachvault metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [coachvault.Engine] and exposes an
// http.Handler over its counters and the listing-latency histogram.
// Counter names are prefixed coachvault_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the
//     Handler themselves.
//   - Mutate engine state.
package prometheus
