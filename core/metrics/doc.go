// Package metrics exposes Prometheus collectors for pipeline runs.
//
// Every process owns one Collector on a private registry; the start command serves
// it on /metrics. Counters are labelled by trigger (schedule, manual, cli) and by
// source name.
package metrics
