// Package metrics counts scanned files, matched pages and artifact changes
// on a private Prometheus registry.
package metrics
