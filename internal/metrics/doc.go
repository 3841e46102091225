// Package metrics records import outcomes and catalog search timings on a private
// Prometheus registry.
//
// There is no HTTP listener: a CLI run is short-lived, so the registry is dumped in
// the text exposition format for the node exporter textfile collector.
//
// # Metrics
//
//   - plimport_imports_total{source, outcome}
//   - plimport_import_duration_seconds{source}
//   - plimport_tracks_total{result}
//   - plimport_search_duration_seconds
//   - plimport_saved_tracks_total
package metrics
