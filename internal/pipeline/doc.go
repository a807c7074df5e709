// Package pipeline runs one generation pass over a module: collect sources,
// scan them for routed pages, aggregate the registry, write artifacts,
// prune leftovers and patch the manifest.
//
// Every run gets a uuid, used as the run= prefix of its log lines and as a
// span attribute. Spans come from the global OpenTelemetry provider.
package pipeline
