// Package artifact writes the outputs of a run: route_map.json, one REX
// registration file per scanned source, removal of stale and legacy files in
// the generated directory, and cleanup of the legacy Index.ets re-export.
//
// Every operation is idempotent. Files whose content would not change are not
// rewritten, so a second run over unchanged sources touches nothing.
package artifact
