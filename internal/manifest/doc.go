// Package manifest patches the module manifest (module.json5) so the runtime
// router picks up the generated route table.
//
// The manifest is edited through a comment-preserving syntax tree
// (github.com/tailscale/hujson, which accepts JSON with comments and trailing
// commas). Only the module.routerMap member is added or filled in; all other
// bytes of the file stay as they were.
package manifest
