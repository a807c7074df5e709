// Package registry turns per-file page matches into the route table and the
// per-file registration inputs of one run.
package registry
