// Package syntax is a tolerant tokenizer and parser for ArkTS (.ets) sources.
//
// It models only as much of the language as route discovery needs: the
// top-level statement sequence, decorators with their call arguments, object
// literals and string values. Everything else is kept as opaque Declaration,
// Block or Unknown nodes. The tree shape at the top level mirrors what the
// TypeScript compiler produces for ArkTS struct declarations, which it does
// not recognize: decorators become the modifiers of a MissingDeclaration (or
// an ExportAssignment for "export default"), followed by separate expression
// statements for the struct keyword and the struct name.
//
// Traversal helpers follow go/ast: Walk with a Visitor, Inspect with a
// closure, and ForEachChild for one level. Dispatcher routes nodes to
// handlers by Kind while threading an explicit state value.
package syntax
