// Package render produces registration sources from a text/template.
//
// The template receives a Data value; .PageList is the ordered list of pages
// of one source file, each exposing PageIdentifier, BuilderFunctionName and
// ImportPath. The built-in template imports every page and wraps it in an
// exported @Builder function. A project may replace it with its own file.
package render
