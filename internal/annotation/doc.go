// Package annotation extracts page routes from ArkTS sources.
//
// A page is a struct declaration carrying at least two decorators or
// modifiers, one of them @Route({ name: '...' }). The struct name is taken
// from the next top-level bare identifier statement that is not the struct
// keyword:
//
//	@Route({ name: 'home', description: 'Landing page' })
//	@Component
//	export struct HomePage { ... }
//
// Matching is a three-state machine (idle, route-matched, complete) carried as
// a Candidate value from one top-level node to the next. After every node a
// complete candidate is emitted unless the same page was already emitted from
// the file.
package annotation
