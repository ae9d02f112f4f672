// Package plan describes sequence pipelines as data and compiles them onto
// the lazy operators of package sequence.
//
// A plan is a named list of stages and an optional terminal, decodable from
// YAML or JSON:
//
//	name: evens-doubled
//	stages:
//	  - op: filter_eq
//	    value: 2
//	  - op: map_mul
//	    value: 10
//	  - op: slice
//	    start: -2
//	terminal:
//	  op: join
//	  separator: ","
//
// Compile turns the stages into a *sequence.Sequence[any] chain without
// pulling anything except where an operator needs an eager pre-pass
// (negative positions). Evaluate compiles and runs the terminal.
package plan
