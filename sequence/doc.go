// Package sequence provides a replayable, lazily evaluated ordered sequence.
//
// A Sequence holds nothing but a factory of iteration sessions. Each
// enumeration (Count, ToSlice, a range over All, ...) asks the factory for a
// brand-new session, so the same Sequence can be enumerated any number of
// times and concurrent enumerations never share state.
//
// Operators such as Filter, Map, Slice or Flat return a new Sequence whose
// factory wraps a session of its parent. Nothing runs until a session is
// pulled, and pulling one item runs exactly the upstream work needed for that
// item:
//
//	s := sequence.Map(sequence.Of(1, 2, 3), func(n, _ int, _ *sequence.Sequence[int]) int {
//	    return n * 2
//	})
//	evens := s.Filter(func(n, _ int, _ *sequence.Sequence[int]) bool { return n%4 == 0 })
//	items, err := evens.ToSlice(ctx) // [4]
//
// # Eager helpers
//
// A few operators need global knowledge and drain their upstream into a
// buffer before producing anything: ToReversed, ToSorted, ReduceRight, and any
// operator handed a negative position, which counts the upstream first. Slice,
// With and ToSpliced resolve negative positions when they are called, so they
// take a context and return an error; Fill resolves them once per session.
//
// # Errors
//
// Caller-supplied functions that return errors (TryMap, TryFilter, Tap) end
// the enumeration and the error is returned unchanged from the pull that ran
// them. The engine raises a single error kind of its own:
// errors.ErrCodeIndexOutOfRange, from With.
package sequence
