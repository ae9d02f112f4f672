package sequence

import (
	"context"
	"fmt"
	"iter"
)

// Map transforms each item using fn. fn receives the item, its position and
// s; it runs once per item per enumeration, at the moment the item is pulled.
func Map[T, R any](s *Sequence[T], fn func(item T, index int, s *Sequence[T]) R) *Sequence[R] {
	return newSequence(func() Iterator[R] {
		return &mapIter[T, R]{source: s.Iter(), fn: func(item T, index int) (R, error) {
			return fn(item, index, s), nil
		}}
	})
}

// TryMap is Map for a fallible fn. The first error ends the enumeration and
// is returned unchanged from the pull that produced it.
func TryMap[T, R any](s *Sequence[T], fn func(item T, index int, s *Sequence[T]) (R, error)) *Sequence[R] {
	return newSequence(func() Iterator[R] {
		return &mapIter[T, R]{source: s.Iter(), fn: func(item T, index int) (R, error) {
			return fn(item, index, s)
		}}
	})
}

// Filter keeps only the items for which predicate returns true.
func (s *Sequence[T]) Filter(predicate func(item T, index int, s *Sequence[T]) bool) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &filterIter[T]{source: s.Iter(), fn: func(item T, index int) (bool, error) {
			return predicate(item, index, s), nil
		}}
	})
}

// TryFilter is Filter for a fallible predicate.
func (s *Sequence[T]) TryFilter(predicate func(item T, index int, s *Sequence[T]) (bool, error)) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &filterIter[T]{source: s.Iter(), fn: func(item T, index int) (bool, error) {
			return predicate(item, index, s)
		}}
	})
}

// Tap calls fn as a side-effect for each item, then passes the item through
// unchanged. An error from fn ends the enumeration.
func (s *Sequence[T]) Tap(fn func(ctx context.Context, item T) error) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &tapIter[T]{source: s.Iter(), fn: fn}
	})
}

// FlatMap maps each item with fn. A result that is itself spreadable (a
// Sequence, a slice or array, an iter.Seq[any]) has its items spliced into
// the output one level deep; any other result is produced as a single item.
func FlatMap[T any](s *Sequence[T], fn func(item T, index int, s *Sequence[T]) any) *Sequence[any] {
	return newSequence(func() Iterator[any] {
		return &flatMapIter[T]{source: s.Iter(), owner: s, fn: fn}
	})
}

// FlatMapTo maps each item to a slice and splices the slices together.
func FlatMapTo[T, R any](s *Sequence[T], fn func(item T, index int, s *Sequence[T]) []R) *Sequence[R] {
	return newSequence(func() Iterator[R] {
		return &expandIter[T, R]{source: s.Iter(), owner: s, fn: fn}
	})
}

// Concat yields the items of s, then each argument in order. An iterable
// argument (a Sequence, slice, array or iter.Seq) whose items are
// assignable to T contributes its items; any other T contributes itself.
// Later arguments are not opened until earlier ones are exhausted. Any
// other argument type is a programming error and panics.
func (s *Sequence[T]) Concat(others ...any) *Sequence[T] {
	parts := make([]*Sequence[T], 0, len(others)+1)
	parts = append(parts, s)
	for i, other := range others {
		switch v := other.(type) {
		case *Sequence[T]:
			parts = append(parts, v)
		case []T:
			parts = append(parts, From(v))
		case iter.Seq[T]:
			parts = append(parts, FromSeq(v))
		default:
			if items, ok := spreadInto[T](other); ok {
				parts = append(parts, items)
				continue
			}
			item, ok := asItem[T](other)
			if !ok {
				panic(fmt.Sprintf("sequence: Concat argument %d has type %T", i, other))
			}
			parts = append(parts, Of(item))
		}
	}
	return concat(parts...)
}

// Push yields the items of s followed by items.
func (s *Sequence[T]) Push(items ...T) *Sequence[T] {
	return concat(s, From(items))
}

// Unshift yields items followed by the items of s.
func (s *Sequence[T]) Unshift(items ...T) *Sequence[T] {
	return concat(From(items), s)
}

func concat[T any](parts ...*Sequence[T]) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &concatIter[T]{parts: parts}
	})
}

// Entry is an item paired with its position.
type Entry[T any] struct {
	Index int
	Item  T
}

// Entries yields every item of s paired with its position.
func Entries[T any](s *Sequence[T]) *Sequence[Entry[T]] {
	return Map(s, func(item T, index int, _ *Sequence[T]) Entry[T] {
		return Entry[T]{Index: index, Item: item}
	})
}

// Keys yields the positions 0, 1, ... of the items of s.
func (s *Sequence[T]) Keys() *Sequence[int] {
	return Map(s, func(_ T, index int, _ *Sequence[T]) int { return index })
}

// Values yields the items of s unchanged.
func (s *Sequence[T]) Values() *Sequence[T] {
	return newSequence(s.create)
}

// --- Iterator implementations ---

type mapIter[T, R any] struct {
	source Iterator[T]
	fn     func(T, int) (R, error)
	index  int
}

func (it *mapIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	index := it.index
	it.index++
	out, err := it.fn(val, index)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[T, R]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T, int) (bool, error)
	index  int
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		index := it.index
		it.index++
		keep, err := it.fn(val, index)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type flatMapIter[T any] struct {
	source  Iterator[T]
	owner   *Sequence[T]
	fn      func(T, int, *Sequence[T]) any
	index   int
	current Iterator[any]
}

func (it *flatMapIter[T]) Next(ctx context.Context) (any, bool, error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		index := it.index
		it.index++
		out := it.fn(in, index, it.owner)
		inner, spreadable := spread(out)
		if !spreadable {
			return out, true, nil
		}
		it.current = inner
	}
}

func (it *flatMapIter[T]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type expandIter[T, R any] struct {
	source  Iterator[T]
	owner   *Sequence[T]
	fn      func(T, int, *Sequence[T]) []R
	index   int
	pending []R
}

func (it *expandIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	for len(it.pending) == 0 {
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		index := it.index
		it.index++
		it.pending = it.fn(in, index, it.owner)
	}
	val := it.pending[0]
	it.pending = it.pending[1:]
	return val, true, nil
}

func (it *expandIter[T, R]) Close() error { return it.source.Close() }

type concatIter[T any] struct {
	parts   []*Sequence[T]
	index   int
	current Iterator[T]
}

func (it *concatIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for it.index < len(it.parts) {
		if it.current == nil {
			it.current = it.parts[it.index].Iter()
		}
		val, ok, err := it.current.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return val, true, nil
		}
		_ = it.current.Close()
		it.current = nil
		it.index++
	}
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	if it.current != nil {
		return it.current.Close()
	}
	return nil
}
