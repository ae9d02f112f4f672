package sequence

import (
	"context"

	"github.com/kbukum/seqkit/errors"
)

// resolve turns a position counted from the end into one counted from the
// start. Positions before the first item clamp to 0.
func resolve(pos, length int) int {
	if pos >= 0 {
		return pos
	}
	pos += length
	if pos < 0 {
		return 0
	}
	return pos
}

// Fill replaces the items at positions [start, end) with value. Pass 0 and
// Infinite to fill everything. Negative bounds count from the end; they are
// resolved once per session by counting the upstream before the first item
// is produced. When the resolved start is not below end nothing changes.
func (s *Sequence[T]) Fill(value T, start, end int) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &fillIter[T]{seq: s, value: value, start: start, end: end}
	})
}

// Slice keeps the items at positions [start, end). Pass Infinite as end for
// "to the end". Negative bounds are resolved now, by counting s once; a
// resolved start past the resolved end yields Empty without building a chain.
func (s *Sequence[T]) Slice(ctx context.Context, start, end int) (*Sequence[T], error) {
	if start < 0 || end < 0 {
		length, err := s.Count(ctx)
		if err != nil {
			return nil, err
		}
		start = resolve(start, length)
		end = resolve(end, length)
	}
	if start > end {
		return Empty[T](), nil
	}
	return newSequence(func() Iterator[T] {
		return &sliceIter[T]{source: s.Iter(), start: start, end: end}
	}), nil
}

// With replaces the item at index with item.
//
// A negative index is resolved now against a count of s and fails
// immediately with ErrCodeIndexOutOfRange when it lands outside the items. A
// non-negative index is not checked until enumeration: the session fails
// after the last item if the position was never reached.
func (s *Sequence[T]) With(ctx context.Context, index int, item T) (*Sequence[T], error) {
	if index < 0 {
		length, err := s.Count(ctx)
		if err != nil {
			return nil, err
		}
		if index+length < 0 {
			return nil, errors.IndexOutOfRange(index)
		}
		index += length
	}
	return newSequence(func() Iterator[T] {
		return &withIter[T]{source: s.Iter(), target: index, item: item}
	}), nil
}

// ToSpliced yields the items before start, then items, then skips
// deleteCount original items and yields the rest. Pass Infinite as
// deleteCount to drop everything from start on. A negative start is resolved
// now by counting s once. Items are inserted only when an item at start is
// reached, so a start at or past the end inserts nothing. A negative
// deleteCount deletes nothing.
func (s *Sequence[T]) ToSpliced(ctx context.Context, start, deleteCount int, items ...T) (*Sequence[T], error) {
	if start < 0 {
		length, err := s.Count(ctx)
		if err != nil {
			return nil, err
		}
		start = resolve(start, length)
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	return newSequence(func() Iterator[T] {
		return &splicedIter[T]{source: s.Iter(), start: start, deleteCount: deleteCount, items: items}
	}), nil
}

// --- Iterator implementations ---

type fillIter[T any] struct {
	seq      *Sequence[T]
	value    T
	start    int
	end      int
	source   Iterator[T]
	index    int
	resolved bool
}

func (it *fillIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !it.resolved {
		if it.start < 0 || it.end < 0 {
			length, err := it.seq.Count(ctx)
			if err != nil {
				return zero, false, err
			}
			it.start = resolve(it.start, length)
			it.end = resolve(it.end, length)
		}
		it.source = it.seq.Iter()
		it.resolved = true
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	index := it.index
	it.index++
	if index >= it.start && index < it.end {
		return it.value, true, nil
	}
	return val, true, nil
}

func (it *fillIter[T]) Close() error {
	if it.source != nil {
		return it.source.Close()
	}
	return nil
}

type sliceIter[T any] struct {
	source Iterator[T]
	start  int
	end    int
	index  int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for it.index < it.end {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		index := it.index
		it.index++
		if index >= it.start {
			return val, true, nil
		}
	}
	return zero, false, nil
}

func (it *sliceIter[T]) Close() error { return it.source.Close() }

type withIter[T any] struct {
	source Iterator[T]
	target int
	item   T
	index  int
	placed bool
}

func (it *withIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	val, ok, err := it.source.Next(ctx)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		if !it.placed {
			return zero, false, errors.IndexOutOfRange(it.target)
		}
		return zero, false, nil
	}
	index := it.index
	it.index++
	if index == it.target {
		it.placed = true
		return it.item, true, nil
	}
	return val, true, nil
}

func (it *withIter[T]) Close() error { return it.source.Close() }

type splicedIter[T any] struct {
	source      Iterator[T]
	start       int
	deleteCount int
	items       []T
	index       int
	inserted    bool
	pending     []T
}

func (it *splicedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if len(it.pending) > 0 {
			val := it.pending[0]
			it.pending = it.pending[1:]
			return val, true, nil
		}
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		index := it.index
		it.index++
		switch {
		case index < it.start:
			return val, true, nil
		case index-it.start >= it.deleteCount:
			if !it.inserted {
				// deleteCount is 0: the inserted items go before val.
				it.inserted = true
				it.pending = append(append(make([]T, 0, len(it.items)+1), it.items...), val)
				continue
			}
			return val, true, nil
		case !it.inserted:
			it.inserted = true
			it.pending = it.items
		}
	}
}

func (it *splicedIter[T]) Close() error { return it.source.Close() }
