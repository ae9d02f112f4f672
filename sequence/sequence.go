package sequence

import (
	"context"
	"iter"
	"math"
	"reflect"
)

// Infinite stands for an unbounded end position, delete count or flatten depth.
const Infinite = math.MaxInt

// Sequence is an immutable, replayable, lazily evaluated ordered sequence.
// It holds only a factory; every enumeration gets its own session.
type Sequence[T any] struct {
	create func() Iterator[T]
}

// spreader is implemented by every Sequence instantiation so that type-erased
// stages (Flat, FlatMap, IsSequence) can recognize one regardless of T.
type spreader interface {
	spread() Iterator[any]
	itemType() reflect.Type
}

func newSequence[T any](create func() Iterator[T]) *Sequence[T] {
	return &Sequence[T]{create: create}
}

// --- Constructors ---

// From creates a sequence over the items of a slice. The slice is read at
// enumeration time, never copied.
func From[T any](items []T) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &indexIter[T]{n: len(items), at: func(i int) T { return items[i] }}
	})
}

// FromMapped creates a sequence over a slice, passing every item through
// mapper as it is pulled.
func FromMapped[T, R any](items []T, mapper func(item T, index int) R) *Sequence[R] {
	return newSequence(func() Iterator[R] {
		return &indexIter[R]{n: len(items), at: func(i int) R { return mapper(items[i], i) }}
	})
}

// FromIndexed creates a sequence that visits positions 0..Len()-1 of src.
// Absent slots produce the zero value; they are never skipped.
func FromIndexed[T any](src Indexable[T]) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &indexIter[T]{n: src.Len(), at: func(i int) T {
			val, _ := src.At(i)
			return val
		}}
	})
}

// FromIndexedMapped is FromIndexed with a per-item mapper. The mapper sees
// the zero value for absent slots.
func FromIndexedMapped[T, R any](src Indexable[T], mapper func(item T, index int) R) *Sequence[R] {
	return newSequence(func() Iterator[R] {
		return &indexIter[R]{n: src.Len(), at: func(i int) R {
			val, _ := src.At(i)
			return mapper(val, i)
		}}
	})
}

// FromSeq creates a sequence over an iterable. Each session ranges over seq
// afresh, so seq itself must be replayable for the sequence to be.
//
// A session pulls seq through iter.Pull, which parks the producer between
// items. Terminals close their sessions. A caller of Iter that stops early
// without Close leaves the producer parked, holding whatever it holds,
// until the session is garbage collected.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &pullIter[T]{seq: seq}
	})
}

// FromSeqMapped is FromSeq with a per-item mapper. Sessions hold a parked
// producer the same way.
func FromSeqMapped[T, R any](seq iter.Seq[T], mapper func(item T, index int) R) *Sequence[R] {
	return FromSeq[R](func(yield func(R) bool) {
		index := 0
		for item := range seq {
			if !yield(mapper(item, index)) {
				return
			}
			index++
		}
	})
}

// FromFunc creates a sequence from a factory that produces a fresh Iterator
// for every enumeration.
func FromFunc[T any](create func() Iterator[T]) *Sequence[T] {
	return newSequence(create)
}

// Of creates a sequence over the given items, in order.
func Of[T any](items ...T) *Sequence[T] {
	return From(items)
}

// Empty creates a sequence that produces no items.
func Empty[T any]() *Sequence[T] {
	return newSequence(func() Iterator[T] { return emptyIter[T]{} })
}

// IsSequence reports whether v is a *Sequence of any item type. Values that
// are merely iterable do not count.
func IsSequence(v any) bool {
	_, ok := v.(spreader)
	return ok
}

// --- Protocol ---

// Iter returns a new session. A caller that stops before exhaustion should
// Close it; sessions over FromSeq sources otherwise keep their producer
// parked until collected.
func (s *Sequence[T]) Iter() Iterator[T] {
	return &session[T]{src: s.create()}
}

// All returns a range-over-func view of a new session. A failing pull is
// yielded once as (zero, err) and ends the range.
func (s *Sequence[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := s.Iter()
		defer it.Close()
		for {
			val, ok, err := it.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(val, nil) {
				return
			}
		}
	}
}

// String returns a placeholder; the items are unknown without draining.
func (s *Sequence[T]) String() string {
	return "[...]"
}

// LocaleString is String; it does not drain either.
func (s *Sequence[T]) LocaleString() string {
	return s.String()
}

func (s *Sequence[T]) spread() Iterator[any] {
	return &anyIter[T]{src: s.Iter()}
}

func (s *Sequence[T]) itemType() reflect.Type {
	return reflect.TypeFor[T]()
}
