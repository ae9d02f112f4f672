package sequence

import (
	"context"
	"iter"
	"runtime"
)

// Iterator provides pull-based sequential access to the items of one session.
type Iterator[T any] interface {
	// Next returns the next item. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator. Safe to call twice.
	Close() error
}

// Indexable is a source with a known length whose slots may be absent.
type Indexable[T any] interface {
	Len() int
	// At returns the item at i, or false when the slot is empty.
	At(i int) (T, bool)
}

// session guards a factory-produced iterator so that exhaustion is sticky:
// once it reports the end or an error it never produces again.
type session[T any] struct {
	src    Iterator[T]
	done   bool
	closed bool
}

func (s *session[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.done {
		return zero, false, nil
	}
	val, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		s.done = true
		_ = s.Close()
		return zero, false, err
	}
	return val, true, nil
}

func (s *session[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	return s.src.Close()
}

// indexIter walks positions 0..n-1 of a random-access source.
type indexIter[T any] struct {
	n     int
	at    func(i int) T
	index int
}

func (it *indexIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.index >= it.n {
		return zero, false, nil
	}
	val := it.at(it.index)
	it.index++
	return val, true, nil
}

func (it *indexIter[T]) Close() error { return nil }

// pullIter adapts a push-style iter.Seq. The coroutine behind iter.Pull is
// only started on the first Next.
type pullIter[T any] struct {
	seq     iter.Seq[T]
	next    func() (T, bool)
	stop    func()
	cleanup runtime.Cleanup
}

func (it *pullIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.next == nil {
		it.next, it.stop = iter.Pull(it.seq)
		// An abandoned session still stops its producer once collected.
		it.cleanup = runtime.AddCleanup(it, func(stop func()) { stop() }, it.stop)
	}
	val, ok := it.next()
	if !ok {
		return zero, false, nil
	}
	return val, true, nil
}

func (it *pullIter[T]) Close() error {
	if it.stop != nil {
		it.cleanup.Stop()
		it.stop()
	}
	return nil
}

type emptyIter[T any] struct{}

func (emptyIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (emptyIter[T]) Close() error { return nil }

// anyIter erases the item type of an iterator. Used by the flattening stages.
type anyIter[T any] struct {
	src Iterator[T]
}

func (it *anyIter[T]) Next(ctx context.Context) (any, bool, error) {
	val, ok, err := it.src.Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	return val, true, nil
}

func (it *anyIter[T]) Close() error { return it.src.Close() }

type assertIter[T any] struct {
	src Iterator[any]
}

func (it *assertIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	val, ok, err := it.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	item, _ := asItem[T](val)
	return item, true, nil
}

func (it *assertIter[T]) Close() error { return it.src.Close() }

// drain pulls a fresh session of s to the end, calling fn for every item.
// fn returning false stops the drain early.
func drain[T any](ctx context.Context, s *Sequence[T], fn func(item T, index int) bool) error {
	it := s.Iter()
	defer it.Close()
	for index := 0; ; index++ {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !fn(val, index) {
			return nil
		}
	}
}
