package sequence

import (
	"context"
	"fmt"
	"strings"
)

// Count drains a session and returns the number of items produced.
func (s *Sequence[T]) Count(ctx context.Context) (int, error) {
	count := 0
	err := drain(ctx, s, func(T, int) bool {
		count++
		return true
	})
	return count, err
}

// ToSlice drains a session into a new slice. Every call returns a distinct
// slice; an empty sequence yields an empty, non-nil slice.
func (s *Sequence[T]) ToSlice(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := drain(ctx, s, func(item T, _ int) bool {
		items = append(items, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// At returns the item at index, pulling exactly index+1 items. It reports
// false when the sequence ends first or index is negative.
func (s *Sequence[T]) At(ctx context.Context, index int) (T, bool, error) {
	var found T
	var ok bool
	if index < 0 {
		return found, false, nil
	}
	err := drain(ctx, s, func(item T, i int) bool {
		if i == index {
			found, ok = item, true
			return false
		}
		return true
	})
	return found, ok, err
}

// Find returns the first item matching predicate and stops pulling there.
func (s *Sequence[T]) Find(ctx context.Context, predicate func(item T, index int, s *Sequence[T]) bool) (T, bool, error) {
	index, item, err := s.findEntry(ctx, predicate)
	return item, index >= 0, err
}

// FindIndex returns the position of the first item matching predicate, or -1.
func (s *Sequence[T]) FindIndex(ctx context.Context, predicate func(item T, index int, s *Sequence[T]) bool) (int, error) {
	index, _, err := s.findEntry(ctx, predicate)
	return index, err
}

// FindLast returns the last item matching predicate. The whole sequence is
// pulled since any later item may match.
func (s *Sequence[T]) FindLast(ctx context.Context, predicate func(item T, index int, s *Sequence[T]) bool) (T, bool, error) {
	index, item, err := s.findLastEntry(ctx, predicate)
	return item, index >= 0, err
}

// FindLastIndex returns the position of the last item matching predicate, or -1.
func (s *Sequence[T]) FindLastIndex(ctx context.Context, predicate func(item T, index int, s *Sequence[T]) bool) (int, error) {
	index, _, err := s.findLastEntry(ctx, predicate)
	return index, err
}

func (s *Sequence[T]) findEntry(ctx context.Context, predicate func(T, int, *Sequence[T]) bool) (int, T, error) {
	foundIndex := -1
	var foundItem T
	err := drain(ctx, s, func(item T, index int) bool {
		if predicate(item, index, s) {
			foundIndex, foundItem = index, item
			return false
		}
		return true
	})
	if err != nil {
		var zero T
		return -1, zero, err
	}
	return foundIndex, foundItem, nil
}

func (s *Sequence[T]) findLastEntry(ctx context.Context, predicate func(T, int, *Sequence[T]) bool) (int, T, error) {
	foundIndex := -1
	var foundItem T
	err := drain(ctx, s, func(item T, index int) bool {
		if predicate(item, index, s) {
			foundIndex, foundItem = index, item
		}
		return true
	})
	if err != nil {
		var zero T
		return -1, zero, err
	}
	return foundIndex, foundItem, nil
}

// Every reports whether predicate holds for all items, stopping at the first
// failure. It is true for an empty sequence.
func (s *Sequence[T]) Every(ctx context.Context, predicate func(item T, index int, s *Sequence[T]) bool) (bool, error) {
	index, _, err := s.findEntry(ctx, func(item T, i int, seq *Sequence[T]) bool {
		return !predicate(item, i, seq)
	})
	return index < 0, err
}

// Some reports whether predicate holds for any item, stopping at the first
// success. It is false for an empty sequence.
func (s *Sequence[T]) Some(ctx context.Context, predicate func(item T, index int, s *Sequence[T]) bool) (bool, error) {
	index, _, err := s.findEntry(ctx, predicate)
	return index >= 0, err
}

// ForEach calls fn once per item, in order.
func (s *Sequence[T]) ForEach(ctx context.Context, fn func(item T, index int, s *Sequence[T])) error {
	return drain(ctx, s, func(item T, index int) bool {
		fn(item, index, s)
		return true
	})
}

// Join drains a session and concatenates the text of each item with sep.
// Nil items render as the empty string.
func (s *Sequence[T]) Join(ctx context.Context, sep string) (string, error) {
	var b strings.Builder
	err := drain(ctx, s, func(item T, index int) bool {
		if index > 0 {
			b.WriteString(sep)
		}
		if any(item) != nil {
			fmt.Fprint(&b, item)
		}
		return true
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Reduce folds the items of s from first to last, starting from initial.
func Reduce[T, A any](ctx context.Context, s *Sequence[T], reducer func(acc A, item T, index int, s *Sequence[T]) A, initial A) (A, error) {
	acc := initial
	err := drain(ctx, s, func(item T, index int) bool {
		acc = reducer(acc, item, index, s)
		return true
	})
	return acc, err
}

// ReduceRight folds the items of s from last to first, passing each item's
// original position. It counts s, then folds over ToReversed, so every
// upstream stage runs twice per call: once for the count, once for the
// reversal.
func ReduceRight[T, A any](ctx context.Context, s *Sequence[T], reducer func(acc A, item T, index int, s *Sequence[T]) A, initial A) (A, error) {
	length, err := s.Count(ctx)
	if err != nil {
		return initial, err
	}
	acc := initial
	err = drain(ctx, s.ToReversed(), func(item T, i int) bool {
		acc = reducer(acc, item, length-1-i, s)
		return true
	})
	return acc, err
}

// IndexOf returns the position of the first item equal to value, or -1.
func IndexOf[T comparable](ctx context.Context, s *Sequence[T], value T) (int, error) {
	return IndexOfFrom(ctx, s, value, 0)
}

// IndexOfFrom is IndexOf starting the search at from. A negative from counts
// from the end, which costs a full count first; below -length it searches
// from the start.
func IndexOfFrom[T comparable](ctx context.Context, s *Sequence[T], value T, from int) (int, error) {
	if from < 0 {
		length, err := s.Count(ctx)
		if err != nil {
			return -1, err
		}
		from = resolve(from, length)
	}
	found := -1
	err := drain(ctx, s, func(item T, index int) bool {
		if index >= from && item == value {
			found = index
			return false
		}
		return true
	})
	if err != nil {
		return -1, err
	}
	return found, nil
}

// LastIndexOf returns the position of the last item equal to value, or -1.
func LastIndexOf[T comparable](ctx context.Context, s *Sequence[T], value T) (int, error) {
	return LastIndexOfFrom(ctx, s, value, Infinite)
}

// LastIndexOfFrom is LastIndexOf considering only positions up to and
// including from. A negative from counts from the end; below -length the
// result is -1 without searching.
func LastIndexOfFrom[T comparable](ctx context.Context, s *Sequence[T], value T, from int) (int, error) {
	if from < 0 {
		length, err := s.Count(ctx)
		if err != nil {
			return -1, err
		}
		if from < -length {
			return -1, nil
		}
		from += length
	}
	found := -1
	err := drain(ctx, s, func(item T, index int) bool {
		if index > from {
			return false
		}
		if item == value {
			found = index
		}
		return true
	})
	if err != nil {
		return -1, err
	}
	return found, nil
}

// Includes reports whether any item equals value, stopping at the first match.
func Includes[T comparable](ctx context.Context, s *Sequence[T], value T) (bool, error) {
	return IncludesFrom(ctx, s, value, 0)
}

// IncludesFrom is Includes considering only positions from on, with the same
// negative-position rules as IndexOfFrom.
func IncludesFrom[T comparable](ctx context.Context, s *Sequence[T], value T, from int) (bool, error) {
	index, err := IndexOfFrom(ctx, s, value, from)
	return index >= 0, err
}
