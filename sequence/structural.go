package sequence

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
)

// ToReversed yields the items of s back to front. Every session drains a
// fresh session of s into a buffer before producing its first item.
func (s *Sequence[T]) ToReversed() *Sequence[T] {
	return newSequence(func() Iterator[T] {
		return &bufferedIter[T]{load: func(ctx context.Context) ([]T, error) {
			items, err := s.ToSlice(ctx)
			if err != nil {
				return nil, err
			}
			slices.Reverse(items)
			return items, nil
		}}
	})
}

// ToSorted yields the items of s in the order given by cmp, keeping equal
// items in their original order. A nil cmp compares the fmt.Sprint text of
// the items, so 11 sorts before 2.
func (s *Sequence[T]) ToSorted(cmp func(a, b T) int) *Sequence[T] {
	if cmp == nil {
		cmp = func(a, b T) int {
			return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
		}
	}
	return newSequence(func() Iterator[T] {
		return &bufferedIter[T]{load: func(ctx context.Context) ([]T, error) {
			items, err := s.ToSlice(ctx)
			if err != nil {
				return nil, err
			}
			slices.SortStableFunc(items, cmp)
			return items, nil
		}}
	})
}

// Flat splices spreadable items into the output up to depth levels deep.
// Sequences, slices, arrays and iter.Seq values of any item type are
// spreadable; strings
// and everything else pass through unchanged. Spreadable items below depth
// are produced as they are. Pass Infinite to flatten every level.
func Flat[T any](s *Sequence[T], depth int) *Sequence[any] {
	return newSequence(func() Iterator[any] {
		return &flatIter{stack: []flatFrame{{it: &anyIter[T]{src: s.Iter()}, depth: depth}}}
	})
}

// FlatDeep flattens every level of nesting.
func FlatDeep[T any](s *Sequence[T]) *Sequence[any] {
	return Flat(s, Infinite)
}

// spread returns an iterator over v's items when v is spreadable.
func spread(v any) (Iterator[any], bool) {
	switch x := v.(type) {
	case nil, string:
		return nil, false
	case spreader:
		return x.spread(), true
	case iter.Seq[any]:
		return &pullIter[any]{seq: x}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &indexIter[any]{n: rv.Len(), at: func(i int) any { return rv.Index(i).Interface() }}, true
	case reflect.Func:
		if _, ok := seqYield(rv.Type()); ok && !rv.IsNil() {
			return &pullIter[any]{seq: anySeq(rv)}, true
		}
	}
	return nil, false
}

// itemType returns the type of the items spread(v) would produce.
func itemType(v any) (reflect.Type, bool) {
	switch x := v.(type) {
	case nil, string:
		return nil, false
	case spreader:
		return x.itemType(), true
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem(), true
	case reflect.Func:
		if yield, ok := seqYield(t); ok {
			return yield.In(0), true
		}
	}
	return nil, false
}

// seqYield returns the yield type of t when t has the shape of an iter.Seq.
func seqYield(t reflect.Type) (reflect.Type, bool) {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return nil, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 ||
		yield.IsVariadic() || yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return yield, true
}

// anySeq adapts an iter.Seq of any item type held in fn.
func anySeq(fn reflect.Value) iter.Seq[any] {
	yieldType := fn.Type().In(0)
	boolType := yieldType.Out(0)
	return func(yield func(any) bool) {
		adapter := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(yield(args[0].Interface())).Convert(boolType)}
		})
		fn.Call([]reflect.Value{adapter})
	}
}

// spreadInto returns a sequence over v's items when v is spreadable and
// its items are assignable to T.
func spreadInto[T any](v any) (*Sequence[T], bool) {
	elem, ok := itemType(v)
	if !ok || !elem.AssignableTo(reflect.TypeFor[T]()) {
		return nil, false
	}
	return newSequence(func() Iterator[T] {
		src, _ := spread(v)
		return &assertIter[T]{src: src}
	}), true
}

// asItem converts v to T. A nil v is the zero value of an interface T.
func asItem[T any](v any) (T, bool) {
	if item, ok := v.(T); ok {
		return item, true
	}
	var zero T
	return zero, v == nil && reflect.TypeFor[T]().Kind() == reflect.Interface
}

// --- Iterator implementations ---

type bufferedIter[T any] struct {
	load   func(ctx context.Context) ([]T, error)
	items  []T
	loaded bool
	index  int
}

func (it *bufferedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !it.loaded {
		items, err := it.load(ctx)
		if err != nil {
			return zero, false, err
		}
		it.items = items
		it.loaded = true
	}
	if it.index >= len(it.items) {
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *bufferedIter[T]) Close() error { return nil }

type flatFrame struct {
	it    Iterator[any]
	depth int
}

type flatIter struct {
	stack []flatFrame
}

func (it *flatIter) Next(ctx context.Context) (any, bool, error) {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		val, ok, err := top.it.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			_ = top.it.Close()
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		if top.depth > 0 {
			if inner, spreadable := spread(val); spreadable {
				it.stack = append(it.stack, flatFrame{it: inner, depth: top.depth - 1})
				continue
			}
		}
		return val, true, nil
	}
	return nil, false, nil
}

func (it *flatIter) Close() error {
	for i := len(it.stack) - 1; i >= 0; i-- {
		_ = it.stack[i].it.Close()
	}
	it.stack = nil
	return nil
}
