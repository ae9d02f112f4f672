package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/sequence"
)

var builtinStages = map[string]StageFunc{
	OpFilterEq:   filterStage(true),
	OpFilterNe:   filterStage(false),
	OpMapAdd:     arithmeticStage(func(a, b float64) float64 { return a + b }),
	OpMapMul:     arithmeticStage(func(a, b float64) float64 { return a * b }),
	OpFill:       fillStage,
	OpSlice:      sliceStage,
	OpWith:       withStage,
	OpToSpliced:  toSplicedStage,
	OpPush:       pushStage,
	OpUnshift:    unshiftStage,
	OpConcat:     concatStage,
	OpFlat:       flatStage,
	OpToReversed: toReversedStage,
	OpToSorted:   toSortedStage,
	OpEntries:    entriesStage,
	OpKeys:       keysStage,
}

func filterStage(keep bool) StageFunc {
	return func(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
		want := key(st.Value)
		return s.Filter(func(item any, _ int, _ *sequence.Sequence[any]) bool {
			return (key(item) == want) == keep
		}), nil
	}
}

func arithmeticStage(op func(a, b float64) float64) StageFunc {
	return func(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
		operand, ok := toFloat(st.Value)
		if !ok {
			return nil, errors.InvalidArgument("value", fmt.Sprintf("%s needs a number, got %T", st.Op, st.Value))
		}
		return sequence.TryMap(s, func(item any, index int, _ *sequence.Sequence[any]) (any, error) {
			n, ok := toFloat(item)
			if !ok {
				return nil, errors.InvalidInput("items", fmt.Sprintf("item %d is %T, not a number", index, item)).
					WithDetail("index", index)
			}
			return op(n, operand), nil
		}), nil
	}
}

func fillStage(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	return s.Fill(st.Value, intOr(st.Start, 0), intOr(st.End, sequence.Infinite)), nil
}

func sliceStage(ctx context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	return s.Slice(ctx, intOr(st.Start, 0), intOr(st.End, sequence.Infinite))
}

func withStage(ctx context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	if st.Index == nil {
		return nil, errors.MissingField("index")
	}
	return s.With(ctx, *st.Index, st.Value)
}

func toSplicedStage(ctx context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	if st.Start == nil {
		return nil, errors.MissingField("start")
	}
	return s.ToSpliced(ctx, *st.Start, intOr(st.DeleteCount, sequence.Infinite), st.Items...)
}

func pushStage(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	return s.Push(st.Items...), nil
}

func unshiftStage(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	return s.Unshift(st.Items...), nil
}

// concatStage splices list items and appends everything else as one item.
func concatStage(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	return s.Concat(st.Items...), nil
}

// flatStage defaults to depth 1; a negative depth flattens every level.
func flatStage(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	depth := intOr(st.Depth, 1)
	if depth < 0 {
		depth = sequence.Infinite
	}
	return sequence.Flat(s, depth), nil
}

func toReversedStage(_ context.Context, s *sequence.Sequence[any], _ Stage) (*sequence.Sequence[any], error) {
	return s.ToReversed(), nil
}

func toSortedStage(_ context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error) {
	var cmp func(a, b any) int
	switch st.Order {
	case "", OrderLexicographic:
		if st.Descending {
			cmp = func(a, b any) int { return strings.Compare(fmt.Sprint(b), fmt.Sprint(a)) }
		}
	case OrderNumeric:
		cmp = compareNumeric
		if st.Descending {
			cmp = func(a, b any) int { return compareNumeric(b, a) }
		}
	default:
		return nil, errors.InvalidArgument("order", fmt.Sprintf("unknown order %q", st.Order))
	}
	return s.ToSorted(cmp), nil
}

// compareNumeric orders numbers by value ahead of everything else, which
// keeps its original relative order.
func compareNumeric(a, b any) int {
	x, aNum := toFloat(a)
	y, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return 0
}

// entriesStage yields [index, item] pairs.
func entriesStage(_ context.Context, s *sequence.Sequence[any], _ Stage) (*sequence.Sequence[any], error) {
	return sequence.Map(sequence.Entries(s), func(e sequence.Entry[any], _ int, _ *sequence.Sequence[sequence.Entry[any]]) any {
		return []any{float64(e.Index), e.Item}
	}), nil
}

func keysStage(_ context.Context, s *sequence.Sequence[any], _ Stage) (*sequence.Sequence[any], error) {
	return sequence.Map(s.Keys(), func(index, _ int, _ *sequence.Sequence[int]) any {
		return float64(index)
	}), nil
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
