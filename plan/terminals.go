package plan

import (
	"context"
	"fmt"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/sequence"
)

var builtinTerminals = map[string]TerminalFunc{
	TermToArray:     toArrayTerminal,
	TermCount:       countTerminal,
	TermJoin:        joinTerminal,
	TermAt:          atTerminal,
	TermIncludes:    includesTerminal,
	TermIndexOf:     indexOfTerminal,
	TermLastIndexOf: lastIndexOfTerminal,
	TermSum:         sumTerminal,
	TermFirst:       firstTerminal,
	TermLast:        lastTerminal,
}

func toArrayTerminal(ctx context.Context, s *sequence.Sequence[any], _ Terminal) (any, error) {
	return s.ToSlice(ctx)
}

func countTerminal(ctx context.Context, s *sequence.Sequence[any], _ Terminal) (any, error) {
	return s.Count(ctx)
}

// joinTerminal separates with "," unless a separator is given.
func joinTerminal(ctx context.Context, s *sequence.Sequence[any], t Terminal) (any, error) {
	sep := ","
	if t.Separator != nil {
		sep = *t.Separator
	}
	return s.Join(ctx, sep)
}

// atTerminal returns nil when the index is out of range.
func atTerminal(ctx context.Context, s *sequence.Sequence[any], t Terminal) (any, error) {
	if t.Index == nil {
		return nil, errors.MissingField("index")
	}
	item, _, err := s.At(ctx, *t.Index)
	return item, err
}

func includesTerminal(ctx context.Context, s *sequence.Sequence[any], t Terminal) (any, error) {
	return sequence.IncludesFrom(ctx, keys(s), key(t.Value), intOr(t.From, 0))
}

func indexOfTerminal(ctx context.Context, s *sequence.Sequence[any], t Terminal) (any, error) {
	return sequence.IndexOfFrom(ctx, keys(s), key(t.Value), intOr(t.From, 0))
}

func lastIndexOfTerminal(ctx context.Context, s *sequence.Sequence[any], t Terminal) (any, error) {
	return sequence.LastIndexOfFrom(ctx, keys(s), key(t.Value), intOr(t.From, sequence.Infinite))
}

func sumTerminal(ctx context.Context, s *sequence.Sequence[any], _ Terminal) (any, error) {
	numbers := sequence.TryMap(s, func(item any, index int, _ *sequence.Sequence[any]) (float64, error) {
		n, ok := toFloat(item)
		if !ok {
			return 0, errors.InvalidInput("items", fmt.Sprintf("item %d is %T, not a number", index, item)).
				WithDetail("index", index)
		}
		return n, nil
	})
	return sequence.Reduce(ctx, numbers, func(acc, n float64, _ int, _ *sequence.Sequence[float64]) float64 {
		return acc + n
	}, 0)
}

// firstTerminal returns nil for an empty sequence.
func firstTerminal(ctx context.Context, s *sequence.Sequence[any], _ Terminal) (any, error) {
	item, _, err := s.At(ctx, 0)
	return item, err
}

// lastTerminal returns nil for an empty sequence.
func lastTerminal(ctx context.Context, s *sequence.Sequence[any], _ Terminal) (any, error) {
	item, _, err := s.FindLast(ctx, func(any, int, *sequence.Sequence[any]) bool { return true })
	return item, err
}

// keys maps items to their comparison keys so the comparable search
// operators can run over arbitrary decoded values.
func keys(s *sequence.Sequence[any]) *sequence.Sequence[any] {
	return sequence.Map(s, func(item any, _ int, _ *sequence.Sequence[any]) any { return key(item) })
}
