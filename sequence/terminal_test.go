package sequence

import (
	"context"
	"errors"
	"testing"
)

func counted(calls *int, items ...int) *Sequence[int] {
	return Map(From(items), func(n, _ int, _ *Sequence[int]) int {
		*calls++
		return n
	})
}

func TestCount(t *testing.T) {
	mapperCalls, predicateCalls := 0, 0
	s := counted(&mapperCalls, 1, 2, 3).Filter(func(n, _ int, _ *Sequence[int]) bool {
		predicateCalls++
		return n > 1
	})
	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
	if mapperCalls != 3 || predicateCalls != 3 {
		t.Errorf("mapper=%d predicate=%d, want 3 each", mapperCalls, predicateCalls)
	}
}

func TestReduce(t *testing.T) {
	calls := 0
	sum, err := Reduce(context.Background(), counted(&calls, 1, 2, 3), func(acc, n, _ int, _ *Sequence[int]) int {
		return acc + n
	}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 16 {
		t.Errorf("sum = %d, want 16", sum)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestReduceRight(t *testing.T) {
	calls := 0
	var indices []int
	out, err := ReduceRight(context.Background(), counted(&calls, 1, 2, 3), func(acc string, n, index int, _ *Sequence[int]) string {
		indices = append(indices, index)
		return acc + string(rune('0'+n))
	}, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "321" {
		t.Errorf("got %q, want 321", out)
	}
	if !intSliceEqual(indices, []int{2, 1, 0}) {
		t.Errorf("indices = %v, want [2 1 0]", indices)
	}
	if calls != 6 {
		t.Errorf("calls = %d, want 6 (count + reversal)", calls)
	}
}

func TestAt(t *testing.T) {
	calls := 0
	s := counted(&calls, 1, 2, 3)
	v, ok, err := s.At(context.Background(), 1)
	if err != nil || !ok || v != 2 {
		t.Fatalf("At(1) = %v, %v, %v", v, ok, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if _, ok, _ := s.At(context.Background(), 3); ok {
		t.Error("expected At(3) to be out of range")
	}
	if _, ok, _ := s.At(context.Background(), -1); ok {
		t.Error("expected At(-1) to report nothing")
	}
}

func TestFind_ShortCircuits(t *testing.T) {
	calls := 0
	s := counted(&calls, 1, 2, 3, 4)
	isEven := func(n, _ int, _ *Sequence[int]) bool { return n%2 == 0 }

	v, ok, err := s.Find(context.Background(), isEven)
	if err != nil || !ok || v != 2 {
		t.Fatalf("Find = %v, %v, %v", v, ok, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	idx, err := s.FindIndex(context.Background(), isEven)
	if err != nil || idx != 1 {
		t.Errorf("FindIndex = %d, %v", idx, err)
	}

	idx, err = s.FindIndex(context.Background(), func(n, _ int, _ *Sequence[int]) bool { return n > 9 })
	if err != nil || idx != -1 {
		t.Errorf("FindIndex(miss) = %d, %v", idx, err)
	}
	if _, ok, _ := s.Find(context.Background(), func(n, _ int, _ *Sequence[int]) bool { return n > 9 }); ok {
		t.Error("expected Find to miss")
	}
}

func TestFindLast_ScansEverything(t *testing.T) {
	calls, predicateCalls := 0, 0
	s := counted(&calls, 1, 2, 3, 4, 5)
	isEven := func(n, _ int, _ *Sequence[int]) bool {
		predicateCalls++
		return n%2 == 0
	}
	v, ok, err := s.FindLast(context.Background(), isEven)
	if err != nil || !ok || v != 4 {
		t.Fatalf("FindLast = %v, %v, %v", v, ok, err)
	}
	if calls != 5 || predicateCalls != 5 {
		t.Errorf("calls=%d predicate=%d, want 5 each", calls, predicateCalls)
	}
	idx, err := s.FindLastIndex(context.Background(), isEven)
	if err != nil || idx != 3 {
		t.Errorf("FindLastIndex = %d, %v", idx, err)
	}
}

func TestIndexOf(t *testing.T) {
	ctx := context.Background()
	s := From([]int{1, 2, 3, 2})
	cases := []struct {
		value, from, want int
	}{
		{2, 0, 1},
		{4, 0, -1},
		{2, 2, 3},
		{1, 2, -1},
		{1, 4, -1},
		{2, -2, 3},
		{2, -5, 1},
	}
	for _, tc := range cases {
		got, err := IndexOfFrom(ctx, s, tc.value, tc.from)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("IndexOfFrom(%d, %d) = %d, want %d", tc.value, tc.from, got, tc.want)
		}
	}
}

func TestIndexOf_PullsOnlyUntilMatch(t *testing.T) {
	calls := 0
	idx, err := IndexOf(context.Background(), Map(counted(&calls, 1, 2, 3), func(n, _ int, _ *Sequence[int]) int {
		return n * 2
	}), 4)
	if err != nil || idx != 1 {
		t.Fatalf("IndexOf = %d, %v", idx, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestLastIndexOf(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		items             []int
		value, from, want int
	}{
		{[]int{1, 2, 3, 2}, 2, Infinite, 3},
		{[]int{1, 2, 3}, 4, Infinite, -1},
		{[]int{1, 2, 3, 2}, 2, 2, 1},
		{[]int{1, 2, 3, 2}, 3, 1, -1},
		{[]int{1, 2, 3}, 1, 4, 0},
		{[]int{1, 2, 3, 2}, 2, -2, 1},
		{[]int{1, 2, 3}, 1, -4, -1},
	}
	for _, tc := range cases {
		got, err := LastIndexOfFrom(ctx, From(tc.items), tc.value, tc.from)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("LastIndexOfFrom(%v, %d, %d) = %d, want %d", tc.items, tc.value, tc.from, got, tc.want)
		}
	}
	got, err := LastIndexOf(ctx, Of("a", "b", "a"), "a")
	if err != nil || got != 2 {
		t.Errorf("LastIndexOf = %d, %v", got, err)
	}
}

func TestIncludes(t *testing.T) {
	ctx := context.Background()
	s := From([]int{1, 2, 3})
	cases := []struct {
		value, from int
		want        bool
	}{
		{2, 0, true},
		{4, 0, false},
		{2, 1, true},
		{1, 1, false},
		{3, 3, false},
		{3, 1, true},
		{2, -2, true},
		{1, -2, false},
		{1, -4, true},
	}
	for _, tc := range cases {
		got, err := IncludesFrom(ctx, s, tc.value, tc.from)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("IncludesFrom(%d, %d) = %v, want %v", tc.value, tc.from, got, tc.want)
		}
	}
}

func TestIncludes_ShortCircuit(t *testing.T) {
	mapperCalls, predicateCalls := 0, 0
	s := counted(&mapperCalls, 1, 2, 3).Filter(func(n, _ int, _ *Sequence[int]) bool {
		predicateCalls++
		return n < 4
	})
	ok, err := Includes(context.Background(), s, 2)
	if err != nil || !ok {
		t.Fatalf("Includes = %v, %v", ok, err)
	}
	if mapperCalls != 2 || predicateCalls != 2 {
		t.Errorf("mapper=%d predicate=%d, want 2 each", mapperCalls, predicateCalls)
	}
}

func TestEvery_Some(t *testing.T) {
	ctx := context.Background()
	positive := func(n, _ int, _ *Sequence[int]) bool { return n > 0 }

	if ok, err := Empty[int]().Every(ctx, positive); err != nil || !ok {
		t.Errorf("Every on empty = %v, %v, want true", ok, err)
	}
	if ok, err := Empty[int]().Some(ctx, positive); err != nil || ok {
		t.Errorf("Some on empty = %v, %v, want false", ok, err)
	}

	calls := 0
	ok, err := counted(&calls, -1, 2, 3).Every(ctx, positive)
	if err != nil || ok {
		t.Errorf("Every = %v, %v, want false", ok, err)
	}
	if calls != 1 {
		t.Errorf("Every pulled %d items, want 1", calls)
	}

	calls = 0
	ok, err = counted(&calls, -1, 2, 3).Some(ctx, positive)
	if err != nil || !ok {
		t.Errorf("Some = %v, %v, want true", ok, err)
	}
	if calls != 2 {
		t.Errorf("Some pulled %d items, want 2", calls)
	}
}

func TestForEach(t *testing.T) {
	calls := 0
	s := counted(&calls, 1, 2, 3)
	var seen []int
	err := s.ForEach(context.Background(), func(n, index int, owner *Sequence[int]) {
		if owner != s {
			t.Error("expected the owning sequence")
		}
		if calls != index+1 {
			t.Errorf("callback for %d ran after %d upstream pulls", index, calls)
		}
		seen = append(seen, n)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(seen, []int{1, 2, 3}) {
		t.Errorf("seen = %v", seen)
	}
}

type label struct{ name string }

func (l label) String() string { return "<" + l.name + ">" }

func TestJoin(t *testing.T) {
	ctx := context.Background()
	got, err := Of(1, 2, 3).Join(ctx, ",")
	if err != nil || got != "1,2,3" {
		t.Errorf("Join = %q, %v", got, err)
	}
	got, err = Of(label{"a"}, label{"b"}).Join(ctx, " ")
	if err != nil || got != "<a> <b>" {
		t.Errorf("Join with Stringer = %q, %v", got, err)
	}
	got, err = Of[any](nil, 1, nil).Join(ctx, "-")
	if err != nil || got != "-1-" {
		t.Errorf("Join with nils = %q, %v", got, err)
	}
	got, err = Empty[int]().Join(ctx, ",")
	if err != nil || got != "" {
		t.Errorf("Join on empty = %q, %v", got, err)
	}
}

func TestTerminal_PropagatesStageError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s := TryMap(Of(1, 2), func(int, int, *Sequence[int]) (int, error) { return 0, boom })
	if _, err := s.Count(ctx); !errors.Is(err, boom) {
		t.Errorf("Count err = %v", err)
	}
	if _, err := Reduce(ctx, s, func(acc, n, _ int, _ *Sequence[int]) int { return acc + n }, 0); !errors.Is(err, boom) {
		t.Errorf("Reduce err = %v", err)
	}
	if _, err := s.Join(ctx, ","); !errors.Is(err, boom) {
		t.Errorf("Join err = %v", err)
	}
	if _, err := IndexOf(ctx, s, 1); !errors.Is(err, boom) {
		t.Errorf("IndexOf err = %v", err)
	}
	if _, err := s.ToReversed().ToSlice(ctx); !errors.Is(err, boom) {
		t.Errorf("ToReversed err = %v", err)
	}
}
