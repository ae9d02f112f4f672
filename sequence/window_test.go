package sequence

import (
	"context"
	"testing"

	"github.com/kbukum/seqkit/errors"
)

func TestFill_Bounds(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
		want       []int
	}{
		{"whole", 0, Infinite, []int{4, 4, 4}},
		{"from start", 1, Infinite, []int{1, 4, 4}},
		{"between", 1, 2, []int{1, 4, 3}},
		{"same bounds", 1, 1, []int{1, 2, 3}},
		{"start after end", 3, 1, []int{1, 2, 3}},
		{"start out of range", 3, 4, []int{1, 2, 3}},
		{"end out of range", 1, 5, []int{1, 4, 4}},
		{"negative bounds", -3, -2, []int{4, 2, 3}},
		{"negative start only", -1, Infinite, []int{1, 2, 4}},
		{"start below -length clamps", -10, 1, []int{4, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustSlice(t, From([]int{1, 2, 3}).Fill(4, tc.start, tc.end))
			if !intSliceEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFill_NegativeResolvedOncePerSession(t *testing.T) {
	calls := 0
	s := Map(Of(1, 2, 3), func(n, _ int, _ *Sequence[int]) int {
		calls++
		return n
	}).Fill(0, -1, Infinite)
	if calls != 0 {
		t.Fatal("Fill counted before enumeration")
	}
	if got := mustSlice(t, s); !intSliceEqual(got, []int{1, 2, 0}) {
		t.Errorf("got %v", got)
	}
	if calls != 6 {
		t.Errorf("calls = %d, want 6 (count pass + fill pass)", calls)
	}
	if got := mustSlice(t, s); !intSliceEqual(got, []int{1, 2, 0}) {
		t.Errorf("replay got %v", got)
	}
}

func TestSlice_Bounds(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
		want       []int
	}{
		{"all", 0, Infinite, []int{1, 2, 3, 4, 5, 6}},
		{"range", 1, 3, []int{2, 3}},
		{"start", 3, Infinite, []int{4, 5, 6}},
		{"end", 0, 3, []int{1, 2, 3}},
		{"negative start", -3, Infinite, []int{4, 5, 6}},
		{"negative start clamps", -7, Infinite, []int{1, 2, 3, 4, 5, 6}},
		{"negative end", 0, -3, []int{1, 2, 3}},
		{"negative end clamps", 0, -7, []int{}},
		{"start after end", 3, 1, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := From([]int{1, 2, 3, 4, 5, 6}).Slice(context.Background(), tc.start, tc.end)
			if err != nil {
				t.Fatal(err)
			}
			if got := mustSlice(t, s); !intSliceEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSlice_StopsPullingAtEnd(t *testing.T) {
	calls := 0
	mapped := Map(From([]int{1, 2, 3, 4, 5, 6}), func(n, _ int, _ *Sequence[int]) int {
		calls++
		return n
	})
	s, err := mapped.Slice(context.Background(), 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatal("non-negative Slice must not count")
	}
	mustSlice(t, s)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestSlice_NegativeCountsEagerly(t *testing.T) {
	calls := 0
	mapped := Map(Of(1, 2, 3), func(n, _ int, _ *Sequence[int]) int {
		calls++
		return n
	})
	if _, err := mapped.Slice(context.Background(), -1, Infinite); err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 from the eager count", calls)
	}
}

func TestWith_Replaces(t *testing.T) {
	cases := []struct {
		index int
		want  []int
	}{
		{1, []int{1, 4, 3}},
		{0, []int{4, 2, 3}},
		{-1, []int{1, 2, 4}},
		{-3, []int{4, 2, 3}},
	}
	for _, tc := range cases {
		s, err := From([]int{1, 2, 3}).With(context.Background(), tc.index, 4)
		if err != nil {
			t.Fatalf("With(%d): %v", tc.index, err)
		}
		if got := mustSlice(t, s); !intSliceEqual(got, tc.want) {
			t.Errorf("With(%d) got %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestWith_NegativeOutOfRangeFailsImmediately(t *testing.T) {
	s, err := From([]int{1, 2, 3}).With(context.Background(), -4, 4)
	if s != nil {
		t.Error("expected no sequence")
	}
	if !errors.HasCode(err, errors.ErrCodeIndexOutOfRange) {
		t.Fatalf("expected INDEX_OUT_OF_RANGE, got %v", err)
	}
	if err.Error() != "Index -4 is out of range." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWith_NonNegativeOutOfRangeFailsLazily(t *testing.T) {
	s, err := From([]int{1, 2, 3}).With(context.Background(), 3, 4)
	if err != nil {
		t.Fatalf("expected construction to succeed, got %v", err)
	}
	_, err = s.ToSlice(context.Background())
	if !errors.HasCode(err, errors.ErrCodeIndexOutOfRange) {
		t.Fatalf("expected INDEX_OUT_OF_RANGE, got %v", err)
	}
	if err.Error() != "Index 3 is out of range." {
		t.Errorf("unexpected message %q", err.Error())
	}
	// A consumer that stops early never sees the failure.
	v, ok, err := s.At(context.Background(), 2)
	if err != nil || !ok || v != 3 {
		t.Errorf("At(2) = %v, %v, %v", v, ok, err)
	}
}

func TestToSpliced(t *testing.T) {
	cases := []struct {
		name        string
		start       int
		deleteCount int
		items       []int
		want        []int
	}{
		{"insert", 2, 0, []int{6, 7, 8}, []int{1, 2, 6, 7, 8, 3, 4, 5}},
		{"delete rest", 2, Infinite, nil, []int{1, 2}},
		{"replace rest", 2, Infinite, []int{7, 8, 9}, []int{1, 2, 7, 8, 9}},
		{"delete past end", 2, 10, []int{7, 8, 9}, []int{1, 2, 7, 8, 9}},
		{"negative start", -2, 1, []int{6, 7, 8}, []int{1, 2, 3, 6, 7, 8, 5}},
		{"negative start clamps", -10, 1, []int{6, 7, 8}, []int{6, 7, 8, 2, 3, 4, 5}},
		{"start at end inserts nothing", 5, 0, []int{6}, []int{1, 2, 3, 4, 5}},
		{"start past end inserts nothing", 9, 2, []int{6}, []int{1, 2, 3, 4, 5}},
		{"last position", 4, 0, []int{6}, []int{1, 2, 3, 4, 6, 5}},
		{"negative delete count", 1, -3, []int{9}, []int{1, 9, 2, 3, 4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := From([]int{1, 2, 3, 4, 5})
			s, err := src.ToSpliced(context.Background(), tc.start, tc.deleteCount, tc.items...)
			if err != nil {
				t.Fatal(err)
			}
			for range 2 {
				if got := mustSlice(t, s); !intSliceEqual(got, tc.want) {
					t.Errorf("got %v, want %v", got, tc.want)
				}
			}
			if got := mustSlice(t, src); !intSliceEqual(got, []int{1, 2, 3, 4, 5}) {
				t.Errorf("source changed: %v", got)
			}
		})
	}
}
