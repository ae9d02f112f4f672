package plan

import "fmt"

// Plan is a named, ordered list of stages and an optional terminal.
type Plan struct {
	Name     string    `yaml:"name" json:"name"`
	Stages   []Stage   `yaml:"stages" json:"stages" validate:"dive"`
	Terminal *Terminal `yaml:"terminal,omitempty" json:"terminal,omitempty"`
}

// Stage is one operator application. Which fields apply depends on Op.
type Stage struct {
	Op          string `yaml:"op" json:"op" validate:"required"`
	Value       any    `yaml:"value,omitempty" json:"value,omitempty"`
	Start       *int   `yaml:"start,omitempty" json:"start,omitempty"`
	End         *int   `yaml:"end,omitempty" json:"end,omitempty"`
	Index       *int   `yaml:"index,omitempty" json:"index,omitempty"`
	DeleteCount *int   `yaml:"delete_count,omitempty" json:"delete_count,omitempty" validate:"omitempty,gte=0"`
	Depth       *int   `yaml:"depth,omitempty" json:"depth,omitempty"`
	Items       []any  `yaml:"items,omitempty" json:"items,omitempty"`
	Order       string `yaml:"order,omitempty" json:"order,omitempty" validate:"omitempty,oneof=lexicographic numeric"`
	Descending  bool   `yaml:"descending,omitempty" json:"descending,omitempty"`
}

// Terminal selects the operation that drives the compiled sequence.
// A nil terminal means to_array.
type Terminal struct {
	Op        string  `yaml:"op" json:"op" validate:"required"`
	Value     any     `yaml:"value,omitempty" json:"value,omitempty"`
	Index     *int    `yaml:"index,omitempty" json:"index,omitempty"`
	From      *int    `yaml:"from,omitempty" json:"from,omitempty"`
	Separator *string `yaml:"separator,omitempty" json:"separator,omitempty"`
}

// Stage ops.
const (
	OpFilterEq   = "filter_eq"
	OpFilterNe   = "filter_ne"
	OpMapAdd     = "map_add"
	OpMapMul     = "map_mul"
	OpFill       = "fill"
	OpSlice      = "slice"
	OpWith       = "with"
	OpToSpliced  = "to_spliced"
	OpPush       = "push"
	OpUnshift    = "unshift"
	OpConcat     = "concat"
	OpFlat       = "flat"
	OpToReversed = "to_reversed"
	OpToSorted   = "to_sorted"
	OpEntries    = "entries"
	OpKeys       = "keys"
)

// Terminal ops.
const (
	TermToArray     = "to_array"
	TermCount       = "count"
	TermJoin        = "join"
	TermAt          = "at"
	TermIncludes    = "includes"
	TermIndexOf     = "index_of"
	TermLastIndexOf = "last_index_of"
	TermSum         = "sum"
	TermFirst       = "first"
	TermLast        = "last"
)

// Orders accepted by to_sorted.
const (
	OrderLexicographic = "lexicographic"
	OrderNumeric       = "numeric"
)

// Normalize rewrites every number in v as float64, descending into slices
// and maps, so values decoded from YAML compare equal to values decoded
// from JSON.
func Normalize(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}
		return out
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// compositeKey stands in for values that are not comparable with ==.
type compositeKey struct{ text string }

// key maps v to a comparable value with the equality plans use: numbers by
// value regardless of type, scalars by ==, composites by their Go syntax.
func key(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	switch v.(type) {
	case nil, string, bool:
		return v
	}
	return compositeKey{text: fmt.Sprintf("%#v", Normalize(v))}
}
