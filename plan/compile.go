package plan

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/sequence"
	"github.com/kbukum/seqkit/validation"
)

// Option configures Compile and Evaluate.
type Option func(*options)

type options struct {
	registry *Registry
	observe  *observability.Options
}

// WithRegistry compiles against r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithObservability wraps the source and every stage output with
// observability.Observe. Each is named "<plan>.<position>.<op>", with the
// source at position 0 named "source".
func WithObservability(opts observability.Options) Option {
	return func(o *options) { o.observe = &opts }
}

var defaultRegistry = DefaultRegistry()

func buildOptions(opts []Option) *options {
	o := &options{registry: defaultRegistry}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the plan structure and that every op is registered in r.
func Validate(p *Plan, r *Registry) error {
	if err := validation.Validate(p); err != nil {
		return err
	}
	for i, st := range p.Stages {
		if _, ok := r.Stage(st.Op); !ok {
			return errors.UnknownStage("stage", st.Op).WithDetail("stage", i)
		}
	}
	if p.Terminal != nil {
		if _, ok := r.Terminal(p.Terminal.Op); !ok {
			return errors.UnknownStage("terminal", p.Terminal.Op)
		}
	}
	return nil
}

// Compile applies the stages of p to src in order. Stage values and items
// are normalized first. Stages whose arguments need the length of their
// input (negative positions) pull from it here; all others stay lazy.
func Compile(ctx context.Context, p *Plan, src *sequence.Sequence[any], opts ...Option) (*sequence.Sequence[any], error) {
	o := buildOptions(opts)
	if err := Validate(p, o.registry); err != nil {
		return nil, err
	}

	s := o.wrap(src, p.Name, 0, "source")
	for i, st := range p.Stages {
		fn, _ := o.registry.Stage(st.Op)
		st.Value = Normalize(st.Value)
		st.Items = normalizeAll(st.Items)

		next, err := fn(ctx, s, st)
		if err != nil {
			return nil, stageError(err, i, st.Op)
		}
		s = o.wrap(next, p.Name, i+1, st.Op)
	}
	return s, nil
}

// CompileItems normalizes items and compiles p over them without running
// the terminal.
func CompileItems(ctx context.Context, p *Plan, items []any, opts ...Option) (*sequence.Sequence[any], error) {
	return Compile(ctx, p, sequence.From(normalizeAll(items)), opts...)
}

// Evaluate compiles p over items and runs its terminal. A plan without a
// terminal returns the items as a slice.
func Evaluate(ctx context.Context, p *Plan, items []any, opts ...Option) (any, error) {
	o := buildOptions(opts)
	s, err := CompileItems(ctx, p, items, opts...)
	if err != nil {
		return nil, err
	}

	t := Terminal{Op: TermToArray}
	if p.Terminal != nil {
		t = *p.Terminal
		t.Value = Normalize(t.Value)
	}
	fn, _ := o.registry.Terminal(t.Op)
	result, err := fn(ctx, s, t)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithDetail("terminal", t.Op)
		}
		return nil, err
	}
	return result, nil
}

func (o *options) wrap(s *sequence.Sequence[any], planName string, position int, op string) *sequence.Sequence[any] {
	if o.observe == nil {
		return s
	}
	obs := *o.observe
	obs.Name = planName + "." + strconv.Itoa(position) + "." + op
	return observability.Observe(s, obs)
}

func stageError(err error, index int, op string) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.WithDetail("stage", index).WithDetail("op", op)
	}
	return fmt.Errorf("stage %d (%s): %w", index, op, err)
}

func normalizeAll(items []any) []any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}
