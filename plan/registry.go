package plan

import (
	"context"
	"sort"
	"sync"

	"github.com/kbukum/seqkit/sequence"
)

// StageFunc applies one stage to s. It may pull from s only for an eager
// pre-pass; everything else stays lazy.
type StageFunc func(ctx context.Context, s *sequence.Sequence[any], st Stage) (*sequence.Sequence[any], error)

// TerminalFunc drives s to a plain result.
type TerminalFunc func(ctx context.Context, s *sequence.Sequence[any], t Terminal) (any, error)

// Registry maps op names to stage and terminal implementations.
type Registry struct {
	mu        sync.RWMutex
	stages    map[string]StageFunc
	terminals map[string]TerminalFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		stages:    make(map[string]StageFunc),
		terminals: make(map[string]TerminalFunc),
	}
}

// DefaultRegistry returns a Registry holding every built-in op.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for name, fn := range builtinStages {
		r.RegisterStage(name, fn)
	}
	for name, fn := range builtinTerminals {
		r.RegisterTerminal(name, fn)
	}
	return r
}

// RegisterStage adds or replaces a stage op.
func (r *Registry) RegisterStage(name string, fn StageFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[name] = fn
}

// RegisterTerminal adds or replaces a terminal op.
func (r *Registry) RegisterTerminal(name string, fn TerminalFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminals[name] = fn
}

// Stage looks up a stage op.
func (r *Registry) Stage(name string) (StageFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.stages[name]
	return fn, ok
}

// Terminal looks up a terminal op.
func (r *Registry) Terminal(name string) (TerminalFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.terminals[name]
	return fn, ok
}

// StageNames returns the sorted names of all stage ops.
func (r *Registry) StageNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.stages)
}

// TerminalNames returns the sorted names of all terminal ops.
func (r *Registry) TerminalNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.terminals)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
