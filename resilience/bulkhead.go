package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/seqkit/errors"
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies the bulkhead in errors.
	Name string
	// MaxConcurrent is the maximum number of concurrent calls.
	MaxConcurrent int
	// MaxWait is how long to wait for a slot. 0 rejects immediately.
	MaxWait time.Duration
}

// Bulkhead limits how many calls run at once.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a bulkhead. MaxConcurrent below 1 means 1.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire takes a slot, waiting up to MaxWait. The returned release must be
// called exactly once. A nil Bulkhead admits everything.
func (b *Bulkhead) Acquire(ctx context.Context) (release func(), err error) {
	if b == nil {
		return func() {}, nil
	}

	select {
	case b.sem <- struct{}{}:
		return b.release, nil
	default:
	}
	if b.config.MaxWait <= 0 {
		return nil, b.rejected(0)
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return b.release, nil
	case <-timer.C:
		return nil, b.rejected(b.config.MaxWait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Execute runs fn while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	release, err := b.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// ExecuteWithResult runs fn while holding a slot of b and returns its result.
func ExecuteWithResult[T any](ctx context.Context, b *Bulkhead, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}

func (b *Bulkhead) release() {
	<-b.sem
}

func (b *Bulkhead) rejected(waited time.Duration) error {
	msg := fmt.Sprintf("%s is at capacity (%d concurrent)", b.config.Name, b.config.MaxConcurrent)
	appErr := errors.New(errors.ErrCodeOverloaded, msg).
		WithDetail("max_concurrent", b.config.MaxConcurrent)
	if waited > 0 {
		appErr.WithDetail("waited", waited.String())
	}
	return appErr
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	return b.config.MaxConcurrent - len(b.sem)
}

// InUse returns the number of slots currently held.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// MaxConcurrent returns the slot count.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}
