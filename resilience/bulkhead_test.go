package resilience

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/seqkit/errors"
)

// hold occupies one slot of b until the returned func is called.
func hold(t *testing.T, b *Bulkhead) func() {
	t.Helper()
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func(context.Context) error {
			close(started)
			<-done
			return nil
		})
	}()
	<-started
	return func() { close(done) }
}

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3})

	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func(context.Context) error {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "evaluate", MaxConcurrent: 1})
	release := hold(t, b)
	defer release()

	err := b.Execute(context.Background(), func(context.Context) error { return nil })
	if !errors.HasCode(err, errors.ErrCodeOverloaded) {
		t.Fatalf("expected OVERLOADED, got %v", err)
	}
	if err.Error() != "evaluate is at capacity (1 concurrent)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: time.Second})
	release := hold(t, b)
	time.AfterFunc(20*time.Millisecond, release)

	ran := false
	err := b.Execute(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Errorf("expected the call to run after the slot freed, got %v", err)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	release := hold(t, b)
	defer release()

	err := b.Execute(context.Background(), func(context.Context) error { return nil })
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeOverloaded {
		t.Fatalf("expected OVERLOADED, got %v", err)
	}
	if appErr.Details["waited"] != "20ms" {
		t.Errorf("expected waited detail, got %v", appErr.Details)
	}
}

func TestBulkhead_RespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: time.Second})
	release := hold(t, b)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := b.Execute(ctx, func(context.Context) error { return nil })
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestBulkhead_AvailableAndInUse(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 2})
	if b.Available() != 2 || b.InUse() != 0 {
		t.Fatalf("unexpected initial state %d/%d", b.Available(), b.InUse())
	}

	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Available() != 1 || b.InUse() != 1 {
		t.Errorf("unexpected state while held %d/%d", b.Available(), b.InUse())
	}
	release()
	if b.Available() != 2 {
		t.Errorf("expected the slot back, got %d", b.Available())
	}
}

func TestBulkhead_NilAdmitsEverything(t *testing.T) {
	var b *Bulkhead
	got, err := ExecuteWithResult(context.Background(), b, func(context.Context) (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Errorf("got %d, %v", got, err)
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})
	want := stderrors.New("boom")
	_, err := ExecuteWithResult(context.Background(), b, func(context.Context) (string, error) { return "", want })
	if !stderrors.Is(err, want) {
		t.Errorf("expected fn error, got %v", err)
	}
	if b.InUse() != 0 {
		t.Error("slot must be released after an error")
	}
}

func TestNewBulkhead_MinimumOneSlot(t *testing.T) {
	if got := NewBulkhead(BulkheadConfig{}).MaxConcurrent(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}
