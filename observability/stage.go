package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/sequence"
)

// Session outcomes.
const (
	// StatusDone means the enumeration ran to exhaustion.
	StatusDone = "done"
	// StatusStopped means the consumer closed the session early.
	StatusStopped = "stopped"
	// StatusError means a stage failed.
	StatusError = "error"
)

// outcome describes how a watched session ended.
type outcome struct {
	status   string
	items    int
	err      error
	duration time.Duration
}

// watcher observes one session. open runs on the first pull, bind wraps
// the context of every upstream pull, close runs once at the end.
type watcher interface {
	open(ctx context.Context)
	bind(ctx context.Context) context.Context
	close(ctx context.Context, o outcome)
}

// Trace logs the start and end of every session of s at debug level, and
// failures at warn level. Both lines carry the same random session id.
func Trace[T any](s *sequence.Sequence[T], log *logger.Logger, name string) *sequence.Sequence[T] {
	return watch(s, func() watcher {
		return &logWatcher{log: log.WithFields(logger.Fields(
			logger.FieldSequence, name,
			logger.FieldSessionID, uuid.NewString(),
		))}
	})
}

// Instrument records session, item and error metrics for every session of s.
func Instrument[T any](s *sequence.Sequence[T], m *Metrics, name string) *sequence.Sequence[T] {
	return watch(s, func() watcher {
		return &metricWatcher{metrics: m, name: name}
	})
}

// Span opens one span per session of s. Upstream pulls run with the span in
// their context, so spans of nested observed sequences become its children.
func Span[T any](s *sequence.Sequence[T], tracer trace.Tracer, name string) *sequence.Sequence[T] {
	return watch(s, func() watcher {
		return &spanWatcher{tracer: tracer, name: name}
	})
}

// Options selects the observers applied by Observe. Nil fields are skipped.
type Options struct {
	Name    string
	Logger  *logger.Logger
	Metrics *Metrics
	Tracer  trace.Tracer
}

// Observe applies Span, Instrument and Trace for each configured observer.
func Observe[T any](s *sequence.Sequence[T], opts Options) *sequence.Sequence[T] {
	if opts.Tracer != nil {
		s = Span(s, opts.Tracer, opts.Name)
	}
	if opts.Metrics != nil {
		s = Instrument(s, opts.Metrics, opts.Name)
	}
	if opts.Logger != nil {
		s = Trace(s, opts.Logger, opts.Name)
	}
	return s
}

func watch[T any](s *sequence.Sequence[T], newWatcher func() watcher) *sequence.Sequence[T] {
	return sequence.FromFunc(func() sequence.Iterator[T] {
		return &watchedIter[T]{src: s.Iter(), w: newWatcher()}
	})
}

type watchedIter[T any] struct {
	src     sequence.Iterator[T]
	w       watcher
	ctx     context.Context
	started time.Time
	items   int
	opened  bool
	ended   bool
}

func (it *watchedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.ended {
		return zero, false, nil
	}
	if !it.opened {
		it.opened = true
		it.ctx = ctx
		it.started = time.Now()
		it.w.open(ctx)
	}
	val, ok, err := it.src.Next(it.w.bind(ctx))
	if err != nil {
		it.end(StatusError, err)
		return zero, false, err
	}
	if !ok {
		it.end(StatusDone, nil)
		return zero, false, nil
	}
	it.items++
	return val, true, nil
}

func (it *watchedIter[T]) Close() error {
	err := it.src.Close()
	if it.opened && !it.ended {
		it.end(StatusStopped, nil)
	}
	it.ended = true
	return err
}

func (it *watchedIter[T]) end(status string, err error) {
	it.ended = true
	it.w.close(context.WithoutCancel(it.ctx), outcome{
		status:   status,
		items:    it.items,
		err:      err,
		duration: time.Since(it.started),
	})
}

type logWatcher struct {
	log *logger.Logger
}

func (w *logWatcher) open(context.Context) {
	w.log.Debug("session opened")
}

func (w *logWatcher) bind(ctx context.Context) context.Context { return ctx }

func (w *logWatcher) close(_ context.Context, o outcome) {
	fields := logger.Fields(
		logger.FieldStatus, o.status,
		logger.FieldItems, o.items,
		logger.FieldDuration, o.duration.Milliseconds(),
	)
	if o.err != nil {
		w.log.WithError(o.err).Warn("session failed", fields)
		return
	}
	w.log.Debug("session closed", fields)
}

type metricWatcher struct {
	metrics *Metrics
	name    string
}

func (w *metricWatcher) open(ctx context.Context) {
	w.metrics.RecordSessionStart(ctx, w.name)
}

func (w *metricWatcher) bind(ctx context.Context) context.Context { return ctx }

func (w *metricWatcher) close(ctx context.Context, o outcome) {
	w.metrics.RecordSessionEnd(ctx, w.name, o.status, o.items, o.duration)
}

type spanWatcher struct {
	tracer trace.Tracer
	name   string
	span   trace.Span
}

func (w *spanWatcher) open(ctx context.Context) {
	_, w.span = w.tracer.Start(ctx, w.name, trace.WithAttributes(attribute.String(AttrSequence, w.name)))
}

func (w *spanWatcher) bind(ctx context.Context) context.Context {
	return trace.ContextWithSpan(ctx, w.span)
}

func (w *spanWatcher) close(_ context.Context, o outcome) {
	w.span.SetAttributes(
		attribute.Int(AttrItems, o.items),
		attribute.String(AttrStatus, o.status),
	)
	if o.err != nil {
		w.span.RecordError(o.err)
		w.span.SetStatus(codes.Error, o.err.Error())
	}
	w.span.End()
}
