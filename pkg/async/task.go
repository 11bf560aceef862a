package async

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/storekit/pkg/eventual"
	"github.com/vango-dev/storekit/pkg/reactive"
)

// Task is the reactive readout of a tracked asynchronous function.
//
// Only the tracker writes its signals. Pending, Err and State are tracked
// reads; call them inside an effect to react to transitions.
type Task struct {
	id   string
	opts options

	pending  *reactive.Signal[bool]
	err      *reactive.Signal[error]
	state    *reactive.Signal[State]
	inFlight *reactive.Signal[bool]

	effect *reactive.Effect
}

// Track runs fn inside a reactive effect owned by the current owner and
// tracks the future it returns.
//
// fn runs immediately and again whenever a signal it read changes, unless
// the previous invocation has not settled yet. Changes seen while an
// invocation is in flight are dropped, not replayed. There is no
// cancellation: an invocation always runs to completion.
//
// A nil future counts as an immediate success. A panic in fn is recovered
// and reported as a failure.
func Track[T any](fn func() *eventual.Future[T], opts ...Option) *Task {
	t := &Task{
		id:       uuid.NewString(),
		opts:     defaultOptions(),
		pending:  reactive.NewSignal(false),
		err:      reactive.NewSignal[error](nil).WithEquals(reactive.SameValue[error]),
		state:    reactive.NewSignal(Idle),
		inFlight: reactive.NewSignal(false),
	}
	for _, opt := range opts {
		opt(&t.opts)
	}

	t.effect = reactive.CreateEffect(func() reactive.Cleanup {
		// Untracked: depending on the flag would re-run this body on every
		// transition it makes itself.
		if t.inFlight.Peek() {
			reactive.KeepDependencies()
			t.opts.metrics.Skipped(t.opts.name)
			t.opts.logger.Debug("task skipped, invocation in flight",
				"task", t.opts.name,
				"id", t.id,
			)
			return nil
		}

		t.begin()

		dispatcher := t.opts.dispatcher
		if dispatcher == nil {
			dispatcher = reactive.UseDispatcher()
		}

		started := time.Now()
		_, span := t.opts.tracer.Start(context.Background(), t.opts.name,
			trace.WithAttributes(
				attribute.String("task.id", t.id),
				attribute.String("task.name", t.opts.name),
			),
		)

		future := invoke(fn)
		future.OnSettle(func(o eventual.Outcome[T]) {
			var err error
			if o.Rejected {
				err = t.opts.normalize(o.Reason)
			}

			settle := func() {
				t.finish(err, time.Since(started), span)
			}
			if dispatcher != nil {
				dispatcher.Dispatch(settle)
				return
			}
			defer reactive.Release()
			settle()
		})
		return nil
	})

	return t
}

// Register is Track returning only the two readouts.
func Register[T any](fn func() *eventual.Future[T], opts ...Option) (pending func() bool, err func() error) {
	t := Track(fn, opts...)
	return t.Pending, t.Err
}

func invoke[T any](fn func() *eventual.Future[T]) (f *eventual.Future[T]) {
	defer func() {
		if p := recover(); p != nil {
			f = eventual.Rejected[T](p)
		}
	}()

	if f = fn(); f == nil {
		var zero T
		f = eventual.Resolved(zero)
	}
	return f
}

// begin moves the task to Pending.
func (t *Task) begin() {
	reactive.Batch(func() {
		t.inFlight.Set(true)
		t.err.Set(nil)
		t.pending.Set(true)
		t.state.Set(Pending)
	})

	t.opts.metrics.Started(t.opts.name)
	t.opts.logger.Debug("task started",
		"task", t.opts.name,
		"id", t.id,
	)
}

// finish applies a settlement. The readouts change in one batch so that no
// dependent sees pending cleared next to a stale error.
func (t *Task) finish(err error, elapsed time.Duration, span trace.Span) {
	next := SettledOk
	if err != nil {
		next = SettledError
	}

	reactive.Batch(func() {
		t.pending.Set(false)
		t.err.Set(err)
		t.inFlight.Set(false)
		t.state.Set(next)
	})

	t.opts.metrics.Settled(t.opts.name, err, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.opts.logger.Warn("task failed",
			"task", t.opts.name,
			"id", t.id,
			"duration", elapsed,
			"error", err,
		)
	} else {
		span.SetStatus(codes.Ok, "")
		t.opts.logger.Debug("task settled",
			"task", t.opts.name,
			"id", t.id,
			"duration", elapsed,
		)
	}
	span.End()

	if t.opts.onSettle != nil {
		t.opts.onSettle(err)
	}
}

// ID returns the unique identifier of the task.
func (t *Task) ID() string {
	return t.id
}

// Name returns the name set with WithName.
func (t *Task) Name() string {
	return t.opts.name
}

// Pending reports whether an invocation is in flight.
func (t *Task) Pending() bool {
	return t.pending.Get()
}

// Err returns the normalized error of the last invocation, or nil.
func (t *Task) Err() error {
	return t.err.Get()
}

// State returns the lifecycle state.
func (t *Task) State() State {
	return t.state.Get()
}

// Dispose stops tracking. An invocation in flight still settles and updates
// the readouts, but fn is never called again.
func (t *Task) Dispose() {
	t.effect.Dispose()
}
