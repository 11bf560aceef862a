package async

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/storekit/pkg/reactive"
	"github.com/vango-dev/storekit/pkg/telemetry"
)

// DefaultName is the task name used when WithName is not given.
const DefaultName = "task"

// Option configures a Task.
type Option func(*options)

type options struct {
	name       string
	logger     *slog.Logger
	metrics    *telemetry.TaskMetrics
	tracer     trace.Tracer
	dispatcher reactive.Dispatcher
	onSettle   func(error)
	normalize  func(any) error
}

func defaultOptions() options {
	return options{
		name:      DefaultName,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    telemetry.Tracer(""),
		normalize: Normalize,
	}
}

// WithName names the task in logs, metric labels and span names.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for task lifecycle events. By default tasks do
// not log.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records task activity in m.
func WithMetrics(m *telemetry.TaskMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer used for one span per invocation. The default
// is the global otel tracer, which is a no-op until a provider is installed.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithDispatcher sets where settlements are applied. By default they go to
// the Runtime running the tracker body, if any.
func WithDispatcher(d reactive.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// OnSettle registers fn to be called after every settlement with the
// normalized error, once the readouts have been updated.
func OnSettle(fn func(error)) Option {
	return func(o *options) {
		o.onSettle = fn
	}
}

// WithStrictErrors makes every failure produce an error: a nil reason, or a
// value that is neither an error nor a scalar, is reported as ErrUnknown.
// See NormalizeStrict.
func WithStrictErrors() Option {
	return func(o *options) {
		o.normalize = NormalizeStrict
	}
}
