package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/storekit/internal/config"
	"github.com/vango-dev/storekit/internal/errors"
	"github.com/vango-dev/storekit/pkg/async"
	"github.com/vango-dev/storekit/pkg/eventual"
	"github.com/vango-dev/storekit/pkg/reactive"
	"github.com/vango-dev/storekit/pkg/store"
	"github.com/vango-dev/storekit/pkg/telemetry"
)

func demoCmd(configPath *string) *cobra.Command {
	var (
		delay       time.Duration
		iterations  int
		failEvery   int
		metricsAddr string
		trace       bool
		serve       bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run combined stores with a tracked async load",
		Long: `Build a profile store and a counter store, combine them and
provide the result through a store context. A tracked task loads the
profile whenever its request signal changes; every readout transition
is printed.

Flags override values from storekit.yaml.

Examples:
  storekit demo
  storekit demo --iterations=5 --fail-every=2
  storekit demo --metrics-addr=:9090 --serve
  storekit demo --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath, ".")
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("delay") {
				cfg.Demo.Delay = delay
			}
			if flags.Changed("iterations") {
				cfg.Demo.Iterations = iterations
			}
			if flags.Changed("fail-every") {
				cfg.Demo.FailEvery = failEvery
			}
			if flags.Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if flags.Changed("trace") {
				cfg.Tracing.Enabled = trace
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg, serve)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", config.DefaultDelay, "Duration of each simulated load")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", config.DefaultIterations, "Number of loads to trigger")
	cmd.Flags().IntVar(&failEvery, "fail-every", 0, "Fail every Nth load (0 never fails)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&trace, "trace", false, "Write spans to stdout")
	cmd.Flags().BoolVar(&serve, "serve", false, "Keep serving metrics after the demo until interrupted")
	cmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	return cmd
}

type profileState struct {
	Request *reactive.Signal[int]
	Name    *reactive.Signal[string]
}

type profileActions struct {
	Reload func()
}

type counterState struct {
	Loaded *reactive.Signal[int]
	Failed *reactive.Signal[int]
}

type counterActions struct {
	Record func(err error)
}

func newProfileStore() *store.Store[*profileState, *profileActions] {
	state := &profileState{
		Request: reactive.NewSignal(1),
		Name:    reactive.NewSignal(""),
	}
	return store.New(state, &profileActions{
		Reload: func() { state.Request.Update(func(n int) int { return n + 1 }) },
	})
}

func newCounterStore() *store.Store[*counterState, *counterActions] {
	state := &counterState{
		Loaded: reactive.NewSignal(0),
		Failed: reactive.NewSignal(0),
	}
	return store.New(state, &counterActions{
		Record: func(err error) {
			if err != nil {
				state.Failed.Update(func(n int) int { return n + 1 })
				return
			}
			state.Loaded.Update(func(n int) int { return n + 1 })
		},
	})
}

// demoApp is the wiring shared by runDemo and its tests.
type demoApp struct {
	cfg      *config.Config
	out      io.Writer
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.TaskMetrics
	rt       *reactive.Runtime
	stores   *store.Combined
	context  *store.Context
	settled  chan error
}

func newDemoApp(cfg *config.Config, out io.Writer) *demoApp {
	logger := cfg.Logger(os.Stderr)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &demoApp{
		cfg:      cfg,
		out:      out,
		logger:   logger,
		registry: registry,
		metrics: telemetry.NewTaskMetrics(
			telemetry.WithRegistry(registry),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		),
		rt: reactive.NewRuntime(
			reactive.WithLogger(logger),
			reactive.WithQueueSize(cfg.Runtime.QueueSize),
		),
		stores: store.Combine(map[string]store.AnyStore{
			"profile": newProfileStore(),
			"counter": newCounterStore(),
		}),
		context: store.NewContext(nil),
		settled: make(chan error, 1),
	}
}

func runDemo(ctx context.Context, out io.Writer, cfg *config.Config, serve bool) error {
	app := newDemoApp(cfg, out)

	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.InstallStdout(out, cfg.Service.Name, version)
		if err != nil {
			return errors.New("E202").Wrap(err)
		}
		defer shutdown(context.Background())
	}

	if cfg.Metrics.Addr != "" {
		stop, addr, err := app.serveMetrics(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		defer stop()
		info(out, "metrics at http://%s/metrics", addr)
	}

	app.rt.Start()
	defer app.rt.Stop()

	if err := app.run(ctx); err != nil {
		return err
	}

	if serve && cfg.Metrics.Addr != "" {
		ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer cancel()
		info(out, "serving metrics, press Ctrl+C to stop")
		<-ctx.Done()
	}
	return nil
}

// run mounts the demo under a store provider and drives the configured
// number of loads.
func (a *demoApp) run(ctx context.Context) error {
	var reload func()

	err := a.rt.Run(func() {
		a.context.Provide(a.stores, func() {
			reload = a.mount()
		})
	})
	if err != nil {
		return err
	}

	for i := 1; i <= a.cfg.Demo.Iterations; i++ {
		if i > 1 {
			if err := a.rt.Run(reload); err != nil {
				return err
			}
		}
		if err := a.wait(ctx, i); err != nil {
			return err
		}
	}

	return a.summary()
}

// mount creates the tracked load and the effects printing its readouts. It
// runs inside the store provider and returns the reload action.
func (a *demoApp) mount() func() {
	app := store.Hook[*store.Combined](a.context)()
	profile, _ := store.Field[*profileState](app.State(), "profile")
	profileActs, _ := store.Field[*profileActions](app.Actions(), "profile")
	counterActs, _ := store.Field[*counterActions](app.Actions(), "counter")

	task := async.Track(func() *eventual.Future[string] {
		n := profile.Request.Get()
		return eventual.DelayErr(func() (string, error) {
			if a.cfg.ShouldFail(n) {
				return "", fmt.Errorf("load %d failed", n)
			}
			name := fmt.Sprintf("user-%d", n)
			a.rt.Dispatch(func() { profile.Name.Set(name) })
			return name, nil
		}, a.cfg.Demo.Delay)
	},
		async.WithName("profile"),
		async.WithLogger(a.logger),
		async.WithMetrics(a.metrics),
		async.WithTracer(telemetry.Tracer("")),
		async.OnSettle(func(err error) {
			counterActs.Record(err)
			a.settled <- err
		}),
	)

	reactive.CreateEffect(func() reactive.Cleanup {
		pending, err := task.Pending(), task.Err()
		request := profile.Request.Peek()
		switch {
		case pending:
			info(a.out, "load %d: pending", request)
		case err != nil:
			warn(a.out, "load %d: %v", request, err)
		case task.State() == async.SettledOk:
			success(a.out, "load %d: %s", request, profile.Name.Peek())
		}
		return nil
	})

	return profileActs.Reload
}

func (a *demoApp) wait(ctx context.Context, n int) error {
	select {
	case <-a.settled:
		return nil
	case <-time.After(a.cfg.Demo.Timeout):
		return errors.New("E301").
			WithDetail(fmt.Sprintf("Load %d was still pending after %s", n, a.cfg.Demo.Timeout)).
			WithSuggestion("Raise demo.timeout or lower demo.delay")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *demoApp) summary() error {
	var loaded, failed int
	err := a.rt.Run(func() {
		counter, _ := store.Field[*counterState](a.stores.State(), "counter")
		loaded, failed = counter.Loaded.Peek(), counter.Failed.Peek()
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	info(a.out, "%d loaded, %d failed", loaded, failed)
	return nil
}

// metricsRouter serves the registry on /metrics.
func metricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (a *demoApp) serveMetrics(addr string) (stop func(), bound string, err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.New("E201").Wrap(err)
	}

	srv := &http.Server{
		Handler:           metricsRouter(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()

	stop = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return stop, ln.Addr().String(), nil
}
