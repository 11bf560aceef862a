package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/storekit/internal/errors"
	"github.com/vango-dev/storekit/pkg/reactive"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "storekit.yaml"

	// DefaultServiceName is used for logs, metrics and traces.
	DefaultServiceName = "storekit"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultDelay is how long each simulated load takes.
	DefaultDelay = 200 * time.Millisecond

	// DefaultIterations is how many loads the demo triggers.
	DefaultIterations = 3

	// DefaultTimeout bounds how long the demo waits for one load.
	DefaultTimeout = 5 * time.Second

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "storekit"
)

// Config represents the complete storekit.yaml configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Log     LogConfig     `yaml:"log"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Demo    DemoConfig    `yaml:"demo"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServiceConfig identifies the process in telemetry.
type ServiceConfig struct {
	// Name is reported as service.name on spans.
	Name string `yaml:"name"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// RuntimeConfig configures the reactive runtime.
type RuntimeConfig struct {
	// QueueSize is the dispatch queue capacity.
	QueueSize int `yaml:"queueSize"`
}

// DemoConfig configures the demo command.
type DemoConfig struct {
	// Delay is the duration of each simulated load.
	Delay time.Duration `yaml:"delay"`

	// Iterations is how many times the load is triggered.
	Iterations int `yaml:"iterations"`

	// FailEvery makes every Nth load fail. Zero never fails.
	FailEvery int `yaml:"failEvery"`

	// Timeout bounds the wait for a single load to settle.
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `yaml:"addr"`

	// Namespace is the metric namespace.
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled writes spans to stdout.
	Enabled bool `yaml:"enabled"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads storekit.yaml from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Create " + ConfigFileName + " or omit --config to use the defaults")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads path when it is set. Otherwise it loads storekit.yaml
// from dir if present, or returns the defaults.
func LoadOrDefault(path, dir string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if Exists(dir) {
		return Load(dir)
	}
	return New(), nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = DefaultServiceName
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Runtime.QueueSize == 0 {
		c.Runtime.QueueSize = reactive.DefaultQueueSize
	}

	if c.Demo.Delay == 0 {
		c.Demo.Delay = DefaultDelay
	}
	if c.Demo.Iterations == 0 {
		c.Demo.Iterations = DefaultIterations
	}
	if c.Demo.Timeout == 0 {
		c.Demo.Timeout = DefaultTimeout
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E102").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	if c.Runtime.QueueSize < 0 {
		return errors.New("E102").
			WithDetail("runtime.queueSize must not be negative")
	}
	if c.Demo.Delay < 0 {
		return errors.New("E102").
			WithDetail("demo.delay must not be negative")
	}
	if c.Demo.Iterations < 1 {
		return errors.New("E102").
			WithDetail("demo.iterations must be at least 1").
			WithSuggestion("Set demo.iterations in " + ConfigFileName)
	}
	if c.Demo.FailEvery < 0 {
		return errors.New("E102").
			WithDetail("demo.failEvery must not be negative")
	}
	if c.Demo.Timeout <= 0 {
		return errors.New("E102").
			WithDetail("demo.timeout must be positive")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Log.Level))); err != nil {
		return 0, errors.New("E103").
			WithSuggestion("Use one of debug, info, warn or error").
			Wrap(err)
	}
	return level, nil
}

// Logger builds the slog logger described by Log, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ShouldFail reports whether the n-th load (1-based) of the demo fails.
func (c *Config) ShouldFail(n int) bool {
	return c.Demo.FailEvery > 0 && n%c.Demo.FailEvery == 0
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
