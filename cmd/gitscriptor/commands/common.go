package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/metrics"
	"git.home.luguber.info/inful/gitscriptor/internal/observability"
	"git.home.luguber.info/inful/gitscriptor/internal/pipeline"
)

// Global carries state shared between the root command and subcommands.
type Global struct {
	Logger   *slog.Logger
	Recorder *metrics.PrometheusRecorder
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"gitscriptor.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	LogFormat   string           `name:"log-format" help:"Log format (text or json); overrides logging.format"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in text format to this file on exit"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate a README for one repository"`
	Batch    BatchCmd    `cmd:"" help:"Generate READMEs for every repository listed in a YAML file"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Print the structural analysis of a repository as YAML"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; installs a logger from the flags alone
// so that config loading itself is logged. LoadConfig refines it.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := "info"
	if c.Verbose {
		level = "debug"
	}
	g.Logger = observability.NewLogger(os.Stderr, level, c.LogFormat)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig loads the configuration file, applies flag overrides and
// reconfigures logging from the result.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if _, ok := errors.AsClassified(err); ok {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load configuration").
			WithContext("path", c.Config).
			Build()
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}
	g.Logger = observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	slog.Debug("Configuration loaded", logfields.Path(c.Config))
	return cfg, nil
}

// NewGenerator builds a pipeline generator wired with logging and, when
// --metrics-file is set, a Prometheus recorder.
func (c *CLI) NewGenerator(g *Global, cfg *config.Config) *pipeline.Generator {
	gen := pipeline.NewGenerator(cfg).WithSink(pipeline.LogSink{})
	if c.MetricsFile != "" {
		if g.Recorder == nil {
			g.Recorder = metrics.NewPrometheusRecorder(nil)
		}
		gen.WithRecorder(g.Recorder)
	}
	return gen
}

// WriteMetrics writes collected metrics to --metrics-file, if any were collected.
func (c *CLI) WriteMetrics(g *Global) error {
	if c.MetricsFile == "" || g.Recorder == nil {
		return nil
	}
	if err := g.Recorder.WriteTextfile(c.MetricsFile); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics file").
			WithContext("path", c.MetricsFile).
			Build()
	}
	slog.Debug("Metrics written", logfields.Path(c.MetricsFile))
	return nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // README output is meant to be world-readable
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	return nil
}
