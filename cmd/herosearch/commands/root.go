// Package commands implements the herosearch command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data"
	"github.com/ncobase/herosearch/data/metrics"
	"github.com/ncobase/herosearch/data/search"
	"github.com/ncobase/herosearch/logging/logger"
	"github.com/ncobase/herosearch/logging/observes"
	"github.com/ncobase/herosearch/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Options customizes the command tree.
type Options struct {
	// Open connects the data layer. Defaults to data.New, which opens the
	// driver named by search.engine.
	Open func(ctx context.Context, cfg *config.Config, opts ...data.Option) (*data.Data, func(), error)
	// LoadConfig reads configuration. Defaults to config.LoadConfig.
	LoadConfig func(path string) (*config.Config, error)
	Out        io.Writer
	Err        io.Writer
}

// app is the state shared by all commands of one invocation.
type app struct {
	opts       Options
	configFile string

	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	cleanups []func()
}

// unresolvedError reports an entity type name missing from the registry.
type unresolvedError struct {
	name string
}

func (e *unresolvedError) Error() string { return e.name + " could not be resolved" }

func (e *unresolvedError) Unwrap() error { return search.ErrUnresolvableEntityType }

// NewRootCmd creates the herosearch command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Open == nil {
		opts.Open = data.New
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.LoadConfig
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:           "herosearch",
		Short:         "Manage search indexes of entity types",
		Long:          `Create, flush and drop search indexes and run searches against Elasticsearch, OpenSearch or Meilisearch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.Err)
	cmd.PersistentFlags().StringVarP(&a.configFile, "conf", "c", "", "config file path")

	cmd.AddCommand(
		newCreateCommand(a),
		newFlushCommand(a),
		newDropCommand(a),
		newSearchCommand(a),
		newHealthCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// setup loads configuration and prepares logging, error reporting and tracing.
func (a *app) setup(ctx context.Context) error {
	cfg, err := a.opts.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	l, cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	l.SetVersion(version.Version)
	a.log = l
	a.cleanups = append(a.cleanups, cleanup)

	info := version.GetVersionInfo()
	if cfg.Observes != nil && cfg.Observes.Sentry != nil && cfg.Observes.Sentry.DSN != "" {
		flush, err := observes.NewSentry(&observes.SentryOptions{
			Sentry:  cfg.Observes.Sentry,
			Name:    cfg.AppName,
			Release: info.Version,
		})
		if err != nil {
			return err
		}
		l.AddHook(observes.NewSentryHook(nil, logrus.ErrorLevel))
		a.cleanups = append(a.cleanups, flush)
	}

	if cfg.Observes != nil && cfg.Observes.Tracer != nil && cfg.Observes.Tracer.Endpoint != "" {
		_, shutdown, err := observes.NewTracerProvider(ctx, &observes.TracerOption{
			Tracer:   cfg.Observes.Tracer,
			Version:  info.Version,
			Revision: info.Revision,
		})
		if err != nil {
			return fmt.Errorf("failed to init tracer: %w", err)
		}
		a.cleanups = append(a.cleanups, func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				l.WithError(err).Warn("tracer shutdown failed")
			}
		})
	}
	return nil
}

// open connects the data layer. Configuration must be loaded.
func (a *app) open(ctx context.Context) (*data.Data, error) {
	opts := []data.Option{data.WithEngineOptions(search.WithLogger(a.log.Logger))}

	if a.cfg.Metrics != nil && a.cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		collector, err := metrics.New(a.cfg.Metrics.Namespace, a.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to init metrics: %w", err)
		}
		opts = append(opts, data.WithMetricsCollector(collector))
	}

	d, cleanup, err := a.opts.Open(ctx, a.cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect search engine: %w", err)
	}
	a.cleanups = append(a.cleanups, cleanup)

	if a.cfg.Logger != nil && a.cfg.Logger.Ship {
		a.log.Ship(d.Transport(), a.cfg.Logger.IndexName, logrus.WarnLevel)
	}
	return d, nil
}

// connect loads configuration, opens the data layer and resolves the
// entity type name. Nothing is sent to the engine.
func (a *app) connect(ctx context.Context, name string) (*data.Data, search.Indexable, error) {
	if err := a.setup(ctx); err != nil {
		return nil, nil, err
	}
	d, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	entity, err := d.Resolve(name)
	if err != nil {
		if errors.Is(err, search.ErrUnresolvableEntityType) {
			return nil, nil, &unresolvedError{name: name}
		}
		return nil, nil, err
	}
	return d, entity, nil
}

// run executes fn and releases everything the invocation acquired, even
// when fn fails.
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	return errors.Join(err, a.shutdown())
}

// shutdown writes the metrics textfile and runs cleanups in reverse order.
func (a *app) shutdown() error {
	var err error
	if a.registry != nil && a.cfg.Metrics.Textfile != "" {
		if werr := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry); werr != nil {
			err = fmt.Errorf("failed to write metrics: %w", werr)
		}
	}
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
	return err
}
