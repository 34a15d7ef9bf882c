// Package cli implements the otlresolve command line: one-shot resolution,
// an interactive loop, and maintenance of the catalog and macro library.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/otsimple/otlresolve/core/graph"
	"github.com/otsimple/otlresolve/runtime/catalog"
	"github.com/otsimple/otlresolve/runtime/macros"
	"github.com/otsimple/otlresolve/runtime/resolver"
)

// App carries the streams and configuration shared by the commands.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	cfg      Config
	logger   *slog.Logger
	useColor bool
}

// Main runs the command line and returns the process exit code.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &App{In: stdin, Out: stdout, Err: stderr}
	root := NewRootCommand(app)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		FormatError(stderr, err, app.useColor)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var (
		configFile string
		debug      bool
		noColor    bool
		flags      configFlags
	)

	root := &cobra.Command{
		Use:           "otlresolve",
		Short:         "Rewrite OTL queries into service form",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.useColor = ShouldUseColor(noColor, app.Out)
			app.logger = newLogger(app.Err, debug)

			app.cfg = defaultConfig()
			if configFile != "" {
				if err := loadConfig(configFile, &app.cfg); err != nil {
					return err
				}
			}
			flags.apply(cmd.Flags(), &app.cfg)
			return nil
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	pf := root.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	pf.BoolVar(&debug, "debug", false, "Log every resolution stage")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.register(pf)

	root.AddCommand(
		newResolveCommand(app),
		newREPLCommand(app),
		newCatalogCommand(app),
		newMacrosCommand(app),
	)
	return root
}

// newLogger logs Info and up to w, or Debug and up when debug is set or
// OTLRESOLVE_DEBUG is in the environment.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || os.Getenv("OTLRESOLVE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session is what a command opened from the configuration.
type session struct {
	resolver *resolver.Resolver
	macros   *macros.Library
	store    *catalog.Store
	registry *prometheus.Registry
}

// open builds a resolver from the configuration. With metrics set, resolver
// and catalog metrics are registered on a fresh registry.
func (a *App) open(metrics bool) (*session, error) {
	if err := a.cfg.validate(); err != nil {
		return nil, err
	}
	s := &session{}
	opts := []resolver.Option{
		resolver.WithIndexes(graph.NewIndexSet(a.cfg.Indexes...)),
		resolver.WithTimeWindow(a.cfg.TWS, a.cfg.TWF),
		resolver.WithNoSubsearchCommands(a.cfg.NoSubsearchCommands...),
		resolver.WithSourceIP(a.cfg.SourceIP),
		resolver.WithMaxDepth(a.cfg.MaxDepth),
		resolver.WithLogger(a.logger),
	}

	if a.cfg.MacrosDir != "" {
		lib, err := macros.Load(a.cfg.MacrosDir, macros.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.logger.Debug("macros loaded", "dir", a.cfg.MacrosDir, "count", len(lib.Names()), "digest", lib.Digest())
		s.macros = lib
		opts = append(opts, resolver.WithMacros(lib))
	}

	if a.cfg.CatalogDir != "" {
		store, err := catalog.Open(a.cfg.CatalogDir)
		if err != nil {
			return nil, err
		}
		s.store = store
		opts = append(opts, resolver.WithCatalog(store))
	}

	if metrics {
		s.registry = prometheus.NewRegistry()
		m, err := resolver.NewMetrics(s.registry)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		if s.store != nil {
			if err := s.registry.Register(s.store.Collector()); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		opts = append(opts, resolver.WithMetrics(m))
	}

	s.resolver = resolver.New(opts...)
	return s, nil
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}

// openStore opens the configured catalog for the catalog commands.
func (a *App) openStore() (*catalog.Store, error) {
	if a.cfg.CatalogDir == "" {
		return nil, &CLIError{
			Type:    "config",
			Message: "no catalog directory configured",
			Hint:    "pass --catalog-dir or set catalog_dir in the config file",
		}
	}
	return catalog.Open(a.cfg.CatalogDir)
}
