// Package cli implements the unitconv command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/internal/config"
	"github.com/matzehuels/unitconv/pkg/buildinfo"
	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/history"
	"github.com/matzehuels/unitconv/pkg/pipeline"
	"github.com/matzehuels/unitconv/pkg/units"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "unitconv"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Unitconv converts values between units of measurement",
		Long:         `Unitconv converts values between units of length, temperature, weight, volume, area and time, from the command line, an interactive terminal UI or an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/unitconv/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.categoriesCommand())
	root.AddCommand(c.unitsCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. A configured log level only ever makes
// the logger more verbose, so --verbose always wins.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if lvl := cfg.LogLevel(); lvl < c.Logger.GetLevel() {
		c.SetLogLevel(lvl)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newEngine creates a conversion engine using the configured precision.
// A negative precision keeps the configured one.
func (c *CLI) newEngine(precision int) *convert.Engine {
	if precision < 0 {
		precision = c.Config.Format.Precision
	}
	if precision == convert.DefaultPrecision {
		return convert.Default()
	}
	return convert.NewEngine(units.Default(), convert.NewFormatter(precision))
}

// newRunner creates a pipeline runner wired to the configured cache and
// history backends.
func (c *CLI) newRunner(ctx context.Context, precision int, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	hist, err := c.newHistory(ctx)
	if err != nil {
		ch.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(c.newEngine(precision), ch, c.Config.Keyer(), hist, c.Logger)
	if c.Config.Cache.TTL > 0 {
		runner.DiagramTTL = c.Config.Cache.TTL
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	case config.BackendFile:
		dir, err := c.Config.CacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// newHistory returns nil when history is disabled.
func (c *CLI) newHistory(ctx context.Context) (history.Store, error) {
	switch c.Config.History.Backend {
	case config.BackendMongo:
		store, err := history.NewMongoStore(ctx, c.Config.History.MongoURI, c.Config.History.Database)
		if err != nil {
			return nil, fmt.Errorf("connect history store: %w", err)
		}
		return store, nil
	case config.BackendMemory:
		return history.NewMemoryStore(c.Config.History.Limit), nil
	default:
		return nil, nil
	}
}
