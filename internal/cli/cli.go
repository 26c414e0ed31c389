// Package cli implements the kintree command-line interface.
//
// The main commands are:
//   - layout: compute node and edge positions for a family tree file
//   - render: generate SVG, DOT, or JSON artifacts
//   - trees: manage trees in the configured store
//   - serve: run the HTTP API server
//   - cache: manage the local layout cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a TOML configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/buildinfo"
	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/store"
)

// appName is used for cache and config directories and display.
const appName = "kintree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kintree lays out family trees as relationship graphs",
		Long:         `Kintree is a tool for computing genealogical graph layouts: generations become ranks, partners sit side by side, and sibling groups share a row. Layouts render to SVG, Graphviz DOT, or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to TOML config file")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner wired to the configured cache and
// store backends.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cch, c.newKeyer(noCache), c.Logger)
	runner.Engine.Geo = c.config.Geometry.apply()

	st, err := c.newStore(ctx)
	if err != nil {
		_ = cch.Close()
		return nil, err
	}
	runner.Store = st
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.config.Cache.RedisURL)
	default:
		dir := c.config.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newKeyer picks the cache key scheme. A Redis backend is typically shared
// between instances, so its keys are namespaced under the application name.
func (c *CLI) newKeyer(noCache bool) cache.Keyer {
	if !noCache && c.config.Cache.Backend == "redis" {
		return cache.NewScopedKeyer(nil, appName+":")
	}
	return nil
}

// newStore returns the configured tree store, or nil when none is set up.
// Commands that need a store check for nil and fail with a clear message.
func (c *CLI) newStore(ctx context.Context) (store.TreeStore, error) {
	switch c.config.Store.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.config.Store.MongoURI,
			Database:   c.config.Store.MongoDatabase,
			Collection: c.config.Store.MongoCollection,
		})
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, nil
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/kintree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
