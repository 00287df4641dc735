// Package cli implements the lineageflow command-line interface.
//
// Every command opens an editing session on the graph saved in the
// configured storage backend, applies its change through the session and
// closes it again, so the graph is autosaved exactly as the interactive
// editors save it. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - add, connect, label, style, edge-label, rm: Edit the graph
//   - layout: Arrange nodes in layers (TB or LR)
//   - show, export, import: Inspect and exchange the graph
//   - render: Draw the graph with Graphviz (SVG or DOT)
//   - serve: Expose the session over HTTP for a browser canvas
//   - edit: Open the terminal editor
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/lineageflow/config.toml (or
// --config). Flags override the file, and the file overrides defaults.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to the session and storage layers.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/buildinfo"
	"github.com/matzehuels/lineageflow/pkg/editor"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "lineageflow"
)

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

	// Config is loaded in the root command's PersistentPreRunE.
	Config Config

	configFile string
	backend    string
	dataDir    string
	key        string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
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
		Short:        "Lineageflow edits data lineage graphs",
		Long:         `Lineageflow is an editor for data lineage graphs: datasets connected by labeled relations, laid out automatically and saved as you go.`,
		Version:      buildinfo.Get().Version,
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

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/lineageflow/config.toml)")
	flags.StringVar(&c.backend, "backend", "", "storage backend: file, memory, redis, mongo, sqlite")
	flags.StringVar(&c.dataDir, "data-dir", "", "directory for the file backend")
	flags.StringVar(&c.key, "key", "", "storage key of the graph")

	// Register all subcommands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.labelCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.edgeLabelCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() error {
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			c.Logger.Debug("no config path", "err", err)
			return nil
		}
		path = p
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if c.dataDir != "" {
		cfg.Storage.Path = c.dataDir
	}
	if c.key != "" {
		cfg.Storage.Key = c.key
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Session Factory
// =============================================================================

// openSession connects storage and opens an editing session on the saved
// graph. keys may be nil. The returned function closes both.
func (c *CLI) openSession(ctx context.Context, keys editor.KeySource) (*editor.Session, func(), error) {
	logger := loggerFromContext(ctx)
	st, err := openStorage(ctx, c.Config.Storage, logger)
	if err != nil {
		return nil, nil, err
	}
	session, err := editor.Open(ctx, editor.Options{
		Storage:  st,
		Key:      c.Config.Storage.Key,
		Layouter: newLayouter(c.Config.Layout, c.Config.layoutOptions(), logger),
		Keys:     keys,
		Logger:   logger,
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := session.Close(); err != nil {
			logger.Warn("close session", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Warn("close storage", "err", err)
		}
	}
	return session, closeFn, nil
}

// withSession runs fn on a fresh session and closes it afterwards.
func (c *CLI) withSession(ctx context.Context, fn func(*editor.Session) error) error {
	session, closeFn, err := c.openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(session)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/lineageflow/).
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

// storageLocation describes where the configured backend keeps the graph.
func storageLocation(cfg StorageConfig) string {
	switch cfg.Backend {
	case backendMemory:
		return "memory (not persisted)"
	case backendRedis:
		return "redis://" + cfg.RedisAddr
	case backendMongo:
		return cfg.MongoURI
	case backendSQLite:
		if cfg.SQLitePath != "" {
			return cfg.SQLitePath
		}
		dir, err := dataDir(cfg)
		if err != nil {
			return backendSQLite
		}
		return filepath.Join(dir, appName+".db")
	default:
		dir, err := dataDir(cfg)
		if err != nil {
			return backendFile
		}
		return dir
	}
}
