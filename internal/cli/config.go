package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageflow/pkg/cache"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/layout"
	"github.com/matzehuels/lineageflow/pkg/storage"
	"github.com/matzehuels/lineageflow/pkg/storage/mongo"
	"github.com/matzehuels/lineageflow/pkg/storage/redis"
	"github.com/matzehuels/lineageflow/pkg/storage/sqlite"
)

// Storage backends selectable with [storage] backend or --backend.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
	backendSQLite = "sqlite"
)

// layoutCacheTTL is how long computed layouts stay in the file cache.
const layoutCacheTTL = 7 * 24 * time.Hour

// Config is the on-disk configuration, read from config.toml.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Layout  LayoutConfig  `toml:"layout"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig selects and configures the autosave backend.
type StorageConfig struct {
	Backend       string `toml:"backend"`
	Key           string `toml:"key"`
	Path          string `toml:"path"` // directory for the file backend
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	SQLitePath    string `toml:"sqlite_path"`
}

// LayoutConfig holds layout defaults.
type LayoutConfig struct {
	Direction  string  `toml:"direction"`
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	RankSep    float64 `toml:"rank_sep"`
	NodeSep    float64 `toml:"node_sep"`
	Cache      bool    `toml:"cache"`
}

// ServerConfig configures "lineageflow serve".
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	opts := layout.DefaultOptions()
	return Config{
		Storage: StorageConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
			MongoURI:  "mongodb://localhost:27017",
		},
		Layout: LayoutConfig{
			Direction:  string(layout.TopBottom),
			NodeWidth:  opts.NodeWidth,
			NodeHeight: opts.NodeHeight,
			RankSep:    opts.RankSep,
			NodeSep:    opts.NodeSep,
			Cache:      true,
		},
		Server: ServerConfig{
			Addr:           "localhost:8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// configPath returns the config file location using the XDG standard
// (~/.config/lineageflow/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path on top of DefaultConfig. A missing file is only
// an error when explicit is set, i.e. the user passed --config.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case backendFile, backendMemory, backendRedis, backendMongo, backendSQLite:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown storage backend %q (must be file, memory, redis, mongo or sqlite)", c.Storage.Backend)
	}
	if c.Storage.Key != "" {
		if err := storage.ValidateKey(c.Storage.Key); err != nil {
			return err
		}
	}
	_, err := layout.ParseDirection(c.Layout.Direction)
	return err
}

// encode renders c as TOML.
func (c Config) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// direction returns the configured default direction.
func (c Config) direction() layout.Direction {
	d, err := layout.ParseDirection(c.Layout.Direction)
	if err != nil {
		return layout.TopBottom
	}
	return d
}

// layoutOptions converts the [layout] section to engine options.
func (c Config) layoutOptions() layout.Options {
	return layout.Options{
		NodeWidth:  c.Layout.NodeWidth,
		NodeHeight: c.Layout.NodeHeight,
		RankSep:    c.Layout.RankSep,
		NodeSep:    c.Layout.NodeSep,
	}
}

// openStorage connects the configured backend.
func openStorage(ctx context.Context, cfg StorageConfig, logger *log.Logger) (storage.Store, error) {
	logger.Debug("opening storage", "backend", cfg.Backend)
	switch cfg.Backend {
	case backendMemory:
		return storage.NewMemory(), nil
	case backendRedis:
		return redis.NewStore(ctx, redis.Config{Addr: cfg.RedisAddr})
	case backendMongo:
		return mongo.NewStore(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case backendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			dir, err := dataDir(cfg)
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			path = filepath.Join(dir, appName+".db")
		}
		return sqlite.New(path)
	default:
		return storage.NewFile(cfg.Path)
	}
}

// dataDir returns the file backend directory.
func dataDir(cfg StorageConfig) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	return storage.DefaultDataDir()
}

// newLayouter builds the layout engine, wrapped in the file cache unless
// caching is disabled.
func newLayouter(cfg LayoutConfig, opts layout.Options, logger *log.Logger) layout.Layouter {
	engine := layout.New(opts)
	if !cfg.Cache {
		return engine
	}
	c, err := newCache(false)
	if err != nil {
		logger.Warn("layout cache unavailable", "err", err)
		return engine
	}
	return layout.NewCached(engine, c, layoutCacheTTL, logger)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
