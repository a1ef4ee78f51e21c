package config

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/ui"
)

// Default values.
const (
	DefaultAPIURL     = "http://localhost:8080"
	DefaultAddr       = ":8080"
	DefaultStore      = StoreMemory
	DefaultJSONPath   = "todos.json"
	DefaultSQLitePath = "todos.db"
	DefaultRedisAddr  = "localhost:6379"
	DefaultTheme      = "classic"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Store drivers understood by the server.
const (
	StoreMemory    = "memory"
	StoreJSON      = "json"
	StoreSQLite    = "sqlite"
	StoreRedis     = "redis"
	StoreFirestore = "firestore"
)

// Config is the full runtime configuration.
type Config struct {
	// APIURL is the base URL of the todo server the client talks to.
	APIURL string `toml:"api_url"`
	Theme  string `toml:"theme"`
	// Group splits `ls` output into pending and done sections.
	Group bool `toml:"group"`

	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	AI     AIConfig     `toml:"ai"`

	// ConfigFile is the project config file that was loaded, if any.
	ConfigFile string `toml:"-"`
}

// ServerConfig configures `tada serve`.
type ServerConfig struct {
	Addr             string `toml:"addr"`
	Store            string `toml:"store"`
	JSONPath         string `toml:"json_path"`
	SQLitePath       string `toml:"sqlite_path"`
	RedisAddr        string `toml:"redis_addr"`
	FirestoreProject string `toml:"firestore_project"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives logs while the TUI owns the terminal.
	File string `toml:"file"`
}

// AIConfig holds the optional AI provider settings. Every field may be empty.
type AIConfig struct {
	APIKey     string `toml:"api_key"`
	APIVersion string `toml:"api_version"`
	Deployment string `toml:"deployment"`
	Endpoint   string `toml:"endpoint"`
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Theme = DefaultTheme
	cfg.Server = ServerConfig{
		Addr:       DefaultAddr,
		Store:      DefaultStore,
		JSONPath:   DefaultJSONPath,
		SQLitePath: DefaultSQLitePath,
		RedisAddr:  DefaultRedisAddr,
	}
	cfg.Log = LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	}
}

// Default returns a config holding only the built-in defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty")
	}
	switch c.Server.Store {
	case StoreMemory, StoreJSON, StoreSQLite, StoreRedis, StoreFirestore:
	default:
		return fmt.Errorf("unknown store %q (want memory, json, sqlite, redis or firestore)", c.Server.Store)
	}
	if c.Server.Store == StoreFirestore && c.Server.FirestoreProject == "" {
		return fmt.Errorf("store firestore needs firestore_project (or GOOGLE_CLOUD_PROJECT)")
	}
	if !ui.ValidTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q (want %s)", c.Theme, strings.Join(ui.Themes, ", "))
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
