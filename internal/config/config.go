// Package config loads commentpanel settings.
//
// Precedence, lowest first: built-in defaults, a TOML file, a .env file,
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/MyNameIsWhaaat/commentpanel/internal/comment/model"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid config")
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Panel  PanelConfig  `koanf:"panel"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type PanelConfig struct {
	DefaultSort     string `koanf:"default_sort"`     // latest, oldest, mostReplies, leastReplies
	ShowTimestamps  bool   `koanf:"show_timestamps"`  // initial state of the timestamp toggle
	MaxTextLength   int    `koanf:"max_text_length"`  // rune cap for new comments, 0 for none
	TimestampLayout string `koanf:"timestamp_layout"` // Go time layout used by both surfaces
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Panel: PanelConfig{
			DefaultSort:     string(model.SortLatest),
			ShowTimestamps:  true,
			TimestampLayout: "2006-01-02 15:04:05",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. An explicit path must exist; without one
// the default search paths are tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading %s: %w", path, err)
		}
	} else {
		for _, candidate := range searchPaths() {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := k.Load(file.Provider(candidate), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading %s: %w", candidate, err)
			}
			break
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !model.SortOrder(c.Panel.DefaultSort).Valid() {
		return fmt.Errorf("%w: unknown panel.default_sort %q", ErrInvalidConfig, c.Panel.DefaultSort)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Panel.MaxTextLength < 0 {
		return fmt.Errorf("%w: panel.max_text_length must not be negative", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Addr is the listen address of the browser surface.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func searchPaths() []string {
	paths := []string{"commentpanel.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".commentpanel", "config.toml"))
	}
	return paths
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("COMMENTPANEL_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("COMMENTPANEL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: COMMENTPANEL_PORT: %v", ErrInvalidConfig, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("COMMENTPANEL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COMMENTPANEL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("COMMENTPANEL_SORT"); v != "" {
		cfg.Panel.DefaultSort = v
	}
	if v := os.Getenv("COMMENTPANEL_SHOW_TIMESTAMPS"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: COMMENTPANEL_SHOW_TIMESTAMPS: %v", ErrInvalidConfig, err)
		}
		cfg.Panel.ShowTimestamps = show
	}
	return nil
}
