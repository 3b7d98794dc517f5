// Package config loads postboard configuration from embedded defaults, a YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/postboard/configs"
	"github.com/lepinkainen/postboard/pkg/filesystem"
	"github.com/lepinkainen/postboard/pkg/urlutils"
)

// Config holds the central application configuration
type Config struct {
	API struct {
		PostsURL   string        `mapstructure:"posts_url" yaml:"posts_url"`
		Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
		UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
		MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	} `mapstructure:"api" yaml:"api"`

	View struct {
		TimestampLayout string `mapstructure:"timestamp_layout" yaml:"timestamp_layout"`
		CancelOnClose   bool   `mapstructure:"cancel_on_close" yaml:"cancel_on_close"` // tear-down cancels pending fetch
		AgentEnv        string `mapstructure:"agent_env" yaml:"agent_env"`             // environment variable holding the agent string
	} `mapstructure:"view" yaml:"view"`

	Gallery struct {
		Dir    string   `mapstructure:"dir" yaml:"dir"`
		Size   int      `mapstructure:"size" yaml:"size"`
		Images []string `mapstructure:"images" yaml:"images"`
	} `mapstructure:"gallery" yaml:"gallery"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`

	Feed struct {
		Title       string `mapstructure:"title" yaml:"title"`
		Link        string `mapstructure:"link" yaml:"link"`
		Description string `mapstructure:"description" yaml:"description"`
		Author      string `mapstructure:"author" yaml:"author"`
	} `mapstructure:"feed" yaml:"feed"`
}

// LoadConfig loads the embedded defaults and merges the file at path over them.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("POSTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadConfig(bytes.NewReader(configs.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("error reading default config: %w", err)
	}

	path = resolvePath(path)
	if path != "" {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the values the adapters cannot fall back from
func (c *Config) Validate() error {
	if !urlutils.IsHTTPURL(c.API.PostsURL) {
		return fmt.Errorf("invalid api.posts_url %q: must be an http or https URL", c.API.PostsURL)
	}
	if c.Feed.Link != "" && !urlutils.IsValidURL(c.Feed.Link) {
		return fmt.Errorf("invalid feed.link %q", c.Feed.Link)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout %s: must not be negative", c.API.Timeout)
	}
	if c.Gallery.Size <= 0 {
		return fmt.Errorf("invalid gallery.size %d: must be positive", c.Gallery.Size)
	}
	return nil
}

func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Config file not found, using defaults", "path", path)
			return nil
		}
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}

	slog.Debug("Loaded config file", "path", path)
	return nil
}

// resolvePath prefers the working directory and falls back to the executable directory
func resolvePath(path string) string {
	if path == "" {
		path = "config.yaml"
	}
	if filepath.IsAbs(path) {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	if execPath, err := filesystem.GetDefaultPath(path); err == nil {
		if _, err := os.Stat(execPath); err == nil {
			return execPath
		}
	}

	return path
}
