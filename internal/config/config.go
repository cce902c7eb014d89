package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "feedctl", "config.yml")
}

// Load reads the config from path, the FEEDCTL_CONFIG env var, or the
// default location, in that order. A missing file yields the defaults:
// the init command creates it.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("data.registry", "feeds.json")
	v.SetDefault("data.static_albums", "albums-static.json")
	v.SetDefault("data.cached_albums", "albums-static-cached.json")
	v.SetDefault("data.database", "feeds.db")
	v.SetDefault("parse.timeout", "30s")
	v.SetDefault("parse.request_delay", "200ms")
	v.SetDefault("parse.slow_host_delay", "2s")
	v.SetDefault("parse.slow_hosts", []string{})
	v.SetDefault("parse.user_agent", "feedctl (+https://github.com/ChadFarrow/feedctl)")
	v.SetDefault("cache.albums_ttl", "5m")
	v.SetDefault("serve.host", "127.0.0.1")
	v.SetDefault("serve.port", 8080)

	v.SetEnvPrefix("FEEDCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("FEEDCTL_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		// Not finding the config file is fine; the init command creates it.
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Dir = ExpandHome(cfg.Data.Dir)

	return &cfg, nil
}

// Save writes the config to path, or to the default path when path is
// empty. Durations are written in their string form so the file stays
// hand-editable.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(fileView(cfg))
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "feedctl")
}

// fileConfig mirrors Config for YAML output.
type fileConfig struct {
	Data struct {
		Dir          string `yaml:"dir"`
		Registry     string `yaml:"registry"`
		StaticAlbums string `yaml:"static_albums"`
		CachedAlbums string `yaml:"cached_albums"`
		Database     string `yaml:"database"`
	} `yaml:"data"`
	Parse struct {
		Timeout       string   `yaml:"timeout"`
		RequestDelay  string   `yaml:"request_delay"`
		SlowHostDelay string   `yaml:"slow_host_delay"`
		SlowHosts     []string `yaml:"slow_hosts,omitempty"`
		UserAgent     string   `yaml:"user_agent"`
	} `yaml:"parse"`
	Cache struct {
		AlbumsTTL string `yaml:"albums_ttl"`
	} `yaml:"cache"`
	Serve struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"serve"`
	Slugs struct {
		Overrides string `yaml:"overrides,omitempty"`
	} `yaml:"slugs,omitempty"`
}

func fileView(cfg *Config) *fileConfig {
	var out fileConfig
	out.Data.Dir = cfg.Data.Dir
	out.Data.Registry = cfg.Data.Registry
	out.Data.StaticAlbums = cfg.Data.StaticAlbums
	out.Data.CachedAlbums = cfg.Data.CachedAlbums
	out.Data.Database = cfg.Data.Database
	out.Parse.Timeout = cfg.Parse.Timeout.String()
	out.Parse.RequestDelay = cfg.Parse.RequestDelay.String()
	out.Parse.SlowHostDelay = cfg.Parse.SlowHostDelay.String()
	out.Parse.SlowHosts = cfg.Parse.SlowHosts
	out.Parse.UserAgent = cfg.Parse.UserAgent
	out.Cache.AlbumsTTL = cfg.Cache.AlbumsTTL.String()
	out.Serve.Host = cfg.Serve.Host
	out.Serve.Port = cfg.Serve.Port
	out.Slugs.Overrides = cfg.Slugs.Overrides
	return &out
}
