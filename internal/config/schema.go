package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the top-level feedctl configuration.
type Config struct {
	Data  DataConfig  `mapstructure:"data"`
	Parse ParseConfig `mapstructure:"parse"`
	Cache CacheConfig `mapstructure:"cache"`
	Serve ServeConfig `mapstructure:"serve"`
	Slugs SlugsConfig `mapstructure:"slugs"`
}

// DataConfig locates the registry and its derived files. File names
// are resolved relative to Dir unless absolute.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	Registry     string `mapstructure:"registry"`
	StaticAlbums string `mapstructure:"static_albums"`
	CachedAlbums string `mapstructure:"cached_albums"`
	Database     string `mapstructure:"database"`
}

// ParseConfig holds feed fetching settings.
type ParseConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RequestDelay  time.Duration `mapstructure:"request_delay"`
	SlowHostDelay time.Duration `mapstructure:"slow_host_delay"`
	SlowHosts     []string      `mapstructure:"slow_hosts"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// CacheConfig holds in-memory result cache settings.
type CacheConfig struct {
	AlbumsTTL time.Duration `mapstructure:"albums_ttl"`
}

// ServeConfig holds the HTTP API listen address.
type ServeConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// SlugsConfig points at the curated slug override file.
type SlugsConfig struct {
	Overrides string `mapstructure:"overrides"`
}

// EffectiveRegistryPath returns the registry file location.
func (c *Config) EffectiveRegistryPath() string { return c.dataPath(c.Data.Registry) }

// EffectiveStaticPath returns the static album snapshot location.
func (c *Config) EffectiveStaticPath() string { return c.dataPath(c.Data.StaticAlbums) }

// EffectiveCachedPath returns the cached album snapshot location.
func (c *Config) EffectiveCachedPath() string { return c.dataPath(c.Data.CachedAlbums) }

// EffectiveDatabasePath returns the SQLite mirror location.
func (c *Config) EffectiveDatabasePath() string { return c.dataPath(c.Data.Database) }

// EffectiveOverridesPath returns the slug override file, or empty when
// none is configured.
func (c *Config) EffectiveOverridesPath() string { return c.dataPath(c.Slugs.Overrides) }

func (c *Config) dataPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ExpandHome(c.Data.Dir), name)
}

// Addr returns the serve listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}
