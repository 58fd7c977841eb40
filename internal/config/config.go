package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "wavestream"

type Config struct {
	Audio AudioConfig `koanf:"audio"`

	// Stream URL resolution for placeholder tracks
	Resolver ResolverConfig `koanf:"resolver"`

	// Last.fm play history (enabled when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	// Headless remote-control surface
	Remote RemoteConfig `koanf:"remote"`

	UI            UIConfig            `koanf:"ui"`
	Log           LogConfig           `koanf:"log"`
	Notifications NotificationsConfig `koanf:"notifications"`
	MPRIS         MPRISConfig         `koanf:"mpris"`
}

// AudioConfig holds output and signal graph settings.
type AudioConfig struct {
	SampleRate     int `koanf:"sample_rate"`      // Hz (default: 44100)
	BufferMS       int `koanf:"buffer_ms"`        // speaker buffer (default: 100)
	FFTSize        int `koanf:"fft_size"`         // power of two, 32-32768 (default: 256)
	CleanupYieldMS int `koanf:"cleanup_yield_ms"` // pause before a new source (default: 10)
}

// ResolverConfig holds the stream URL resolvers, tried in order:
// minio, then the HTTP API. A configured redis caches both.
type ResolverConfig struct {
	APIURL   string      `koanf:"api_url"` // e.g., "https://api.example.com"
	APIToken string      `koanf:"api_token"`
	CacheTTL string      `koanf:"cache_ttl"` // Go duration (default: "10m")
	Timeout  string      `koanf:"timeout"`   // per request (default: "15s")
	Minio    MinioConfig `koanf:"minio"`
	Redis    RedisConfig `koanf:"redis"`
}

// MinioConfig holds object storage settings for presigned stream URLs.
type MinioConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	Extension string `koanf:"extension"` // default: ".mp3"
	UseSSL    bool   `koanf:"use_ssl"`
	Expiry    string `koanf:"expiry"` // Go duration (default: "1h")
}

// RedisConfig holds the stream URL cache connection.
type RedisConfig struct {
	Addr     string `koanf:"addr"` // e.g., "localhost:6379"
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// LastfmConfig holds Last.fm play history configuration.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// RemoteConfig holds the HTTP remote-control settings.
type RemoteConfig struct {
	Listen string `koanf:"listen"` // default: "127.0.0.1:7878"
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Icons       string `koanf:"icons"`        // "nerd", "unicode" or "none" (default: unicode)
	SpectrumFPS int    `koanf:"spectrum_fps"` // default: 30
	Spectrum    *bool  `koanf:"spectrum"`     // default: true
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error (default: info)
	File       string `koanf:"file"`  // default: XDG state dir
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// NotificationsConfig toggles desktop notifications.
type NotificationsConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Timeout string `koanf:"timeout"` // Go duration (default: "5s")
}

// MPRISConfig toggles the MPRIS2 D-Bus bridge.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// Load reads .env, the config files and WAVESTREAM_* overrides.
func Load() (*Config, error) {
	// .env never overrides variables already set in the environment
	_ = godotenv.Load()

	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	// Normalize API URL (remove trailing slash)
	cfg.Resolver.APIURL = strings.TrimSuffix(cfg.Resolver.APIURL, "/")

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

// envOverrides maps environment variables to the secrets and endpoints
// they replace.
func envOverrides(cfg *Config) map[string]*string {
	return map[string]*string{
		"WAVESTREAM_API_URL":          &cfg.Resolver.APIURL,
		"WAVESTREAM_API_TOKEN":        &cfg.Resolver.APIToken,
		"WAVESTREAM_MINIO_ENDPOINT":   &cfg.Resolver.Minio.Endpoint,
		"WAVESTREAM_MINIO_ACCESS_KEY": &cfg.Resolver.Minio.AccessKey,
		"WAVESTREAM_MINIO_SECRET_KEY": &cfg.Resolver.Minio.SecretKey,
		"WAVESTREAM_MINIO_BUCKET":     &cfg.Resolver.Minio.Bucket,
		"WAVESTREAM_REDIS_ADDR":       &cfg.Resolver.Redis.Addr,
		"WAVESTREAM_REDIS_PASSWORD":   &cfg.Resolver.Redis.Password,
		"WAVESTREAM_LASTFM_API_KEY":   &cfg.Lastfm.APIKey,
		"WAVESTREAM_LASTFM_SECRET":    &cfg.Lastfm.APISecret,
		"WAVESTREAM_REMOTE_LISTEN":    &cfg.Remote.Listen,
		"WAVESTREAM_LOG_LEVEL":        &cfg.Log.Level,
	}
}

func applyEnv(cfg *Config) {
	for key, dst := range envOverrides(cfg) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/wavestream/config.toml
	xdgPath := filepath.Join(xdg.ConfigHome, appName, "config.toml")
	paths = append(paths, xdgPath)

	// 2. ~/.config/wavestream/config.toml, when XDG points elsewhere
	if home, err := os.UserHomeDir(); err == nil {
		if p := filepath.Join(home, ".config", appName, "config.toml"); p != xdgPath {
			paths = append(paths, p)
		}
	}

	// 3. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasAPIResolver returns true if the HTTP stream API is configured.
func (c *Config) HasAPIResolver() bool {
	return c.Resolver.APIURL != ""
}

// HasMinioConfig returns true if object storage resolution is configured.
func (c *Config) HasMinioConfig() bool {
	m := c.Resolver.Minio
	return m.Endpoint != "" && m.Bucket != "" && m.AccessKey != "" && m.SecretKey != ""
}

// HasRedisConfig returns true if the stream URL cache is configured.
func (c *Config) HasRedisConfig() bool {
	return c.Resolver.Redis.Addr != ""
}

// HasLastfmConfig returns true if Last.fm is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio

	if cfg.SampleRate < 8000 || cfg.SampleRate > 192000 {
		cfg.SampleRate = 44100
	}
	if cfg.BufferMS <= 0 || cfg.BufferMS > 1000 {
		cfg.BufferMS = 100
	}
	if cfg.FFTSize < 32 || cfg.FFTSize > 32768 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		cfg.FFTSize = 256
	}
	if cfg.CleanupYieldMS <= 0 {
		cfg.CleanupYieldMS = 10
	}

	return cfg
}

// GetUIConfig returns the UI configuration with defaults applied.
func (c *Config) GetUIConfig() UIConfig {
	cfg := c.UI
	if cfg.Icons == "" {
		cfg.Icons = "unicode"
	}
	if cfg.SpectrumFPS <= 0 || cfg.SpectrumFPS > 120 {
		cfg.SpectrumFPS = 30
	}
	if cfg.Spectrum == nil {
		on := true
		cfg.Spectrum = &on
	}
	return cfg
}

// CacheTTL returns the stream URL cache lifetime (default 10m).
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Resolver.CacheTTL, 10*time.Minute)
}

// ResolverTimeout returns the per-request resolver timeout (default 15s).
func (c *Config) ResolverTimeout() time.Duration {
	return parseDuration(c.Resolver.Timeout, 15*time.Second)
}

// GetMinioConfig returns the object storage configuration with defaults applied.
func (c *Config) GetMinioConfig() MinioConfig {
	cfg := c.Resolver.Minio
	if cfg.Extension == "" {
		cfg.Extension = ".mp3"
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	if cfg.Expiry == "" {
		cfg.Expiry = "1h"
	}
	return cfg
}

// MinioExpiry returns how long presigned URLs stay valid (default 1h).
func (c *Config) MinioExpiry() time.Duration {
	return parseDuration(c.Resolver.Minio.Expiry, time.Hour)
}

// RemoteListen returns the remote-control listen address.
func (c *Config) RemoteListen() string {
	if c.Remote.Listen == "" {
		return "127.0.0.1:7878"
	}
	return c.Remote.Listen
}

// NotificationsEnabled reports whether desktop notifications are on (default true).
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// NotificationTimeout returns how long a notification stays up (default 5s).
func (c *Config) NotificationTimeout() time.Duration {
	return parseDuration(c.Notifications.Timeout, 5*time.Second)
}

// MPRISEnabled reports whether the MPRIS bridge is on (default true).
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
