//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/logs/wavestream.log",
			expected: filepath.Join(home, "logs", "wavestream.log"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/log/wavestream.log",
			expected: "/var/log/wavestream.log",
		},
		{
			name:     "relative path unchanged",
			input:    "logs/wavestream.log",
			expected: "logs/wavestream.log",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) < 2 {
		t.Fatalf("getConfigPaths() = %v, want at least 2 paths", paths)
	}

	// Last path should be local config.toml
	if last := paths[len(paths)-1]; last != "config.toml" {
		t.Errorf("last config path = %q, want %q", last, "config.toml")
	}

	for _, p := range paths[:len(paths)-1] {
		if filepath.Base(filepath.Dir(p)) != "wavestream" {
			t.Errorf("config path %q is not in a wavestream dir", p)
		}
	}
}

func TestHasChecks(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		api    bool
		minio  bool
		redis  bool
		lastfm bool
	}{
		{
			name: "empty",
		},
		{
			name:   "api only",
			config: Config{Resolver: ResolverConfig{APIURL: "https://api.example.com"}},
			api:    true,
		},
		{
			name: "minio without secret",
			config: Config{Resolver: ResolverConfig{Minio: MinioConfig{
				Endpoint: "localhost:9000", Bucket: "audio", AccessKey: "ak",
			}}},
		},
		{
			name: "minio complete",
			config: Config{Resolver: ResolverConfig{Minio: MinioConfig{
				Endpoint: "localhost:9000", Bucket: "audio", AccessKey: "ak", SecretKey: "sk",
			}}},
			minio: true,
		},
		{
			name:   "redis",
			config: Config{Resolver: ResolverConfig{Redis: RedisConfig{Addr: "localhost:6379"}}},
			redis:  true,
		},
		{
			name:   "lastfm key only",
			config: Config{Lastfm: LastfmConfig{APIKey: "k"}},
		},
		{
			name:   "lastfm complete",
			config: Config{Lastfm: LastfmConfig{APIKey: "k", APISecret: "s"}},
			lastfm: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.HasAPIResolver(); got != tt.api {
				t.Errorf("HasAPIResolver() = %v, want %v", got, tt.api)
			}
			if got := tt.config.HasMinioConfig(); got != tt.minio {
				t.Errorf("HasMinioConfig() = %v, want %v", got, tt.minio)
			}
			if got := tt.config.HasRedisConfig(); got != tt.redis {
				t.Errorf("HasRedisConfig() = %v, want %v", got, tt.redis)
			}
			if got := tt.config.HasLastfmConfig(); got != tt.lastfm {
				t.Errorf("HasLastfmConfig() = %v, want %v", got, tt.lastfm)
			}
		})
	}
}

func TestGetAudioConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    AudioConfig
		expected AudioConfig
	}{
		{
			name:     "defaults",
			input:    AudioConfig{},
			expected: AudioConfig{SampleRate: 44100, BufferMS: 100, FFTSize: 256, CleanupYieldMS: 10},
		},
		{
			name:     "custom values kept",
			input:    AudioConfig{SampleRate: 48000, BufferMS: 50, FFTSize: 2048, CleanupYieldMS: 25},
			expected: AudioConfig{SampleRate: 48000, BufferMS: 50, FFTSize: 2048, CleanupYieldMS: 25},
		},
		{
			name:     "fft size not a power of two",
			input:    AudioConfig{FFTSize: 300},
			expected: AudioConfig{SampleRate: 44100, BufferMS: 100, FFTSize: 256, CleanupYieldMS: 10},
		},
		{
			name:     "out of range values",
			input:    AudioConfig{SampleRate: 1000, BufferMS: 5000, FFTSize: 65536, CleanupYieldMS: -1},
			expected: AudioConfig{SampleRate: 44100, BufferMS: 100, FFTSize: 256, CleanupYieldMS: 10},
		},
		{
			name:     "fft size boundaries",
			input:    AudioConfig{FFTSize: 32},
			expected: AudioConfig{SampleRate: 44100, BufferMS: 100, FFTSize: 32, CleanupYieldMS: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Audio: tt.input}
			if got := cfg.GetAudioConfig(); got != tt.expected {
				t.Errorf("GetAudioConfig() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestGetUIConfig(t *testing.T) {
	var empty Config
	got := empty.GetUIConfig()
	if got.Icons != "unicode" || got.SpectrumFPS != 30 || got.Spectrum == nil || !*got.Spectrum {
		t.Errorf("default GetUIConfig() = %+v", got)
	}

	off := false
	cfg := Config{UI: UIConfig{Icons: "nerd", SpectrumFPS: 500, Spectrum: &off}}
	got = cfg.GetUIConfig()
	if got.Icons != "nerd" {
		t.Errorf("Icons = %q, want nerd", got.Icons)
	}
	if got.SpectrumFPS != 30 {
		t.Errorf("SpectrumFPS = %d, want clamped to default", got.SpectrumFPS)
	}
	if *got.Spectrum {
		t.Error("Spectrum override ignored")
	}
}

func TestDurations(t *testing.T) {
	var empty Config
	if got := empty.CacheTTL(); got != 10*time.Minute {
		t.Errorf("default CacheTTL = %v", got)
	}
	if got := empty.ResolverTimeout(); got != 15*time.Second {
		t.Errorf("default ResolverTimeout = %v", got)
	}
	if got := empty.MinioExpiry(); got != time.Hour {
		t.Errorf("default MinioExpiry = %v", got)
	}
	if got := empty.NotificationTimeout(); got != 5*time.Second {
		t.Errorf("default NotificationTimeout = %v", got)
	}

	cfg := Config{
		Resolver: ResolverConfig{
			CacheTTL: "30s",
			Timeout:  "nonsense",
			Minio:    MinioConfig{Expiry: "-5m"},
		},
		Notifications: NotificationsConfig{Timeout: " 2s "},
	}
	if got := cfg.CacheTTL(); got != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", got)
	}
	if got := cfg.ResolverTimeout(); got != 15*time.Second {
		t.Errorf("invalid ResolverTimeout = %v, want default", got)
	}
	if got := cfg.MinioExpiry(); got != time.Hour {
		t.Errorf("negative MinioExpiry = %v, want default", got)
	}
	if got := cfg.NotificationTimeout(); got != 2*time.Second {
		t.Errorf("NotificationTimeout = %v, want 2s", got)
	}
}

func TestGetMinioConfig_Defaults(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"", ".mp3"},
		{"flac", ".flac"},
		{".ogg", ".ogg"},
	}
	for _, tt := range tests {
		cfg := Config{Resolver: ResolverConfig{Minio: MinioConfig{Extension: tt.ext}}}
		got := cfg.GetMinioConfig()
		if got.Extension != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.ext, got.Extension, tt.want)
		}
		if got.Expiry != "1h" {
			t.Errorf("Expiry = %q, want 1h", got.Expiry)
		}
	}
}

func TestToggles(t *testing.T) {
	var cfg Config
	if !cfg.NotificationsEnabled() || !cfg.MPRISEnabled() {
		t.Error("notifications and MPRIS should default to enabled")
	}
	if cfg.RemoteListen() != "127.0.0.1:7878" {
		t.Errorf("RemoteListen() = %q", cfg.RemoteListen())
	}

	cfg.Notifications.Enabled = boolPtr(false)
	cfg.MPRIS.Enabled = boolPtr(false)
	cfg.Remote.Listen = ":9000"
	if cfg.NotificationsEnabled() || cfg.MPRISEnabled() {
		t.Error("explicit false should disable")
	}
	if cfg.RemoteListen() != ":9000" {
		t.Errorf("RemoteListen() = %q", cfg.RemoteListen())
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("config.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAVESTREAM_API_TOKEN", "")

	configContent := `
[audio]
sample_rate = 48000
fft_size = 1024

[resolver]
api_url = "https://api.example.com/"
api_token = "file-token"
cache_ttl = "2m"

[resolver.minio]
endpoint = "localhost:9000"
bucket = "audio"

[notifications]
enabled = false

[log]
file = "~/wavestream.log"
`
	if err := os.WriteFile("config.toml", []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.SampleRate != 48000 || cfg.Audio.FFTSize != 1024 {
		t.Errorf("Audio = %+v", cfg.Audio)
	}
	// Check that URL trailing slash is removed
	if cfg.Resolver.APIURL != "https://api.example.com" {
		t.Errorf("Resolver.APIURL = %q", cfg.Resolver.APIURL)
	}
	if cfg.Resolver.APIToken != "file-token" {
		t.Errorf("Resolver.APIToken = %q, want file-token (empty env ignored)", cfg.Resolver.APIToken)
	}
	if cfg.CacheTTL() != 2*time.Minute {
		t.Errorf("CacheTTL() = %v", cfg.CacheTTL())
	}
	if cfg.Resolver.Minio.Bucket != "audio" {
		t.Errorf("Minio.Bucket = %q", cfg.Resolver.Minio.Bucket)
	}
	if cfg.NotificationsEnabled() {
		t.Error("notifications should be disabled")
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "wavestream.log"); cfg.Log.File != want {
		t.Errorf("Log.File = %q, want %q", cfg.Log.File, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAVESTREAM_API_TOKEN", "env-token")
	t.Setenv("WAVESTREAM_REDIS_ADDR", "cache:6379")

	if err := os.WriteFile("config.toml", []byte("[resolver]\napi_token = \"file-token\"\n"), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Resolver.APIToken != "env-token" {
		t.Errorf("APIToken = %q, want env-token", cfg.Resolver.APIToken)
	}
	if !cfg.HasRedisConfig() || cfg.Resolver.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Resolver.Redis.Addr)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	// registers the variable so it is restored after the test
	t.Setenv("WAVESTREAM_LASTFM_API_KEY", "")
	os.Unsetenv("WAVESTREAM_LASTFM_API_KEY")

	if err := os.WriteFile(".env", []byte("WAVESTREAM_LASTFM_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("could not write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Lastfm.APIKey != "from-dotenv" {
		t.Errorf("Lastfm.APIKey = %q, want from-dotenv", cfg.Lastfm.APIKey)
	}
}
