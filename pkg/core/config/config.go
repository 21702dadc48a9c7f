package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file path
const EnvConfig = "OCCLUM_EXEC_CONFIG"

// Config holds the complete client configuration
type Config struct {
	Client ClientConfig `toml:"client" yaml:"client"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Exec   ExecConfig   `toml:"exec" yaml:"exec"`
	Stop   StopConfig   `toml:"stop" yaml:"stop"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// ClientConfig holds the connection settings for the execution service
type ClientConfig struct {
	// Target is host:port or unix:///path/to/socket
	Target            string   `toml:"target" yaml:"target"`
	ProbeTimeout      Duration `toml:"probe_timeout" yaml:"probe_timeout"`
	RequestTimeout    Duration `toml:"request_timeout" yaml:"request_timeout"`
	KeepaliveInterval Duration `toml:"keepalive_interval" yaml:"keepalive_interval"`
	KeepaliveTimeout  Duration `toml:"keepalive_timeout" yaml:"keepalive_timeout"`
}

// ServerConfig describes how the service is launched when it is absent
type ServerConfig struct {
	Path        string   `toml:"path" yaml:"path"`
	Args        []string `toml:"args" yaml:"args"`
	LogFile     string   `toml:"log_file" yaml:"log_file"`
	LaunchDelay Duration `toml:"launch_delay" yaml:"launch_delay"`
}

// ExecConfig holds settings for submitted commands
type ExecConfig struct {
	PollInterval Duration `toml:"poll_interval" yaml:"poll_interval"`
	Env          []string `toml:"env" yaml:"env"`
}

// StopConfig holds shutdown settings, in seconds
type StopConfig struct {
	MaxTimeout     uint32 `toml:"max_timeout" yaml:"max_timeout"`
	DefaultTimeout uint32 `toml:"default_timeout" yaml:"default_timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadFromEnv loads the file named by OCCLUM_EXEC_CONFIG or the first
// default location that exists. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/occlum-exec.toml",
		"./occlum-exec.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config/occlum-exec/config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Client
	if c.Client.Target == "" {
		c.Client.Target = "127.0.0.1:7878"
	}
	if c.Client.ProbeTimeout.Duration == 0 {
		c.Client.ProbeTimeout.Duration = 5 * time.Second
	}
	if c.Client.KeepaliveInterval.Duration == 0 {
		c.Client.KeepaliveInterval.Duration = 5 * time.Minute
	}
	if c.Client.KeepaliveTimeout.Duration == 0 {
		c.Client.KeepaliveTimeout.Duration = 20 * time.Second
	}

	// Server
	if c.Server.Path == "" {
		c.Server.Path = "occlum_exec_server"
	}
	if c.Server.LaunchDelay.Duration == 0 {
		c.Server.LaunchDelay.Duration = 100 * time.Millisecond
	}

	// Exec
	if c.Exec.PollInterval.Duration == 0 {
		c.Exec.PollInterval.Duration = 100 * time.Millisecond
	}

	// Stop
	if c.Stop.MaxTimeout == 0 {
		c.Stop.MaxTimeout = 3
	}
	if c.Stop.DefaultTimeout == 0 {
		c.Stop.DefaultTimeout = 10
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// expandEnvVars expands environment variables in path-like values
func (c *Config) expandEnvVars() {
	c.Server.Path = os.ExpandEnv(c.Server.Path)
	c.Server.LogFile = os.ExpandEnv(c.Server.LogFile)
}

// ApplyEnvOverrides lets OCCLUM_EXEC_TARGET and OCCLUM_EXEC_SERVER replace
// the file values
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OCCLUM_EXEC_TARGET"); v != "" {
		c.Client.Target = v
	}
	if v := os.Getenv("OCCLUM_EXEC_SERVER"); v != "" {
		c.Server.Path = v
	}
}

// Validate checks values that have no usable default
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Client.Target) == "" {
		return fmt.Errorf("client.target must not be empty")
	}
	if c.Exec.PollInterval.Duration <= 0 {
		return fmt.Errorf("exec.poll_interval must be positive")
	}
	for i, kv := range c.Exec.Env {
		if err := ValidateEnvEntry(kv); err != nil {
			return fmt.Errorf("exec.env[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateEnvEntry checks that kv has the KEY=VALUE form with a non-empty key
func ValidateEnvEntry(kv string) error {
	key, _, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("%q is not KEY=VALUE", kv)
	}
	if key == "" {
		return fmt.Errorf("%q has an empty key", kv)
	}
	return nil
}
