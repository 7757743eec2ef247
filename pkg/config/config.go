package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file
const (
	EnvHost = "TINYHTTPD_HOST"
	EnvPort = "TINYHTTPD_PORT"
	EnvRoot = "TINYHTTPD_ROOT"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Logging LogConfig    `yaml:"logging"`
	Retry   RetryConfig  `yaml:"retry"`
}

// ServerConfig contains the listener and document root settings
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Root           string `yaml:"root"`
	ReadTimeout    int    `yaml:"read_timeout"`    // in seconds, 0 disables
	WriteTimeout   int    `yaml:"write_timeout"`   // in seconds, 0 disables
	MaxConnections int    `yaml:"max_connections"` // 0 means unbounded
}

// LogConfig contains settings for logging
type LogConfig struct {
	Format      string `yaml:"format"` // console or json
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age"`     // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress"`    // compress determines if the rotated log files should be compressed
}

// RetryConfig controls the backoff applied to failing accept calls
type RetryConfig struct {
	MaxRetries    int     `yaml:"max_retries"`
	InitialDelay  int     `yaml:"initial_delay"` // in milliseconds
	MaxDelay      int     `yaml:"max_delay"`     // in milliseconds
	BackoffFactor float64 `yaml:"backoff_factor"`
	JitterFactor  float64 `yaml:"jitter_factor"`
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           80,
			Root:           ".",
			ReadTimeout:    30,
			WriteTimeout:   30,
			MaxConnections: 0,
		},
		Logging: LogConfig{
			Format:      "console",
			LogToFile:   false,
			LogFilePath: "tinyhttpd.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
		Retry: RetryConfig{
			MaxRetries:    5,
			InitialDelay:  5,
			MaxDelay:      1000,
			BackoffFactor: 2.0,
			JitterFactor:  0.1,
		},
	}
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys present in the file replace the defaults, including explicit zero values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file
// If the file doesn't exist or can't be parsed, it returns default configuration
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = LoadDefault()
	}
	return cfg
}

// ApplyEnv overrides server settings from TINYHTTPD_* environment variables
func (c *Config) ApplyEnv() error {
	if host := os.Getenv(EnvHost); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, port, err)
		}
		c.Server.Port = p
	}
	if root := os.Getenv(EnvRoot); root != "" {
		c.Server.Root = root
	}
	return nil
}

// Validate checks the configuration and makes the document root absolute
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("invalid max connections %d", c.Server.MaxConnections)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be console or json", c.Logging.Format)
	}

	root, err := filepath.Abs(c.Server.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve document root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid document root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("document root %s is not a directory", root)
	}
	c.Server.Root = root

	return nil
}

// Address returns the host:port the server listens on
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ReadTimeoutDuration returns the per-connection read deadline
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the per-connection write deadline
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}
