// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/spa-gateway/config.toml",
	"configs/config.toml",
}

// reservedPaths are served by the gateway itself and cannot host metrics.
var reservedPaths = []string{"/api", "/healthz", "/gateway/status"}

// CLI holds command-line arguments parsed by Kong. Every field can be set from
// the environment, so the gateway runs without any arguments.
type CLI struct {
	Config         string `kong:"short='c',help='Path to TOML or YAML config file.',env='CONFIG_PATH'"`
	Host           string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port           int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	Managed        string `kong:"help='Managed deployment flag (overrides config).',env='VERCEL'"`
	DeploymentHost string `kong:"help='Backend host in managed deployment mode (overrides config).',env='VERCEL_URL'"`
	Root           string `kong:"help='Directory holding the entry document and static assets (overrides config).',env='STATIC_ROOT'"`
	LogLevel       string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Static     StaticConfig     `toml:"static" yaml:"static"`
	Backend    BackendConfig    `toml:"backend" yaml:"backend"`
	Deployment DeploymentConfig `toml:"deployment" yaml:"deployment"`
	Log        LogConfig        `toml:"log" yaml:"log"`
	Metrics    MetricsConfig    `toml:"metrics" yaml:"metrics"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `toml:"host" yaml:"host"`
	Port         int    `toml:"port" yaml:"port"` // 0 means "use default" (3000)
	BodyMaxBytes int64  `toml:"body_max_bytes" yaml:"body_max_bytes"`
}

// StaticConfig describes where static assets and the entry document live.
type StaticConfig struct {
	Root      string `toml:"root" yaml:"root"`
	PublicDir string `toml:"public_dir" yaml:"public_dir"`
	Index     string `toml:"index" yaml:"index"`
}

// BackendConfig holds settings for the JSON API backend.
type BackendConfig struct {
	LocalURL        string `toml:"local_url" yaml:"local_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds" yaml:"timeout_seconds"` // 0 keeps the transport default
	IdleConnections int    `toml:"idle_connections" yaml:"idle_connections"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Load builds the configuration from defaults, an optional config file and CLI
// overrides, in that order of precedence. When no explicit path is given (via
// --config or CONFIG_PATH), it searches /etc/spa-gateway/config.toml then
// configs/config.toml; finding nothing is not an error.
func Load(cli *CLI) (*Config, error) {
	var cfg Config

	path := cli.Config
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decode(path, data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyCLI(cli)
	cfg.Deployment.Host = normalizeHost(cfg.Deployment.Host)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// decode picks the parser from the file extension; TOML is the default.
func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.Managed != "" {
		if ParseFlag(cli.Managed) {
			c.Deployment.Mode = DeploymentManaged
		} else {
			c.Deployment.Mode = DeploymentLocal
		}
	}
	if cli.DeploymentHost != "" {
		c.Deployment.Host = cli.DeploymentHost
	}
	if cli.Root != "" {
		c.Static.Root = cli.Root
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
}

func (c *Config) validate() error {
	// Numeric bounds.
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0–65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be non-negative; got %d", c.Backend.TimeoutSeconds)
	}
	if c.Backend.IdleConnections < 0 {
		return fmt.Errorf("backend.idle_connections must be non-negative; got %d", c.Backend.IdleConnections)
	}

	// Local backend URL: optional, but must be absolute http(s) when given.
	if c.Backend.LocalURL != "" {
		u, err := url.Parse(c.Backend.LocalURL)
		if err != nil {
			return fmt.Errorf("backend.local_url is not a valid URL: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("backend.local_url must be an absolute http(s) URL; got %q", c.Backend.LocalURL)
		}
	}

	if err := c.Deployment.validate(); err != nil {
		return err
	}

	// The entry document is looked up relative to the static root.
	if idx := c.Static.Index; idx != "" {
		if filepath.IsAbs(idx) || strings.Contains(idx, "..") {
			return fmt.Errorf("static.index must be a relative file name; got %q", idx)
		}
	}

	// Log fields.
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
		// valid
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
		// valid
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	// Metrics path validation (only when metrics are enabled).
	if c.Metrics.Enabled && c.Metrics.Path != "" {
		p := c.Metrics.Path
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range reservedPaths {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}

	return nil
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields, zero means "unset" because TOML cannot distinguish
// between an explicit 0 and an omitted key.
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 10 * 1024 * 1024 // 10 MB
	}
	if c.Static.Root == "" {
		c.Static.Root = "."
	}
	if c.Static.PublicDir == "" {
		c.Static.PublicDir = "public"
	}
	if c.Static.Index == "" {
		c.Static.Index = "index.html"
	}
	if c.Backend.LocalURL == "" {
		c.Backend.LocalURL = "http://localhost:5000"
	}
	c.Backend.LocalURL = strings.TrimRight(c.Backend.LocalURL, "/")
	if c.Backend.IdleConnections == 0 {
		c.Backend.IdleConnections = 100
	}
	if c.Deployment.Mode == "" {
		c.Deployment.Mode = DeploymentLocal
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
