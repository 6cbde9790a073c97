package config

import (
	"fmt"
	"strings"
)

// DeploymentMode selects where the API backend lives.
type DeploymentMode string

const (
	// DeploymentLocal forwards to the fixed local development backend.
	DeploymentLocal DeploymentMode = "local"
	// DeploymentManaged forwards to a host supplied by the hosting platform.
	DeploymentManaged DeploymentMode = "managed"
)

// DeploymentConfig is resolved once at startup and never changes afterwards.
type DeploymentConfig struct {
	Mode DeploymentMode `toml:"mode" yaml:"mode"`
	Host string         `toml:"host" yaml:"host"`
}

// Managed reports whether the backend address is supplied externally.
func (d DeploymentConfig) Managed() bool {
	return d.Mode == DeploymentManaged
}

func (d DeploymentConfig) validate() error {
	switch d.Mode {
	case "", DeploymentLocal:
	case DeploymentManaged:
		if d.Host == "" {
			return fmt.Errorf("deployment.host is required in managed mode (set VERCEL_URL)")
		}
		if strings.ContainsAny(d.Host, "/?#") {
			return fmt.Errorf("deployment.host must be a bare host name; got %q", d.Host)
		}
	default:
		return fmt.Errorf("deployment.mode must be one of: local, managed; got %q", d.Mode)
	}
	return nil
}

// ParseFlag interprets a boolean-like environment value. Empty, "0", "false",
// "no" and "off" (any case) are false; every other value is true.
func ParseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// normalizeHost strips a scheme and trailing slashes some platforms include.
func normalizeHost(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "http://")
	return strings.TrimRight(h, "/")
}
