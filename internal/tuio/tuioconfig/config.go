// Package tuioconfig is the runtime configuration for a TUIO 2.0 pipeline:
// client/server timeouts and every tunable adaptor threshold, loaded from
// an optional JSON file with Get* accessors falling back to defaults for
// anything the file omits — mirroring internal/config/tuning.go's
// pointer-field schema.
package tuioconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration. Fields are pointers so a partial JSON
// file can omit anything and still get sane defaults via the Get*
// accessors below.
type Config struct {
	// Client/server transport.
	LoadTimeout  *string `json:"load_timeout,omitempty"`  // duration string like "100ms"
	SendRetries  *int    `json:"send_retries,omitempty"`

	// Primitive-touch adaptor (§4.8).
	JoinThreshold *float64 `json:"join_threshold,omitempty"`
	DeltaTime     *float64 `json:"delta_time,omitempty"` // seconds

	// Multistroke recognition collector (§4.10).
	MultistrokeRadius  *float64 `json:"multistroke_radius,omitempty"`
	MultistrokeTimeout *float64 `json:"multistroke_timeout,omitempty"` // seconds

	// Viewport projector (§4.9).
	ViewportStrip *bool `json:"viewport_strip,omitempty"`

	// Mirror daemon (§4.12).
	MirrorSocketPath *string `json:"mirror_socket_path,omitempty"`
}

// Empty returns a Config with every field unset.
func Empty() *Config { return &Config{} }

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// Load reads and validates a Config from a JSON file. Fields omitted from
// the file retain their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every set field holds a sane value (§7 KindConfig:
// "invalid runtime config (refuse start-up)").
func (c *Config) Validate() error {
	if c.LoadTimeout != nil && *c.LoadTimeout != "" {
		if _, err := time.ParseDuration(*c.LoadTimeout); err != nil {
			return fmt.Errorf("invalid load_timeout %q: %w", *c.LoadTimeout, err)
		}
	}
	if c.SendRetries != nil && *c.SendRetries < 0 {
		return fmt.Errorf("send_retries must be non-negative, got %d", *c.SendRetries)
	}
	if c.JoinThreshold != nil && *c.JoinThreshold < 0 {
		return fmt.Errorf("join_threshold must be non-negative, got %f", *c.JoinThreshold)
	}
	if c.DeltaTime != nil && *c.DeltaTime < 0 {
		return fmt.Errorf("delta_time must be non-negative, got %f", *c.DeltaTime)
	}
	if c.MultistrokeRadius != nil && *c.MultistrokeRadius < 0 {
		return fmt.Errorf("multistroke_radius must be non-negative, got %f", *c.MultistrokeRadius)
	}
	if c.MultistrokeTimeout != nil && *c.MultistrokeTimeout < 0 {
		return fmt.Errorf("multistroke_timeout must be non-negative, got %f", *c.MultistrokeTimeout)
	}
	if c.MirrorSocketPath != nil && *c.MirrorSocketPath == "" {
		return fmt.Errorf("mirror_socket_path must not be empty when set")
	}
	return nil
}

// GetLoadTimeout returns LoadTimeout parsed as a duration, or the default.
func (c *Config) GetLoadTimeout() time.Duration {
	if c.LoadTimeout == nil || *c.LoadTimeout == "" {
		return 100 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.LoadTimeout)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// GetSendRetries returns SendRetries or the default.
func (c *Config) GetSendRetries() int {
	if c.SendRetries == nil {
		return 1
	}
	return *c.SendRetries
}

// GetJoinThreshold returns JoinThreshold or the default.
func (c *Config) GetJoinThreshold() float64 {
	if c.JoinThreshold == nil {
		return 20
	}
	return *c.JoinThreshold
}

// GetDeltaTime returns DeltaTime or the default.
func (c *Config) GetDeltaTime() float64 {
	if c.DeltaTime == nil {
		return 0.5
	}
	return *c.DeltaTime
}

// GetMultistrokeRadius returns MultistrokeRadius or the default.
func (c *Config) GetMultistrokeRadius() float64 {
	if c.MultistrokeRadius == nil {
		return 100
	}
	return *c.MultistrokeRadius
}

// GetMultistrokeTimeout returns MultistrokeTimeout or the default.
func (c *Config) GetMultistrokeTimeout() float64 {
	if c.MultistrokeTimeout == nil {
		return 1.0
	}
	return *c.MultistrokeTimeout
}

// GetViewportStrip returns ViewportStrip or the default (false).
func (c *Config) GetViewportStrip() bool {
	if c.ViewportStrip == nil {
		return false
	}
	return *c.ViewportStrip
}

// GetMirrorSocketPath returns MirrorSocketPath or the default, rooted
// under $TMPDIR per §6.
func (c *Config) GetMirrorSocketPath(port int) string {
	if c.MirrorSocketPath != nil && *c.MirrorSocketPath != "" {
		return *c.MirrorSocketPath
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("muse-mirror_%d.ctl", port))
}
