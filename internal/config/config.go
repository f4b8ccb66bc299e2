// Package config loads the control station configuration from a YAML file
// with environment overrides for the deployment-variable settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults. The TLE is an ISS sample used until the first orbit change.
const (
	DefaultMetricsAddr = ":9090"
	DefaultInboxDir    = "uplink-inbox"

	DefaultTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	DefaultTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

// Default channel names. Channel names are configuration, not code: a
// deployment may rename them as long as all parties agree.
const (
	DefaultMonitorChannel   = "security_monitor"
	DefaultOrbitChannel     = "orbit_control"
	DefaultOpticsChannel    = "optics_control"
	DefaultSatelliteChannel = "satellite"
	DefaultDrawerChannel    = "orbit_drawer"
)

// Config is the full station configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Channels ChannelsConfig `yaml:"channels"`
	Uplink   UplinkConfig   `yaml:"uplink"`
	TLE      TLEConfig      `yaml:"tle"`
	Zones    []ZoneConfig   `yaml:"restricted_zones"`
	Rules    []RuleConfig   `yaml:"policy_rules"`
}

// LogConfig mirrors the logging package's Config.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the /metrics and /statusz HTTP listener.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ChannelsConfig names every subsystem's inbound channel.
type ChannelsConfig struct {
	Monitor   string `yaml:"monitor"`
	Orbit     string `yaml:"orbit"`
	Optics    string `yaml:"optics"`
	Satellite string `yaml:"satellite"`
	Drawer    string `yaml:"drawer"`
}

// UplinkConfig controls the program inbox. Uplinked programs execute under
// the configured user and role; per-user submission happens on the ground
// side before files reach the inbox.
type UplinkConfig struct {
	InboxDir string `yaml:"inbox_dir"`
	User     string `yaml:"user"`
	Role     int    `yaml:"role"`
}

// TLEConfig is the startup orbital element set.
type TLEConfig struct {
	Line1 string `yaml:"line1"`
	Line2 string `yaml:"line2"`
}

// ZoneConfig is a restricted zone loaded at startup. Zones are still
// validated through the normal constructor; a bad config zone fails startup
// instead of being silently dropped.
type ZoneConfig struct {
	ID          int     `yaml:"id"`
	LatBotLeft  float64 `yaml:"lat_bot_left"`
	LonBotLeft  float64 `yaml:"lon_bot_left"`
	LatTopRight float64 `yaml:"lat_top_right"`
	LonTopRight float64 `yaml:"lon_top_right"`
	Description string  `yaml:"description"`
	Severity    int     `yaml:"severity"`
}

// RuleConfig is one policy rule; "*" in any field is the wildcard.
type RuleConfig struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Operation   string `yaml:"operation"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Channels: ChannelsConfig{
			Monitor:   DefaultMonitorChannel,
			Orbit:     DefaultOrbitChannel,
			Optics:    DefaultOpticsChannel,
			Satellite: DefaultSatelliteChannel,
			Drawer:    DefaultDrawerChannel,
		},
		Uplink: UplinkConfig{InboxDir: DefaultInboxDir, User: "ground", Role: 3},
		TLE:    TLEConfig{Line1: DefaultTLE1, Line2: DefaultTLE2},
	}
}

// Load reads the YAML file at path layered over the defaults, then applies
// environment overrides. An empty path yields defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers SCS_* environment variables on top of the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCS_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("SCS_INBOX_DIR"); v != "" {
		c.Uplink.InboxDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func (c *Config) validate() error {
	names := map[string]string{
		"channels.monitor":   c.Channels.Monitor,
		"channels.orbit":     c.Channels.Orbit,
		"channels.optics":    c.Channels.Optics,
		"channels.satellite": c.Channels.Satellite,
		"channels.drawer":    c.Channels.Drawer,
	}
	seen := make(map[string]string, len(names))
	for field, name := range names {
		if name == "" {
			return fmt.Errorf("config: %s must not be empty", field)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("config: %s and %s share channel name %q", field, other, name)
		}
		seen[name] = field
	}

	if c.TLE.Line1 == "" || c.TLE.Line2 == "" {
		return fmt.Errorf("config: tle.line1 and tle.line2 are required")
	}
	return nil
}
