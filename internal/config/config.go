package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	LogLevel string        `mapstructure:"logLevel"`
	TickRate time.Duration `mapstructure:"tickRate"`

	Deed      DeedConfig      `mapstructure:"deed"`
	Radar     RadarConfig     `mapstructure:"radar"`
	Targeting TargetingConfig `mapstructure:"targeting"`
	Query     QueryConfig     `mapstructure:"query"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Host      HostConfig      `mapstructure:"host"`
}

// DeedConfig tunes the shuttle deed owner tracker.
type DeedConfig struct {
	CheckInterval     time.Duration `mapstructure:"checkInterval"`
	MaxInactiveChecks int           `mapstructure:"maxInactiveChecks"`
}

// RadarConfig tunes hitscan radar blips.
type RadarConfig struct {
	HitscanLifetime  time.Duration `mapstructure:"hitscanLifetime"`
	HitscanMaxLength float64       `mapstructure:"hitscanMaxLength"`
	HitscanThickness float64       `mapstructure:"hitscanThickness"`
}

// TargetingConfig tunes NPC ship gunnery.
type TargetingConfig struct {
	LeadingAccuracy float64 `mapstructure:"leadingAccuracy"`
	WeaponTag       string  `mapstructure:"weaponTag"`
	ForwardDistance float64 `mapstructure:"forwardDistance"`
}

// QueryConfig tunes the nearby deed grid query.
type QueryConfig struct {
	DeedGridRange float64 `mapstructure:"deedGridRange"`
}

// RelayConfig configures the websocket replication relay.
type RelayConfig struct {
	Listen string `mapstructure:"listen"`
	Path   string `mapstructure:"path"`
}

// HostConfig selects where players come from.
type HostConfig struct {
	// Dragonfly runs an embedded dragonfly server and tracks its players as
	// sessions. When false the server runs headless with an empty session table.
	Dragonfly bool `mapstructure:"dragonfly"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("tickRate", "33ms")

	v.SetDefault("deed.checkInterval", "10m")
	v.SetDefault("deed.maxInactiveChecks", 6)

	v.SetDefault("radar.hitscanLifetime", "500ms")
	v.SetDefault("radar.hitscanMaxLength", 45.0)
	v.SetDefault("radar.hitscanThickness", 2.0)

	v.SetDefault("targeting.leadingAccuracy", 0.999)
	v.SetDefault("targeting.weaponTag", "AIShipWeapon")
	v.SetDefault("targeting.forwardDistance", 50.0)

	v.SetDefault("query.deedGridRange", 2000.0)

	v.SetDefault("relay.listen", ":8095")
	v.SetDefault("relay.path", "/ws")

	v.SetDefault("host.dragonfly", false)
}

// Load reads hardlight.{toml,json,yaml} from configDir on top of the defaults.
// A missing file is not an error. Environment variables prefixed with
// HARDLIGHT_ override both, e.g. HARDLIGHT_DEED_CHECKINTERVAL=5m.
func Load(configDir string) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigName("hardlight")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("HARDLIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the systems cannot run with.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tickRate must be positive, got %s", c.TickRate)
	case c.Deed.CheckInterval <= 0:
		return fmt.Errorf("deed.checkInterval must be positive, got %s", c.Deed.CheckInterval)
	case c.Deed.MaxInactiveChecks < 1:
		return fmt.Errorf("deed.maxInactiveChecks must be at least 1, got %d", c.Deed.MaxInactiveChecks)
	case !strings.HasPrefix(c.Relay.Path, "/"):
		return fmt.Errorf("relay.path must start with /, got %q", c.Relay.Path)
	case c.Targeting.LeadingAccuracy < 0 || c.Targeting.LeadingAccuracy > 1:
		return fmt.Errorf("targeting.leadingAccuracy must be within [0, 1], got %g", c.Targeting.LeadingAccuracy)
	case c.Radar.HitscanLifetime <= 0:
		return fmt.Errorf("radar.hitscanLifetime must be positive, got %s", c.Radar.HitscanLifetime)
	case c.Radar.HitscanThickness <= 0:
		return fmt.Errorf("radar.hitscanThickness must be positive, got %g", c.Radar.HitscanThickness)
	case c.Query.DeedGridRange <= 0:
		return fmt.Errorf("query.deedGridRange must be positive, got %g", c.Query.DeedGridRange)
	}
	return nil
}
