package utils

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/astronomy/kinematics"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

// EnvPrefix prefixes environment overrides, e.g. ORRERY_SERVER_PORT
const EnvPrefix = "ORRERY"

// Config represents the orrery configuration
type Config struct {
	CatalogPath string           `yaml:"catalog_path" mapstructure:"catalog_path"`
	Kinematics  KinematicsConfig `yaml:"kinematics" mapstructure:"kinematics"`
	Control     ControlConfig    `yaml:"control" mapstructure:"control"`
	Startup     StartupConfig    `yaml:"startup" mapstructure:"startup"`
	Runner      RunnerConfig     `yaml:"runner" mapstructure:"runner"`
	Server      ServerConfig     `yaml:"server" mapstructure:"server"`
	Redis       RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Output      OutputConfig     `yaml:"output" mapstructure:"output"`
	Log         LogConfig        `yaml:"log" mapstructure:"log"`
}

// KinematicsConfig holds the visual mapping constants
type KinematicsConfig struct {
	OrbitRate       float64 `yaml:"orbit_rate" mapstructure:"orbit_rate"`
	DistanceScale   float64 `yaml:"distance_scale" mapstructure:"distance_scale"`
	CenterBaseScale float64 `yaml:"center_base_scale" mapstructure:"center_base_scale"`
	BaseSize        float64 `yaml:"base_size" mapstructure:"base_size"`
	SizeFactor      float64 `yaml:"size_factor" mapstructure:"size_factor"`
	SelectedSwell   float64 `yaml:"selected_swell" mapstructure:"selected_swell"`
}

// ControlConfig holds the initial control state and its bounds
type ControlConfig struct {
	InitialScale float64 `yaml:"initial_scale" mapstructure:"initial_scale"`
	MinScale     float64 `yaml:"min_scale" mapstructure:"min_scale"`
	MaxScale     float64 `yaml:"max_scale" mapstructure:"max_scale"`
	InitialSpeed float64 `yaml:"initial_speed" mapstructure:"initial_speed"`
	Skybox       bool    `yaml:"skybox" mapstructure:"skybox"`
}

// StartupConfig times the startup sequence
type StartupConfig struct {
	WelcomeDelay   time.Duration `yaml:"welcome_delay" mapstructure:"welcome_delay"`
	AuthorDelay    time.Duration `yaml:"author_delay" mapstructure:"author_delay"`
	RevealDuration time.Duration `yaml:"reveal_duration" mapstructure:"reveal_duration"`
	Skip           bool          `yaml:"skip" mapstructure:"skip"`
}

// MaxTickRate bounds runner.tick_rate; the runner ticks at most once per
// millisecond
const MaxTickRate = 1000

// RunnerConfig controls the frame loop
type RunnerConfig struct {
	TickRate float64       `yaml:"tick_rate" mapstructure:"tick_rate"` // Hz
	MaxStep  time.Duration `yaml:"max_step" mapstructure:"max_step"`
}

// Interval returns the time between ticks
func (r RunnerConfig) Interval() time.Duration {
	if r.TickRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / r.TickRate)
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	StreamRate     float64  `yaml:"stream_rate" mapstructure:"stream_rate"` // frames per second per websocket
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// RedisConfig contains the pub/sub settings
type RedisConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	Addr           string  `yaml:"addr" mapstructure:"addr"`
	Password       string  `yaml:"password" mapstructure:"password"`
	DB             int     `yaml:"db" mapstructure:"db"`
	FrameChannel   string  `yaml:"frame_channel" mapstructure:"frame_channel"`
	ControlChannel string  `yaml:"control_channel" mapstructure:"control_channel"`
	PublishRate    float64 `yaml:"publish_rate" mapstructure:"publish_rate"` // frames per second
}

// OutputConfig controls frame recording
type OutputConfig struct {
	FramesPath string `yaml:"frames_path" mapstructure:"frames_path"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	p := kinematics.DefaultParams()
	l := control.DefaultLimits()

	return &Config{
		Kinematics: KinematicsConfig{
			OrbitRate:       p.OrbitRate,
			DistanceScale:   p.DistanceScale,
			CenterBaseScale: p.CenterBaseScale,
			BaseSize:        p.BaseSize,
			SizeFactor:      p.SizeFactor,
			SelectedSwell:   p.SelectedSwell,
		},
		Control: ControlConfig{
			InitialScale: 1.0,
			MinScale:     l.MinScale,
			MaxScale:     l.MaxScale,
			InitialSpeed: 1.0,
			Skybox:       true,
		},
		Startup: StartupConfig{
			WelcomeDelay:   3 * time.Second,
			AuthorDelay:    3500 * time.Millisecond,
			RevealDuration: 2 * time.Second,
		},
		Runner: RunnerConfig{
			TickRate: 60,
			MaxStep:  250 * time.Millisecond,
		},
		Server: ServerConfig{
			Port:           8080,
			StreamRate:     30,
			AllowedOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Enabled:        false,
			Addr:           "localhost:6379",
			FrameChannel:   "orrery.frame",
			ControlChannel: "orrery.control",
			PublishRate:    10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Params converts the kinematics section to engine params
func (k KinematicsConfig) Params() kinematics.Params {
	return kinematics.Params{
		OrbitRate:       k.OrbitRate,
		DistanceScale:   k.DistanceScale,
		CenterBaseScale: k.CenterBaseScale,
		BaseSize:        k.BaseSize,
		SizeFactor:      k.SizeFactor,
		SelectedSwell:   k.SelectedSwell,
	}
}

// Limits converts the control bounds
func (c ControlConfig) Limits() control.Limits {
	return control.Limits{MinScale: c.MinScale, MaxScale: c.MaxScale}
}

// setDefaults registers every key so env overrides and partial files work
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog_path", cfg.CatalogPath)

	v.SetDefault("kinematics.orbit_rate", cfg.Kinematics.OrbitRate)
	v.SetDefault("kinematics.distance_scale", cfg.Kinematics.DistanceScale)
	v.SetDefault("kinematics.center_base_scale", cfg.Kinematics.CenterBaseScale)
	v.SetDefault("kinematics.base_size", cfg.Kinematics.BaseSize)
	v.SetDefault("kinematics.size_factor", cfg.Kinematics.SizeFactor)
	v.SetDefault("kinematics.selected_swell", cfg.Kinematics.SelectedSwell)

	v.SetDefault("control.initial_scale", cfg.Control.InitialScale)
	v.SetDefault("control.min_scale", cfg.Control.MinScale)
	v.SetDefault("control.max_scale", cfg.Control.MaxScale)
	v.SetDefault("control.initial_speed", cfg.Control.InitialSpeed)
	v.SetDefault("control.skybox", cfg.Control.Skybox)

	v.SetDefault("startup.welcome_delay", cfg.Startup.WelcomeDelay)
	v.SetDefault("startup.author_delay", cfg.Startup.AuthorDelay)
	v.SetDefault("startup.reveal_duration", cfg.Startup.RevealDuration)
	v.SetDefault("startup.skip", cfg.Startup.Skip)

	v.SetDefault("runner.tick_rate", cfg.Runner.TickRate)
	v.SetDefault("runner.max_step", cfg.Runner.MaxStep)

	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.stream_rate", cfg.Server.StreamRate)
	v.SetDefault("server.allowed_origins", cfg.Server.AllowedOrigins)

	v.SetDefault("redis.enabled", cfg.Redis.Enabled)
	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.password", cfg.Redis.Password)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.frame_channel", cfg.Redis.FrameChannel)
	v.SetDefault("redis.control_channel", cfg.Redis.ControlChannel)
	v.SetDefault("redis.publish_rate", cfg.Redis.PublishRate)

	v.SetDefault("output.frames_path", cfg.Output.FramesPath)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// LoadConfig loads configuration from path, or searches the default
// locations when path is empty. A missing search-path file yields defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".orrery"))
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig writes configuration as YAML, creating parent directories
func SaveConfig(config *Config, path string) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns $HOME/.orrery/config.yaml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".orrery", "config.yaml"), nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	k := config.Kinematics
	for name, v := range map[string]float64{
		"kinematics.orbit_rate":        k.OrbitRate,
		"kinematics.distance_scale":    k.DistanceScale,
		"kinematics.center_base_scale": k.CenterBaseScale,
		"kinematics.base_size":         k.BaseSize,
		"kinematics.size_factor":       k.SizeFactor,
		"kinematics.selected_swell":    k.SelectedSwell,
		"control.initial_speed":        config.Control.InitialSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errorsmod.Wrapf(types.ErrInvalidConfig, "%s must be finite", name)
		}
	}

	if k.DistanceScale <= 0 || k.CenterBaseScale <= 0 {
		return errorsmod.Wrap(types.ErrInvalidConfig, "distance and center scales must be positive")
	}
	if k.BaseSize < 0 || k.SizeFactor < 0 {
		return errorsmod.Wrap(types.ErrInvalidConfig, "body size constants cannot be negative")
	}
	if k.SelectedSwell < 1 {
		return errorsmod.Wrapf(types.ErrInvalidConfig, "selected swell %.2f must be at least 1", k.SelectedSwell)
	}

	c := config.Control
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return errorsmod.Wrapf(types.ErrInvalidConfig, "scale range [%.2f, %.2f] is invalid", c.MinScale, c.MaxScale)
	}

	s := config.Startup
	if s.WelcomeDelay < 0 || s.AuthorDelay < 0 || s.RevealDuration < 0 {
		return errorsmod.Wrap(types.ErrInvalidConfig, "startup durations cannot be negative")
	}

	r := config.Runner
	if r.TickRate <= 0 || r.TickRate > MaxTickRate || math.IsNaN(r.TickRate) {
		return errorsmod.Wrapf(types.ErrInvalidConfig, "runner tick rate must be in (0, %d] Hz", MaxTickRate)
	}
	// the step cap is for stalls; ordinary ticks (with jitter) must pass it
	if r.MaxStep < 0 || (r.MaxStep > 0 && r.MaxStep < 2*r.Interval()) {
		return errorsmod.Wrapf(types.ErrInvalidConfig,
			"runner max step %s must be 0 or at least twice the tick interval %s", r.MaxStep, r.Interval())
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return errorsmod.Wrapf(types.ErrInvalidConfig, "invalid server port %d", config.Server.Port)
	}
	if config.Server.StreamRate < 0 || config.Redis.PublishRate < 0 {
		return errorsmod.Wrap(types.ErrInvalidConfig, "stream rates cannot be negative")
	}

	if config.Redis.Enabled {
		if config.Redis.Addr == "" {
			return errorsmod.Wrap(types.ErrInvalidConfig, "redis address must be set when redis is enabled")
		}
		if config.Redis.FrameChannel == "" {
			return errorsmod.Wrap(types.ErrInvalidConfig, "redis frame channel cannot be empty")
		}
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return errorsmod.Wrapf(types.ErrInvalidConfig, "unknown log format %q", config.Log.Format)
	}

	return nil
}
