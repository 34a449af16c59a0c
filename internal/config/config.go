// Package config loads settings from .env, configs/config.yml and IRRIGATION_* variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "IRRIGATION"

type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Circles   CirclesConfig   `mapstructure:"circles"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	// ":memory:" keeps the event log for the lifetime of the process only.
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type SimulatorConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Tick       time.Duration `mapstructure:"tick"`
	Seed       uint64        `mapstructure:"seed"`
	RainChance float64       `mapstructure:"rain_chance"` // probability of a wet reading
}

type SchedulerConfig struct {
	Policy     string `mapstructure:"policy"`      // all | single
	ActiveZone int    `mapstructure:"active_zone"` // 0-based, single policy only
}

type CirclesConfig struct {
	Count     int `mapstructure:"count"`
	MinRadius int `mapstructure:"min_radius"`
	MaxRadius int `mapstructure:"max_radius"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"` // empty disables publishing
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", ":memory:")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("simulator.enabled", true)
	v.SetDefault("simulator.tick", 30*time.Second)
	v.SetDefault("simulator.seed", 0)
	v.SetDefault("simulator.rain_chance", 0.3)
	v.SetDefault("scheduler.policy", "all")
	v.SetDefault("scheduler.active_zone", 0)
	v.SetDefault("circles.count", 10)
	v.SetDefault("circles.min_radius", 2)
	v.SetDefault("circles.max_radius", 100)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "irrigation-controller")
	v.SetDefault("mqtt.topic", "irrigation/schedule")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
}

// Load reads configuration. A missing .env or config file is not an error;
// defaults and environment variables still apply.
func Load(dirs ...string) (Config, error) {
	_ = godotenv.Load() // ignore missing file

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(dirs) == 0 {
		dirs = []string{"configs"}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port is required")
	}
	if c.Circles.Count <= 0 {
		return fmt.Errorf("config: circles.count must be > 0, got %d", c.Circles.Count)
	}
	if c.Circles.MinRadius <= 0 || c.Circles.MinRadius > c.Circles.MaxRadius {
		return fmt.Errorf("config: invalid circle radius range [%d, %d]", c.Circles.MinRadius, c.Circles.MaxRadius)
	}
	if c.Simulator.Enabled && c.Simulator.Tick <= 0 {
		return fmt.Errorf("config: simulator.tick must be > 0, got %s", c.Simulator.Tick)
	}
	if c.Simulator.RainChance < 0 || c.Simulator.RainChance > 1 {
		return fmt.Errorf("config: simulator.rain_chance must be within [0,1], got %v", c.Simulator.RainChance)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: auth.token_ttl must be > 0, got %s", c.Auth.TokenTTL)
	}
	return nil
}
