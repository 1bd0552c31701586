// Package config loads service configuration from file and environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the full service configuration.
type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"max_conns"`
		MinConns int32  `mapstructure:"min_conns"`
	} `mapstructure:"postgres"`

	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	Inventory struct {
		// StoreLocationID is the designated fulfillment source for
		// wholesale orders. Configured explicitly instead of located
		// at runtime so zero or duplicate store-type rows cannot
		// change behavior.
		StoreLocationID string `mapstructure:"store_location_id"`

		// DecrementRetries bounds transparent retries on concurrent
		// stock conflicts before surfacing the error.
		DecrementRetries int `mapstructure:"decrement_retries"`
	} `mapstructure:"inventory"`

	Rollover struct {
		// Tick is how often the worker checks whether a new calendar
		// day has begun.
		Tick time.Duration `mapstructure:"tick"`
	} `mapstructure:"rollover"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads configuration from the given file, with OSL_-prefixed
// environment variables taking precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("OSL")
	v.AutomaticEnv()

	setDefaults(v)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// LoadFromEnv builds configuration from environment variables only,
// for deployments without a config file.
func LoadFromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OSL")
	v.AutomaticEnv()

	setDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	c.Postgres.DSN = v.GetString("postgres_dsn")
	if dsn := v.GetString("database_url"); dsn != "" {
		c.Postgres.DSN = dsn
	}
	if secret := v.GetString("jwt_secret"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if store := v.GetString("store_location_id"); store != "" {
		c.Inventory.StoreLocationID = store
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("inventory.decrement_retries", 3)
	v.SetDefault("rollover.tick", time.Minute)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
}
