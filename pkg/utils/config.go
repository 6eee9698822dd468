package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Hold     HoldConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type HoldConfig struct {
	// Store selects the lease store backend: "redis" or "memory".
	Store              string
	TTLSeconds         int
	SweepIntervalSecs  int
	MaxSeatsPerBooking int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LEASE_STORE", "redis")
	viper.SetDefault("HOLD_TTL_SECONDS", 900)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 30)
	viper.SetDefault("MAX_SEATS_PER_BOOKING", 6)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Hold: HoldConfig{
			Store:              viper.GetString("LEASE_STORE"),
			TTLSeconds:         viper.GetInt("HOLD_TTL_SECONDS"),
			SweepIntervalSecs:  viper.GetInt("SWEEP_INTERVAL_SECONDS"),
			MaxSeatsPerBooking: viper.GetInt("MAX_SEATS_PER_BOOKING"),
		},
	}

	return config, nil
}
