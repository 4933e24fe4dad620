package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	Raffle    RaffleConfig
	Scheduler SchedulerConfig
	Payout    PayoutConfig
	Paygate   PaygateConfig
	Admin     AdminConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// RaffleConfig holds raffle lifecycle configuration
type RaffleConfig struct {
	// EndingSoonWindow is how long before its end time a raffle is
	// flagged as ending.
	EndingSoonWindow time.Duration
	// AutoDraw makes the scheduler draw raffles whose end time passed.
	AutoDraw bool
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled           bool
	LifecycleInterval time.Duration
	SweepInterval     time.Duration
}

// PayoutConfig holds payout sweep configuration
type PayoutConfig struct {
	Workers     int
	MaxAttempts int
	SweepBatch  int
}

// PaygateConfig holds payment gateway configuration
type PaygateConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// AdminConfig holds the bootstrap admin account. Left empty, no
// account is seeded.
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.JWT.Secret == "" {
		return nil, errors.New("JWT.Secret is required")
	}
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "8080")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "fairwin")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Raffle.EndingSoonWindow", "5m")
	viper.SetDefault("Raffle.AutoDraw", true)
	viper.SetDefault("Scheduler.Enabled", true)
	viper.SetDefault("Scheduler.LifecycleInterval", "30s")
	viper.SetDefault("Scheduler.SweepInterval", "60s")
	viper.SetDefault("Payout.Workers", 4)
	viper.SetDefault("Payout.MaxAttempts", 3)
	viper.SetDefault("Payout.SweepBatch", 100)
	viper.SetDefault("Paygate.Mock", true)
}
