package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port  string
	GoEnv string // dev/prod

	// DemoMode serves seeded fixture data instead of querying postgres.
	// Forced on when no database is configured.
	DemoMode bool

	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string

	RabbitMQURL string // empty disables event publishing

	DeliveryFeeDefault int64

	FEURL string // front-end origin for CORS
}

// Load reads configuration from the environment. A .env file, if present,
// is loaded by main before this runs.
func Load() (Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GO_ENV", "dev")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("DELIVERY_FEE_DEFAULT", 50)
	viper.AutomaticEnv()

	cfg := Config{
		Port:  viper.GetString("PORT"),
		GoEnv: viper.GetString("GO_ENV"),

		DemoMode: viper.GetBool("DEMO_MODE"),

		DatabaseURL:      viper.GetString("DATABASE_URL"),
		PostgresUser:     viper.GetString("POSTGRES_USER"),
		PostgresPassword: viper.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       viper.GetString("POSTGRES_DB"),
		PostgresHost:     viper.GetString("POSTGRES_HOST"),
		PostgresPort:     viper.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  viper.GetString("POSTGRES_SSLMODE"),

		JWTSecret: viper.GetString("JWT_SECRET"),

		RabbitMQURL: viper.GetString("RABBITMQ_URL"),

		DeliveryFeeDefault: viper.GetInt64("DELIVERY_FEE_DEFAULT"),

		FEURL: viper.GetString("FE_URL"),
	}

	// No database configured means demo mode, not a startup failure.
	if cfg.DatabaseURL == "" && cfg.PostgresUser == "" {
		cfg.DemoMode = true
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if !cfg.DemoMode {
		if cfg.DatabaseURL == "" {
			if cfg.PostgresPassword == "" {
				return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
			}
			if cfg.PostgresDB == "" {
				return Config{}, fmt.Errorf("POSTGRES_DB is required")
			}
		}
	}

	return cfg, nil
}
