package db

import (
	"fmt"
	"time"

	"bakery/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Connect opens the postgres connection with bounded retry. DATABASE_URL
// takes precedence over the discrete POSTGRES_* settings.
func Connect(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
			cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
		)
	}

	backoff := connectBackoff
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		// TranslateError turns driver unique-violation errors into
		// gorm.ErrDuplicatedKey, which the repositories depend on.
		gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			return gormDB, nil
		}
		lastErr = err
		log.Warn("database connect failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < connectAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, lastErr)
}
