package config

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/rjweb/boilerplate/internal/models"
	pkgconfig "github.com/rjweb/boilerplate/pkg/config"
	"github.com/rjweb/boilerplate/pkg/db"
)

type Config struct {
	Env        string
	ServerPort int
	LogLevel   string

	DatabaseURL string

	SessionSecret []byte

	MasterEmail    string
	MasterPassword string

	KafkaBrokers []string
}

// Load reads the environment into a Config. Missing SESSION_SECRET or
// DATABASE_URL is fatal; the process must not serve traffic without them.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	cfg := Config{
		Env:        pkgconfig.EnvDefault("ENV", "development"),
		ServerPort: pkgconfig.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),

		MasterEmail:    os.Getenv("MASTER_USER_EMAIL"),
		MasterPassword: os.Getenv("MASTER_USER_PASSWORD"),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
	}

	pkgconfig.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	return cfg
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// InitDB connects (memoized, safe to call repeatedly) and migrates the
// user table.
func InitDB(ctx context.Context, cfg Config) (*gorm.DB, error) {
	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}
