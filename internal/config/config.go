package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TwilioAccountSID   string        `env:"TWILIO_ACCOUNT_SID,required"`
	TwilioAuthToken    string        `env:"TWILIO_AUTH_TOKEN,required"`
	TwilioWhatsAppFrom string        `env:"TWILIO_WHATSAPP_FROM,required"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	DefaultCity        string        `env:"DEFAULT_CITY" envDefault:"Mumbai"`
	RedisAddr          string        `env:"REDIS_ADDR,required"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL           time.Duration `env:"REDIS_TTL" envDefault:"24h"`
	RateCacheTTL       time.Duration `env:"RATE_CACHE_TTL" envDefault:"5m"`
	DBHost             string        `env:"DB_HOST,required"`
	DBPort             int           `env:"DB_PORT,required"`
	DBUser             string        `env:"DB_USER,required"`
	DBPassword         string        `env:"DB_PASSWORD,required"`
	DBName             string        `env:"DB_NAME,required"`
	DBMaxOpenConns     int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime  time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
	MessageRateLimit   int64         `env:"MESSAGE_RATE_LIMIT" envDefault:"30"`
	MessageRateWindow  time.Duration `env:"MESSAGE_RATE_WINDOW" envDefault:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
