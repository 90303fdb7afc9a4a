package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"jewelclaw/internal/config"
	"jewelclaw/internal/pricing"
	"jewelclaw/pkg/redis"
)

type PostgresStorage struct {
	db           *sqlx.DB
	redis        *redis.Client
	logger       *zap.Logger
	rateCacheTTL time.Duration
}

// User is a WhatsApp user keyed by phone number.
type User struct {
	ID            int64          `db:"id"`
	PhoneNumber   string         `db:"phone_number"`
	Name          sql.NullString `db:"name"`
	PreferredCity string         `db:"preferred_city"`
	CreatedAt     time.Time      `db:"created_at"`
}

// MetalRate is one rate snapshot for a city. Gold rates are INR per gram.
type MetalRate struct {
	ID         int64     `db:"id"`
	City       string    `db:"city"`
	RateDate   string    `db:"rate_date"`
	Gold24K    float64   `db:"gold_24k"`
	Gold22K    float64   `db:"gold_22k"`
	Gold18K    float64   `db:"gold_18k"`
	Gold14K    float64   `db:"gold_14k"`
	Silver     float64   `db:"silver"`
	USDINR     float64   `db:"usd_inr"`
	Source     string    `db:"source"`
	RecordedAt time.Time `db:"recorded_at"`
}

type memoryRow struct {
	Category     string          `db:"category"`
	Key          string          `db:"key"`
	Value        string          `db:"value"`
	ValueNumeric sql.NullFloat64 `db:"value_numeric"`
}

func NewPostgresStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:           db,
		redis:        redisClient,
		logger:       logger,
		rateCacheTTL: cfg.RateCacheTTL,
	}, nil
}

// UpsertUser finds or creates a user by phone number.
func (s *PostgresStorage) UpsertUser(ctx context.Context, phoneNumber string) (*User, error) {
	const query = `
        INSERT INTO users (phone_number)
        VALUES ($1)
        ON CONFLICT (phone_number) DO UPDATE SET last_message_at = NOW()
        RETURNING id, phone_number, name, preferred_city, created_at
    `

	var user User
	if err := s.db.GetContext(ctx, &user, query, phoneNumber); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

// SaveMetalRate stores a rate snapshot and invalidates the city's cache.
func (s *PostgresStorage) SaveMetalRate(ctx context.Context, r MetalRate) error {
	const query = `
        INSERT INTO metal_rates (
            city, rate_date, gold_24k, gold_22k, gold_18k, gold_14k,
            silver, usd_inr, source
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := s.db.ExecContext(ctx, query,
		r.City,
		r.RateDate,
		r.Gold24K,
		r.Gold22K,
		r.Gold18K,
		r.Gold14K,
		r.Silver,
		r.USDINR,
		r.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to save metal rate: %w", err)
	}

	s.redis.Del(ctx, rateCacheKey(r.City))
	return nil
}

// LatestRate returns the newest rate snapshot for a city. Implements
// pricing.RateProvider; a missing row is reported as
// *pricing.MissingRateError so the engine fails closed.
func (s *PostgresStorage) LatestRate(ctx context.Context, city string) (*pricing.RateSnapshot, error) {
	cacheKey := rateCacheKey(city)

	var cached pricing.RateSnapshot
	if err := s.redis.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	const query = `
        SELECT city, rate_date, gold_24k, usd_inr, recorded_at
        FROM metal_rates
        WHERE LOWER(city) = LOWER($1)
        ORDER BY recorded_at DESC
        LIMIT 1
    `

	var row struct {
		City       string    `db:"city"`
		RateDate   string    `db:"rate_date"`
		Gold24K    float64   `db:"gold_24k"`
		USDINR     float64   `db:"usd_inr"`
		RecordedAt time.Time `db:"recorded_at"`
	}
	if err := s.db.GetContext(ctx, &row, query, city); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &pricing.MissingRateError{City: city}
		}
		return nil, fmt.Errorf("failed to get latest rate: %w", err)
	}

	snap := &pricing.RateSnapshot{
		City:       row.City,
		Gold24K:    row.Gold24K,
		USDINR:     row.USDINR,
		RateDate:   row.RateDate,
		RecordedAt: row.RecordedAt,
	}

	if err := s.redis.SetJSON(ctx, cacheKey, snap, s.rateCacheTTL); err != nil {
		s.logger.Warn("Failed to cache rate snapshot", zap.String("city", city), zap.Error(err))
	}
	return snap, nil
}

// PricingFacts returns all active pricing-profile facts for a user.
// Implements pricing.ProfileStore.
func (s *PostgresStorage) PricingFacts(ctx context.Context, userID int64) ([]pricing.Fact, error) {
	cacheKey := profileCacheKey(userID)

	var cached []pricing.Fact
	if err := s.redis.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	const query = `
        SELECT category, key, value, value_numeric
        FROM business_memory
        WHERE user_id = $1 AND category = 'pricing_profile' AND is_active = TRUE
        ORDER BY extracted_at DESC
    `

	var rows []memoryRow
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get pricing facts: %w", err)
	}

	facts := make([]pricing.Fact, 0, len(rows))
	for _, r := range rows {
		facts = append(facts, pricing.Fact{
			Category:     r.Category,
			Key:          r.Key,
			Value:        r.Value,
			ValueNumeric: r.ValueNumeric.Float64,
		})
	}

	if err := s.redis.SetJSON(ctx, cacheKey, facts, 10*time.Minute); err != nil {
		s.logger.Warn("Failed to cache pricing facts", zap.Int64("user_id", userID), zap.Error(err))
	}
	return facts, nil
}

// UpsertFact overwrites one profile fact, keyed by (user_id, key), and
// invalidates the user's cached profile. Last write wins; no history.
func (s *PostgresStorage) UpsertFact(ctx context.Context, userID int64, f pricing.Fact) error {
	const query = `
        INSERT INTO business_memory (user_id, category, key, value, value_numeric)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, key) DO UPDATE SET
            category = EXCLUDED.category,
            value = EXCLUDED.value,
            value_numeric = EXCLUDED.value_numeric,
            is_active = TRUE,
            extracted_at = NOW()
    `

	_, err := s.db.ExecContext(ctx, query, userID, f.Category, f.Key, f.Value, f.ValueNumeric)
	if err != nil {
		return fmt.Errorf("failed to upsert fact %s: %w", f.Key, err)
	}

	s.redis.Del(ctx, profileCacheKey(userID))
	return nil
}

// CheckRateLimit reports whether a user exceeded the per-window action
// quota. The counter lives in Redis.
func (s *PostgresStorage) CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%d:%s", userID, action)

	count, err := s.redis.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if _, err := s.redis.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > limit, nil
}

// DB exposes the underlying connection for the migration runner.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func rateCacheKey(city string) string {
	return fmt.Sprintf("rate:%s", city)
}

func profileCacheKey(userID int64) string {
	return fmt.Sprintf("profile:%d", userID)
}
