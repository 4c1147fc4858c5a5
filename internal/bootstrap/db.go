package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Gorgija/ehour/config"
	"github.com/Gorgija/ehour/internal/db"
	"github.com/Gorgija/ehour/internal/storage/postgres"
	"github.com/Gorgija/ehour/internal/storage/redis"
)

// Stores holds every connection the services run on. SQL and Gorm share one
// lib/pq pool; Pool is the pgx pool used for migrations and health checks.
// Redis is nil when no address is configured.
type Stores struct {
	SQL   *sql.DB
	Gorm  *gorm.DB
	Pool  *db.DB
	Redis *goredis.Client
}

func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	st := &Stores{SQL: sqlDB}

	if st.Gorm, err = postgres.OpenGorm(sqlDB, logger); err != nil {
		st.Close()
		return nil, err
	}
	if st.Pool, err = db.Open(ctx, &cfg.Database); err != nil {
		st.Close()
		return nil, err
	}
	if st.Redis, err = redis.NewClient(ctx, cfg.Redis); err != nil {
		st.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	return st, nil
}

func (s *Stores) Close() error {
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	s.Pool.Close()
	if s.SQL != nil {
		errs = append(errs, s.SQL.Close())
	}
	return errors.Join(errs...)
}
