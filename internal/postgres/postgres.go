// Package postgres provides the pgx-backed implementations of the user,
// tenant and session persistence boundaries.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/userhub/auth-service/internal/config"
)

// Connect establishes a pgx connection pool from configuration.
func Connect(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetPostgresDSN())
	if err != nil {
		return nil, err
	}

	if maxConns := cfg.GetPostgresMaxConns(); maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("connected to postgres")
	return pool, nil
}
