package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	URL             string `split_words:"true"`
	MaxConns        int32  `split_words:"true" default:"10"`
	MinConns        int32  `split_words:"true" default:"1"`
	MaxConnLifetime int    `split_words:"true" default:"3600"`
	MaxConnIdleTime int    `split_words:"true" default:"1800"`
	ConnectTimeout  int    `split_words:"true" default:"5"`
}

func (c *Config) New(ctx context.Context) (*pgxpool.Pool, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("postgres url is empty")
	}
	poolCfg, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	poolCfg.MaxConns = c.MaxConns
	poolCfg.MinConns = c.MinConns
	poolCfg.MaxConnLifetime = time.Duration(c.MaxConnLifetime) * time.Second
	poolCfg.MaxConnIdleTime = time.Duration(c.MaxConnIdleTime) * time.Second
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(c.ConnectTimeout)*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

func (c *Config) MustNew(ctx context.Context) *pgxpool.Pool {
	pool, err := c.New(ctx)
	if err != nil {
		panic(err)
	}

	return pool
}
