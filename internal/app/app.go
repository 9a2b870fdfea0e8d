package app

import (
	"context"
	"fmt"
	"time"

	"Tasker/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type App struct {
	cfg    config.Config
	log    zerolog.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

// New connects to Postgres and, when configured, Redis, applies pending
// migrations and builds the router. ctx bounds the connection attempts.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	db, err := newPostgres(ctx, cfg.PG)
	if err != nil {
		return nil, err
	}
	a.db = db

	if cfg.Redis.CacheEnabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.redis = rdb
	} else {
		log.Warn().Msg("redis not configured, page cache disabled")
	}

	if err := runMigrations(cfg.PG.DSN, cfg.PG.MigrationsDir); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	log.Info().Str("dir", cfg.PG.MigrationsDir).Msg("migrations applied")

	r, err := newRouter(cfg, log, a.db, a.redis)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.router = r
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(ctx context.Context, pg config.PGConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(pg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	poolCfg.MaxConns = pg.MaxConns
	poolCfg.MinConns = pg.MinConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// runMigrations applies the goose migrations in dir through the pgx
// database/sql driver.
func runMigrations(dsn string, dir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
