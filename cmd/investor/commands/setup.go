package commands

import (
	"context"
	"fmt"

	"github.com/wonny/investor/internal/api/handlers"
	"github.com/wonny/investor/internal/contracts"
	"github.com/wonny/investor/internal/ranking"
	"github.com/wonny/investor/internal/session"
	"github.com/wonny/investor/internal/store/postgres"
	"github.com/wonny/investor/internal/store/sqlite"
	"github.com/wonny/investor/pkg/config"
	"github.com/wonny/investor/pkg/database"
	"github.com/wonny/investor/pkg/logger"
	"github.com/wonny/investor/pkg/redis"
)

// app holds everything a command needs; close releases it
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	repo    contracts.CompanyRepository
	ranker  *ranking.Ranker
	session *session.Session
	health  handlers.HealthChecker
	redis   *redis.Client
	closers []func()
}

// loadConfig loads config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if driver != "" {
		cfg.Database.Driver = driver
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// openApp connects the configured store, applies migrations and wires the session
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		log: logger.New(cfg),
	}

	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}

	// Redis is optional; a disabled client makes the cache a no-op
	a.redis, err = redis.New(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = a.redis.Close() })

	a.ranker = ranking.NewRanker(a.repo, redis.NewCache(a.redis, "investor"), ranking.Config{
		DefaultLimit: cfg.Ranking.DefaultLimit,
		CacheTTL:     cfg.Ranking.CacheTTL,
	}, a.log.WithComponent("ranking"))
	a.session = session.New(a.repo, a.ranker, a.log.WithComponent("session"))

	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.New(a.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		if err := db.Migrate(ctx, a.log.WithComponent("store")); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		a.repo = postgres.NewRepository(db.Pool)
		a.health = db

	case config.DriverSQLite:
		db, err := database.NewSQLite(a.cfg.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		if err := db.Migrate(ctx, a.log.WithComponent("store")); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		a.repo = sqlite.NewRepository(db.Conn())
		a.health = db

	default:
		return fmt.Errorf("unknown driver %q", a.cfg.Database.Driver)
	}

	a.log.WithField("driver", a.cfg.Database.Driver).Debug("Connected to database")
	return nil
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
