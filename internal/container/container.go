// Package container provides dependency injection.
package container

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jefferson-ssantos/monitor-ipu/internal/auth"
	"github.com/jefferson-ssantos/monitor-ipu/internal/cache"
	"github.com/jefferson-ssantos/monitor-ipu/internal/config"
	"github.com/jefferson-ssantos/monitor-ipu/internal/dashboard"
	"github.com/jefferson-ssantos/monitor-ipu/internal/jobs"
	"github.com/jefferson-ssantos/monitor-ipu/internal/repository"
)

// Container holds all application dependencies.
type Container struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sql.DB
	cache     cache.Cache
	memCache  *cache.Memory
	scheduler *jobs.Scheduler

	clientRepo      repository.ClientRepository
	consumptionRepo repository.ConsumptionRepository
	userRepo        repository.UserRepository

	jwtManager *auth.JWTManager
	dashboard  *dashboard.Service
}

// New creates a new dependency container.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		cfg:    cfg,
		logger: logger,
	}

	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.db = db
	logger.Info("database connected", "host", cfg.Database.Host, "database", cfg.Database.Name)

	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.cache = rc
		logger.Info("redis cache connected", "addr", cfg.Redis.Addr())
	default:
		c.memCache = cache.NewMemory()
		c.cache = c.memCache
		logger.Info("in-memory cache initialized")
	}

	c.clientRepo = repository.NewPostgresClientRepository(db)
	c.consumptionRepo = repository.NewPostgresConsumptionRepository(db)
	c.userRepo = repository.NewPostgresUserRepository(db)

	c.jwtManager, err = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
	}

	c.dashboard = dashboard.NewService(c.clientRepo, c.consumptionRepo, c.cache, cfg.Cache.TTL, logger)

	c.scheduler = jobs.NewScheduler(logger, 5*time.Minute)

	return c, nil
}

// Start registers and starts background jobs.
func (c *Container) Start(ctx context.Context) error {
	if !c.cfg.Jobs.Enabled {
		c.logger.Info("background jobs disabled")
		return nil
	}

	// Redis expires keys on its own; only the in-memory cache needs sweeping.
	if c.memCache != nil {
		if err := c.scheduler.Register("cache-sweep", c.cfg.Jobs.CacheSweepSchedule, c.cacheSweepJob); err != nil {
			return err
		}
	}
	if err := c.scheduler.Register("cache-warm", c.cfg.Jobs.CacheWarmSchedule, c.cacheWarmJob); err != nil {
		return err
	}

	return c.scheduler.Start()
}

// Stop gracefully stops all components.
func (c *Container) Stop(ctx context.Context) error {
	c.logger.Info("stopping container components")

	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Warn("cache close failed", "error", err)
		}
	}
	if c.db != nil {
		c.db.Close()
	}

	return nil
}

// Accessors

func (c *Container) Config() *config.Config                    { return c.cfg }
func (c *Container) Logger() *slog.Logger                      { return c.logger }
func (c *Container) DB() *sql.DB                               { return c.db }
func (c *Container) Cache() cache.Cache                        { return c.cache }
func (c *Container) JWTManager() *auth.JWTManager              { return c.jwtManager }
func (c *Container) UserRepository() repository.UserRepository { return c.userRepo }
func (c *Container) Dashboard() *dashboard.Service             { return c.dashboard }
func (c *Container) Scheduler() *jobs.Scheduler                { return c.scheduler }

// Background job implementations

func (c *Container) cacheSweepJob(ctx context.Context) error {
	removed := c.memCache.Sweep()
	hits, misses := c.memCache.Stats()
	c.logger.Info("cache swept", "removed", removed, "entries", c.memCache.Len(), "hits", hits, "misses", misses)
	return nil
}

// cacheWarmJob precomputes the default dashboard views so the first request
// after a TTL expiry does not pay for the aggregation.
func (c *Container) cacheWarmJob(ctx context.Context) error {
	ids, err := c.clientRepo.ActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active clients: %w", err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := c.dashboard.KPIs(ctx, id, ""); err != nil {
			c.logger.Warn("kpi warm failed", "cliente_id", id, "error", err)
		}
		if _, err := c.dashboard.Series(ctx, dashboard.SeriesRequest{ClienteID: id}); err != nil {
			c.logger.Warn("series warm failed", "cliente_id", id, "error", err)
		}
	}

	c.logger.Info("cache warmed", "clients", len(ids))
	return nil
}
