package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harvest7777/personal-brand-intern-project/config"
)

// Pool wraps a gorm connection with applied pool limits and an optional
// background liveness check.
type Pool struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	stop   chan struct{}
}

// NewPool applies cfg's pool limits to db and returns the managed pool.
// When healthCheckInterval is positive a background goroutine pings the
// database at that interval and logs failures.
func NewPool(db *gorm.DB, cfg config.DatabaseConfig, healthCheckInterval time.Duration, logger *zap.Logger) (*Pool, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	p := &Pool{
		db:     db,
		sqlDB:  sqlDB,
		logger: logger.With(zap.String("component", "db_pool")),
		stop:   make(chan struct{}),
	}

	if healthCheckInterval > 0 {
		go p.healthCheckLoop(healthCheckInterval)
	}

	p.logger.Info("database pool initialized",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
	)

	return p, nil
}

// DB returns the managed gorm handle.
func (p *Pool) DB() *gorm.DB {
	return p.db
}

// Ping checks connectivity.
func (p *Pool) Ping(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("pool is closed")
	}
	return p.sqlDB.PingContext(ctx)
}

// Stats reports the sql connection pool counters.
func (p *Pool) Stats() sql.DBStats {
	return p.sqlDB.Stats()
}

// Close stops the health check loop and closes the pool. Closing twice is a
// no-op.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.stop)
	return p.sqlDB.Close()
}

func (p *Pool) healthCheckLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := p.Ping(ctx); err != nil {
				p.logger.Error("database health check failed", zap.Error(err))
			}
			cancel()
		}
	}
}
