package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
)

// TokenJanitor periodically purges expired refresh tokens.
type TokenJanitor struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	interval    time.Duration
	now         func() time.Time
}

func NewTokenJanitor(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, interval time.Duration) *TokenJanitor {
	return &TokenJanitor{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "token_janitor"),
		interval:    interval,
		now:         time.Now,
	}
}

// Sweep deletes expired tokens once and returns how many were removed.
func (j *TokenJanitor) Sweep(ctx context.Context) (int64, error) {
	n, err := j.repomanager.RefreshTokens(j.db).DeleteExpired(ctx, j.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.logger.Info(ctx, "expired refresh tokens purged", "count", n)
	}
	return n, nil
}

// Run sweeps every interval until ctx is done.
func (j *TokenJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.logger.Error(ctx, "failed to purge refresh tokens", "error", err)
			}
		}
	}
}
