package auth

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often expired session records are removed.
const DefaultSweepInterval = 5 * time.Minute

// ExpiredClaimsDeleter removes session records past their expiry.
type ExpiredClaimsDeleter interface {
	DeleteExpiredClaims(ctx context.Context) (int64, error)
}

// Sweeper periodically purges expired session records. Logins already
// overwrite stale rows, so the table is bounded by the number of distinct
// users either way; the sweep just keeps dead rows from lingering.
type Sweeper struct {
	creds    ExpiredClaimsDeleter
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a sweeper. A non-positive interval falls back to
// DefaultSweepInterval.
func NewSweeper(creds ExpiredClaimsDeleter, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		creds:    creds,
		interval: interval,
		logger:   logger.With("component", "sweeper"),
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.creds.DeleteExpiredClaims(ctx)
			if err != nil {
				s.logger.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}
