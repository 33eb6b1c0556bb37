package action

import (
	"context"
	"log/slog"
	"time"
)

func NewPruner(logger *slog.Logger, actionService *Service, interval time.Duration) *pruner {
	return &pruner{
		logger:        logger,
		actionService: actionService,
		interval:      interval,
	}
}

type pruner struct {
	logger        *slog.Logger
	actionService *Service
	interval      time.Duration
}

// Prune periodically deletes expired actions that were never activated.
// Expiry itself needs no transition, an expired key is rejected at read
// time; this loop only keeps the table from growing without bound.
func (p pruner) Prune(ctx context.Context) {
	for {
		time.Sleep(p.interval)

		deleted, err := p.actionService.DeleteExpired(ctx)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to prune expired actions", "error", err)
			continue
		}

		if deleted > 0 {
			p.logger.Info("Pruned expired actions", "count", deleted)
		}
	}
}
