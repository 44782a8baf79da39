package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
)

// RefreshScheduler triggers the full neighbor recompute on a fixed interval.
// It shares the NeighborService's single-flight guard with the admin
// endpoint: a tick during a running batch is skipped, not queued.
type RefreshScheduler struct {
	service  NeighborService
	interval time.Duration
	logger   *zap.Logger
}

// NewRefreshScheduler creates a scheduler. A non-positive interval disables it.
func NewRefreshScheduler(service NeighborService, interval time.Duration, logger *zap.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		service:  service,
		interval: interval,
		logger:   logger.Named("refresh-scheduler"),
	}
}

// Run blocks, refreshing on every tick until ctx is cancelled. It returns
// immediately when the scheduler is disabled.
func (s *RefreshScheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("periodic neighbor refresh disabled")
		return
	}

	s.logger.Info("periodic neighbor refresh enabled", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.service.RefreshAll(ctx)
			switch {
			case err == nil:
			case errors.Is(err, apperrors.ErrRefreshInFlight):
				s.logger.Warn("skipping scheduled refresh, batch still running")
			case errors.Is(err, context.Canceled):
				return
			default:
				s.logger.Error("scheduled neighbor refresh failed", zap.Error(err))
			}
		}
	}
}
