package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
	"github.com/basedosdados/catalog-engine/pkg/config"
	"github.com/basedosdados/catalog-engine/pkg/models"
	"github.com/basedosdados/catalog-engine/pkg/repositories"
	"github.com/basedosdados/catalog-engine/pkg/services/workqueue"
)

// RefreshStatus describes the current (or last) full refresh batch.
type RefreshStatus struct {
	Running  bool               `json:"running"`
	Progress workqueue.Progress `json:"progress"`
}

// NeighborService owns the table-neighbor lifecycle: the full recompute
// batch and the read surfaces over persisted rows.
type NeighborService interface {
	// RefreshAll recomputes and replaces the neighbor rows of every table
	// in the catalog. It blocks until the batch finishes. A table that
	// fails to process is logged and skipped; the batch keeps going.
	RefreshAll(ctx context.Context) error

	// StartRefresh launches RefreshAll in the background. Returns
	// apperrors.ErrRefreshInFlight when a batch is already running.
	StartRefresh(ctx context.Context) error

	// Status reports progress of the current or most recent batch.
	Status() RefreshStatus

	// ListByTable returns all neighbor rows for a source table, unsorted.
	ListByTable(ctx context.Context, tableID uuid.UUID) ([]*models.TableNeighbor, error)

	// ListRelated returns the top neighbor rows for a source table sorted
	// by descending score. limit <= 0 falls back to the configured cap.
	ListRelated(ctx context.Context, tableID uuid.UUID, limit int) ([]*models.TableNeighbor, error)
}

type neighborService struct {
	catalogRepo  repositories.CatalogRepository
	neighborRepo repositories.TableNeighborRepository
	cfg          config.NeighborsConfig
	logger       *zap.Logger

	mu      sync.Mutex
	running bool
	queue   *workqueue.Queue
}

// NewNeighborService creates a new NeighborService.
func NewNeighborService(
	catalogRepo repositories.CatalogRepository,
	neighborRepo repositories.TableNeighborRepository,
	cfg config.NeighborsConfig,
	logger *zap.Logger,
) NeighborService {
	return &neighborService{
		catalogRepo:  catalogRepo,
		neighborRepo: neighborRepo,
		cfg:          cfg,
		logger:       logger.Named("neighbor-service"),
	}
}

var _ NeighborService = (*neighborService)(nil)

func (s *neighborService) RefreshAll(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return apperrors.ErrRefreshInFlight
	}
	s.running = true
	queue := workqueue.New(s.logger, workqueue.WithStrategy(
		workqueue.NewThrottledStrategy(s.cfg.Workers)))
	s.queue = queue
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if timeout := s.cfg.JobTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	snap, err := s.catalogRepo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load catalog snapshot: %w", err)
	}

	entries := BuildEntries(snap)
	s.logger.Info("starting neighbor refresh",
		zap.Int("tables", len(entries)),
		zap.Int("workers", s.cfg.Workers))

	// Every table is a source, including tables that will produce no
	// neighbors: replacing with an empty set clears stale rows when a
	// table's coverages or directory columns changed.
	for _, entry := range entries {
		source := entry
		queue.Enqueue(workqueue.NewFuncTask(
			fmt.Sprintf("neighbors:%s", source.Table.Slug),
			func(taskCtx context.Context) error {
				return s.refreshTable(taskCtx, source, entries)
			},
		))
	}

	if err := queue.Wait(ctx); err != nil {
		return fmt.Errorf("neighbor refresh aborted: %w", err)
	}

	progress := queue.Progress()
	if progress.Failed > 0 {
		// Fail open: failed tables are reported but do not fail the batch.
		for _, t := range queue.FailedTasks() {
			s.logger.Warn("table skipped during neighbor refresh",
				zap.String("task", t.Name),
				zap.String("error", t.Error))
		}
	}
	s.logger.Info("neighbor refresh finished",
		zap.Int("completed", progress.Completed),
		zap.Int("failed", progress.Failed))
	return nil
}

func (s *neighborService) refreshTable(ctx context.Context, source *TableEntry, universe []*TableEntry) error {
	candidates := GenerateNeighbors(source, universe)

	rows := make([]*models.TableNeighbor, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, c.Row())
	}

	if err := s.neighborRepo.ReplaceForTable(ctx, source.Table.ID, rows); err != nil {
		return fmt.Errorf("replace neighbors for table %s: %w", source.Table.Slug, err)
	}
	return nil
}

func (s *neighborService) StartRefresh(ctx context.Context) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		return apperrors.ErrRefreshInFlight
	}

	go func() {
		// Detach from the request context; the batch owns its own deadline.
		if err := s.RefreshAll(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("background neighbor refresh failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *neighborService) Status() RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := RefreshStatus{Running: s.running}
	if s.queue != nil {
		status.Progress = s.queue.Progress()
	}
	return status
}

func (s *neighborService) ListByTable(ctx context.Context, tableID uuid.UUID) ([]*models.TableNeighbor, error) {
	if _, err := s.catalogRepo.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	return s.neighborRepo.ListByTable(ctx, tableID)
}

func (s *neighborService) ListRelated(ctx context.Context, tableID uuid.UUID, limit int) ([]*models.TableNeighbor, error) {
	if _, err := s.catalogRepo.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.TopN
	}
	return s.neighborRepo.ListTopByTable(ctx, tableID, limit)
}
