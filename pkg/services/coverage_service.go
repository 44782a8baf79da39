package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/models"
	"github.com/basedosdados/catalog-engine/pkg/repositories"
)

// CoverageReport bundles the three coverage aggregates of one resource.
type CoverageReport struct {
	Temporal     TemporalBounds  `json:"temporal"`
	FullTemporal []TimelinePoint `json:"full_temporal,omitempty"`
	Spatial      []string        `json:"spatial"`
}

// CoverageService exposes resource-level coverage aggregates.
type CoverageService interface {
	// TableCoverage builds the coverage report of one table.
	TableCoverage(ctx context.Context, tableID uuid.UUID) (*CoverageReport, error)

	// OwnerCoverage builds the coverage report of any coverage-bearing
	// resource.
	OwnerCoverage(ctx context.Context, owner models.CoverageOwner) (*CoverageReport, error)
}

type coverageService struct {
	catalogRepo repositories.CatalogRepository
	logger      *zap.Logger
}

// NewCoverageService creates a new CoverageService.
func NewCoverageService(catalogRepo repositories.CatalogRepository, logger *zap.Logger) CoverageService {
	return &coverageService{
		catalogRepo: catalogRepo,
		logger:      logger.Named("coverage-service"),
	}
}

var _ CoverageService = (*coverageService)(nil)

func (s *coverageService) TableCoverage(ctx context.Context, tableID uuid.UUID) (*CoverageReport, error) {
	if _, err := s.catalogRepo.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	return s.OwnerCoverage(ctx, models.TableOwner(tableID))
}

func (s *coverageService) OwnerCoverage(ctx context.Context, owner models.CoverageOwner) (*CoverageReport, error) {
	coverages, err := s.catalogRepo.ListCoveragesForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &CoverageReport{
		Temporal:     TemporalCoverage(coverages),
		FullTemporal: FullTemporalCoverage(coverages),
		Spatial:      SpatialCoverage(coverages),
	}, nil
}
