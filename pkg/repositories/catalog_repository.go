package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/basedosdados/catalog-engine/pkg/database"
	"github.com/basedosdados/catalog-engine/pkg/models"
)

// CatalogSnapshot is a point-in-time copy of the catalog data the scoring
// engine needs. It is loaded with a handful of set queries before the O(n²)
// scoring loop so that no per-pair reads happen during scoring.
type CatalogSnapshot struct {
	Datasets         map[uuid.UUID]*models.Dataset
	Tables           []*models.Table
	ColumnsByTable   map[uuid.UUID][]*models.Column
	CoveragesByTable map[uuid.UUID][]*models.Coverage
}

// CatalogRepository provides read access to the catalog metadata.
type CatalogRepository interface {
	// LoadSnapshot loads all tables with their datasets, columns (with
	// resolved directory dataset slugs) and table-owned coverages.
	LoadSnapshot(ctx context.Context) (*CatalogSnapshot, error)

	// GetTable fetches one table, or apperrors.ErrNotFound.
	GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error)

	// ListCoveragesForOwner returns the coverages (with nested date ranges)
	// attached to one resource.
	ListCoveragesForOwner(ctx context.Context, owner models.CoverageOwner) ([]*models.Coverage, error)
}

type catalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *database.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

var _ CatalogRepository = (*catalogRepository)(nil)

func (r *catalogRepository) LoadSnapshot(ctx context.Context) (*CatalogSnapshot, error) {
	snap := &CatalogSnapshot{
		Datasets:         make(map[uuid.UUID]*models.Dataset),
		ColumnsByTable:   make(map[uuid.UUID][]*models.Column),
		CoveragesByTable: make(map[uuid.UUID][]*models.Coverage),
	}

	if err := r.loadDatasets(ctx, snap); err != nil {
		return nil, err
	}
	if err := r.loadTables(ctx, snap); err != nil {
		return nil, err
	}
	if err := r.loadColumns(ctx, snap); err != nil {
		return nil, err
	}
	if err := r.loadTableCoverages(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *catalogRepository) loadDatasets(ctx context.Context, snap *CatalogSnapshot) error {
	query := `
		SELECT id, slug, name, page_views, created_at, updated_at
		FROM datasets`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Dataset
		if err := rows.Scan(&d.ID, &d.Slug, &d.Name, &d.PageViews, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan dataset row: %w", err)
		}
		snap.Datasets[d.ID] = &d
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating dataset rows: %w", err)
	}
	return nil
}

func (r *catalogRepository) loadTables(ctx context.Context, snap *CatalogSnapshot) error {
	query := `
		SELECT id, dataset_id, slug, name, status, is_directory, created_at, updated_at
		FROM tables`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.DatasetID, &t.Slug, &t.Name, &t.Status, &t.IsDirectory, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan table row: %w", err)
		}
		snap.Tables = append(snap.Tables, &t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating table rows: %w", err)
	}
	return nil
}

// loadColumns resolves, for every column referencing a directory primary
// key, the slug of the dataset owning the referenced directory table. The
// calendar-directory exclusion works on that slug.
func (r *catalogRepository) loadColumns(ctx context.Context, snap *CatalogSnapshot) error {
	query := `
		SELECT c.id, c.table_id, c.name, c.directory_primary_key_id, dd.slug,
		       c.created_at, c.updated_at
		FROM columns c
		LEFT JOIN columns pk ON pk.id = c.directory_primary_key_id
		LEFT JOIN tables dt ON dt.id = pk.table_id
		LEFT JOIN datasets dd ON dd.id = dt.dataset_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Column
		if err := rows.Scan(&c.ID, &c.TableID, &c.Name, &c.DirectoryPrimaryKeyID, &c.DirectoryDatasetSlug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan column row: %w", err)
		}
		snap.ColumnsByTable[c.TableID] = append(snap.ColumnsByTable[c.TableID], &c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating column rows: %w", err)
	}
	return nil
}

func (r *catalogRepository) loadTableCoverages(ctx context.Context, snap *CatalogSnapshot) error {
	coverages, err := r.queryCoverages(ctx, `WHERE owner_kind = 'table'`)
	if err != nil {
		return err
	}
	for _, cov := range coverages {
		snap.CoveragesByTable[cov.Owner.ID] = append(snap.CoveragesByTable[cov.Owner.ID], cov)
	}
	return nil
}

func (r *catalogRepository) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	query := `
		SELECT id, dataset_id, slug, name, status, is_directory, created_at, updated_at
		FROM tables
		WHERE id = $1`

	var t models.Table
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.DatasetID, &t.Slug, &t.Name, &t.Status, &t.IsDirectory, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("table", id)
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return &t, nil
}

func (r *catalogRepository) ListCoveragesForOwner(ctx context.Context, owner models.CoverageOwner) ([]*models.Coverage, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return r.queryCoverages(ctx, `WHERE owner_kind = $1 AND owner_id = $2`, string(owner.Kind), owner.ID)
}

// queryCoverages loads coverages matching the filter, then their date ranges
// in one pass.
func (r *catalogRepository) queryCoverages(ctx context.Context, filter string, args ...any) ([]*models.Coverage, error) {
	query := `
		SELECT id, owner_kind, owner_id, area_slug, is_closed, created_at, updated_at
		FROM coverages ` + filter

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverages: %w", err)
	}
	defer rows.Close()

	var coverages []*models.Coverage
	byID := make(map[uuid.UUID]*models.Coverage)
	for rows.Next() {
		var c models.Coverage
		if err := rows.Scan(&c.ID, &c.Owner.Kind, &c.Owner.ID, &c.AreaSlug, &c.IsClosed, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coverage row: %w", err)
		}
		coverages = append(coverages, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coverage rows: %w", err)
	}
	if len(coverages) == 0 {
		return coverages, nil
	}

	ids := make([]uuid.UUID, 0, len(coverages))
	for _, c := range coverages {
		ids = append(ids, c.ID)
	}

	rangeQuery := `
		SELECT id, coverage_id,
		       start_year, start_month, start_day, start_hour, start_minute, start_second,
		       end_year, end_month, end_day, end_hour, end_minute, end_second,
		       interval, is_closed, created_at, updated_at
		FROM datetime_ranges
		WHERE coverage_id = ANY($1)`

	rangeRows, err := r.db.Query(ctx, rangeQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query datetime ranges: %w", err)
	}
	defer rangeRows.Close()

	for rangeRows.Next() {
		var dr models.DateTimeRange
		err := rangeRows.Scan(
			&dr.ID, &dr.CoverageID,
			&dr.StartYear, &dr.StartMonth, &dr.StartDay, &dr.StartHour, &dr.StartMinute, &dr.StartSecond,
			&dr.EndYear, &dr.EndMonth, &dr.EndDay, &dr.EndHour, &dr.EndMinute, &dr.EndSecond,
			&dr.Interval, &dr.IsClosed, &dr.CreatedAt, &dr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan datetime range row: %w", err)
		}
		if cov, ok := byID[dr.CoverageID]; ok {
			cov.DateTimeRanges = append(cov.DateTimeRanges, &dr)
		}
	}
	if err := rangeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datetime range rows: %w", err)
	}

	return coverages, nil
}
