package services

import (
	"github.com/google/uuid"

	"github.com/basedosdados/catalog-engine/pkg/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

// yearRange builds a range covering [start, end] at year granularity.
func yearRange(start, end int) *models.DateTimeRange {
	return &models.DateTimeRange{
		ID:        uuid.New(),
		StartYear: intPtr(start),
		EndYear:   intPtr(end),
	}
}

// coverage builds a table-owned coverage with an optional area and ranges.
func coverage(area string, ranges ...*models.DateTimeRange) *models.Coverage {
	cov := &models.Coverage{
		ID:             uuid.New(),
		Owner:          models.TableOwner(uuid.New()),
		DateTimeRanges: ranges,
	}
	if area != "" {
		cov.AreaSlug = strPtr(area)
	}
	return cov
}

// closedCoverage is coverage() with the paid-data flag set.
func closedCoverage(area string, ranges ...*models.DateTimeRange) *models.Coverage {
	cov := coverage(area, ranges...)
	cov.IsClosed = true
	return cov
}

// directoryColumn builds a column referencing the given directory primary
// key, owned by a directory table in the dataset with the given slug.
func directoryColumn(name string, directoryPK uuid.UUID, directoryDataset string) *models.Column {
	return &models.Column{
		ID:                    uuid.New(),
		Name:                  name,
		DirectoryPrimaryKeyID: &directoryPK,
		DirectoryDatasetSlug:  strPtr(directoryDataset),
	}
}

// plainColumn builds a column with no directory reference.
func plainColumn(name string) *models.Column {
	return &models.Column{ID: uuid.New(), Name: name}
}

// entry builds a TableEntry for scoring tests.
func entry(slug string, status models.TableStatus, isDirectory bool, dataset *models.Dataset, columns []*models.Column, coverages []*models.Coverage) *TableEntry {
	tableID := uuid.New()
	for _, col := range columns {
		col.TableID = tableID
	}
	return &TableEntry{
		Table: &models.Table{
			ID:          tableID,
			Slug:        slug,
			Status:      status,
			IsDirectory: isDirectory,
		},
		Dataset:   dataset,
		Columns:   columns,
		Coverages: coverages,
	}
}
