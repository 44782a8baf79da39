package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Table Status
// ============================================================================

// TableStatus represents the lifecycle stage of a catalog table.
type TableStatus string

const (
	TableStatusUnderReview TableStatus = "under_review"
	TableStatusPublished   TableStatus = "published"
	TableStatusDeprecated  TableStatus = "deprecated"
)

// ValidTableStatuses contains all valid table status values.
var ValidTableStatuses = []TableStatus{
	TableStatusUnderReview,
	TableStatusPublished,
	TableStatusDeprecated,
}

// IsValidTableStatus checks if the given status is valid.
func IsValidTableStatus(s TableStatus) bool {
	for _, v := range ValidTableStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ============================================================================
// Table
// ============================================================================

// DatasetSlugDateTimeDirectory is the dataset holding the calendar directory.
// Nearly every table joins it, so columns pointing into it are excluded from
// directory-key sets to avoid making all tables spuriously similar.
const DatasetSlugDateTimeDirectory = "diretorios_data_tempo"

// Table is a catalog table. IsDirectory marks dictionary/reference tables
// (municipalities, currencies, ...) that other tables join against; they are
// never scored as neighbor candidates themselves.
type Table struct {
	ID          uuid.UUID   `json:"id"`
	DatasetID   uuid.UUID   `json:"dataset_id"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Status      TableStatus `json:"status"`
	IsDirectory bool        `json:"is_directory"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ============================================================================
// Column
// ============================================================================

// Column is a column of a catalog table. DirectoryPrimaryKeyID, when set,
// points at the primary-key column of a directory table, marking this column
// as a foreign-key-like reference into that directory.
type Column struct {
	ID      uuid.UUID `json:"id"`
	TableID uuid.UUID `json:"table_id"`
	Name    string    `json:"name"`

	DirectoryPrimaryKeyID *uuid.UUID `json:"directory_primary_key_id,omitempty"`

	// DirectoryDatasetSlug is the slug of the dataset owning the referenced
	// directory table (populated by join queries, not stored on this row).
	DirectoryDatasetSlug *string `json:"directory_dataset_slug,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDirectoryKey reports whether the column references a directory table,
// excluding the calendar directory.
func (c *Column) IsDirectoryKey() bool {
	if c.DirectoryPrimaryKeyID == nil {
		return false
	}
	if c.DirectoryDatasetSlug != nil && *c.DirectoryDatasetSlug == DatasetSlugDateTimeDirectory {
		return false
	}
	return true
}
