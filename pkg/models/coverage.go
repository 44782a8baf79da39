package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
)

// ============================================================================
// Coverage Owner
// ============================================================================

// CoverageOwnerKind identifies which resource type a coverage is attached to.
type CoverageOwnerKind string

const (
	OwnerTable              CoverageOwnerKind = "table"
	OwnerColumn             CoverageOwnerKind = "column"
	OwnerRawDataSource      CoverageOwnerKind = "raw_data_source"
	OwnerInformationRequest CoverageOwnerKind = "information_request"
	OwnerKey                CoverageOwnerKind = "key"
	OwnerAnalysis           CoverageOwnerKind = "analysis"
)

// ValidCoverageOwnerKinds contains all valid owner kinds.
var ValidCoverageOwnerKinds = []CoverageOwnerKind{
	OwnerTable,
	OwnerColumn,
	OwnerRawDataSource,
	OwnerInformationRequest,
	OwnerKey,
	OwnerAnalysis,
}

// IsValidCoverageOwnerKind checks if the given kind is valid.
func IsValidCoverageOwnerKind(k CoverageOwnerKind) bool {
	for _, v := range ValidCoverageOwnerKinds {
		if v == k {
			return true
		}
	}
	return false
}

// CoverageOwner is the single resource a coverage belongs to. Exactly one
// owner exists per coverage; the kind+id pair replaces the one-of-many
// nullable foreign keys of the storage layer.
type CoverageOwner struct {
	Kind CoverageOwnerKind `json:"kind"`
	ID   uuid.UUID         `json:"id"`
}

// TableOwner builds a CoverageOwner for a table resource.
func TableOwner(id uuid.UUID) CoverageOwner {
	return CoverageOwner{Kind: OwnerTable, ID: id}
}

// ColumnOwner builds a CoverageOwner for a column resource.
func ColumnOwner(id uuid.UUID) CoverageOwner {
	return CoverageOwner{Kind: OwnerColumn, ID: id}
}

// Validate checks that the owner names a known resource kind and id.
func (o CoverageOwner) Validate() error {
	if !IsValidCoverageOwnerKind(o.Kind) {
		return fmt.Errorf("%w: unknown owner kind %q", apperrors.ErrInvalidCoverage, o.Kind)
	}
	if o.ID == uuid.Nil {
		return fmt.Errorf("%w: owner id is nil", apperrors.ErrInvalidCoverage)
	}
	return nil
}

// ============================================================================
// Coverage
// ============================================================================

// Coverage is one spatial/temporal scope of a resource. AreaSlug is a
// hierarchical area reference like "br_mg_3106200" ("world" covers
// everything); IsClosed marks paid/restricted data.
type Coverage struct {
	ID       uuid.UUID     `json:"id"`
	Owner    CoverageOwner `json:"owner"`
	AreaSlug *string       `json:"area_slug,omitempty"`
	IsClosed bool          `json:"is_closed"`

	DateTimeRanges []*DateTimeRange `json:"datetime_ranges,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the coverage has a well-formed owner.
func (c *Coverage) Validate() error {
	return c.Owner.Validate()
}

// Area returns the area slug, or "" when none is set.
func (c *Coverage) Area() string {
	if c.AreaSlug == nil {
		return ""
	}
	return *c.AreaSlug
}

// ============================================================================
// DateTimeRange
// ============================================================================

// DateTimeRange is a half-specified date interval. Every start/end component
// is independently optional; a range with no start year resolves to no Since
// and contributes nothing to temporal aggregates.
type DateTimeRange struct {
	ID         uuid.UUID `json:"id"`
	CoverageID uuid.UUID `json:"coverage_id"`

	StartYear   *int `json:"start_year,omitempty"`
	StartMonth  *int `json:"start_month,omitempty"`
	StartDay    *int `json:"start_day,omitempty"`
	StartHour   *int `json:"start_hour,omitempty"`
	StartMinute *int `json:"start_minute,omitempty"`
	StartSecond *int `json:"start_second,omitempty"`

	EndYear   *int `json:"end_year,omitempty"`
	EndMonth  *int `json:"end_month,omitempty"`
	EndDay    *int `json:"end_day,omitempty"`
	EndHour   *int `json:"end_hour,omitempty"`
	EndMinute *int `json:"end_minute,omitempty"`
	EndSecond *int `json:"end_second,omitempty"`

	// Interval is the periodicity in years between data points (0 = none).
	Interval int `json:"interval"`

	// IsClosed mirrors the parent coverage's open/closed flag.
	IsClosed bool `json:"is_closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Since returns the first fully-resolved datetime of the range, defaulting
// missing month/day to 1 and time-of-day components to 0. Nil when the start
// year is unset.
func (r *DateTimeRange) Since() *time.Time {
	return resolve(r.StartYear, r.StartMonth, r.StartDay, r.StartHour, r.StartMinute, r.StartSecond)
}

// Until returns the last fully-resolved datetime of the range, with the same
// defaulting as Since. Nil when the end year is unset.
func (r *DateTimeRange) Until() *time.Time {
	return resolve(r.EndYear, r.EndMonth, r.EndDay, r.EndHour, r.EndMinute, r.EndSecond)
}

// SinceString renders the range start at the finest granularity whose
// components are all populated: "2020", "2020-06" or "2020-06-15".
// Empty when the start year is unset.
func (r *DateTimeRange) SinceString() string {
	return render(r.StartYear, r.StartMonth, r.StartDay)
}

// UntilString renders the range end, see SinceString.
func (r *DateTimeRange) UntilString() string {
	return render(r.EndYear, r.EndMonth, r.EndDay)
}

// Validate checks that a fully-specified range is ordered.
func (r *DateTimeRange) Validate() error {
	since, until := r.Since(), r.Until()
	if since != nil && until != nil && since.After(*until) {
		return fmt.Errorf("%w: %s > %s", apperrors.ErrInvalidDateRange, r.SinceString(), r.UntilString())
	}
	return nil
}

func resolve(year, month, day, hour, minute, second *int) *time.Time {
	if year == nil {
		return nil
	}
	t := time.Date(
		*year,
		time.Month(orDefault(month, 1)),
		orDefault(day, 1),
		orDefault(hour, 0),
		orDefault(minute, 0),
		orDefault(second, 0),
		0, time.UTC,
	)
	return &t
}

func render(year, month, day *int) string {
	switch {
	case year != nil && month != nil && day != nil:
		return fmt.Sprintf("%04d-%02d-%02d", *year, *month, *day)
	case year != nil && month != nil:
		return fmt.Sprintf("%04d-%02d", *year, *month)
	case year != nil:
		return fmt.Sprintf("%04d", *year)
	default:
		return ""
	}
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
