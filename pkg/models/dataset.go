package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Dataset groups tables under a catalog slug and carries the page-view
// counter that feeds the popularity scoring dimension.
type Dataset struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	PageViews int64     `json:"page_views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Popularity is log10 of the dataset's page-view count, or 0 when the
// dataset has fewer than one recorded view.
func (d *Dataset) Popularity() float64 {
	if d.PageViews < 1 {
		return 0
	}
	return math.Log10(float64(d.PageViews))
}
