package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basedosdados/catalog-engine/pkg/models"
)

func TestTemporalCoverage(t *testing.T) {
	t.Run("min since and max until across coverages", func(t *testing.T) {
		coverages := []*models.Coverage{
			coverage("br", yearRange(2010, 2015)),
			coverage("br_sp", yearRange(2005, 2012), yearRange(2018, 2020)),
		}

		bounds := TemporalCoverage(coverages)
		require.NotNil(t, bounds.Start)
		require.NotNil(t, bounds.End)
		assert.Equal(t, "2005", *bounds.Start)
		assert.Equal(t, "2020", *bounds.End)
	})

	t.Run("granularity follows the winning range", func(t *testing.T) {
		monthly := &models.DateTimeRange{
			StartYear: intPtr(2001), StartMonth: intPtr(3),
			EndYear: intPtr(2030), EndMonth: intPtr(6), EndDay: intPtr(30),
		}
		coverages := []*models.Coverage{
			coverage("br", yearRange(2010, 2020)),
			coverage("br", monthly),
		}

		bounds := TemporalCoverage(coverages)
		require.NotNil(t, bounds.Start)
		require.NotNil(t, bounds.End)
		assert.Equal(t, "2001-03", *bounds.Start)
		assert.Equal(t, "2030-06-30", *bounds.End)
	})

	t.Run("no coverage data", func(t *testing.T) {
		bounds := TemporalCoverage(nil)
		assert.Nil(t, bounds.Start)
		assert.Nil(t, bounds.End)
	})

	t.Run("unresolvable ranges contribute nothing", func(t *testing.T) {
		coverages := []*models.Coverage{
			coverage("br", &models.DateTimeRange{}),
			coverage("br"),
		}
		bounds := TemporalCoverage(coverages)
		assert.Nil(t, bounds.Start)
		assert.Nil(t, bounds.End)
	})
}

func TestFullTemporalCoverage(t *testing.T) {
	t.Run("open only", func(t *testing.T) {
		points := FullTemporalCoverage([]*models.Coverage{
			coverage("br", yearRange(2010, 2020)),
		})
		assert.Equal(t, []TimelinePoint{
			{Date: "2010", Type: TimelineOpen},
			{Date: "2020", Type: TimelineOpen},
		}, points)
	})

	t.Run("closed only", func(t *testing.T) {
		points := FullTemporalCoverage([]*models.Coverage{
			closedCoverage("br", yearRange(2015, 2023)),
		})
		assert.Equal(t, []TimelinePoint{
			{Date: "2015", Type: TimelineClosed},
			{Date: "2023", Type: TimelineClosed},
		}, points)
	})

	t.Run("open then closed uses closed start as boundary", func(t *testing.T) {
		points := FullTemporalCoverage([]*models.Coverage{
			coverage("br", yearRange(2010, 2018)),
			closedCoverage("br", yearRange(2019, 2023)),
		})
		assert.Equal(t, []TimelinePoint{
			{Date: "2010", Type: TimelineOpen},
			{Date: "2019", Type: TimelineOpen},
			{Date: "2023", Type: TimelineClosed},
		}, points)
	})

	t.Run("closed start missing falls back to open end", func(t *testing.T) {
		closedEndOnly := closedCoverage("br", &models.DateTimeRange{EndYear: intPtr(2023)})
		points := FullTemporalCoverage([]*models.Coverage{
			coverage("br", yearRange(2010, 2018)),
			closedEndOnly,
		})
		assert.Equal(t, []TimelinePoint{
			{Date: "2010", Type: TimelineOpen},
			{Date: "2018", Type: TimelineOpen},
			{Date: "2023", Type: TimelineClosed},
		}, points)
	})

	t.Run("incomplete series yields nothing", func(t *testing.T) {
		openStartOnly := coverage("br", &models.DateTimeRange{StartYear: intPtr(2010)})
		assert.Nil(t, FullTemporalCoverage([]*models.Coverage{openStartOnly}))
		assert.Nil(t, FullTemporalCoverage(nil))
	})
}

func TestSpatialCoverage(t *testing.T) {
	tests := []struct {
		name     string
		areas    []string
		expected []string
	}{
		{
			name:     "duplicates collapse",
			areas:    []string{"br_mg_3106200", "br_mg_3106200"},
			expected: []string{"br_mg_3106200"},
		},
		{
			name:     "world subsumes everything",
			areas:    []string{"world", "br_mg"},
			expected: []string{"world"},
		},
		{
			name:     "child subsumes parent",
			areas:    []string{"br_mg", "br_mg_3106200"},
			expected: []string{"br_mg_3106200"},
		},
		{
			name:     "siblings both kept sorted",
			areas:    []string{"br_sp", "br_mg"},
			expected: []string{"br_mg", "br_sp"},
		},
		{
			name:     "deep chain keeps leaf",
			areas:    []string{"br", "br_mg", "br_mg_3106200"},
			expected: []string{"br_mg_3106200"},
		},
		{
			name:     "empty input",
			areas:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var coverages []*models.Coverage
			for _, area := range tt.areas {
				coverages = append(coverages, coverage(area))
			}
			assert.Equal(t, tt.expected, SpatialCoverage(coverages))
		})
	}
}
