package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
)

func TestTableNeighborScore(t *testing.T) {
	n := TableNeighbor{
		SimilarityOfArea:       1,
		SimilarityOfDatetime:   1,
		SimilarityOfDirectory:  1.0,
		SimilarityOfPopularity: 3.0,
	}
	// Area and datetime are gates, not score contributors.
	if got := n.Score(); got != 4.0 {
		t.Errorf("Score() = %v, want 4.0", got)
	}

	rounded := TableNeighbor{
		SimilarityOfDirectory:  0.333333,
		SimilarityOfPopularity: 3.14159,
	}
	if want := 0.33 + 3.14; rounded.Score() != want {
		t.Errorf("Score() = %v, want %v", rounded.Score(), want)
	}
}

func TestTableNeighborValidate(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ok := TableNeighbor{TableAID: a, TableBID: b}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	self := TableNeighbor{TableAID: a, TableBID: a}
	if err := self.Validate(); !errors.Is(err, apperrors.ErrSelfNeighbor) {
		t.Errorf("Validate() on self pair = %v, want ErrSelfNeighbor", err)
	}
}

func TestDatasetPopularity(t *testing.T) {
	tests := []struct {
		name      string
		pageViews int64
		expected  float64
	}{
		{name: "thousand views", pageViews: 1000, expected: 3.0},
		{name: "single view", pageViews: 1, expected: 0.0},
		{name: "no views", pageViews: 0, expected: 0.0},
		{name: "negative counter", pageViews: -5, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dataset{PageViews: tt.pageViews}
			if got := d.Popularity(); got != tt.expected {
				t.Errorf("Popularity() = %v, want %v", got, tt.expected)
			}
		})
	}
}
