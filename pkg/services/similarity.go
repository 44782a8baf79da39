package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/basedosdados/catalog-engine/pkg/models"
)

// Similarity primitives are binary per-coverage-pair predicates. Each returns
// (value, ok); ok is false when the pair carries no signal at all (missing
// area, no resolvable dates). The table-level aggregators fold no-signal
// pairs into 0 so that observable scores stay in [0, 1], but the distinction
// is kept at this level.

// areaSimilarity returns 1 when either coverage's area slug is a string
// prefix of the other's. This is a deliberate coarse heuristic on the raw
// slug, not slug-segment ancestry.
func areaSimilarity(a, b *models.Coverage) (float64, bool) {
	areaA, areaB := a.Area(), b.Area()
	if areaA == "" || areaB == "" {
		return 0, false
	}
	if strings.HasPrefix(areaA, areaB) || strings.HasPrefix(areaB, areaA) {
		return 1, true
	}
	return 0, true
}

// datetimeSimilarity returns 1 when any date-range pair (one range from each
// coverage) is non-disjoint: a.since <= b.until or a.until >= b.since. Pairs
// whose endpoints do not resolve carry no signal.
func datetimeSimilarity(a, b *models.Coverage) (float64, bool) {
	signal := false
	for _, ra := range a.DateTimeRanges {
		aSince, aUntil := ra.Since(), ra.Until()
		for _, rb := range b.DateTimeRanges {
			bSince, bUntil := rb.Since(), rb.Until()

			if aSince != nil && bUntil != nil {
				signal = true
				if !aSince.After(*bUntil) {
					return 1, true
				}
			}
			if aUntil != nil && bSince != nil {
				signal = true
				if !aUntil.Before(*bSince) {
					return 1, true
				}
			}
		}
	}
	return 0, signal
}

// AreaSimilarity averages the per-pair area predicate over the cartesian
// product of the two tables' coverage sets. Zero coverages on either side
// yields 0.
func AreaSimilarity(a, b []*models.Coverage) float64 {
	return averagePairs(a, b, areaSimilarity)
}

// DatetimeSimilarity averages the per-pair datetime predicate over the
// cartesian product of the two tables' coverage sets. Zero coverages on
// either side yields 0.
func DatetimeSimilarity(a, b []*models.Coverage) float64 {
	return averagePairs(a, b, datetimeSimilarity)
}

// averagePairs rewards coverage sets that broadly overlap without requiring
// any bijection between individual coverage records.
func averagePairs(a, b []*models.Coverage, pred func(a, b *models.Coverage) (float64, bool)) float64 {
	total := len(a) * len(b)
	if total == 0 {
		return 0
	}

	var sum float64
	for _, covA := range a {
		for _, covB := range b {
			v, _ := pred(covA, covB)
			sum += v
		}
	}
	return sum / float64(total)
}

// DirectoryKeySet returns the table's directory keys: columns referencing a
// directory table's primary key, keyed by the referenced column id. Columns
// pointing into the calendar directory dataset are excluded.
func DirectoryKeySet(columns []*models.Column) map[uuid.UUID]*models.Column {
	keys := make(map[uuid.UUID]*models.Column)
	for _, col := range columns {
		if col.IsDirectoryKey() {
			keys[*col.DirectoryPrimaryKeyID] = col
		}
	}
	return keys
}

// DirectorySimilarity measures structural overlap between two tables as
// |dir(a) ∩ dir(b)| / |dir(a)|, together with a's columns in the
// intersection (surfaced as the "why are these related" explanation).
//
// The normalization is by the source table's key-set size, not the union or
// the smaller set, so the relation is deliberately non-commutative: the two
// directions of a pair can score differently and both are persisted.
// An empty source set yields (0, nil).
func DirectorySimilarity(a, b []*models.Column) (float64, []*models.Column) {
	setA := DirectoryKeySet(a)
	if len(setA) == 0 {
		return 0, nil
	}
	setB := DirectoryKeySet(b)

	var shared []*models.Column
	for key, col := range setA {
		if _, ok := setB[key]; ok {
			shared = append(shared, col)
		}
	}
	return float64(len(shared)) / float64(len(setA)), shared
}
