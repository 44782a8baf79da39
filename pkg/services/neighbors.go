package services

import (
	"github.com/google/uuid"

	"github.com/basedosdados/catalog-engine/pkg/models"
	"github.com/basedosdados/catalog-engine/pkg/repositories"
)

// TableEntry bundles a table with its dataset, columns and coverages from a
// catalog snapshot. All scoring reads go through entries; the database is
// never touched inside the scoring loop.
type TableEntry struct {
	Table     *models.Table
	Dataset   *models.Dataset
	Columns   []*models.Column
	Coverages []*models.Coverage
}

// HasDirectoryColumn reports whether any column references a directory
// primary key. Unlike DirectoryKeySet this does not exclude the calendar
// directory; it is the raw candidate prefilter.
func (e *TableEntry) HasDirectoryColumn() bool {
	for _, col := range e.Columns {
		if col.DirectoryPrimaryKeyID != nil {
			return true
		}
	}
	return false
}

// Popularity returns the owning dataset's popularity, 0 when the dataset is
// unknown.
func (e *TableEntry) Popularity() float64 {
	if e.Dataset == nil {
		return 0
	}
	return e.Dataset.Popularity()
}

// BuildEntries assembles snapshot rows into per-table entries.
func BuildEntries(snap *repositories.CatalogSnapshot) []*TableEntry {
	entries := make([]*TableEntry, 0, len(snap.Tables))
	for _, t := range snap.Tables {
		entries = append(entries, &TableEntry{
			Table:     t,
			Dataset:   snap.Datasets[t.DatasetID],
			Columns:   snap.ColumnsByTable[t.ID],
			Coverages: snap.CoveragesByTable[t.ID],
		})
	}
	return entries
}

// NeighborCandidate is one scored candidate pair, including the shared
// directory columns that explain why the tables are related.
type NeighborCandidate struct {
	Source        *TableEntry
	Candidate     *TableEntry
	AreaScore     float64
	DatetimeScore float64
	DirScore      float64
	Popularity    float64
	SharedColumns []*models.Column
}

// Row converts the candidate to its persisted form.
func (c *NeighborCandidate) Row() *models.TableNeighbor {
	return &models.TableNeighbor{
		ID:                     uuid.New(),
		TableAID:               c.Source.Table.ID,
		TableBID:               c.Candidate.Table.ID,
		SimilarityOfArea:       c.AreaScore,
		SimilarityOfDatetime:   c.DatetimeScore,
		SimilarityOfDirectory:  c.DirScore,
		SimilarityOfPopularity: c.Popularity,
	}
}

// GenerateNeighbors scores every eligible candidate table against the
// source and returns the survivors, unsorted. Ranking happens at the read
// layer.
//
// Candidates are the tables that are not the source itself, are not
// directory tables, are not under review, and carry at least one directory
// column. A candidate survives only when all three similarity dimensions
// (area, datetime, directory) show some positive signal; area and datetime
// then act purely as gates, while directory similarity and dataset
// popularity make up the ranking score.
//
// Missing data never aborts scoring: a pair with no coverages or no shared
// keys scores 0 on that dimension and the gate excludes it.
func GenerateNeighbors(source *TableEntry, universe []*TableEntry) []*NeighborCandidate {
	if len(DirectoryKeySet(source.Columns)) == 0 {
		return nil
	}

	var out []*NeighborCandidate
	for _, cand := range universe {
		if cand.Table.ID == source.Table.ID {
			continue
		}
		if cand.Table.IsDirectory {
			continue
		}
		if cand.Table.Status == models.TableStatusUnderReview {
			continue
		}
		if !cand.HasDirectoryColumn() {
			continue
		}

		areaScore := AreaSimilarity(source.Coverages, cand.Coverages)
		datetimeScore := DatetimeSimilarity(source.Coverages, cand.Coverages)
		dirScore, shared := DirectorySimilarity(source.Columns, cand.Columns)

		if areaScore == 0 || datetimeScore == 0 || dirScore == 0 {
			continue
		}

		out = append(out, &NeighborCandidate{
			Source:        source,
			Candidate:     cand,
			AreaScore:     areaScore,
			DatetimeScore: datetimeScore,
			DirScore:      dirScore,
			Popularity:    cand.Popularity(),
			SharedColumns: shared,
		})
	}
	return out
}
