package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
	"github.com/basedosdados/catalog-engine/pkg/database"
	"github.com/basedosdados/catalog-engine/pkg/models"
)

// TableNeighborRepository provides data access for scored neighbor rows.
// The scoring engine owns these rows: writes go through ReplaceForTable,
// which swaps a table's full neighbor set atomically.
type TableNeighborRepository interface {
	// ReplaceForTable deletes every neighbor row with the given source table
	// and inserts rows in a single transaction. Calling it twice with the
	// same input leaves the same stored rows; rows is allowed to be empty,
	// which clears the table's neighbors.
	ReplaceForTable(ctx context.Context, tableID uuid.UUID, rows []*models.TableNeighbor) error

	// ListByTable returns all neighbor rows for a source table, unsorted.
	ListByTable(ctx context.Context, tableID uuid.UUID) ([]*models.TableNeighbor, error)

	// ListTopByTable returns neighbor rows for a source table sorted by
	// descending score, capped to limit.
	ListTopByTable(ctx context.Context, tableID uuid.UUID, limit int) ([]*models.TableNeighbor, error)
}

type tableNeighborRepository struct {
	db *database.DB
}

// NewTableNeighborRepository creates a new TableNeighborRepository.
func NewTableNeighborRepository(db *database.DB) TableNeighborRepository {
	return &tableNeighborRepository{db: db}
}

var _ TableNeighborRepository = (*tableNeighborRepository)(nil)

const neighborColumns = `
	id, table_a_id, table_b_id,
	similarity_of_area, similarity_of_datetime,
	similarity_of_directory, similarity_of_popularity,
	created_at, updated_at`

// scoreExpr mirrors TableNeighbor.Score for SQL-side ordering.
const scoreExpr = `round(similarity_of_directory::numeric, 2) + round(similarity_of_popularity::numeric, 2)`

func (r *tableNeighborRepository) ReplaceForTable(ctx context.Context, tableID uuid.UUID, rows []*models.TableNeighbor) error {
	now := time.Now()
	for _, n := range rows {
		if err := n.Validate(); err != nil {
			return err
		}
		if n.TableAID != tableID {
			return fmt.Errorf("%w: row source %s does not match table %s", apperrors.ErrConflict, n.TableAID, tableID)
		}
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		n.CreatedAt = now
		n.UpdatedAt = now
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM table_neighbors WHERE table_a_id = $1`, tableID); err != nil {
			return fmt.Errorf("failed to delete neighbor rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		insert := `
			INSERT INTO table_neighbors (` + neighborColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		for _, n := range rows {
			batch.Queue(insert,
				n.ID, n.TableAID, n.TableBID,
				n.SimilarityOfArea, n.SimilarityOfDatetime,
				n.SimilarityOfDirectory, n.SimilarityOfPopularity,
				n.CreatedAt, n.UpdatedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range rows {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert neighbor row: %w", err)
			}
		}
		return nil
	})
}

func (r *tableNeighborRepository) ListByTable(ctx context.Context, tableID uuid.UUID) ([]*models.TableNeighbor, error) {
	query := `
		SELECT ` + neighborColumns + `
		FROM table_neighbors
		WHERE table_a_id = $1`

	rows, err := r.db.Query(ctx, query, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbor rows: %w", err)
	}
	defer rows.Close()

	return scanNeighborRows(rows)
}

func (r *tableNeighborRepository) ListTopByTable(ctx context.Context, tableID uuid.UUID, limit int) ([]*models.TableNeighbor, error) {
	query := `
		SELECT ` + neighborColumns + `
		FROM table_neighbors
		WHERE table_a_id = $1
		ORDER BY ` + scoreExpr + ` DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top neighbor rows: %w", err)
	}
	defer rows.Close()

	return scanNeighborRows(rows)
}

func scanNeighborRows(rows pgx.Rows) ([]*models.TableNeighbor, error) {
	var neighbors []*models.TableNeighbor

	for rows.Next() {
		var n models.TableNeighbor
		err := rows.Scan(
			&n.ID, &n.TableAID, &n.TableBID,
			&n.SimilarityOfArea, &n.SimilarityOfDatetime,
			&n.SimilarityOfDirectory, &n.SimilarityOfPopularity,
			&n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan neighbor row: %w", err)
		}
		neighbors = append(neighbors, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating neighbor rows: %w", err)
	}
	return neighbors, nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
}
