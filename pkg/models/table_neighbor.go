package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
)

// TableNeighbor is a directed, scored relationship between an ordered pair
// of tables. At most one row exists per (table_a, table_b); the reverse
// direction is a separate row and may carry a different score because
// directory similarity is normalized by the source table's key-set size.
type TableNeighbor struct {
	ID       uuid.UUID `json:"id"`
	TableAID uuid.UUID `json:"table_a_id"`
	TableBID uuid.UUID `json:"table_b_id"`

	SimilarityOfArea       float64 `json:"similarity_of_area"`
	SimilarityOfDatetime   float64 `json:"similarity_of_datetime"`
	SimilarityOfDirectory  float64 `json:"similarity_of_directory"`
	SimilarityOfPopularity float64 `json:"similarity_of_popularity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score is the ranking score: rounded directory similarity plus rounded
// popularity. Area and datetime similarity act as relevance gates during
// candidate generation and do not contribute here.
func (n *TableNeighbor) Score() float64 {
	return Round2(n.SimilarityOfDirectory) + Round2(n.SimilarityOfPopularity)
}

// Validate rejects self-referential neighbor rows.
func (n *TableNeighbor) Validate() error {
	if n.TableAID == n.TableBID {
		return fmt.Errorf("%w: table %s", apperrors.ErrSelfNeighbor, n.TableAID)
	}
	return nil
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
