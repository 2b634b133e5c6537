package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"episode_syncer/internal/domain"
)

// EpisodeCountStore reads and writes the per-show rows of a source.
type EpisodeCountStore struct {
	db *sqlx.DB
}

func NewEpisodeCountStore(db *sqlx.DB) *EpisodeCountStore {
	return &EpisodeCountStore{db: db}
}

func (s *EpisodeCountStore) List(ctx context.Context, sourceID string) ([]domain.EpisodeCount, error) {
	query := `
		SELECT show_id, count
		FROM episode_counts
		WHERE source_id = $1
		ORDER BY show_id`

	var counts []domain.EpisodeCount
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &counts, query, sourceID); err != nil {
		return nil, fmt.Errorf("list episode counts: %w", err)
	}
	return counts, nil
}

// UpsertBatch writes counts in one statement. Rows whose count did not change
// keep their updated_at.
func (s *EpisodeCountStore) UpsertBatch(ctx context.Context, sourceID string, counts map[domain.ShowID]int) error {
	if len(counts) == 0 {
		return nil
	}

	showIDs := make([]string, 0, len(counts))
	values := make([]int64, 0, len(counts))
	for id, n := range counts {
		showIDs = append(showIDs, string(id))
		values = append(values, int64(n))
	}

	query := `
		INSERT INTO episode_counts (source_id, show_id, count)
		SELECT $1, show_id, count
		FROM unnest($2::text[], $3::int[]) AS t(show_id, count)
		ON CONFLICT (source_id, show_id) DO UPDATE SET
			count = EXCLUDED.count,
			updated_at = NOW()
		WHERE episode_counts.count <> EXCLUDED.count`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, sourceID, pq.Array(showIDs), pq.Array(values))
	if err != nil {
		return fmt.Errorf("upsert episode counts: %w", err)
	}
	return nil
}

// DeleteExcept removes every row of the source whose show id is not in keep.
func (s *EpisodeCountStore) DeleteExcept(ctx context.Context, sourceID string, keep map[domain.ShowID]int) (int64, error) {
	showIDs := make([]string, 0, len(keep))
	for id := range keep {
		showIDs = append(showIDs, string(id))
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM episode_counts WHERE source_id = $1 AND NOT (show_id = ANY($2))",
		sourceID, pq.Array(showIDs),
	)
	if err != nil {
		return 0, fmt.Errorf("delete episode counts: %w", err)
	}
	return res.RowsAffected()
}
