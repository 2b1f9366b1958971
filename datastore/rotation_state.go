package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/newslinemedia/technews/models"
)

// ErrRotationConflict is returned when a rotation commit loses a
// compare-and-swap race, meaning another run advanced the cursor first.
var ErrRotationConflict = errors.New("rotation state was modified by a concurrent run")

// RotationRepository manages the singleton rotation_state row.
type RotationRepository struct {
	db *sql.DB
}

func NewRotationRepository(db *sql.DB) *RotationRepository {
	return &RotationRepository{db: db}
}

// GetRotationState returns the current rotation cursor, or nil if no import
// cycle has ever committed.
func (r *RotationRepository) GetRotationState(ctx context.Context) (*models.RotationState, error) {
	query := `SELECT last_category, last_run_at, next_category FROM rotation_state WHERE id = 1`
	var state models.RotationState
	row := r.db.QueryRowContext(ctx, query)
	err := row.Scan(&state.LastCategory, &state.LastRunAt, &state.NextCategory)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rotation state: %w", err)
	}
	return &state, nil
}

// CommitRotation writes the new cursor, guarded against concurrent commits.
// prev is the state observed at the start of the run: nil means the run
// expects to create the singleton row, otherwise the update only applies while
// last_category still matches the observed value. A lost race yields
// ErrRotationConflict.
func (r *RotationRepository) CommitRotation(ctx context.Context, prev *models.RotationState, next models.RotationState) error {
	if prev == nil {
		query := `
			INSERT INTO rotation_state (id, last_category, last_run_at, next_category)
			VALUES (1, $1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`
		result, err := r.db.ExecContext(ctx, query, next.LastCategory, next.LastRunAt, next.NextCategory)
		if err != nil {
			return fmt.Errorf("failed to insert rotation state: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rotation insert result: %w", err)
		}
		if affected == 0 {
			return ErrRotationConflict
		}
		return nil
	}

	query := `
		UPDATE rotation_state
		SET last_category = $1, last_run_at = $2, next_category = $3
		WHERE id = 1 AND last_category = $4
	`
	result, err := r.db.ExecContext(ctx, query, next.LastCategory, next.LastRunAt, next.NextCategory, prev.LastCategory)
	if err != nil {
		return fmt.Errorf("failed to update rotation state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rotation update result: %w", err)
	}
	if affected == 0 {
		return ErrRotationConflict
	}
	return nil
}
