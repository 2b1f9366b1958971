package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/newslinemedia/technews/datastore"
	"github.com/newslinemedia/technews/models"
)

// RotationStore is the persistence surface for the rotation cursor.
type RotationStore interface {
	GetRotationState(ctx context.Context) (*models.RotationState, error)
	CommitRotation(ctx context.Context, prev *models.RotationState, next models.RotationState) error
}

// Rotator selects which category's feeds each import cycle runs against,
// advancing one position through the fixed category cycle per run.
type Rotator struct {
	store RotationStore
}

func NewRotator(store RotationStore) *Rotator {
	return &Rotator{store: store}
}

// NextCategory reads the rotation cursor once and returns the category due
// this run, together with the state observed. The observed state must be
// passed back to Commit so the write can be guarded against concurrent runs.
// On the first ever run the cycle starts at the beginning.
func (r *Rotator) NextCategory(ctx context.Context) (models.Category, *models.RotationState, error) {
	state, err := r.store.GetRotationState(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read rotation state: %w", err)
	}
	if state == nil {
		return models.CategoryCycle[0], nil, nil
	}
	return models.CategoryAfter(state.LastCategory), state, nil
}

// Commit records that an import cycle ran against category. Called exactly
// once per cycle, after processing, regardless of how many feeds succeeded,
// so a broken feed can never stall the rotation. Transient store errors are
// retried briefly; losing the compare-and-swap to a concurrent run is not
// retryable and is surfaced to the caller.
func (r *Rotator) Commit(ctx context.Context, observed *models.RotationState, category models.Category) error {
	next := models.RotationState{
		LastCategory: category,
		LastRunAt:    time.Now().UTC(),
		NextCategory: models.CategoryAfter(category),
	}

	operation := func() error {
		err := r.store.CommitRotation(ctx, observed, next)
		if errors.Is(err, datastore.ErrRotationConflict) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("failed to commit rotation to %s: %w", category, err)
	}
	return nil
}
