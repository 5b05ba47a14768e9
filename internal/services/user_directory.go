package services

import (
	"fmt"

	apierrors "github.com/yukikurage/event-task-api/internal/errors"
	"github.com/yukikurage/event-task-api/internal/repository"
)

// UserDirectory is a read-only existence check over users.
type UserDirectory struct {
	store repository.Store
}

func NewUserDirectory(store repository.Store) *UserDirectory {
	return &UserDirectory{store: store}
}

// Resolve returns the subset of ids that exist as users.
// Unknown ids are omitted from the result, not reported as errors.
func (d *UserDirectory) Resolve(ids []uint64) (map[uint64]struct{}, error) {
	existing := make(map[uint64]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	found, err := d.store.Users().FindExistingIDs(ids)
	if err != nil {
		return nil, apierrors.Translate(fmt.Errorf("failed to resolve users: %w", err))
	}
	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// Missing returns the ids not present in existing, in first-occurrence order without repeats.
func Missing(ids []uint64, existing map[uint64]struct{}) []uint64 {
	var missing []uint64
	for _, id := range uniqueUint64(ids) {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
