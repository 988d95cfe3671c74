package position

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WouldCreateCycle reports whether pointing positionID at proposedParentID
// would close a loop in the reports-to graph. It walks parent pointers
// upward from the proposed parent, one read per hop, without holding any
// lock across reads. The visited set guarantees termination even if the
// stored graph already contains a cycle from earlier corruption.
//
// Caller guarantees positionID != proposedParentID.
func WouldCreateCycle(ctx context.Context, repo Repository, positionID, proposedParentID uuid.UUID) (bool, error) {
	visited := make(map[uuid.UUID]bool)
	current := proposedParentID

	for {
		if current == positionID {
			return true, nil
		}
		if visited[current] {
			// Pre-existing cycle upstream: the chain never reaches a root.
			// Deliberately reported as a cycle so a subtree cannot be
			// reparented onto corrupt ancestry.
			return true, nil
		}
		visited[current] = true

		post, err := repo.FindByID(ctx, current.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling parent pointer; chain terminates here.
				return false, nil
			}
			return false, err
		}

		if post.ReportsToPositionID == nil {
			return false, nil
		}
		current = *post.ReportsToPositionID
	}
}
