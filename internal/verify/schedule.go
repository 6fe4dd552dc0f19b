package verify

import (
	"errors"
	"time"

	"github.com/communitydir/backend/internal/models"
)

// ErrNoResourceDue signals that no published resource currently needs
// verification. It is a normal terminal state for the scheduler, not a
// failure.
var ErrNoResourceDue = errors.New("no resource due for verification")

// SelectNext picks the single resource most in need of verification.
//
// Priority, ascending means verify first:
//  1. never verified (nil LastVerifiedAt), lowest ID first
//  2. overdue (next verification date strictly before now), most overdue
//     first, lowest ID on ties
//
// Resources that are not published, or published but not yet due, are never
// selected. The function only reads its inputs; persistence is the caller's
// concern.
func SelectNext(resources []models.Resource, now time.Time) (*models.Resource, error) {
	var never *models.Resource
	var overdue *models.Resource
	var overdueNext time.Time

	for i := range resources {
		r := &resources[i]
		if r.Status != models.ResourceStatusPublished {
			continue
		}

		next, verified := r.NextVerificationDate()
		if !verified {
			if never == nil || r.ID < never.ID {
				never = r
			}
			continue
		}

		if !next.Before(now) {
			continue
		}
		if overdue == nil || next.Before(overdueNext) || (next.Equal(overdueNext) && r.ID < overdue.ID) {
			overdue = r
			overdueNext = next
		}
	}

	if never != nil {
		return never, nil
	}
	if overdue != nil {
		return overdue, nil
	}
	return nil, ErrNoResourceDue
}

// DueCount reports how many published resources are currently due, split into
// never-verified and overdue. Used for the operator digest.
func DueCount(resources []models.Resource, now time.Time) (neverVerified, overdue int) {
	for i := range resources {
		r := &resources[i]
		if r.Status != models.ResourceStatusPublished {
			continue
		}
		next, verified := r.NextVerificationDate()
		if !verified {
			neverVerified++
		} else if next.Before(now) {
			overdue++
		}
	}
	return neverVerified, overdue
}
