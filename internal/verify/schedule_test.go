package verify

import (
	"testing"
	"time"

	"github.com/communitydir/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedResource(id uint, lastVerified *time.Time, frequencyDays int) models.Resource {
	return models.Resource{
		ID:                        id,
		Status:                    models.ResourceStatusPublished,
		LastVerifiedAt:            lastVerified,
		VerificationFrequencyDays: frequencyDays,
	}
}

func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func TestSelectNextPrefersNeverVerified(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Resource 2 is badly overdue, but 5 has never been verified at all
	resources := []models.Resource{
		publishedResource(2, daysAgo(now, 400), 180),
		publishedResource(5, nil, 180),
	}

	next, err := SelectNext(resources, now)
	require.NoError(t, err)
	assert.Equal(t, uint(5), next.ID)
}

func TestSelectNextNeverVerifiedTieBreaksOnLowestID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resources := []models.Resource{
		publishedResource(7, nil, 180),
		publishedResource(3, nil, 180),
		publishedResource(9, nil, 180),
	}

	next, err := SelectNext(resources, now)
	require.NoError(t, err)
	assert.Equal(t, uint(3), next.ID)
}

func TestSelectNextPicksMostOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resources := []models.Resource{
		publishedResource(1, daysAgo(now, 200), 180), // 20 days overdue
		publishedResource(2, daysAgo(now, 300), 180), // 120 days overdue
		publishedResource(3, daysAgo(now, 181), 180), // 1 day overdue
	}

	next, err := SelectNext(resources, now)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next.ID)
}

func TestSelectNextOverdueTieBreaksOnLowestID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resources := []models.Resource{
		publishedResource(8, daysAgo(now, 200), 180),
		publishedResource(4, daysAgo(now, 200), 180),
	}

	next, err := SelectNext(resources, now)
	require.NoError(t, err)
	assert.Equal(t, uint(4), next.ID)
}

func TestSelectNextNothingDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resources := []models.Resource{
		publishedResource(1, daysAgo(now, 10), 180),
		publishedResource(2, daysAgo(now, 90), 180),
	}

	next, err := SelectNext(resources, now)
	assert.Nil(t, next)
	assert.ErrorIs(t, err, ErrNoResourceDue)
}

func TestSelectNextEmptyInput(t *testing.T) {
	now := time.Now().UTC()

	next, err := SelectNext(nil, now)
	assert.Nil(t, next)
	assert.ErrorIs(t, err, ErrNoResourceDue)
}

func TestSelectNextSkipsUnpublished(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	draft := publishedResource(1, nil, 180)
	draft.Status = models.ResourceStatusDraft
	archived := publishedResource(2, daysAgo(now, 400), 180)
	archived.Status = models.ResourceStatusArchived

	resources := []models.Resource{
		draft,
		archived,
		publishedResource(3, daysAgo(now, 200), 180),
	}

	next, err := SelectNext(resources, now)
	require.NoError(t, err)
	assert.Equal(t, uint(3), next.ID)
}

func TestSelectNextDueExactlyNowIsNotOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Next verification date equals now; strictly-before is the overdue test
	resources := []models.Resource{
		publishedResource(1, daysAgo(now, 180), 180),
	}

	next, err := SelectNext(resources, now)
	assert.Nil(t, next)
	assert.ErrorIs(t, err, ErrNoResourceDue)
}

func TestSelectNextHonorsPerResourceFrequency(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resources := []models.Resource{
		publishedResource(1, daysAgo(now, 40), 30),   // 10 days overdue
		publishedResource(2, daysAgo(now, 100), 180), // not due
	}

	next, err := SelectNext(resources, now)
	require.NoError(t, err)
	assert.Equal(t, uint(1), next.ID)
}

func TestDueCount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	draft := publishedResource(5, nil, 180)
	draft.Status = models.ResourceStatusDraft

	resources := []models.Resource{
		publishedResource(1, nil, 180),
		publishedResource(2, nil, 180),
		publishedResource(3, daysAgo(now, 300), 180),
		publishedResource(4, daysAgo(now, 10), 180),
		draft,
	}

	neverVerified, overdue := DueCount(resources, now)
	assert.Equal(t, 2, neverVerified)
	assert.Equal(t, 1, overdue)
}
