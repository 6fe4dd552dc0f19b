package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceBeforeSaveNormalizesPhone(t *testing.T) {
	resource := Resource{Phone: "(877) 696-6775"}

	require.NoError(t, resource.BeforeSave(nil))

	assert.Equal(t, "8776966775", resource.Phone)
	assert.Equal(t, 180, resource.VerificationFrequencyDays)
}

func TestResourceDisplayPhone(t *testing.T) {
	resource := Resource{Phone: "8776966775"}
	assert.Equal(t, "(877) 696-6775", resource.DisplayPhone())

	resource.Phone = ""
	assert.Equal(t, "", resource.DisplayPhone())
}

func TestNextVerificationDate(t *testing.T) {
	resource := Resource{VerificationFrequencyDays: 180}

	_, verified := resource.NextVerificationDate()
	assert.False(t, verified)

	last := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	resource.LastVerifiedAt = &last

	next, verified := resource.NextVerificationDate()
	assert.True(t, verified)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), next)
}
