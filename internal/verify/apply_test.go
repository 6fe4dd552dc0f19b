package verify

import (
	"testing"

	"github.com/communitydir/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffReportsChangedFieldsOnly(t *testing.T) {
	resource := models.Resource{
		Name:  "Harbor Light Shelter",
		City:  "Portland",
		Hours: "Mon-Fri 9-5",
	}

	changes := Diff(resource, FieldOverrides{
		"name":  "Harbor Light Shelter",
		"city":  "Gresham",
		"hours": "Mon-Sat 8-6",
	})

	require.Len(t, changes, 2)

	byField := map[string]FieldChange{}
	for _, ch := range changes {
		byField[ch.Field] = ch
	}

	assert.Equal(t, "Portland", byField["city"].Before)
	assert.Equal(t, "Gresham", byField["city"].After)
	assert.Equal(t, "Mon-Fri 9-5", byField["hours"].Before)
	assert.Equal(t, "Mon-Sat 8-6", byField["hours"].After)
}

func TestDiffComparesPhoneInCanonicalForm(t *testing.T) {
	resource := models.Resource{Phone: "8776966775"}

	// Same number, different separators: not a change
	changes := Diff(resource, FieldOverrides{"phone": "(877) 696-6775"})
	assert.Empty(t, changes)

	// Genuinely different number: reported in canonical form
	changes = Diff(resource, FieldOverrides{"phone": "503.555.0100"})
	require.Len(t, changes, 1)
	assert.Equal(t, "8776966775", changes[0].Before)
	assert.Equal(t, "5035550100", changes[0].After)
}

func TestDiffIgnoresUnknownAndProtectedKeys(t *testing.T) {
	resource := models.Resource{
		Status: models.ResourceStatusPublished,
		Notes:  "history",
	}

	changes := Diff(resource, FieldOverrides{
		"status":   "archived",
		"notes":    "wiped",
		"nonsense": "value",
	})

	assert.Empty(t, changes)
}

func TestDiffDoesNotMutate(t *testing.T) {
	resource := models.Resource{Name: "Original"}

	Diff(resource, FieldOverrides{"name": "Changed"})

	assert.Equal(t, "Original", resource.Name)
}

func TestApplyOverrides(t *testing.T) {
	resource := models.Resource{
		Name:   "Harbor Light Shelter",
		Phone:  "8776966775",
		Status: models.ResourceStatusPublished,
	}

	ApplyOverrides(&resource, FieldOverrides{
		"name":  "Harbor Light Center",
		"phone": "(503) 555-0100",
	})

	assert.Equal(t, "Harbor Light Center", resource.Name)
	assert.Equal(t, "5035550100", resource.Phone)
	assert.Equal(t, models.ResourceStatusPublished, resource.Status)
}
