package verify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyNoteAppendPreservesExisting(t *testing.T) {
	existing := "Organization founded 1982. Intake desk on 2nd floor."
	section := "## Verification — 2026-03-01\n\nVerified by: Jordan"

	got := ApplyNote(existing, section, NoteAppend)

	assert.True(t, strings.HasPrefix(got, existing))
	assert.True(t, strings.HasSuffix(got, section))
	assert.Contains(t, got, sectionSeparator)
}

func TestApplyNoteAppendToEmptyNotes(t *testing.T) {
	section := "## Verification — 2026-03-01"

	assert.Equal(t, section, ApplyNote("", section, NoteAppend))
	assert.Equal(t, section, ApplyNote("   \n", section, NoteAppend))
}

func TestApplyNoteReplaceDiscardsExisting(t *testing.T) {
	existing := "Old notes with history"
	section := "## Verification — 2026-03-01"

	got := ApplyNote(existing, section, NoteReplace)

	assert.Equal(t, section, got)
	assert.NotContains(t, got, "Old notes")
}

func TestRenderSectionIsSelfContained(t *testing.T) {
	result := Result{
		Date:       time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Verifier:   "Jordan",
		StatusTag:  "verified",
		Confidence: "high",
		Summary:    "Phone confirmed by call; hours unchanged.",
		Changes: []FieldChange{
			{Field: "phone", Before: "5551234567", After: "5559876543", Source: "phone call"},
		},
		Sources:        []string{"provider website", "phone call"},
		NextReviewDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}

	section := result.RenderSection()

	assert.Contains(t, section, "## Verification — 2026-03-01")
	assert.Contains(t, section, "Verified by: Jordan")
	assert.Contains(t, section, "Status: verified")
	assert.Contains(t, section, "Confidence: high")
	assert.Contains(t, section, `- phone: "5551234567" -> "5559876543" (source: phone call)`)
	assert.Contains(t, section, "- provider website")
	assert.Contains(t, section, "Summary: Phone confirmed by call; hours unchanged.")
	assert.Contains(t, section, "Next review: 2026-08-28")
}

func TestRenderSectionBestEffortWithMissingFields(t *testing.T) {
	result := Result{
		Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	section := result.RenderSection()

	// Missing fields become placeholders; nothing is dropped
	assert.Contains(t, section, "Verified by: (not recorded)")
	assert.Contains(t, section, "Status: (not recorded)")
	assert.Contains(t, section, "Confidence: (not recorded)")
	assert.Contains(t, section, "Field changes:\n- none")
	assert.Contains(t, section, "Sources consulted:\n- (not recorded)")
	assert.Contains(t, section, "Next review: (not recorded)")
	assert.NotContains(t, section, "Summary:")
}

func TestEmptyTemplateIsStable(t *testing.T) {
	first := EmptyTemplate()
	second := EmptyTemplate()

	// The blank skeleton never embeds the current date
	assert.Equal(t, first, second)
	assert.Contains(t, first, "## Verification — (date)")
	assert.Contains(t, first, "Verified by: (not recorded)")
	assert.NotContains(t, first, time.Now().UTC().Format("2006-01-02"))
}

func TestFilledTemplateMatchesRenderedSection(t *testing.T) {
	result := Result{
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Verifier:  "Sam",
		StatusTag: "needs_followup",
	}

	assert.Equal(t, result.RenderSection(), FilledTemplate(result))
}
