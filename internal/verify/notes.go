package verify

import (
	"fmt"
	"strings"
	"time"
)

// NoteMode selects how a rendered verification section is written into a
// resource's notes. Replacement is the only sanctioned destructive update and
// must always be requested explicitly; it is never inferred from the payload.
type NoteMode string

const (
	NoteAppend  NoteMode = "append"
	NoteReplace NoteMode = "replace"
)

// sectionSeparator keeps concatenated history readable section by section.
const sectionSeparator = "\n\n"

// FieldChange records one before/after pair from a verification run.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
	Source string `json:"source,omitempty"`
}

// Result is the structured outcome of a verification run, rendered into the
// resource's notes. Rendering is best effort: missing fields become
// placeholders so an incomplete entry is never dropped.
type Result struct {
	Date           time.Time     `json:"date"`
	Verifier       string        `json:"verifier"`
	StatusTag      string        `json:"status_tag"`
	Confidence     string        `json:"confidence"`
	Summary        string        `json:"summary"`
	Changes        []FieldChange `json:"changes"`
	Sources        []string      `json:"sources"`
	NextReviewDate time.Time     `json:"next_review_date"`
}

const placeholder = "(not recorded)"

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// RenderSection renders the result as a self-contained dated section. Each
// section carries its own date header so appended history stays readable
// without cross-referencing.
func (r Result) RenderSection() string {
	date := r.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Verification — %s\n\n", date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Verified by: %s\n", orPlaceholder(r.Verifier))
	fmt.Fprintf(&b, "Status: %s\n", orPlaceholder(r.StatusTag))
	fmt.Fprintf(&b, "Confidence: %s\n", orPlaceholder(r.Confidence))

	b.WriteString("\nField changes:\n")
	if len(r.Changes) == 0 {
		b.WriteString("- none\n")
	}
	for _, ch := range r.Changes {
		fmt.Fprintf(&b, "- %s: %q -> %q", orPlaceholder(ch.Field), ch.Before, ch.After)
		if ch.Source != "" {
			fmt.Fprintf(&b, " (source: %s)", ch.Source)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nSources consulted:\n")
	if len(r.Sources) == 0 {
		b.WriteString("- " + placeholder + "\n")
	}
	for _, src := range r.Sources {
		fmt.Fprintf(&b, "- %s\n", src)
	}

	if strings.TrimSpace(r.Summary) != "" {
		fmt.Fprintf(&b, "\nSummary: %s\n", r.Summary)
	}

	next := placeholder
	if !r.NextReviewDate.IsZero() {
		next = r.NextReviewDate.Format("2006-01-02")
	}
	fmt.Fprintf(&b, "\nNext review: %s", next)

	return b.String()
}

// ApplyNote composes a rendered section into existing notes. Append preserves
// all prior content; replace discards it.
func ApplyNote(existing, section string, mode NoteMode) string {
	if mode == NoteReplace {
		return section
	}
	if strings.TrimSpace(existing) == "" {
		return section
	}
	return existing + sectionSeparator + section
}

// EmptyTemplate returns the well-known blank verification skeleton: the same
// section headers the renderer emits, with placeholder text throughout.
// Applying it replaces the notes wholesale.
func EmptyTemplate() string {
	return "## Verification — (date)\n\n" +
		"Verified by: " + placeholder + "\n" +
		"Status: " + placeholder + "\n" +
		"Confidence: " + placeholder + "\n" +
		"\nField changes:\n- none\n" +
		"\nSources consulted:\n- " + placeholder + "\n" +
		"\nNext review: " + placeholder
}

// FilledTemplate renders a complete skeleton from a result. Like the empty
// template, it is applied in replace mode.
func FilledTemplate(r Result) string {
	return r.RenderSection()
}
