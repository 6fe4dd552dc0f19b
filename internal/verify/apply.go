package verify

import (
	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/pkg/phone"
)

// FieldOverrides carries per-field replacement values from the operator
// update interface, keyed by the resource's JSON field names.
type FieldOverrides map[string]string

// editableFields maps override keys to getter/setter pairs on a resource.
// Status, notes and verification bookkeeping deliberately have their own code
// paths and cannot be touched through overrides.
var editableFields = []struct {
	key string
	get func(*models.Resource) string
	set func(*models.Resource, string)
}{
	{"name", func(r *models.Resource) string { return r.Name }, func(r *models.Resource, v string) { r.Name = v }},
	{"description", func(r *models.Resource) string { return r.Description }, func(r *models.Resource, v string) { r.Description = v }},
	{"services", func(r *models.Resource) string { return r.Services }, func(r *models.Resource, v string) { r.Services = v }},
	{"phone", func(r *models.Resource) string { return r.Phone }, func(r *models.Resource, v string) { r.Phone = phone.Normalize(v) }},
	{"email", func(r *models.Resource) string { return r.Email }, func(r *models.Resource, v string) { r.Email = v }},
	{"website", func(r *models.Resource) string { return r.Website }, func(r *models.Resource, v string) { r.Website = v }},
	{"address", func(r *models.Resource) string { return r.Address }, func(r *models.Resource, v string) { r.Address = v }},
	{"city", func(r *models.Resource) string { return r.City }, func(r *models.Resource, v string) { r.City = v }},
	{"state", func(r *models.Resource) string { return r.State }, func(r *models.Resource, v string) { r.State = v }},
	{"zip", func(r *models.Resource) string { return r.Zip }, func(r *models.Resource, v string) { r.Zip = v }},
	{"hours", func(r *models.Resource) string { return r.Hours }, func(r *models.Resource, v string) { r.Hours = v }},
	{"eligibility", func(r *models.Resource) string { return r.Eligibility }, func(r *models.Resource, v string) { r.Eligibility = v }},
	{"languages", func(r *models.Resource) string { return r.Languages }, func(r *models.Resource, v string) { r.Languages = v }},
}

// Diff computes the before/after changes the overrides would cause, without
// mutating the resource. Phone values are compared in canonical form so
// "(877) 696-6775" against a stored "8776966775" is not a change. Unknown
// keys are ignored.
func Diff(r models.Resource, overrides FieldOverrides) []FieldChange {
	var changes []FieldChange
	for _, f := range editableFields {
		v, ok := overrides[f.key]
		if !ok {
			continue
		}
		if f.key == "phone" {
			v = phone.Normalize(v)
		}
		before := f.get(&r)
		if before == v {
			continue
		}
		changes = append(changes, FieldChange{Field: f.key, Before: before, After: v})
	}
	return changes
}

// ApplyOverrides writes the overrides onto the resource snapshot. Phone is
// normalized on the way in; the model hook normalizes again at persist time.
func ApplyOverrides(r *models.Resource, overrides FieldOverrides) {
	for _, f := range editableFields {
		if v, ok := overrides[f.key]; ok {
			f.set(r, v)
		}
	}
}
