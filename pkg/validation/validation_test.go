package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("intake@harborlight.org"))
	assert.True(t, ValidateEmail("  Outreach@City.Example.COM  "))
	assert.False(t, ValidateEmail("no-at-sign.org"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://harborlight.org"))
	assert.True(t, ValidateURL("http://example.org/services"))
	assert.False(t, ValidateURL("harborlight.org"))
	assert.False(t, ValidateURL("ftp://example.org"))
	assert.False(t, ValidateURL(""))
}

func TestValidateZip(t *testing.T) {
	assert.True(t, ValidateZip("97209"))
	assert.True(t, ValidateZip("97209-1234"))
	assert.False(t, ValidateZip("972"))
	assert.False(t, ValidateZip("97209-12"))
	assert.False(t, ValidateZip("abcde"))
}

func TestValidateState(t *testing.T) {
	assert.True(t, ValidateState("OR"))
	assert.True(t, ValidateState("wa"))
	assert.False(t, ValidateState("Oregon"))
	assert.False(t, ValidateState(""))
}

func TestValidateSlug(t *testing.T) {
	assert.True(t, ValidateSlug("harbor-light-shelter"))
	assert.True(t, ValidateSlug("shelter2"))
	assert.False(t, ValidateSlug("Harbor-Light"))
	assert.False(t, ValidateSlug("-leading"))
	assert.False(t, ValidateSlug("trailing-"))
	assert.False(t, ValidateSlug("double--hyphen"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!Pass"))
	assert.False(t, ValidatePassword("short1!"))
	assert.False(t, ValidatePassword("alllowercase1!"))
	assert.False(t, ValidatePassword("ALLUPPERCASE1!"))
	assert.False(t, ValidatePassword("NoNumbers!!"))
	assert.False(t, ValidatePassword("NoSpecials11"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "harbor-light-shelter", Slugify("Harbor Light Shelter"))
	assert.Equal(t, "st-vincent-s-kitchen", Slugify("St. Vincent's Kitchen"))
	assert.Equal(t, "24-7-hotline", Slugify("24/7 Hotline!"))
	assert.Equal(t, "", Slugify("   "))
}
