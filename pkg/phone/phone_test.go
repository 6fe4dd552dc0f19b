package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain digits", "8776966775", "8776966775"},
		{"parentheses and spaces", "(877) 696-6775", "8776966775"},
		{"dashes", "877-696-6775", "8776966775"},
		{"dots", "877.696.6775", "8776966775"},
		{"leading plus and country code", "+1 877 696 6775", "18776966775"},
		{"extension text", "877-696-6775 ext. 204", "8776966775204"},
		{"letters stripped", "CALL-877NOW", "877"},
		{"empty", "", ""},
		{"no digits at all", "n/a", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeDigitsOnly(t *testing.T) {
	inputs := []string{"(503) 555-0188", "+49 30 901820", "abc123!@#456", "\t555 \n 0000"}
	for _, in := range inputs {
		out := Normalize(in)
		for _, r := range out {
			assert.True(t, r >= '0' && r <= '9', "normalize(%q) produced non-digit %q", in, r)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"ten digits", "8776966775", "(877) 696-6775"},
		{"eleven with leading one", "18776966775", "(877) 696-6775"},
		{"eleven without leading one", "98776966775", "98776966775"},
		{"seven digits unchanged", "6966775", "6966775"},
		{"too long unchanged", "877696677512", "877696677512"},
		{"single digit unchanged", "5", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.input))
		})
	}
}

// Every separator style accepted at write time must converge on the same
// canonical display form.
func TestNormalizeFormatRoundTrip(t *testing.T) {
	variants := []string{
		"(877) 696-6775",
		"877-696-6775",
		"877.696.6775",
		"8776966775",
		"+1 (877) 696-6775",
		"1-877-696-6775",
	}

	for _, v := range variants {
		assert.Equal(t, "(877) 696-6775", Format(Normalize(v)), "input %q", v)
	}
}

func TestFormatElevenDigitEqualsTenDigit(t *testing.T) {
	d := "15035550188"
	assert.Equal(t, Format(d[1:]), Format(d))
}
