package phone

import "strings"

// Normalize reduces any human-entered phone representation to the canonical
// storage form: ASCII digits only, in their original order. Separators,
// parentheses, leading "+" and anything else non-digit are dropped. An empty
// result is a valid stored value.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders a stored digit-only value for display. 10-digit numbers
// become "(DDD) DDD-DDDD"; 11-digit numbers with a leading country code "1"
// are formatted like their 10-digit remainder. Anything else is returned
// unchanged. Format never touches storage and must only be given canonical
// values, never its own output.
func Format(stored string) string {
	if stored == "" {
		return ""
	}
	digits := stored
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return stored
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}
