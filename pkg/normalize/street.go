package normalize

import "strings"

// Street uppercases a street address, strips surrounding dots and whitespace,
// and applies every substitution from the street-abbreviation table in order.
// The table is pre-vetted so that substitutions do not overlap.
func Street(raw string) string {
	caps := strings.ToUpper(raw)
	stripped := strings.TrimSpace(strings.Trim(strings.TrimSpace(caps), "."))
	for _, sub := range streetSubs {
		stripped = strings.ReplaceAll(stripped, sub.From, sub.To)
	}
	return stripped
}
