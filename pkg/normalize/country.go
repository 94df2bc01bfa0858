package normalize

import (
	"fmt"
	"strings"

	"github.com/grantgraph/grantgraph/pkg/similarity"
)

// ClosestCountry resolves a free-text country name to the alpha-2 code of the
// most similar canonical name, scanning the whole table and keeping the
// strictly highest score (first seen wins on ties). The returned score is the
// similarity of the winning name, 1.0 for an exact match.
func ClosestCountry(raw string) (code string, score float64, err error) {
	caps := strings.ToUpper(strings.TrimSpace(raw))

	var best CountryEntry
	for _, entry := range countries {
		s := similarity.Ratio(caps, entry.Name)
		if s > score {
			score = s
			best = entry
		}
	}
	if score == 0 {
		return "", 0, fmt.Errorf("no country resembles %q", raw)
	}
	return best.Code, score, nil
}
