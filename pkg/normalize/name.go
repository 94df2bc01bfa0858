package normalize

import (
	"strings"

	"github.com/grantgraph/grantgraph/pkg/common"
)

var nameTitles = map[string]bool{
	"DR": true, "MR": true, "MRS": true, "MS": true, "MISS": true,
	"PROF": true, "PROFESSOR": true, "REV": true, "SIR": true,
	"DEAN": true, "HON": true, "CAPT": true, "COL": true, "LT": true,
	"MAJ": true, "GEN": true, "SGT": true,
}

var nameSuffixes = map[string]bool{
	"JR": true, "SR": true, "II": true, "III": true, "IV": true, "V": true,
	"PHD": true, "MD": true, "ESQ": true, "DDS": true, "DVM": true,
	"JD": true, "MBA": true,
}

func trimPunct(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,")
}

func classify(token string) string {
	return strings.ToUpper(strings.ReplaceAll(trimPunct(token), ".", ""))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ParseName decomposes a free-text full name into title, first, middle,
// nickname, last and suffix. Trailing punctuation is trimmed on every
// sub-field; a missing sub-field is nil, not the empty string. Supported
// shapes are "First [Middle] Last", "Last, First [Middle]" and a trailing
// ", Suffix"; nicknames appear in parentheses or double quotes.
func ParseName(full string) common.PersonName {
	rest := strings.TrimSpace(full)

	var nickname string
	if open := strings.IndexByte(rest, '('); open != -1 {
		if close := strings.IndexByte(rest[open:], ')'); close != -1 {
			nickname = trimPunct(rest[open+1 : open+close])
			rest = strings.TrimSpace(rest[:open] + " " + rest[open+close+1:])
		}
	} else if open := strings.IndexByte(rest, '"'); open != -1 {
		if close := strings.IndexByte(rest[open+1:], '"'); close != -1 {
			nickname = trimPunct(rest[open+1 : open+1+close])
			rest = strings.TrimSpace(rest[:open] + " " + rest[open+close+2:])
		}
	}

	var suffix string
	if comma := strings.IndexByte(rest, ','); comma != -1 {
		tail := strings.TrimSpace(rest[comma+1:])
		if nameSuffixes[classify(tail)] {
			suffix = trimPunct(tail)
			rest = strings.TrimSpace(rest[:comma])
		} else {
			// "Last, First Middle" ordering; rewrite to natural order.
			rest = tail + " " + strings.TrimSpace(rest[:comma])
		}
	}

	tokens := strings.Fields(rest)

	var title string
	for len(tokens) > 1 && nameTitles[classify(tokens[0])] {
		if title != "" {
			title += " "
		}
		title += trimPunct(tokens[0])
		tokens = tokens[1:]
	}

	for len(tokens) > 1 && suffix == "" && nameSuffixes[classify(tokens[len(tokens)-1])] {
		suffix = trimPunct(tokens[len(tokens)-1])
		tokens = tokens[:len(tokens)-1]
	}

	name := common.PersonName{
		Title:    optional(title),
		Nickname: optional(nickname),
		Suffix:   optional(suffix),
	}

	switch len(tokens) {
	case 0:
	case 1:
		name.First = trimPunct(tokens[0])
	default:
		name.First = trimPunct(tokens[0])
		name.Last = trimPunct(tokens[len(tokens)-1])
		middle := make([]string, 0, len(tokens)-2)
		for _, tok := range tokens[1 : len(tokens)-1] {
			middle = append(middle, trimPunct(tok))
		}
		name.Middle = optional(strings.Join(middle, " "))
	}

	return name
}
