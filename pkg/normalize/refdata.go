// Package normalize turns raw award-record field strings into canonical
// forms: abbreviated street addresses, alpha-2 country codes, decomposed
// person names and parsed dates. The two lookup tables it depends on are
// embedded in the binary and immutable for the life of the process.
package normalize

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/grantgraph/grantgraph/pkg/common"
)

//go:embed data/street-abbrevs.json data/country-codes.json
var refdata embed.FS

// Substitution is one street-form replacement, applied in declaration order.
type Substitution struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CountryEntry maps one canonical country name to its alpha-2 code.
type CountryEntry struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

var (
	streetSubs []Substitution
	countries  []CountryEntry
)

func init() {
	if err := loadRefData(); err != nil {
		// Nothing can be normalized without the lookup tables.
		panic(err)
	}
}

func loadRefData() error {
	raw, err := refdata.ReadFile("data/street-abbrevs.json")
	if err != nil {
		return fmt.Errorf("failed to read street abbreviation table: %w", err)
	}
	if err := json.Unmarshal(raw, &streetSubs); err != nil {
		return fmt.Errorf("failed to parse street abbreviation table: %w", err)
	}

	raw, err = refdata.ReadFile("data/country-codes.json")
	if err != nil {
		return fmt.Errorf("failed to read country code table: %w", err)
	}
	if err := json.Unmarshal(raw, &countries); err != nil {
		return fmt.Errorf("failed to parse country code table: %w", err)
	}

	if len(streetSubs) == 0 || len(countries) == 0 {
		return fmt.Errorf("reference data tables must not be empty")
	}
	return nil
}

// Countries returns the canonical country table, in declaration order.
// Callers must treat the returned slice as read-only.
func Countries() []CountryEntry {
	return countries
}

// CountrySeed returns the country table as reference rows, the shape the
// storage layer seeds at startup.
func CountrySeed() []common.Country {
	seed := make([]common.Country, len(countries))
	for i, c := range countries {
		seed[i] = common.Country{Alpha2: c.Code, Name: c.Name}
	}
	return seed
}
