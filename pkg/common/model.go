package common

import (
	"fmt"
	"strings"
	"time"
)

// Role classifies a person's involvement with an award.
type Role string

const (
	RolePI   Role = "pi"
	RoleCoPI Role = "copi"
	RoleFPI  Role = "fpi"
	RolePO   Role = "po"
)

var roleCodes = map[string]Role{
	"principal investigator":        RolePI,
	"co-principal investigator":     RoleCoPI,
	"former principal investigator": RoleFPI,
}

// RoleFromCode maps the role-code vocabulary used by award records to a Role.
// Unrecognized text is a data error, not a silently accepted value.
func RoleFromCode(code string) (Role, error) {
	role, ok := roleCodes[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return "", fmt.Errorf("unknown role code %q", code)
	}
	return role, nil
}

// Award is one funding award, identified externally by its code.
type Award struct {
	ID           int64
	Code         string
	Title        string
	Abstract     *string
	Instrument   string
	Effective    time.Time
	Expires      time.Time
	FirstAmended time.Time
	LastAmended  time.Time
	Amount       int64
	ARRAAmount   int64
}

// Directorate is the top level of the funding agency's org hierarchy.
type Directorate struct {
	ID    int64
	Name  string
	Code  *string
	Phone *string
}

// Division belongs to a Directorate and owns Programs.
type Division struct {
	ID            int64
	Name          string
	Code          *string
	Phone         *string
	DirectorateID int64
}

// Program is a funding program, identified by its four-character code.
// Name and division ownership may be filled in after the stub is first seen
// as a program reference.
type Program struct {
	ID         int64
	Code       string
	Name       *string
	DivisionID *int64
}

// Institution is a research organization. Phone is the de-facto natural key
// in the source data; two institutions may share an address.
type Institution struct {
	ID        int64
	Name      string
	Phone     string
	AddressID *int64
}

// Address is uniquely identified by its five location fields, independent of
// any institution referencing it.
type Address struct {
	ID      int64
	Street  string
	City    string
	State   string
	Country string
	Zip     string
	Lat     *float64
	Lon     *float64
}

// PersonName is a decomposed human name. Missing pieces are nil, not empty
// strings, so they participate correctly in natural-key equality.
type PersonName struct {
	First    string
	Last     string
	Middle   *string
	Title    *string
	Nickname *string
	Suffix   *string
}

// FullName renders the name for display: title, first, (nickname), middle,
// last, suffix, space-joined, skipping absent pieces.
func (n PersonName) FullName() string {
	pieces := make([]string, 0, 6)
	if n.Title != nil {
		pieces = append(pieces, *n.Title)
	}
	pieces = append(pieces, n.First)
	if n.Nickname != nil {
		pieces = append(pieces, "("+*n.Nickname+")")
	}
	if n.Middle != nil {
		pieces = append(pieces, *n.Middle)
	}
	pieces = append(pieces, n.Last)
	if n.Suffix != nil {
		pieces = append(pieces, *n.Suffix)
	}
	return strings.Join(pieces, " ")
}

// Person is an investigator or program officer, deduplicated on
// (first, last, middle).
type Person struct {
	ID    int64
	Name  PersonName
	Email *string
}

// AwardRole ties a Person to an Award with a role and a date range.
type AwardRole struct {
	PersonID int64
	AwardID  int64
	Role     Role
	Start    time.Time
	End      time.Time
}

// Affiliation ties a Person to an Institution in the context of one Award.
type Affiliation struct {
	PersonID      int64
	InstitutionID int64
	AwardID       int64
}

// Funding ties a Program to an Award it funds.
type Funding struct {
	ProgramID int64
	AwardID   int64
}

// RelatedPrograms links a program element (primary) to a program reference
// (secondary). Primary and secondary are always distinct.
type RelatedPrograms struct {
	PrimaryID   int64
	SecondaryID int64
}

// State is a reference lookup row for address state codes.
type State struct {
	Abbr string
	Name string
}

// Country is a reference lookup row for address country codes.
type Country struct {
	Alpha2 string
	Name   string
}

// Publication is a research output optionally attributed to an Award.
type Publication struct {
	ID       int64
	Title    string
	Abstract *string
	Journal  *string
	Volume   *string
	Pages    *string
	Year     *int32
	URI      *string
	AwardID  *int64
}
