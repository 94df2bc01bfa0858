package common

// Record is one award document as extracted from an archive, before any
// normalization or type conversion. Scalar fields stay raw strings so that a
// malformed value can be reported against the field at fault.
type Record struct {
	Code         string `validate:"required"`
	Title        string
	Abstract     string
	Instruments  []string
	Effective    string `validate:"required"`
	Expires      string `validate:"required"`
	FirstAmended string `validate:"required"`
	LastAmended  string `validate:"required"`
	Amount       string `validate:"required"`
	ARRAAmount   string

	Directorate string
	Division    string

	ProgramElements   []ProgramEntry
	ProgramReferences []ProgramEntry
	Institutions      []InstitutionEntry
	Investigators     []InvestigatorEntry
	ProgramOfficers   []string
}

// ProgramEntry is a code+text pair from a program element or reference tag.
type ProgramEntry struct {
	Code string
	Name string
}

// InstitutionEntry is one institution block with its raw address fields.
type InstitutionEntry struct {
	Name    string
	Phone   string
	Street  string
	City    string
	State   string
	Country string
	Zip     string
}

// InvestigatorEntry is one investigator block. Start, End and Email may be
// blank; RoleCode is drawn from a small controlled vocabulary.
type InvestigatorEntry struct {
	FirstName string
	LastName  string
	Email     string
	Start     string
	End       string
	RoleCode  string
}
