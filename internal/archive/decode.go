package archive

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/grantgraph/grantgraph/pkg/common"
)

// The XML shapes mirror the award document format. Repeated tags decode
// into slices even where the data has only ever shown a single occurrence,
// so a future multi-organization document would not be silently truncated.
type awardDoc struct {
	Award awardXML `xml:"Award"`
}

type awardXML struct {
	Code         string `xml:"AwardID"`
	Title        string `xml:"AwardTitle"`
	Abstract     string `xml:"AbstractNarration"`
	Effective    string `xml:"AwardEffectiveDate"`
	Expires      string `xml:"AwardExpiresDate"`
	FirstAmended string `xml:"MinAmdLetterDate"`
	LastAmended  string `xml:"MaxAmdLetterDate"`
	Amount       string `xml:"AwardAmount"`
	ARRAAmount   string `xml:"ARRAAmount"`

	Instruments   []string          `xml:"AwardInstrument>Value"`
	Organizations []organizationXML `xml:"Organization"`

	ProgramElements   []programXML        `xml:"ProgramElement"`
	ProgramReferences []programXML        `xml:"ProgramReference"`
	Institutions      []institutionXML    `xml:"Institution"`
	Investigators     []investigatorXML   `xml:"Investigator"`
	ProgramOfficers   []programOfficerXML `xml:"ProgramOfficer"`
}

type organizationXML struct {
	Directorate string `xml:"Directorate>LongName"`
	Division    string `xml:"Division>LongName"`
}

type programXML struct {
	Code string `xml:"Code"`
	Text string `xml:"Text"`
}

type institutionXML struct {
	Name    string `xml:"Name"`
	Phone   string `xml:"PhoneNumber"`
	Street  string `xml:"StreetAddress"`
	City    string `xml:"CityName"`
	State   string `xml:"StateCode"`
	Country string `xml:"CountryName"`
	Zip     string `xml:"ZipCode"`
}

type investigatorXML struct {
	FirstName string `xml:"FirstName"`
	LastName  string `xml:"LastName"`
	Email     string `xml:"EmailAddress"`
	Start     string `xml:"StartDate"`
	End       string `xml:"EndDate"`
	RoleCode  string `xml:"RoleCode"`
}

type programOfficerXML struct {
	Name string `xml:"SignBlockName"`
}

// DecodeRecord decodes one award document into a raw record. Field values
// stay strings; validation and normalization happen downstream.
func DecodeRecord(r io.Reader) (*common.Record, error) {
	var doc awardDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	a := doc.Award

	record := &common.Record{
		Code:         a.Code,
		Title:        a.Title,
		Abstract:     a.Abstract,
		Instruments:  a.Instruments,
		Effective:    a.Effective,
		Expires:      a.Expires,
		FirstAmended: a.FirstAmended,
		LastAmended:  a.LastAmended,
		Amount:       a.Amount,
		ARRAAmount:   a.ARRAAmount,
	}

	if len(a.Organizations) > 0 {
		record.Directorate = a.Organizations[0].Directorate
		record.Division = a.Organizations[0].Division
	}

	for _, pgm := range a.ProgramElements {
		record.ProgramElements = append(record.ProgramElements,
			common.ProgramEntry{Code: pgm.Code, Name: pgm.Text})
	}
	for _, pgm := range a.ProgramReferences {
		record.ProgramReferences = append(record.ProgramReferences,
			common.ProgramEntry{Code: pgm.Code, Name: pgm.Text})
	}

	for _, inst := range a.Institutions {
		record.Institutions = append(record.Institutions, common.InstitutionEntry{
			Name:    inst.Name,
			Phone:   inst.Phone,
			Street:  inst.Street,
			City:    inst.City,
			State:   inst.State,
			Country: inst.Country,
			Zip:     inst.Zip,
		})
	}

	for _, inv := range a.Investigators {
		record.Investigators = append(record.Investigators, common.InvestigatorEntry{
			FirstName: inv.FirstName,
			LastName:  inv.LastName,
			Email:     inv.Email,
			Start:     inv.Start,
			End:       inv.End,
			RoleCode:  inv.RoleCode,
		})
	}

	for _, po := range a.ProgramOfficers {
		name := strings.TrimSpace(po.Name)
		if name == "" {
			continue
		}
		record.ProgramOfficers = append(record.ProgramOfficers, name)
	}

	return record, nil
}
