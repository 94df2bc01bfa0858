package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/grantgraph/grantgraph/pkg/common"
)

const sampleAward = `<?xml version="1.0" encoding="UTF-8"?>
<rootTag>
  <Award>
    <AwardTitle>Collaborative Research: Coastal Sediment Transport</AwardTitle>
    <AwardEffectiveDate>09/01/2009</AwardEffectiveDate>
    <AwardExpiresDate>08/31/2012</AwardExpiresDate>
    <AwardAmount>412345</AwardAmount>
    <AwardInstrument>
      <Value>Standard Grant</Value>
    </AwardInstrument>
    <Organization>
      <Code>06020000</Code>
      <Directorate>
        <LongName>Directorate For Geosciences</LongName>
      </Directorate>
      <Division>
        <LongName>Division Of Ocean Sciences</LongName>
      </Division>
    </Organization>
    <ProgramOfficer>
      <SignBlockName>Richard Roe</SignBlockName>
    </ProgramOfficer>
    <AbstractNarration>Sediment moves.</AbstractNarration>
    <MinAmdLetterDate>08/25/2009</MinAmdLetterDate>
    <MaxAmdLetterDate>08/25/2009</MaxAmdLetterDate>
    <ARRAAmount/>
    <AwardID>0900001</AwardID>
    <Investigator>
      <FirstName>Maria</FirstName>
      <LastName>Garcia</LastName>
      <EmailAddress>mgarcia@example.edu</EmailAddress>
      <StartDate/>
      <EndDate/>
      <RoleCode>Principal Investigator</RoleCode>
    </Investigator>
    <Institution>
      <Name>Coastal University</Name>
      <CityName>Wilmington</CityName>
      <ZipCode>284031234</ZipCode>
      <PhoneNumber>9105550100</PhoneNumber>
      <StreetAddress>601 South College Road</StreetAddress>
      <CountryName>United States</CountryName>
      <StateName>North Carolina</StateName>
      <StateCode>NC</StateCode>
    </Institution>
    <ProgramElement>
      <Code>1620</Code>
      <Text>MARINE GEOLOGY AND GEOPHYSICS</Text>
    </ProgramElement>
    <ProgramReference>
      <Code>9150</Code>
      <Text>EXP PROG TO STIM COMP RES</Text>
    </ProgramReference>
  </Award>
</rootTag>`

func TestDecodeRecord(t *testing.T) {
	record, err := DecodeRecord(strings.NewReader(sampleAward))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Code != "0900001" {
		t.Fatalf("unexpected code %q", record.Code)
	}
	if record.Title != "Collaborative Research: Coastal Sediment Transport" {
		t.Fatalf("unexpected title %q", record.Title)
	}
	if record.Amount != "412345" || record.ARRAAmount != "" {
		t.Fatalf("unexpected amounts %q / %q", record.Amount, record.ARRAAmount)
	}
	if !reflect.DeepEqual(record.Instruments, []string{"Standard Grant"}) {
		t.Fatalf("unexpected instruments %v", record.Instruments)
	}
	if record.Directorate != "Directorate For Geosciences" {
		t.Fatalf("unexpected directorate %q", record.Directorate)
	}
	if record.Division != "Division Of Ocean Sciences" {
		t.Fatalf("unexpected division %q", record.Division)
	}

	wantElements := []common.ProgramEntry{{Code: "1620", Name: "MARINE GEOLOGY AND GEOPHYSICS"}}
	if !reflect.DeepEqual(record.ProgramElements, wantElements) {
		t.Fatalf("unexpected program elements %v", record.ProgramElements)
	}
	wantReferences := []common.ProgramEntry{{Code: "9150", Name: "EXP PROG TO STIM COMP RES"}}
	if !reflect.DeepEqual(record.ProgramReferences, wantReferences) {
		t.Fatalf("unexpected program references %v", record.ProgramReferences)
	}

	if len(record.Institutions) != 1 {
		t.Fatalf("expected 1 institution, got %d", len(record.Institutions))
	}
	inst := record.Institutions[0]
	if inst.Name != "Coastal University" || inst.Phone != "9105550100" {
		t.Fatalf("unexpected institution %+v", inst)
	}
	if inst.State != "NC" || inst.Country != "United States" || inst.Zip != "284031234" {
		t.Fatalf("unexpected institution address %+v", inst)
	}

	if len(record.Investigators) != 1 {
		t.Fatalf("expected 1 investigator, got %d", len(record.Investigators))
	}
	inv := record.Investigators[0]
	if inv.FirstName != "Maria" || inv.LastName != "Garcia" {
		t.Fatalf("unexpected investigator %+v", inv)
	}
	if inv.Start != "" || inv.End != "" {
		t.Fatalf("empty dates must stay empty, got %q / %q", inv.Start, inv.End)
	}
	if inv.RoleCode != "Principal Investigator" {
		t.Fatalf("unexpected role code %q", inv.RoleCode)
	}

	if !reflect.DeepEqual(record.ProgramOfficers, []string{"Richard Roe"}) {
		t.Fatalf("unexpected program officers %v", record.ProgramOfficers)
	}
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.Bytes()
}

func TestReaderSkipsBadEntries(t *testing.T) {
	data := buildZip(t, map[string]string{
		"0900001.xml": sampleAward,
		"broken.xml":  "<rootTag><Award></rootTag>",
	})
	reader, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var codes []string
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		codes = append(codes, record.Code)
	}
	if !reflect.DeepEqual(codes, []string{"0900001"}) {
		t.Fatalf("expected only the valid entry, got %v", codes)
	}
}

func TestExplorerYears(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2009.zip", "2007.zip", "notes.txt", "badyear.zip"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	years, err := NewExplorer(dir).Years()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(years, []int{2007, 2009}) {
		t.Fatalf("unexpected years %v", years)
	}
}

func TestExplorerOpen(t *testing.T) {
	dir := t.TempDir()
	data := buildZip(t, map[string]string{"0900001.xml": sampleAward})
	if err := os.WriteFile(filepath.Join(dir, "2009.zip"), data, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader, err := NewExplorer(dir).Open(2009)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reader.Close()

	record, err := reader.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Code != "0900001" {
		t.Fatalf("unexpected code %q", record.Code)
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}

	if _, err := NewExplorer(dir).Open(2010); err == nil {
		t.Fatal("expected error for missing year")
	}
}
