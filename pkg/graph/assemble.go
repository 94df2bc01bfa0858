package graph

import (
	"context"
	"strings"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/normalize"
	"github.com/grantgraph/grantgraph/pkg/store"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// assemble wires one record's entities and edges inside an open scope.
func (c *Client) assemble(ctx context.Context, scope store.Scope, record common.Record, fields common.Award) error {
	award, err := scope.ResolveAward(ctx, fields)
	if err != nil {
		return err
	}

	// Only one directorate and one division tag are expected per record;
	// extraction keeps the first and drops the rest. An absent org tag
	// leaves programs without division ownership.
	var division *common.Division
	if record.Directorate != "" {
		directorate, err := scope.ResolveDirectorate(ctx, record.Directorate)
		if err != nil {
			return err
		}
		if record.Division != "" {
			division, err = scope.ResolveDivision(ctx, record.Division, directorate.ID)
			if err != nil {
				return err
			}
		}
	}

	references := make([]*common.Program, 0, len(record.ProgramReferences))
	for _, entry := range record.ProgramReferences {
		reference, err := scope.ResolveProgram(ctx, entry.Code, optional(entry.Name), nil)
		if err != nil {
			return err
		}
		references = append(references, reference)
	}

	for _, entry := range record.ProgramElements {
		var divisionID *int64
		if division != nil {
			divisionID = &division.ID
		}
		element, err := scope.ResolveProgram(ctx, entry.Code, optional(entry.Name), divisionID)
		if err != nil {
			return err
		}

		if err := scope.AddFunding(ctx, element.ID, award.ID); err != nil {
			return err
		}

		// Each program element relates to each program reference, except
		// itself: a reference carrying the element's own code must not
		// produce a self-edge.
		for _, reference := range references {
			if reference.ID == element.ID {
				continue
			}
			if err := scope.AddRelatedPrograms(ctx, element.ID, reference.ID); err != nil {
				return err
			}
		}
	}

	institutions := make([]*common.Institution, 0, len(record.Institutions))
	for _, entry := range record.Institutions {
		institution, err := scope.ResolveInstitution(ctx, entry.Name, entry.Phone)
		if err != nil {
			return err
		}

		countryCode, _, err := normalize.ClosestCountry(entry.Country)
		if err != nil {
			return common.NewRecordError(record.Code, "country", err)
		}
		address, err := scope.ResolveAddress(ctx, common.Address{
			Street:  normalize.Street(entry.Street),
			City:    strings.ToUpper(entry.City),
			State:   strings.ToUpper(entry.State),
			Country: countryCode,
			Zip:     entry.Zip,
		})
		if err != nil {
			return err
		}
		if err := scope.SetInstitutionAddress(ctx, institution.ID, address.ID); err != nil {
			return err
		}
		institutions = append(institutions, institution)
	}

	people := make([]*common.Person, 0, len(record.Investigators)+len(record.ProgramOfficers))
	for _, entry := range record.Investigators {
		name := normalize.ParseName(entry.FirstName + " " + entry.LastName)
		person, err := scope.ResolvePerson(ctx, name, optional(strings.TrimSpace(entry.Email)))
		if err != nil {
			return err
		}
		people = append(people, person)

		role, err := common.RoleFromCode(entry.RoleCode)
		if err != nil {
			return common.NewRecordError(record.Code, "role_code", err)
		}

		// Blank investigator dates inherit the award's range.
		start := award.Effective
		if raw := strings.TrimSpace(entry.Start); raw != "" {
			start, err = normalize.ParseDate(raw)
			if err != nil {
				return common.NewRecordError(record.Code, "start", err)
			}
		}
		end := award.Expires
		if raw := strings.TrimSpace(entry.End); raw != "" {
			end, err = normalize.ParseDate(raw)
			if err != nil {
				return common.NewRecordError(record.Code, "end", err)
			}
		}

		if err := scope.AddRole(ctx, common.AwardRole{
			PersonID: person.ID,
			AwardID:  award.ID,
			Role:     role,
			Start:    start,
			End:      end,
		}); err != nil {
			return err
		}
	}

	for _, fullName := range record.ProgramOfficers {
		name := normalize.ParseName(strings.Trim(fullName, "\n"))
		person, err := scope.ResolvePerson(ctx, name, nil)
		if err != nil {
			return err
		}
		people = append(people, person)

		if err := scope.AddRole(ctx, common.AwardRole{
			PersonID: person.ID,
			AwardID:  award.ID,
			Role:     common.RolePO,
			Start:    award.Effective,
			End:      award.Expires,
		}); err != nil {
			return err
		}
	}

	// The source data does not say which institution each person belongs
	// to, so every person on the award is affiliated with every listed
	// institution. Known approximation, reproduced as-is.
	for _, person := range people {
		for _, institution := range institutions {
			err := scope.AddAffiliation(ctx, common.Affiliation{
				PersonID:      person.ID,
				InstitutionID: institution.ID,
				AwardID:       award.ID,
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}
