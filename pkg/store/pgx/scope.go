package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/resolve"

	pgxv5 "github.com/jackc/pgx/v5"
)

// scope is one record's transaction. Inserts go straight into the tx; the
// unique constraints are the arbiter when two scopes race on the same
// natural key, and the loser's error is wrapped as store.ErrConflict.
type scope struct {
	tx pgxv5.Tx
	rs *resolve.Scope
}

func (sc *scope) ResolveAward(ctx context.Context, award common.Award) (*common.Award, error) {
	spec := resolve.Spec[common.Award, common.Award]{
		Entity: "award",
		Key:    func(a common.Award) string { return a.Code },
		Find: func(ctx context.Context, a common.Award) (*common.Award, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, code, title, abstract, instrument, effective, expires,
				       first_amended, last_amended, amount, arra_amount
				FROM award WHERE code = $1`, a.Code)
			var out common.Award
			err := row.Scan(&out.ID, &out.Code, &out.Title, &out.Abstract,
				&out.Instrument, &out.Effective, &out.Expires,
				&out.FirstAmended, &out.LastAmended, &out.Amount, &out.ARRAAmount)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, a common.Award) (*common.Award, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO award (code, title, abstract, instrument, effective, expires,
				                   first_amended, last_amended, amount, arra_amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id`,
				a.Code, a.Title, a.Abstract, a.Instrument, a.Effective, a.Expires,
				a.FirstAmended, a.LastAmended, a.Amount, a.ARRAAmount)
			out := a
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, award)
}

func (sc *scope) ResolveDirectorate(ctx context.Context, name string) (*common.Directorate, error) {
	spec := resolve.Spec[string, common.Directorate]{
		Entity: "directorate",
		Key:    func(n string) string { return n },
		Find: func(ctx context.Context, n string) (*common.Directorate, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, name, code, phone FROM directorate WHERE name = $1`, n)
			var out common.Directorate
			err := row.Scan(&out.ID, &out.Name, &out.Code, &out.Phone)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, n string) (*common.Directorate, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO directorate (name) VALUES ($1) RETURNING id`, n)
			out := common.Directorate{Name: n}
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, name)
}

func (sc *scope) ResolveDivision(ctx context.Context, name string, directorateID int64) (*common.Division, error) {
	type args struct {
		name          string
		directorateID int64
	}
	spec := resolve.Spec[args, common.Division]{
		Entity: "division",
		Key:    func(a args) string { return a.name },
		Find: func(ctx context.Context, a args) (*common.Division, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, name, code, phone, directorate_id
				FROM division WHERE name = $1`, a.name)
			var out common.Division
			err := row.Scan(&out.ID, &out.Name, &out.Code, &out.Phone, &out.DirectorateID)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, a args) (*common.Division, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO division (name, directorate_id) VALUES ($1, $2)
				RETURNING id`, a.name, a.directorateID)
			out := common.Division{Name: a.name, DirectorateID: a.directorateID}
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, args{name: name, directorateID: directorateID})
}

func (sc *scope) ResolveProgram(ctx context.Context, code string, name *string, divisionID *int64) (*common.Program, error) {
	spec := resolve.Spec[string, common.Program]{
		Entity: "program",
		Key:    func(c string) string { return c },
		Find: func(ctx context.Context, c string) (*common.Program, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, code, name, division_id FROM program WHERE code = $1`, c)
			var out common.Program
			err := row.Scan(&out.ID, &out.Code, &out.Name, &out.DivisionID)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, c string) (*common.Program, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO program (code) VALUES ($1) RETURNING id`, c)
			out := common.Program{Code: c}
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	program, err := resolve.OrCreate(ctx, sc.rs, spec, code)
	if err != nil {
		return nil, err
	}

	// A stub first seen as a program reference gains its name and division
	// ownership once the same code appears as a program element.
	changed := false
	if program.Name == nil && name != nil && *name != "" {
		program.Name = name
		changed = true
	}
	if program.DivisionID == nil && divisionID != nil {
		program.DivisionID = divisionID
		changed = true
	}
	if changed {
		_, err := sc.tx.Exec(ctx, `
			UPDATE program SET name = $2, division_id = $3 WHERE id = $1`,
			program.ID, program.Name, program.DivisionID)
		if err != nil {
			return nil, err
		}
	}
	return program, nil
}

func (sc *scope) ResolveInstitution(ctx context.Context, name, phone string) (*common.Institution, error) {
	type args struct{ name, phone string }
	spec := resolve.Spec[args, common.Institution]{
		Entity: "institution",
		Key:    func(a args) string { return a.name + "\x1f" + a.phone },
		Find: func(ctx context.Context, a args) (*common.Institution, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, name, phone, address_id
				FROM institution WHERE name = $1 AND phone = $2`, a.name, a.phone)
			var out common.Institution
			err := row.Scan(&out.ID, &out.Name, &out.Phone, &out.AddressID)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, a args) (*common.Institution, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO institution (name, phone) VALUES ($1, $2)
				RETURNING id`, a.name, a.phone)
			out := common.Institution{Name: a.name, Phone: a.phone}
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, args{name: name, phone: phone})
}

func (sc *scope) ResolveAddress(ctx context.Context, address common.Address) (*common.Address, error) {
	spec := resolve.Spec[common.Address, common.Address]{
		Entity: "address",
		Key: func(a common.Address) string {
			return a.Street + "\x1f" + a.City + "\x1f" + a.State + "\x1f" + a.Country + "\x1f" + a.Zip
		},
		Find: func(ctx context.Context, a common.Address) (*common.Address, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, street, city, state, country, zip, lat, lon
				FROM address
				WHERE street = $1 AND city = $2 AND state = $3 AND country = $4 AND zip = $5`,
				a.Street, a.City, a.State, a.Country, a.Zip)
			var out common.Address
			err := row.Scan(&out.ID, &out.Street, &out.City, &out.State,
				&out.Country, &out.Zip, &out.Lat, &out.Lon)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, a common.Address) (*common.Address, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO address (street, city, state, country, zip)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`, a.Street, a.City, a.State, a.Country, a.Zip)
			out := a
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, address)
}

func (sc *scope) ResolvePerson(ctx context.Context, name common.PersonName, email *string) (*common.Person, error) {
	type args struct {
		name  common.PersonName
		email *string
	}
	spec := resolve.Spec[args, common.Person]{
		Entity: "person",
		Key: func(a args) string {
			middle := ""
			if a.name.Middle != nil {
				middle = *a.name.Middle
			}
			return a.name.First + "\x1f" + a.name.Last + "\x1f" + middle
		},
		Find: func(ctx context.Context, a args) (*common.Person, error) {
			row := sc.tx.QueryRow(ctx, `
				SELECT id, first_name, last_name, middle_name, title, nickname, suffix, email
				FROM person
				WHERE first_name = $1 AND last_name = $2
				  AND middle_name IS NOT DISTINCT FROM $3`,
				a.name.First, a.name.Last, a.name.Middle)
			var out common.Person
			err := row.Scan(&out.ID, &out.Name.First, &out.Name.Last, &out.Name.Middle,
				&out.Name.Title, &out.Name.Nickname, &out.Name.Suffix, &out.Email)
			if errors.Is(err, pgxv5.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
		Insert: func(ctx context.Context, a args) (*common.Person, error) {
			row := sc.tx.QueryRow(ctx, `
				INSERT INTO person (first_name, last_name, middle_name, title, nickname, suffix, email)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id`,
				a.name.First, a.name.Last, a.name.Middle,
				a.name.Title, a.name.Nickname, a.name.Suffix, a.email)
			out := common.Person{Name: a.name, Email: a.email}
			if err := row.Scan(&out.ID); err != nil {
				return nil, wrapUnique(err)
			}
			return &out, nil
		},
	}
	person, err := resolve.OrCreate(ctx, sc.rs, spec, args{name: name, email: email})
	if err != nil {
		return nil, err
	}

	// An existing person without an email adopts the one seen now.
	if person.Email == nil && email != nil {
		person.Email = email
		_, err := sc.tx.Exec(ctx, `
			UPDATE person SET email = $2 WHERE id = $1`, person.ID, email)
		if err != nil {
			return nil, wrapUnique(err)
		}
	}
	return person, nil
}

func (sc *scope) SetInstitutionAddress(ctx context.Context, institutionID, addressID int64) error {
	_, err := sc.tx.Exec(ctx, `
		UPDATE institution SET address_id = $2 WHERE id = $1`, institutionID, addressID)
	return err
}

func (sc *scope) AddRelatedPrograms(ctx context.Context, primaryID, secondaryID int64) error {
	if primaryID == secondaryID {
		return fmt.Errorf("related programs must be distinct, got %d twice", primaryID)
	}
	_, err := sc.tx.Exec(ctx, `
		INSERT INTO related_programs (pgm1_id, pgm2_id) VALUES ($1, $2)
		ON CONFLICT (pgm1_id, pgm2_id) DO NOTHING`, primaryID, secondaryID)
	return err
}

func (sc *scope) AddFunding(ctx context.Context, programID, awardID int64) error {
	_, err := sc.tx.Exec(ctx, `
		INSERT INTO funding (pgm_id, award_id) VALUES ($1, $2)
		ON CONFLICT (pgm_id, award_id) DO NOTHING`, programID, awardID)
	return err
}

func (sc *scope) AddRole(ctx context.Context, role common.AwardRole) error {
	_, err := sc.tx.Exec(ctx, `
		INSERT INTO award_role (person_id, award_id, role, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (person_id, award_id) DO NOTHING`,
		role.PersonID, role.AwardID, string(role.Role), role.Start, role.End)
	return err
}

func (sc *scope) AddAffiliation(ctx context.Context, affiliation common.Affiliation) error {
	_, err := sc.tx.Exec(ctx, `
		INSERT INTO affiliation (person_id, institution_id, award_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (person_id, institution_id, award_id) DO NOTHING`,
		affiliation.PersonID, affiliation.InstitutionID, affiliation.AwardID)
	return err
}

func (sc *scope) Commit(ctx context.Context) error {
	return wrapUnique(sc.tx.Commit(ctx))
}

func (sc *scope) Rollback(ctx context.Context) error {
	sc.rs.Reset()
	err := sc.tx.Rollback(ctx)
	if errors.Is(err, pgxv5.ErrTxClosed) {
		return nil
	}
	return err
}
