package pgx

import (
	"context"
	"errors"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

func (s *Store) AwardByCode(ctx context.Context, code string) (*common.Award, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, code, title, abstract, instrument, effective, expires,
		       first_amended, last_amended, amount, arra_amount
		FROM award WHERE code = $1`, code)
	var out common.Award
	err := row.Scan(&out.ID, &out.Code, &out.Title, &out.Abstract, &out.Instrument,
		&out.Effective, &out.Expires, &out.FirstAmended, &out.LastAmended,
		&out.Amount, &out.ARRAAmount)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ProgramByCode(ctx context.Context, code string) (*common.Program, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, code, name, division_id FROM program WHERE code = $1`, code)
	var out common.Program
	err := row.Scan(&out.ID, &out.Code, &out.Name, &out.DivisionID)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RelatedPrograms follows the link table in both directions, so the same
// answer comes back no matter which side of the pair is asked about.
func (s *Store) RelatedPrograms(ctx context.Context, programID int64) ([]common.Program, error) {
	return scanPrograms(ctx, s.pool, `
		SELECT p.id, p.code, p.name, p.division_id
		FROM program p
		JOIN related_programs r
		  ON (r.pgm1_id = $1 AND r.pgm2_id = p.id)
		  OR (r.pgm2_id = $1 AND r.pgm1_id = p.id)
		ORDER BY p.code`, programID)
}

func (s *Store) ProgramsByAward(ctx context.Context, awardID int64) ([]common.Program, error) {
	return scanPrograms(ctx, s.pool, `
		SELECT p.id, p.code, p.name, p.division_id
		FROM program p
		JOIN funding f ON f.pgm_id = p.id
		WHERE f.award_id = $1
		ORDER BY p.code`, awardID)
}

func (s *Store) RolesByAward(ctx context.Context, awardID int64) ([]common.AwardRole, error) {
	return scanRoles(ctx, s.pool, `
		SELECT person_id, award_id, role, start_date, end_date
		FROM award_role
		WHERE award_id = $1
		ORDER BY person_id`, awardID)
}

func (s *Store) RolesByPerson(ctx context.Context, personID int64) ([]common.AwardRole, error) {
	return scanRoles(ctx, s.pool, `
		SELECT person_id, award_id, role, start_date, end_date
		FROM award_role
		WHERE person_id = $1
		ORDER BY award_id`, personID)
}

func (s *Store) PeopleByAward(ctx context.Context, awardID int64) ([]common.Person, error) {
	return scanPeople(ctx, s.pool, `
		SELECT p.id, p.first_name, p.last_name, p.middle_name, p.title, p.nickname, p.suffix, p.email
		FROM person p
		JOIN award_role r ON r.person_id = p.id
		WHERE r.award_id = $1
		ORDER BY p.id`, awardID)
}

func (s *Store) PeopleByLastName(ctx context.Context, lastName string) ([]common.Person, error) {
	return scanPeople(ctx, s.pool, `
		SELECT id, first_name, last_name, middle_name, title, nickname, suffix, email
		FROM person
		WHERE lower(last_name) = lower($1)
		ORDER BY id`, lastName)
}

func (s *Store) InstitutionsByAward(ctx context.Context, awardID int64) ([]common.Institution, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT i.id, i.name, i.phone, i.address_id
		FROM institution i
		JOIN affiliation a ON a.institution_id = i.id
		WHERE a.award_id = $1
		ORDER BY i.id`, awardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []common.Institution
	for rows.Next() {
		var inst common.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Phone, &inst.AddressID); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (s *Store) InstitutionAddress(ctx context.Context, institutionID int64) (*common.Address, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT a.id, a.street, a.city, a.state, a.country, a.zip, a.lat, a.lon
		FROM address a
		JOIN institution i ON i.address_id = a.id
		WHERE i.id = $1`, institutionID)
	var out common.Address
	err := row.Scan(&out.ID, &out.Street, &out.City, &out.State, &out.Country,
		&out.Zip, &out.Lat, &out.Lon)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) AddPublication(ctx context.Context, publication *common.Publication) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO publication (title, abstract, journal, volume, pages, year, uri, award_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		publication.Title, publication.Abstract, publication.Journal, publication.Volume,
		publication.Pages, publication.Year, publication.URI, publication.AwardID)
	return row.Scan(&publication.ID)
}

func (s *Store) AddAuthor(ctx context.Context, personID, publicationID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO author (person_id, publication_id) VALUES ($1, $2)
		ON CONFLICT (person_id, publication_id) DO NOTHING`, personID, publicationID)
	return err
}

func (s *Store) PublicationsByAward(ctx context.Context, awardID int64) ([]common.Publication, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, abstract, journal, volume, pages, year, uri, award_id
		FROM publication
		WHERE award_id = $1
		ORDER BY id`, awardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []common.Publication
	for rows.Next() {
		var pub common.Publication
		err := rows.Scan(&pub.ID, &pub.Title, &pub.Abstract, &pub.Journal,
			&pub.Volume, &pub.Pages, &pub.Year, &pub.URI, &pub.AwardID)
		if err != nil {
			return nil, err
		}
		out = append(out, pub)
	}
	return out, rows.Err()
}

func (s *Store) AuthorsOf(ctx context.Context, publicationID int64) ([]common.Person, error) {
	return scanPeople(ctx, s.pool, `
		SELECT p.id, p.first_name, p.last_name, p.middle_name, p.title, p.nickname, p.suffix, p.email
		FROM person p
		JOIN author a ON a.person_id = p.id
		WHERE a.publication_id = $1
		ORDER BY p.id`, publicationID)
}

func scanPrograms(ctx context.Context, conn pgxIConn, sql string, args ...any) ([]common.Program, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []common.Program
	for rows.Next() {
		var program common.Program
		if err := rows.Scan(&program.ID, &program.Code, &program.Name, &program.DivisionID); err != nil {
			return nil, err
		}
		out = append(out, program)
	}
	return out, rows.Err()
}

func scanRoles(ctx context.Context, conn pgxIConn, sql string, args ...any) ([]common.AwardRole, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []common.AwardRole
	for rows.Next() {
		var role common.AwardRole
		var code string
		if err := rows.Scan(&role.PersonID, &role.AwardID, &code, &role.Start, &role.End); err != nil {
			return nil, err
		}
		role.Role = common.Role(code)
		out = append(out, role)
	}
	return out, rows.Err()
}

func scanPeople(ctx context.Context, conn pgxIConn, sql string, args ...any) ([]common.Person, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []common.Person
	for rows.Next() {
		var person common.Person
		err := rows.Scan(&person.ID, &person.Name.First, &person.Name.Last,
			&person.Name.Middle, &person.Name.Title, &person.Name.Nickname,
			&person.Name.Suffix, &person.Email)
		if err != nil {
			return nil, err
		}
		out = append(out, person)
	}
	return out, rows.Err()
}
