// Package store defines the persistence interfaces for the award graph.
// Scope boundaries (begin/commit/rollback) are owned by the caller; the
// graph builder receives an explicitly constructed handle rather than a
// process-wide session.
package store

import (
	"context"
	"errors"

	"github.com/grantgraph/grantgraph/pkg/common"
)

// ErrNotFound is returned by repository lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a commit loses a natural-key race: another
// scope persisted the same key first and the store's uniqueness constraint
// rejected this scope's insert. The record should be retried against the
// now-existing rows, not treated as corrupt data.
var ErrConflict = errors.New("natural key conflict")

// Storage is the full persistence surface: transactional write scopes for
// the graph builder, reference-data seeding, and the read repository.
type Storage interface {
	// Begin opens a write scope with its own identity-resolution cache.
	// One scope covers one record; it must end in Commit or Rollback.
	Begin(ctx context.Context) (Scope, error)

	// EnsureCountries idempotently seeds the country reference table.
	EnsureCountries(ctx context.Context, countries []common.Country) error

	Repository
}

// Scope is one record's transaction. Resolve methods follow the
// resolve-or-create protocol: at most one entity per natural key is visible
// within the scope, and repeated calls with the same key are idempotent.
// Edge methods are equally idempotent within the scope.
type Scope interface {
	ResolveAward(ctx context.Context, award common.Award) (*common.Award, error)
	ResolveDirectorate(ctx context.Context, name string) (*common.Directorate, error)
	ResolveDivision(ctx context.Context, name string, directorateID int64) (*common.Division, error)
	ResolveProgram(ctx context.Context, code string, name *string, divisionID *int64) (*common.Program, error)
	ResolveInstitution(ctx context.Context, name, phone string) (*common.Institution, error)
	ResolveAddress(ctx context.Context, address common.Address) (*common.Address, error)
	ResolvePerson(ctx context.Context, name common.PersonName, email *string) (*common.Person, error)

	SetInstitutionAddress(ctx context.Context, institutionID, addressID int64) error
	AddRelatedPrograms(ctx context.Context, primaryID, secondaryID int64) error
	AddFunding(ctx context.Context, programID, awardID int64) error
	AddRole(ctx context.Context, role common.AwardRole) error
	AddAffiliation(ctx context.Context, affiliation common.Affiliation) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Repository exposes explicit query and join methods over the persisted
// graph, replacing implicit relationship traversal.
type Repository interface {
	AwardByCode(ctx context.Context, code string) (*common.Award, error)
	ProgramByCode(ctx context.Context, code string) (*common.Program, error)
	RelatedPrograms(ctx context.Context, programID int64) ([]common.Program, error)
	ProgramsByAward(ctx context.Context, awardID int64) ([]common.Program, error)
	RolesByAward(ctx context.Context, awardID int64) ([]common.AwardRole, error)
	PeopleByAward(ctx context.Context, awardID int64) ([]common.Person, error)
	InstitutionsByAward(ctx context.Context, awardID int64) ([]common.Institution, error)
	InstitutionAddress(ctx context.Context, institutionID int64) (*common.Address, error)
	PeopleByLastName(ctx context.Context, lastName string) ([]common.Person, error)
	RolesByPerson(ctx context.Context, personID int64) ([]common.AwardRole, error)

	AddPublication(ctx context.Context, publication *common.Publication) error
	AddAuthor(ctx context.Context, personID, publicationID int64) error
	PublicationsByAward(ctx context.Context, awardID int64) ([]common.Publication, error)
	AuthorsOf(ctx context.Context, publicationID int64) ([]common.Person, error)
}
