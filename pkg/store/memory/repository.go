package memory

import (
	"context"
	"sort"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/store"
)

func (s *Store) AwardByCode(_ context.Context, code string) (*common.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	award, ok := s.awards[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneAward(*award), nil
}

func (s *Store) ProgramByCode(_ context.Context, code string) (*common.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	program, ok := s.programs[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *program
	return &out, nil
}

func (s *Store) programByIDLocked(id int64) *common.Program {
	for _, p := range s.programs {
		if p.ID == id {
			out := *p
			return &out
		}
	}
	return nil
}

func (s *Store) RelatedPrograms(_ context.Context, programID int64) ([]common.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.Program
	for key := range s.related {
		var other int64
		switch programID {
		case key.a:
			other = key.b
		case key.b:
			other = key.a
		default:
			continue
		}
		if p := s.programByIDLocked(other); p != nil {
			out = append(out, *p)
		}
	}
	sortPrograms(out)
	return out, nil
}

func (s *Store) ProgramsByAward(_ context.Context, awardID int64) ([]common.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.Program
	for key := range s.funding {
		if key.b != awardID {
			continue
		}
		if p := s.programByIDLocked(key.a); p != nil {
			out = append(out, *p)
		}
	}
	sortPrograms(out)
	return out, nil
}

func (s *Store) RolesByAward(_ context.Context, awardID int64) ([]common.AwardRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.AwardRole
	for _, role := range s.roles {
		if role.AwardID == awardID {
			out = append(out, *role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonID < out[j].PersonID })
	return out, nil
}

func (s *Store) RolesByPerson(_ context.Context, personID int64) ([]common.AwardRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.AwardRole
	for _, role := range s.roles {
		if role.PersonID == personID {
			out = append(out, *role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardID < out[j].AwardID })
	return out, nil
}

func (s *Store) personByIDLocked(id int64) *common.Person {
	for _, p := range s.people {
		if p.ID == id {
			return clonePerson(*p)
		}
	}
	return nil
}

func (s *Store) PeopleByAward(_ context.Context, awardID int64) ([]common.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{})
	var out []common.Person
	for _, role := range s.roles {
		if role.AwardID != awardID {
			continue
		}
		if _, ok := seen[role.PersonID]; ok {
			continue
		}
		seen[role.PersonID] = struct{}{}
		if p := s.personByIDLocked(role.PersonID); p != nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) InstitutionsByAward(_ context.Context, awardID int64) ([]common.Institution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{})
	var out []common.Institution
	for key := range s.affiliations {
		if key.c != awardID {
			continue
		}
		if _, ok := seen[key.b]; ok {
			continue
		}
		seen[key.b] = struct{}{}
		for _, inst := range s.institutions {
			if inst.ID == key.b {
				out = append(out, *inst)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) InstitutionAddress(_ context.Context, institutionID int64) (*common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range s.institutions {
		if inst.ID != institutionID {
			continue
		}
		if inst.AddressID == nil {
			return nil, store.ErrNotFound
		}
		for _, addr := range s.addresses {
			if addr.ID == *inst.AddressID {
				out := *addr
				return &out, nil
			}
		}
		return nil, store.ErrNotFound
	}
	return nil, store.ErrNotFound
}

func (s *Store) PeopleByLastName(_ context.Context, lastName string) ([]common.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.Person
	for _, p := range s.people {
		if lower(p.Name.Last) == lower(lastName) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddPublication(_ context.Context, publication *common.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	publication.ID = s.nextID()
	out := *publication
	s.publications[publication.ID] = &out
	return nil
}

func (s *Store) AddAuthor(_ context.Context, personID, publicationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors[edgeKey{a: personID, b: publicationID}] = struct{}{}
	return nil
}

func (s *Store) PublicationsByAward(_ context.Context, awardID int64) ([]common.Publication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.Publication
	for _, pub := range s.publications {
		if pub.AwardID != nil && *pub.AwardID == awardID {
			out = append(out, *pub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AuthorsOf(_ context.Context, publicationID int64) ([]common.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []common.Person
	for key := range s.authors {
		if key.b != publicationID {
			continue
		}
		if p := s.personByIDLocked(key.a); p != nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func sortPrograms(programs []common.Program) {
	sort.Slice(programs, func(i, j int) bool { return programs[i].Code < programs[j].Code })
}
