package memory

import (
	"context"
	"fmt"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/resolve"
	"github.com/grantgraph/grantgraph/pkg/store"
)

// scope stages one record's subgraph. Nothing touches the committed maps
// until Commit, which re-checks every uniqueness constraint under the store
// lock; Rollback simply discards the staged state.
type scope struct {
	st *Store
	rs *resolve.Scope

	newAwards       []*common.Award
	newDirectorates []*common.Directorate
	newDivisions    []*common.Division
	newPrograms     []*common.Program
	newInstitutions []*common.Institution
	newAddresses    []*common.Address
	newPeople       []*common.Person

	adoptedPrograms     map[string]*common.Program
	adoptedInstitutions map[string]*common.Institution

	instAddr map[int64]int64
	roles    map[edgeKey]*common.AwardRole
	affil    map[edgeKey]struct{}
	funding  map[edgeKey]struct{}
	related  map[edgeKey]struct{}

	closed bool
}

func newScope(st *Store) *scope {
	return &scope{
		st:                  st,
		rs:                  resolve.NewScope(),
		adoptedPrograms:     make(map[string]*common.Program),
		adoptedInstitutions: make(map[string]*common.Institution),
		instAddr:            make(map[int64]int64),
		roles:               make(map[edgeKey]*common.AwardRole),
		affil:               make(map[edgeKey]struct{}),
		funding:             make(map[edgeKey]struct{}),
		related:             make(map[edgeKey]struct{}),
	}
}

func (sc *scope) ResolveAward(ctx context.Context, award common.Award) (*common.Award, error) {
	spec := resolve.Spec[common.Award, common.Award]{
		Entity: "award",
		Key:    func(a common.Award) string { return a.Code },
		Find: func(_ context.Context, a common.Award) (*common.Award, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.awards[a.Code]; ok {
				return cloneAward(*existing), nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, a common.Award) (*common.Award, error) {
			sc.st.mu.Lock()
			a.ID = sc.st.nextID()
			sc.st.mu.Unlock()
			staged := cloneAward(a)
			sc.newAwards = append(sc.newAwards, staged)
			return staged, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, award)
}

func (sc *scope) ResolveDirectorate(ctx context.Context, name string) (*common.Directorate, error) {
	spec := resolve.Spec[string, common.Directorate]{
		Entity: "directorate",
		Key:    func(n string) string { return n },
		Find: func(_ context.Context, n string) (*common.Directorate, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.directorates[n]; ok {
				out := *existing
				return &out, nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, n string) (*common.Directorate, error) {
			sc.st.mu.Lock()
			id := sc.st.nextID()
			sc.st.mu.Unlock()
			staged := &common.Directorate{ID: id, Name: n}
			sc.newDirectorates = append(sc.newDirectorates, staged)
			return staged, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, name)
}

func (sc *scope) ResolveDivision(ctx context.Context, name string, directorateID int64) (*common.Division, error) {
	spec := resolve.Spec[string, common.Division]{
		Entity: "division",
		Key:    func(n string) string { return n },
		Find: func(_ context.Context, n string) (*common.Division, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.divisions[n]; ok {
				out := *existing
				return &out, nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, n string) (*common.Division, error) {
			sc.st.mu.Lock()
			id := sc.st.nextID()
			sc.st.mu.Unlock()
			staged := &common.Division{ID: id, Name: n, DirectorateID: directorateID}
			sc.newDivisions = append(sc.newDivisions, staged)
			return staged, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, name)
}

func (sc *scope) ResolveProgram(ctx context.Context, code string, name *string, divisionID *int64) (*common.Program, error) {
	spec := resolve.Spec[string, common.Program]{
		Entity: "program",
		Key:    func(c string) string { return c },
		Find: func(_ context.Context, c string) (*common.Program, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.programs[c]; ok {
				out := *existing
				sc.adoptedPrograms[c] = &out
				return &out, nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, c string) (*common.Program, error) {
			sc.st.mu.Lock()
			id := sc.st.nextID()
			sc.st.mu.Unlock()
			staged := &common.Program{ID: id, Code: c}
			sc.newPrograms = append(sc.newPrograms, staged)
			return staged, nil
		},
	}
	program, err := resolve.OrCreate(ctx, sc.rs, spec, code)
	if err != nil {
		return nil, err
	}

	// A stub first seen as a program reference gains its name and division
	// ownership once the same code appears as a program element.
	if program.Name == nil && name != nil && *name != "" {
		program.Name = name
	}
	if program.DivisionID == nil && divisionID != nil {
		program.DivisionID = divisionID
	}
	return program, nil
}

func (sc *scope) ResolveInstitution(ctx context.Context, name, phone string) (*common.Institution, error) {
	type args struct{ name, phone string }
	spec := resolve.Spec[args, common.Institution]{
		Entity: "institution",
		Key:    func(a args) string { return institutionKey(a.name, a.phone) },
		Find: func(_ context.Context, a args) (*common.Institution, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.institutions[institutionKey(a.name, a.phone)]; ok {
				out := *existing
				sc.adoptedInstitutions[institutionKey(a.name, a.phone)] = &out
				return &out, nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, a args) (*common.Institution, error) {
			sc.st.mu.Lock()
			id := sc.st.nextID()
			sc.st.mu.Unlock()
			staged := &common.Institution{ID: id, Name: a.name, Phone: a.phone}
			sc.newInstitutions = append(sc.newInstitutions, staged)
			return staged, nil
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
		Find: func(_ context.Context, a common.Address) (*common.Address, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.addresses[keyForAddress(a)]; ok {
				out := *existing
				return &out, nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, a common.Address) (*common.Address, error) {
			sc.st.mu.Lock()
			a.ID = sc.st.nextID()
			sc.st.mu.Unlock()
			staged := a
			sc.newAddresses = append(sc.newAddresses, &staged)
			return &staged, nil
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
			k := keyForPerson(a.name)
			return k.first + "\x1f" + k.last + "\x1f" + k.middle
		},
		Find: func(_ context.Context, a args) (*common.Person, error) {
			sc.st.mu.Lock()
			defer sc.st.mu.Unlock()
			if existing, ok := sc.st.people[keyForPerson(a.name)]; ok {
				return clonePerson(*existing), nil
			}
			return nil, nil
		},
		Insert: func(_ context.Context, a args) (*common.Person, error) {
			sc.st.mu.Lock()
			id := sc.st.nextID()
			sc.st.mu.Unlock()
			staged := &common.Person{ID: id, Name: a.name, Email: a.email}
			sc.newPeople = append(sc.newPeople, staged)
			return staged, nil
		},
	}
	return resolve.OrCreate(ctx, sc.rs, spec, args{name: name, email: email})
}

func (sc *scope) SetInstitutionAddress(_ context.Context, institutionID, addressID int64) error {
	sc.instAddr[institutionID] = addressID
	return nil
}

func (sc *scope) AddRelatedPrograms(_ context.Context, primaryID, secondaryID int64) error {
	if primaryID == secondaryID {
		return fmt.Errorf("related programs must be distinct, got %d twice", primaryID)
	}
	sc.related[edgeKey{a: primaryID, b: secondaryID}] = struct{}{}
	return nil
}

func (sc *scope) AddFunding(_ context.Context, programID, awardID int64) error {
	sc.funding[edgeKey{a: programID, b: awardID}] = struct{}{}
	return nil
}

func (sc *scope) AddRole(_ context.Context, role common.AwardRole) error {
	key := edgeKey{a: role.PersonID, b: role.AwardID}
	if _, ok := sc.roles[key]; ok {
		return nil
	}
	staged := role
	sc.roles[key] = &staged
	return nil
}

func (sc *scope) AddAffiliation(_ context.Context, affiliation common.Affiliation) error {
	sc.affil[edgeKey{a: affiliation.PersonID, b: affiliation.InstitutionID, c: affiliation.AwardID}] = struct{}{}
	return nil
}

// Commit merges the staged subgraph into the store, re-validating every
// uniqueness constraint under the lock. A constraint hit means another scope
// won the race for the same natural key; the whole commit is abandoned and
// reported as a conflict.
func (sc *scope) Commit(_ context.Context) error {
	if sc.closed {
		return fmt.Errorf("scope already closed")
	}
	sc.closed = true

	st := sc.st
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, a := range sc.newAwards {
		if _, exists := st.awards[a.Code]; exists {
			return conflict("award", a.Code)
		}
	}
	for _, d := range sc.newDirectorates {
		if _, exists := st.directorates[d.Name]; exists {
			return conflict("directorate", d.Name)
		}
	}
	for _, d := range sc.newDivisions {
		if _, exists := st.divisions[d.Name]; exists {
			return conflict("division", d.Name)
		}
	}
	for _, p := range sc.newPrograms {
		if _, exists := st.programs[p.Code]; exists {
			return conflict("program", p.Code)
		}
	}
	for _, i := range sc.newInstitutions {
		if _, exists := st.institutions[institutionKey(i.Name, i.Phone)]; exists {
			return conflict("institution", i.Name)
		}
	}
	for _, a := range sc.newAddresses {
		if _, exists := st.addresses[keyForAddress(*a)]; exists {
			return conflict("address", a.Street)
		}
	}
	for _, p := range sc.newPeople {
		if _, exists := st.people[keyForPerson(p.Name)]; exists {
			return conflict("person", p.Name.FullName())
		}
		if p.Email != nil {
			if owner, exists := st.emails[*p.Email]; exists && owner != keyForPerson(p.Name) {
				return conflict("person email", *p.Email)
			}
		}
	}
	for key, role := range sc.roles {
		if _, exists := st.roles[key]; exists {
			return conflict("role", fmt.Sprintf("%d/%d", role.PersonID, role.AwardID))
		}
	}

	for _, a := range sc.newAwards {
		st.awards[a.Code] = a
	}
	for _, d := range sc.newDirectorates {
		st.directorates[d.Name] = d
	}
	for _, d := range sc.newDivisions {
		st.divisions[d.Name] = d
	}
	for _, p := range sc.newPrograms {
		st.programs[p.Code] = p
	}
	for code, p := range sc.adoptedPrograms {
		st.programs[code] = p
	}
	for _, i := range sc.newInstitutions {
		st.institutions[institutionKey(i.Name, i.Phone)] = i
	}
	for key, i := range sc.adoptedInstitutions {
		st.institutions[key] = i
	}
	for _, a := range sc.newAddresses {
		st.addresses[keyForAddress(*a)] = a
	}
	for _, p := range sc.newPeople {
		st.people[keyForPerson(p.Name)] = p
		if p.Email != nil {
			st.emails[*p.Email] = keyForPerson(p.Name)
		}
	}

	for instID, addrID := range sc.instAddr {
		for _, i := range st.institutions {
			if i.ID == instID {
				id := addrID
				i.AddressID = &id
			}
		}
	}
	for key, role := range sc.roles {
		st.roles[key] = role
	}
	for key := range sc.affil {
		st.affiliations[key] = struct{}{}
	}
	for key := range sc.funding {
		st.funding[key] = struct{}{}
	}
	for key := range sc.related {
		st.related[key] = struct{}{}
	}

	return nil
}

// Rollback discards the staged subgraph.
func (sc *scope) Rollback(_ context.Context) error {
	if sc.closed {
		return nil
	}
	sc.closed = true
	sc.rs.Reset()
	return nil
}

var _ store.Scope = (*scope)(nil)
