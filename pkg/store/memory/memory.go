// Package memory implements store.Storage with plain maps. It mirrors the
// relational backend's uniqueness constraints and per-scope staging so that
// graph construction can be exercised without a database.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/store"
)

type addressKey struct {
	street, city, state, country, zip string
}

type personKey struct {
	first, last, middle string
}

type edgeKey struct {
	a, b, c int64
}

// Store holds the committed graph. All access goes through the mutex; write
// scopes stage privately and merge on commit.
type Store struct {
	mu  sync.Mutex
	seq int64

	awards       map[string]*common.Award
	directorates map[string]*common.Directorate
	divisions    map[string]*common.Division
	programs     map[string]*common.Program
	institutions map[string]*common.Institution
	addresses    map[addressKey]*common.Address
	people       map[personKey]*common.Person
	emails       map[string]personKey
	countries    map[string]string

	roles        map[edgeKey]*common.AwardRole
	affiliations map[edgeKey]struct{}
	funding      map[edgeKey]struct{}
	related      map[edgeKey]struct{}

	publications map[int64]*common.Publication
	authors      map[edgeKey]struct{}
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		awards:       make(map[string]*common.Award),
		directorates: make(map[string]*common.Directorate),
		divisions:    make(map[string]*common.Division),
		programs:     make(map[string]*common.Program),
		institutions: make(map[string]*common.Institution),
		addresses:    make(map[addressKey]*common.Address),
		people:       make(map[personKey]*common.Person),
		emails:       make(map[string]personKey),
		countries:    make(map[string]string),
		roles:        make(map[edgeKey]*common.AwardRole),
		affiliations: make(map[edgeKey]struct{}),
		funding:      make(map[edgeKey]struct{}),
		related:      make(map[edgeKey]struct{}),
		publications: make(map[int64]*common.Publication),
		authors:      make(map[edgeKey]struct{}),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func institutionKey(name, phone string) string {
	return name + "\x1f" + phone
}

func keyForAddress(a common.Address) addressKey {
	return addressKey{a.Street, a.City, a.State, a.Country, a.Zip}
}

func keyForPerson(n common.PersonName) personKey {
	middle := ""
	if n.Middle != nil {
		middle = *n.Middle
	}
	return personKey{n.First, n.Last, middle}
}

// EnsureCountries idempotently seeds the country reference table.
func (s *Store) EnsureCountries(_ context.Context, countries []common.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range countries {
		s.countries[c.Alpha2] = c.Name
	}
	return nil
}

// Counts reports the number of committed rows per entity type.
type Counts struct {
	Awards       int
	Directorates int
	Divisions    int
	Programs     int
	Institutions int
	Addresses    int
	People       int
	Roles        int
	Affiliations int
	Funding      int
	Related      int
}

// RowCounts returns the committed row counts. Tests use it to verify
// deduplication and atomic rollback.
func (s *Store) RowCounts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Awards:       len(s.awards),
		Directorates: len(s.directorates),
		Divisions:    len(s.divisions),
		Programs:     len(s.programs),
		Institutions: len(s.institutions),
		Addresses:    len(s.addresses),
		People:       len(s.people),
		Roles:        len(s.roles),
		Affiliations: len(s.affiliations),
		Funding:      len(s.funding),
		Related:      len(s.related),
	}
}

// RowCount reports the total number of committed rows of every type.
func (s *Store) RowCount() int {
	c := s.RowCounts()
	return c.Awards + c.Directorates + c.Divisions + c.Programs +
		c.Institutions + c.Addresses + c.People + c.Roles +
		c.Affiliations + c.Funding + c.Related
}

// Begin opens a write scope. The scope stages all inserts privately and
// merges them into the store on Commit, rechecking uniqueness under the lock.
func (s *Store) Begin(_ context.Context) (store.Scope, error) {
	return newScope(s), nil
}

func cloneAward(a common.Award) *common.Award { out := a; return &out }

func clonePerson(p common.Person) *common.Person { out := p; return &out }

func lower(s string) string { return strings.ToLower(s) }

var _ store.Storage = (*Store)(nil)

func conflict(entity, key string) error {
	return fmt.Errorf("%s %q: %w", entity, key, store.ErrConflict)
}
