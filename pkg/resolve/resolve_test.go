package resolve

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type program struct {
	id   int64
	code string
}

type fakeStore struct {
	rows    map[string]*program
	nextID  int64
	finds   int
	inserts int
}

func (f *fakeStore) spec() Spec[string, program] {
	return Spec[string, program]{
		Entity: "program",
		Key:    func(code string) string { return code },
		Find: func(_ context.Context, code string) (*program, error) {
			f.finds++
			return f.rows[code], nil
		},
		Insert: func(_ context.Context, code string) (*program, error) {
			f.inserts++
			f.nextID++
			p := &program{id: f.nextID, code: code}
			f.rows[code] = p
			return p, nil
		},
	}
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*program)}
}

func TestOrCreateCachesWithinScope(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	scope := NewScope()

	first, err := OrCreate(ctx, scope, store.spec(), "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := OrCreate(ctx, scope, store.spec(), "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatal("same natural key must yield the same instance within one scope")
	}
	if store.finds != 1 || store.inserts != 1 {
		t.Fatalf("second call must not touch the store: finds=%d inserts=%d", store.finds, store.inserts)
	}

	third, err := OrCreate(ctx, scope, store.spec(), "5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third == first {
		t.Fatal("different natural key must yield a different instance")
	}
	if scope.Len() != 2 {
		t.Fatalf("expected 2 cached identities, got %d", scope.Len())
	}
}

func TestOrCreateAdoptsExistingRow(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.rows["1234"] = &program{id: 99, code: "1234"}

	got, err := OrCreate(ctx, NewScope(), store.spec(), "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.id != 99 {
		t.Fatalf("expected adopted row id 99, got %d", got.id)
	}
	if store.inserts != 0 {
		t.Fatal("existing row must not trigger an insert")
	}
}

func TestOrCreateFreshScopeQueriesAgain(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	if _, err := OrCreate(ctx, NewScope(), store.spec(), "1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := OrCreate(ctx, NewScope(), store.spec(), "1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.finds != 2 {
		t.Fatalf("each scope must query the store once, got %d finds", store.finds)
	}
	if store.inserts != 1 {
		t.Fatalf("row must be created exactly once, got %d inserts", store.inserts)
	}
}

func TestOrCreatePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	spec := Spec[string, program]{
		Entity: "program",
		Key:    func(code string) string { return code },
		Find: func(context.Context, string) (*program, error) {
			return nil, boom
		},
		Insert: func(context.Context, string) (*program, error) {
			return nil, fmt.Errorf("unreachable")
		},
	}

	scope := NewScope()
	if _, err := OrCreate(ctx, scope, spec, "1234"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped find error, got %v", err)
	}
	if scope.Len() != 0 {
		t.Fatal("failed resolution must not be cached")
	}
}

func TestScopeReset(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	scope := NewScope()

	if _, err := OrCreate(ctx, scope, store.spec(), "1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scope.Reset()
	if scope.Len() != 0 {
		t.Fatal("reset must clear the cache")
	}
	if _, err := OrCreate(ctx, scope, store.spec(), "1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.finds != 2 {
		t.Fatalf("post-reset resolution must query the store, got %d finds", store.finds)
	}
}
