package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/repository/sqlite"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

func newTestMemberService(t *testing.T) *service.MemberService {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return service.NewMemberService(db.Members())
}

func seedMembers() []domain.Member {
	return []domain.Member{
		{ID: "1", Name: "Atsushi", NameRomaji: "Atsushi"},
		{ID: "4", Name: "Kaito", Birthday: "2003-04-13", InstagramURL: "https://instagram.com/kaito"},
		{ID: "5", Name: "Ren", ImageURL: "https://cdn.example/ren.jpeg", Profile: "**Captain**"},
	}
}

func TestMemberService_SeedThenLoad(t *testing.T) {
	members := newTestMemberService(t)
	ctx := context.Background()

	if err := members.Seed(ctx, seedMembers()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	dir, err := members.LoadDirectory(ctx)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if dir.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", dir.Len())
	}
	for i, want := range seedMembers() {
		if got := dir.At(i); got != want {
			t.Fatalf("member %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestMemberService_SeedIsIdempotent(t *testing.T) {
	members := newTestMemberService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := members.Seed(ctx, seedMembers()); err != nil {
			t.Fatalf("Seed %d: %v", i, err)
		}
	}

	dir, err := members.LoadDirectory(ctx)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if dir.Len() != 3 {
		t.Fatalf("expected 3 members after repeated seeding, got %d", dir.Len())
	}
}

func TestMemberService_SeedReordersAndPrunes(t *testing.T) {
	members := newTestMemberService(t)
	ctx := context.Background()

	if err := members.Seed(ctx, seedMembers()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	next := []domain.Member{
		{ID: "5", Name: "Ren"},
		{ID: "1", Name: "Atsushi Renamed"},
	}
	if err := members.Seed(ctx, next); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	dir, err := members.LoadDirectory(ctx)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if dir.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", dir.Len())
	}
	if dir.At(0).ID != "5" || dir.At(1).Name != "Atsushi Renamed" {
		t.Fatalf("unexpected order or content: %+v", dir.Members())
	}
	if _, err := dir.IndexOf("4"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected pruned member to be gone, got %v", err)
	}
}

func TestMemberService_SeedRejectsDuplicates(t *testing.T) {
	members := newTestMemberService(t)
	ctx := context.Background()

	err := members.Seed(ctx, []domain.Member{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}})
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	if _, err := members.LoadDirectory(ctx); err != nil {
		t.Fatalf("LoadDirectory on empty store: %v", err)
	}
}
