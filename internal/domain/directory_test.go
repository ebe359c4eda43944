package domain_test

import (
	"errors"
	"testing"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

func threeMembers() []domain.Member {
	return []domain.Member{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Bravo"},
		{ID: "c", Name: "Charlie"},
	}
}

func TestNewDirectory_PreservesOrder(t *testing.T) {
	dir, err := domain.NewDirectory(threeMembers())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	if dir.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", dir.Len())
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := dir.At(i).ID; got != want {
			t.Fatalf("At(%d) = %q, want %q", i, got, want)
		}
		idx, err := dir.IndexOf(want)
		if err != nil {
			t.Fatalf("IndexOf(%q): %v", want, err)
		}
		if idx != i {
			t.Fatalf("IndexOf(%q) = %d, want %d", want, idx, i)
		}
	}
}

func TestNewDirectory_RejectsDuplicateID(t *testing.T) {
	members := append(threeMembers(), domain.Member{ID: "b", Name: "Other"})
	_, err := domain.NewDirectory(members)
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestNewDirectory_RejectsMissingFields(t *testing.T) {
	if _, err := domain.NewDirectory([]domain.Member{{ID: "", Name: "x"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing id: expected ErrInvalidInput, got %v", err)
	}
	if _, err := domain.NewDirectory([]domain.Member{{ID: "x", Name: "  "}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing name: expected ErrInvalidInput, got %v", err)
	}
}

func TestDirectory_IndexOfUnknown(t *testing.T) {
	dir, _ := domain.NewDirectory(threeMembers())
	idx, err := dir.IndexOf("zzz")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if idx != -1 {
		t.Fatalf("expected -1, got %d", idx)
	}
	if _, err := dir.Get("zzz"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
}

func TestDirectory_MembersIsACopy(t *testing.T) {
	dir, _ := domain.NewDirectory(threeMembers())
	list := dir.Members()
	list[0].Name = "Mutated"
	if dir.At(0).Name != "Alpha" {
		t.Fatal("mutating Members() result changed the directory")
	}
}

func TestNewDirectory_CopiesInput(t *testing.T) {
	members := threeMembers()
	dir, _ := domain.NewDirectory(members)
	members[1].Name = "Mutated"
	if dir.At(1).Name != "Bravo" {
		t.Fatal("mutating the input slice changed the directory")
	}
}

func TestMember_Initial(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"大毛利寛太", "大"},
		{"Kanta", "K"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (domain.Member{Name: tt.name}).Initial(); got != tt.want {
			t.Errorf("Initial(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMember_Transliteration(t *testing.T) {
	m := domain.Member{Name: "中沢そら", NameKana: "なかざわそら", NameEn: "Sora"}
	if got := m.Transliteration(); got != "Sora" {
		t.Fatalf("expected NameEn before NameKana, got %q", got)
	}
	m.NameRomaji = "Sora Nakazawa"
	if got := m.Transliteration(); got != "Sora Nakazawa" {
		t.Fatalf("expected romaji first, got %q", got)
	}
	if got := (domain.Member{Name: "x"}).Transliteration(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestFeed_Valid(t *testing.T) {
	if !domain.FeedHero.Valid() || !domain.FeedGallery.Valid() {
		t.Fatal("known feeds should be valid")
	}
	if domain.Feed("other").Valid() {
		t.Fatal("unknown feed should be invalid")
	}
}
