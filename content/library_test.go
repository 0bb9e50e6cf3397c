package content

import (
	"context"
	"testing"
)

// MockStore is a test double for the Store interface.
type MockStore struct {
	theme *Theme
	err   error
}

func (m *MockStore) CustomTheme(ctx context.Context, accessCode string) (*Theme, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.theme, nil
}

func (m *MockStore) SaveCustomTheme(ctx context.Context, theme *Theme) error {
	m.theme = theme
	return nil
}

func (m *MockStore) Close() error { return nil }

func TestLibrary_DrawWordFromBuiltinTheme(t *testing.T) {
	library := NewLibrary(nil)

	entry, err := library.DrawWord("classic")
	if err != nil {
		t.Fatalf("DrawWord failed: %v", err)
	}
	if entry.Word == "" {
		t.Error("Drawn entry has no word")
	}

	if _, err := library.DrawWord("missing"); err != ErrThemeNotFound {
		t.Errorf("Expected ErrThemeNotFound, got: %v", err)
	}
}

func TestLibrary_Themes(t *testing.T) {
	library := NewLibrary(nil)

	names := library.Themes()
	found := make(map[string]bool)
	for _, name := range names {
		found[name] = true
	}
	for _, want := range []string{"classic", "animals", "food"} {
		if !found[want] {
			t.Errorf("Built-in theme %q missing from %v", want, names)
		}
	}
}

func TestLibrary_DrawCustomWord(t *testing.T) {
	store := &MockStore{theme: &Theme{
		Name:       "movies",
		AccessCode: "FILM01",
		Entries:    []WordEntry{{Word: "jaws", Category: "movies"}},
	}}
	library := NewLibrary(store)

	entry, err := library.DrawCustomWord(context.Background(), "FILM01")
	if err != nil {
		t.Fatalf("DrawCustomWord failed: %v", err)
	}
	if entry.Word != "jaws" {
		t.Errorf("Expected jaws, got %q", entry.Word)
	}
}

func TestLibrary_DrawCustomWordWithoutStore(t *testing.T) {
	library := NewLibrary(nil)
	if _, err := library.DrawCustomWord(context.Background(), "FILM01"); err != ErrThemeNotFound {
		t.Errorf("Expected ErrThemeNotFound without a store, got: %v", err)
	}
}

func TestLibrary_DrawCustomWordPropagatesStoreError(t *testing.T) {
	store := &MockStore{err: ErrThemeNotFound}
	library := NewLibrary(store)
	if _, err := library.DrawCustomWord(context.Background(), "NOPE"); err != ErrThemeNotFound {
		t.Errorf("Expected store error to propagate, got: %v", err)
	}
}

func TestLibrary_EmptyCustomThemeRejected(t *testing.T) {
	store := &MockStore{theme: &Theme{Name: "empty", AccessCode: "X"}}
	library := NewLibrary(store)
	if _, err := library.DrawCustomWord(context.Background(), "X"); err != ErrEmptyTheme {
		t.Errorf("Expected ErrEmptyTheme, got: %v", err)
	}
}

func TestLibrary_DrawLocationAndQuestions(t *testing.T) {
	library := NewLibrary(nil)

	loc, err := library.DrawLocation()
	if err != nil {
		t.Fatalf("DrawLocation failed: %v", err)
	}
	if loc.Name == "" || len(loc.Roles) == 0 {
		t.Errorf("Location draw incomplete: %+v", loc)
	}

	pair, err := library.DrawQuestionPair()
	if err != nil {
		t.Fatalf("DrawQuestionPair failed: %v", err)
	}
	if pair.Crew == "" || pair.Impostor == "" {
		t.Errorf("Question pair incomplete: %+v", pair)
	}
	if pair.Crew == pair.Impostor {
		t.Error("Crew and impostor questions must differ")
	}
}
