package content

import (
	"context"
	"math/rand"
)

// Library is the single draw point for game content. It combines the
// built-in pools with an optional Store for access-code custom themes.
// Every draw is a server-side uniform random selection; clients only ever
// see the concrete result.
type Library struct {
	themes    map[string]Theme
	locations []Location
	questions []QuestionPair
	store     Store // may be nil
}

func NewLibrary(store Store) *Library {
	return &Library{
		themes:    builtinThemes,
		locations: builtinLocations,
		questions: builtinQuestions,
		store:     store,
	}
}

// Themes lists the built-in theme names.
func (l *Library) Themes() []string {
	names := make([]string, 0, len(l.themes))
	for name := range l.themes {
		names = append(names, name)
	}
	return names
}

// DrawWord selects one entry from the named built-in theme.
func (l *Library) DrawWord(theme string) (WordEntry, error) {
	t, exists := l.themes[theme]
	if !exists {
		return WordEntry{}, ErrThemeNotFound
	}
	return drawEntry(t)
}

// DrawCustomWord selects one entry from the custom theme behind accessCode.
func (l *Library) DrawCustomWord(ctx context.Context, accessCode string) (WordEntry, error) {
	if l.store == nil {
		return WordEntry{}, ErrThemeNotFound
	}
	t, err := l.store.CustomTheme(ctx, accessCode)
	if err != nil {
		return WordEntry{}, err
	}
	return drawEntry(*t)
}

func (l *Library) DrawLocation() (Location, error) {
	if len(l.locations) == 0 {
		return Location{}, ErrEmptyTheme
	}
	return l.locations[rand.Intn(len(l.locations))], nil
}

func (l *Library) DrawQuestionPair() (QuestionPair, error) {
	if len(l.questions) == 0 {
		return QuestionPair{}, ErrEmptyTheme
	}
	return l.questions[rand.Intn(len(l.questions))], nil
}

func drawEntry(t Theme) (WordEntry, error) {
	if len(t.Entries) == 0 {
		return WordEntry{}, ErrEmptyTheme
	}
	return t.Entries[rand.Intn(len(t.Entries))], nil
}
