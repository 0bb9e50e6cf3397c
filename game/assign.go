package game

import (
	"context"
	"math/rand"

	"github.com/partyroom/impostor/content"
)

// Assigner deals secret roles and content for a round. All randomness runs
// here, once, server-side; clients only ever receive the concrete result.
type Assigner struct {
	library *content.Library
}

func NewAssigner(library *content.Library) *Assigner {
	return &Assigner{library: library}
}

// Assign validates the configuration against the connected player set and
// produces a complete Round. playerIDs must hold only connected players.
func (a *Assigner) Assign(ctx context.Context, mode Mode, cfg Config, playerIDs []string) (*Round, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}
	if len(playerIDs) < MinPlayers {
		return nil, ErrNotEnoughPlayers
	}
	if cfg.Impostors <= 0 {
		cfg.Impostors = 1
	}
	if cfg.Impostors >= len(playerIDs) {
		return nil, ErrTooManyImpostors
	}
	if mode == ModeFactions && (len(playerIDs)-cfg.Impostors)%2 != 0 {
		return nil, ErrUnevenFactions
	}

	round := &Round{
		Mode:        mode,
		Config:      cfg,
		Assignments: make(map[string]Assignment, len(playerIDs)),
		Votes:       make(map[string]string),
	}
	round.ImpostorIDs = sampleImpostors(playerIDs, cfg.Impostors)

	var err error
	switch mode {
	case ModeWord, ModeDrawing:
		err = a.assignWord(ctx, round, cfg, playerIDs)
	case ModeLocation:
		err = a.assignLocation(round, playerIDs)
	case ModeFactions:
		err = a.assignFactions(ctx, round, cfg, playerIDs)
	case ModeCategory:
		err = a.assignCategory(ctx, round, cfg, playerIDs)
	case ModeQuestions:
		err = a.assignQuestions(round, playerIDs)
	}
	if err != nil {
		return nil, err
	}

	if mode == ModeDrawing {
		rounds := cfg.Rounds
		if rounds <= 0 {
			rounds = 1
		}
		round.Board = NewBoard(ShuffleOrder(playerIDs), rounds)
	}

	return round, nil
}

// sampleImpostors picks k player ids without replacement.
func sampleImpostors(playerIDs []string, k int) []string {
	impostors := make([]string, 0, k)
	for _, idx := range rand.Perm(len(playerIDs))[:k] {
		impostors = append(impostors, playerIDs[idx])
	}
	return impostors
}

// assignWord gives every crew player the same word and impostors nothing.
func (a *Assigner) assignWord(ctx context.Context, round *Round, cfg Config, playerIDs []string) error {
	entry, err := a.drawEntry(ctx, cfg)
	if err != nil {
		return err
	}

	for _, id := range playerIDs {
		if round.isImpostor(id) {
			round.Assignments[id] = Assignment{Impostor: true}
			continue
		}
		round.Assignments[id] = Assignment{Word: entry.Word, Category: entry.Category}
	}
	return nil
}

// assignLocation hands crew the location plus a role drawn from its role
// list; impostors learn neither.
func (a *Assigner) assignLocation(round *Round, playerIDs []string) error {
	loc, err := a.library.DrawLocation()
	if err != nil {
		return err
	}

	roleIdx := rand.Perm(len(loc.Roles))
	next := 0
	for _, id := range playerIDs {
		if round.isImpostor(id) {
			round.Assignments[id] = Assignment{Impostor: true}
			continue
		}
		role := loc.Roles[roleIdx[next%len(roleIdx)]]
		next++
		round.Assignments[id] = Assignment{Location: loc.Name, Role: role}
	}
	return nil
}

// assignFactions splits crew into two equal groups, each with its own word.
// Impostors belong to neither faction and get no word.
func (a *Assigner) assignFactions(ctx context.Context, round *Round, cfg Config, playerIDs []string) error {
	first, err := a.drawEntry(ctx, cfg)
	if err != nil {
		return err
	}
	second, err := a.drawEntry(ctx, cfg)
	if err != nil {
		return err
	}
	for second.Word == first.Word {
		second, err = a.drawEntry(ctx, cfg)
		if err != nil {
			return err
		}
	}

	crew := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if round.isImpostor(id) {
			round.Assignments[id] = Assignment{Impostor: true}
			continue
		}
		crew = append(crew, id)
	}

	shuffled := ShuffleOrder(crew)
	half := len(shuffled) / 2
	for i, id := range shuffled {
		if i < half {
			round.Assignments[id] = Assignment{Word: first.Word, Faction: 1}
		} else {
			round.Assignments[id] = Assignment{Word: second.Word, Faction: 2}
		}
	}
	return nil
}

// assignCategory shares the category with everyone; only crew learns the
// concrete item.
func (a *Assigner) assignCategory(ctx context.Context, round *Round, cfg Config, playerIDs []string) error {
	entry, err := a.drawEntry(ctx, cfg)
	if err != nil {
		return err
	}

	for _, id := range playerIDs {
		if round.isImpostor(id) {
			round.Assignments[id] = Assignment{Impostor: true, Category: entry.Category}
			continue
		}
		round.Assignments[id] = Assignment{Word: entry.Word, Category: entry.Category}
	}
	return nil
}

// assignQuestions hands crew one question and impostors the adjacent one.
func (a *Assigner) assignQuestions(round *Round, playerIDs []string) error {
	pair, err := a.library.DrawQuestionPair()
	if err != nil {
		return err
	}

	for _, id := range playerIDs {
		if round.isImpostor(id) {
			round.Assignments[id] = Assignment{Impostor: true, Question: pair.Impostor}
			continue
		}
		round.Assignments[id] = Assignment{Question: pair.Crew}
	}
	return nil
}

func (a *Assigner) drawEntry(ctx context.Context, cfg Config) (content.WordEntry, error) {
	if cfg.AccessCode != "" {
		return a.library.DrawCustomWord(ctx, cfg.AccessCode)
	}
	theme := cfg.Theme
	if theme == "" {
		theme = "classic"
	}
	return a.library.DrawWord(theme)
}
