package game

import (
	"context"
	"testing"

	"github.com/partyroom/impostor/content"
)

func newTestAssigner() *Assigner {
	return NewAssigner(content.NewLibrary(nil))
}

func players(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	return ids
}

func TestAssign_WordMode(t *testing.T) {
	assigner := newTestAssigner()
	ids := players(5)

	round, err := assigner.Assign(context.Background(), ModeWord, Config{Impostors: 1}, ids)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if len(round.ImpostorIDs) != 1 {
		t.Fatalf("Expected 1 impostor, got %d", len(round.ImpostorIDs))
	}
	if len(round.Assignments) != len(ids) {
		t.Fatalf("Expected %d assignments, got %d", len(ids), len(round.Assignments))
	}

	crewWord := ""
	for _, id := range ids {
		a, exists := round.Assignments[id]
		if !exists {
			t.Fatalf("Player %s has no assignment", id)
		}
		if a.Impostor {
			if a.Word != "" {
				t.Errorf("Impostor %s should not receive a word, got %q", id, a.Word)
			}
			continue
		}
		if a.Word == "" {
			t.Errorf("Crew player %s received no word", id)
		}
		if crewWord == "" {
			crewWord = a.Word
		} else if a.Word != crewWord {
			t.Errorf("Crew words differ: %q vs %q", a.Word, crewWord)
		}
	}
}

func TestAssign_ImpostorCountBelowPlayerCount(t *testing.T) {
	assigner := newTestAssigner()

	_, err := assigner.Assign(context.Background(), ModeWord, Config{Impostors: 3}, players(3))
	if err != ErrTooManyImpostors {
		t.Errorf("Expected ErrTooManyImpostors, got: %v", err)
	}

	round, err := assigner.Assign(context.Background(), ModeWord, Config{Impostors: 2}, players(3))
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if len(round.ImpostorIDs) != 2 {
		t.Errorf("Expected 2 impostors, got %d", len(round.ImpostorIDs))
	}
	seen := make(map[string]bool)
	for _, id := range round.ImpostorIDs {
		if seen[id] {
			t.Errorf("Impostor %s sampled twice", id)
		}
		seen[id] = true
	}
}

func TestAssign_MinPlayers(t *testing.T) {
	assigner := newTestAssigner()
	_, err := assigner.Assign(context.Background(), ModeWord, Config{}, players(2))
	if err != ErrNotEnoughPlayers {
		t.Errorf("Expected ErrNotEnoughPlayers, got: %v", err)
	}
}

func TestAssign_UnknownMode(t *testing.T) {
	assigner := newTestAssigner()
	_, err := assigner.Assign(context.Background(), Mode("tournament"), Config{}, players(4))
	if err != ErrUnknownMode {
		t.Errorf("Expected ErrUnknownMode, got: %v", err)
	}
}

func TestAssign_DefaultsToOneImpostor(t *testing.T) {
	assigner := newTestAssigner()
	round, err := assigner.Assign(context.Background(), ModeWord, Config{}, players(4))
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if len(round.ImpostorIDs) != 1 {
		t.Errorf("Expected default of 1 impostor, got %d", len(round.ImpostorIDs))
	}
}

func TestAssign_FactionsEvenSplit(t *testing.T) {
	assigner := newTestAssigner()

	// 4 players minus 1 impostor leaves an odd crew.
	_, err := assigner.Assign(context.Background(), ModeFactions, Config{Impostors: 1}, players(4))
	if err != ErrUnevenFactions {
		t.Fatalf("Expected ErrUnevenFactions, got: %v", err)
	}

	round, err := assigner.Assign(context.Background(), ModeFactions, Config{Impostors: 1}, players(5))
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	factions := map[int]int{}
	words := map[int]string{}
	for id, a := range round.Assignments {
		if a.Impostor {
			if a.Faction != 0 {
				t.Errorf("Impostor %s assigned to faction %d", id, a.Faction)
			}
			continue
		}
		factions[a.Faction]++
		if prev, seen := words[a.Faction]; seen && prev != a.Word {
			t.Errorf("Faction %d has two words: %q and %q", a.Faction, prev, a.Word)
		}
		words[a.Faction] = a.Word
	}
	if factions[1] != 2 || factions[2] != 2 {
		t.Errorf("Expected a 2/2 crew split, got %v", factions)
	}
	if words[1] == words[2] {
		t.Errorf("Factions share the word %q", words[1])
	}
}

func TestAssign_LocationRoles(t *testing.T) {
	assigner := newTestAssigner()
	round, err := assigner.Assign(context.Background(), ModeLocation, Config{Impostors: 1}, players(4))
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	for id, a := range round.Assignments {
		if a.Impostor {
			if a.Location != "" || a.Role != "" {
				t.Errorf("Impostor %s learned the location", id)
			}
			continue
		}
		if a.Location == "" || a.Role == "" {
			t.Errorf("Crew player %s missing location or role: %+v", id, a)
		}
	}
}

func TestAssign_CategorySharedWithImpostor(t *testing.T) {
	assigner := newTestAssigner()
	round, err := assigner.Assign(context.Background(), ModeCategory, Config{Impostors: 1}, players(4))
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	for id, a := range round.Assignments {
		if a.Category == "" {
			t.Errorf("Player %s missing the shared category", id)
		}
		if a.Impostor && a.Word != "" {
			t.Errorf("Impostor %s received the item %q", id, a.Word)
		}
		if !a.Impostor && a.Word == "" {
			t.Errorf("Crew player %s received no item", id)
		}
	}
}

func TestAssign_QuestionsDiffer(t *testing.T) {
	assigner := newTestAssigner()
	round, err := assigner.Assign(context.Background(), ModeQuestions, Config{Impostors: 1}, players(4))
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	var crewQ, impostorQ string
	for _, a := range round.Assignments {
		if a.Question == "" {
			t.Fatal("Player received no question")
		}
		if a.Impostor {
			impostorQ = a.Question
		} else {
			crewQ = a.Question
		}
	}
	if crewQ == impostorQ {
		t.Errorf("Crew and impostor got the same question %q", crewQ)
	}
}

func TestAssign_DrawingBuildsBoard(t *testing.T) {
	assigner := newTestAssigner()
	ids := players(4)
	round, err := assigner.Assign(context.Background(), ModeDrawing, Config{Impostors: 1, Rounds: 2}, ids)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if round.Board == nil {
		t.Fatal("Drawing mode must create a board")
	}
	if len(round.Board.Order) != len(ids) {
		t.Fatalf("Board order has %d entries, want %d", len(round.Board.Order), len(ids))
	}
	if round.Board.Passes != 2 {
		t.Errorf("Expected 2 passes, got %d", round.Board.Passes)
	}
	seen := make(map[string]bool)
	for _, id := range round.Board.Order {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("Player %s missing from the draw order", id)
		}
	}
}

func TestAssign_UnknownThemeRejected(t *testing.T) {
	assigner := newTestAssigner()
	_, err := assigner.Assign(context.Background(), ModeWord, Config{Theme: "nope"}, players(4))
	if err != content.ErrThemeNotFound {
		t.Errorf("Expected ErrThemeNotFound, got: %v", err)
	}
}
