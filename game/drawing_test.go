package game

import (
	"encoding/json"
	"testing"
)

func stroke(s string) json.RawMessage {
	return json.RawMessage(`{"points":"` + s + `"}`)
}

func TestBoard_TurnRotation(t *testing.T) {
	board := NewBoard([]string{"a", "b", "c"}, 1)

	if board.DrawerID() != "a" {
		t.Fatalf("Expected first drawer a, got %s", board.DrawerID())
	}

	finished, err := board.CompleteTurn("a", "snap1")
	if err != nil {
		t.Fatalf("CompleteTurn failed: %v", err)
	}
	if finished {
		t.Fatal("Round should not finish after the first turn")
	}
	if board.DrawerID() != "b" {
		t.Errorf("Expected drawer b, got %s", board.DrawerID())
	}
	if board.Snapshot != "snap1" {
		t.Errorf("Snapshot not kept for the next drawer: %q", board.Snapshot)
	}

	board.CompleteTurn("b", "snap2")
	finished, err = board.CompleteTurn("c", "snap3")
	if err != nil {
		t.Fatalf("CompleteTurn failed: %v", err)
	}
	if !finished {
		t.Error("Round should finish once every player drew their pass")
	}
}

func TestBoard_MultiplePasses(t *testing.T) {
	board := NewBoard([]string{"a", "b"}, 2)

	turns := []string{"a", "b", "a", "b"}
	for i, id := range turns {
		finished, err := board.CompleteTurn(id, "")
		if err != nil {
			t.Fatalf("Turn %d failed: %v", i, err)
		}
		wantFinished := i == len(turns)-1
		if finished != wantFinished {
			t.Errorf("Turn %d: finished=%v, want %v", i, finished, wantFinished)
		}
	}
}

func TestBoard_StrokeOnlyFromActiveDrawer(t *testing.T) {
	board := NewBoard([]string{"a", "b"}, 1)

	if err := board.AddStroke("b", stroke("x")); err != ErrNotYourTurn {
		t.Errorf("Expected ErrNotYourTurn for out-of-turn stroke, got: %v", err)
	}
	if len(board.AllStrokes) != 0 {
		t.Error("Rejected stroke must not be recorded")
	}

	if err := board.AddStroke("a", stroke("x")); err != nil {
		t.Fatalf("AddStroke failed: %v", err)
	}
	if len(board.TurnStrokes) != 1 || len(board.AllStrokes) != 1 {
		t.Errorf("Stroke not recorded: turn=%d all=%d", len(board.TurnStrokes), len(board.AllStrokes))
	}

	if _, err := board.CompleteTurn("b", ""); err != ErrNotYourTurn {
		t.Errorf("Expected ErrNotYourTurn completing someone else's turn, got: %v", err)
	}
}

func TestBoard_Undo(t *testing.T) {
	board := NewBoard([]string{"a", "b"}, 1)

	if err := board.Undo("a"); err != ErrNothingToUndo {
		t.Errorf("Expected ErrNothingToUndo on empty turn, got: %v", err)
	}

	board.AddStroke("a", stroke("1"))
	board.AddStroke("a", stroke("2"))

	if err := board.Undo("b"); err != ErrNotYourTurn {
		t.Errorf("Expected ErrNotYourTurn for foreign undo, got: %v", err)
	}
	if err := board.Undo("a"); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if len(board.TurnStrokes) != 1 || len(board.AllStrokes) != 1 {
		t.Errorf("Undo did not remove the stroke: turn=%d all=%d", len(board.TurnStrokes), len(board.AllStrokes))
	}
}

func TestBoard_TurnBufferResets(t *testing.T) {
	board := NewBoard([]string{"a", "b"}, 1)

	board.AddStroke("a", stroke("1"))
	board.CompleteTurn("a", "snap")

	if len(board.TurnStrokes) != 0 {
		t.Error("Per-turn buffer should reset on turn completion")
	}
	if len(board.AllStrokes) != 1 {
		t.Error("Cumulative stroke log should survive turn completion")
	}
}

func TestBoard_RemoveActiveDrawerAdvances(t *testing.T) {
	board := NewBoard([]string{"a", "b", "c"}, 1)
	board.AddStroke("a", stroke("1"))

	finished := board.RemovePlayer("a")
	if finished {
		t.Fatal("Round should continue with two players left")
	}
	if board.DrawerID() != "b" {
		t.Errorf("Expected drawer b after removal, got %s", board.DrawerID())
	}
	if len(board.TurnStrokes) != 0 {
		t.Error("Departed drawer's turn buffer should be cleared")
	}
}

func TestBoard_RemoveEarlierPlayerKeepsDrawer(t *testing.T) {
	board := NewBoard([]string{"a", "b", "c"}, 1)
	board.CompleteTurn("a", "")

	finished := board.RemovePlayer("a")
	if finished {
		t.Fatal("Round should continue")
	}
	if board.DrawerID() != "b" {
		t.Errorf("Removing an earlier player must not move the turn, drawer is %s", board.DrawerID())
	}
}

func TestBoard_RemoveLastDrawerFinishes(t *testing.T) {
	board := NewBoard([]string{"a", "b"}, 1)
	board.CompleteTurn("a", "")

	finished := board.RemovePlayer("b")
	if !finished {
		t.Error("Removing the final drawer of the final pass should end the round")
	}
}

func TestShuffleOrder_Permutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	order := ShuffleOrder(ids)

	if len(order) != len(ids) {
		t.Fatalf("Expected %d entries, got %d", len(ids), len(order))
	}
	seen := make(map[string]bool)
	for _, id := range order {
		if seen[id] {
			t.Errorf("Duplicate id %s in the order", id)
		}
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("Player %s missing from the order", id)
		}
	}
	if &order[0] == &ids[0] {
		t.Error("ShuffleOrder must not alias the input slice")
	}
}
