package game

import "encoding/json"

// Board is the shared canvas state of a drawing round. The turn cursor, not
// the order list, is the single source of truth for whose turn it is.
// Strokes are opaque blobs: the server validates only the sender.
type Board struct {
	Order       []string          `json:"order"`
	TurnIndex   int               `json:"turnIndex"`
	Pass        int               `json:"pass"`   // completed passes over the order
	Passes      int               `json:"passes"` // how many times each player draws
	TurnStrokes []json.RawMessage `json:"turnStrokes"`
	AllStrokes  []json.RawMessage `json:"allStrokes"`
	Snapshot    string            `json:"snapshot,omitempty"` // encoded canvas image handed to the next drawer
}

func NewBoard(order []string, passes int) *Board {
	return &Board{
		Order:  order,
		Passes: passes,
	}
}

// DrawerID returns the id of the active drawer, or "" on an empty board.
func (b *Board) DrawerID() string {
	if len(b.Order) == 0 {
		return ""
	}
	return b.Order[b.TurnIndex]
}

// AddStroke appends a stroke from the active drawer. Strokes from anyone
// else are rejected so a stale client cannot draw out of turn.
func (b *Board) AddStroke(playerID string, stroke json.RawMessage) error {
	if playerID != b.DrawerID() {
		return ErrNotYourTurn
	}
	b.TurnStrokes = append(b.TurnStrokes, stroke)
	b.AllStrokes = append(b.AllStrokes, stroke)
	return nil
}

// Undo removes the most recent stroke of the current turn.
func (b *Board) Undo(playerID string) error {
	if playerID != b.DrawerID() {
		return ErrNotYourTurn
	}
	if len(b.TurnStrokes) == 0 {
		return ErrNothingToUndo
	}
	b.TurnStrokes = b.TurnStrokes[:len(b.TurnStrokes)-1]
	b.AllStrokes = b.AllStrokes[:len(b.AllStrokes)-1]
	return nil
}

// CompleteTurn ends the active drawer's turn: the per-turn buffer resets for
// spectators, the cumulative log stays for round review, the snapshot is
// kept for the next drawer, and the cursor advances with wrap-around.
// It reports whether the whole round is finished.
func (b *Board) CompleteTurn(playerID, snapshot string) (finished bool, err error) {
	if playerID != b.DrawerID() {
		return false, ErrNotYourTurn
	}
	b.TurnStrokes = nil
	b.Snapshot = snapshot
	return b.advance(), nil
}

// RemovePlayer drops a fully departed player from the order. If they were
// the active drawer the cursor force-advances; the round ends if the pass
// budget is exhausted by that advance.
func (b *Board) RemovePlayer(playerID string) (finished bool) {
	for i, id := range b.Order {
		if id != playerID {
			continue
		}
		wasActive := i == b.TurnIndex
		b.Order = append(b.Order[:i], b.Order[i+1:]...)
		if len(b.Order) == 0 {
			return true
		}
		if i < b.TurnIndex {
			b.TurnIndex--
		} else if wasActive {
			b.TurnStrokes = nil
			if b.TurnIndex >= len(b.Order) {
				b.TurnIndex = 0
				b.Pass++
			}
			return b.Pass >= b.Passes
		}
		return false
	}
	return false
}

func (b *Board) advance() (finished bool) {
	b.TurnIndex++
	if b.TurnIndex >= len(b.Order) {
		b.TurnIndex = 0
		b.Pass++
	}
	return b.Pass >= b.Passes
}
