package state

import (
	"encoding/json"

	"github.com/partyroom/impostor/network"
)

// TurnSelectState shows who draws next (the client may spin a wheel over
// it, but the cursor broadcast from here is the truth).
type TurnSelectState struct {
	RoomStateBase
}

func NewTurnSelectState(room RoomContext) *TurnSelectState {
	return &TurnSelectState{RoomStateBase{ID: PhaseTurnSelect, Room: room}}
}

func (s *TurnSelectState) HandleAction(player Player, action *Action) error {
	switch action.Type {
	case network.MsgStartDrawing:
		if err := s.requireHost(player); err != nil {
			return err
		}
		if err := s.Room.ChangeState(NewDrawingTurnState(s.Room)); err != nil {
			return err
		}
		s.Room.BroadcastSnapshot()
		return nil
	}

	return s.RoomStateBase.HandleAction(player, action)
}

// DrawingTurnState relays stroke traffic for the active drawer's turn.
type DrawingTurnState struct {
	RoomStateBase
}

func NewDrawingTurnState(room RoomContext) *DrawingTurnState {
	return &DrawingTurnState{RoomStateBase{ID: PhaseDrawing, Room: room}}
}

// OnEnter hands the previous turn's canvas snapshot to the incoming drawer
// so drawing resumes visually without replaying every stroke.
func (s *DrawingTurnState) OnEnter() {
	round := s.Room.Round()
	if round == nil || round.Board == nil {
		return
	}
	s.Room.Broadcast(network.NewEnvelope(network.MsgDrawingTurnStart, map[string]string{
		"drawerId":       round.Board.DrawerID(),
		"canvasSnapshot": round.Board.Snapshot,
	}))
}

func (s *DrawingTurnState) HandleAction(player Player, action *Action) error {
	round := s.Room.Round()
	if round == nil || round.Board == nil {
		return s.RoomStateBase.HandleAction(player, action)
	}
	board := round.Board

	switch action.Type {
	case network.MsgDrawStroke:
		// Strokes from anyone but the active drawer are dropped without a
		// broadcast; a stale client that still thinks it is drawing cannot
		// pollute the shared log.
		if err := board.AddStroke(player.GetID(), action.Data); err != nil {
			return err
		}
		s.Room.Broadcast(&network.Envelope{Type: network.MsgDrawStroke, Data: action.Data})
		return nil

	case network.MsgDrawUndo:
		if err := board.Undo(player.GetID()); err != nil {
			return err
		}
		// An explicit undo event keeps per-event payloads small; the full
		// log is never resent.
		s.Room.Broadcast(network.NewEnvelope(network.MsgDrawUndo, nil))
		return nil

	case network.MsgDrawingTurnComplete:
		var payload struct {
			CanvasSnapshot string `json:"canvasSnapshot"`
		}
		if len(action.Data) > 0 {
			if err := json.Unmarshal(action.Data, &payload); err != nil {
				return err
			}
		}
		finished, err := board.CompleteTurn(player.GetID(), payload.CanvasSnapshot)
		if err != nil {
			return err
		}
		if finished {
			if err := s.Room.ChangeState(NewRoundEndState(s.Room)); err != nil {
				return err
			}
			s.Room.Broadcast(network.NewEnvelope(network.MsgDrawingRoundEnd, nil))
		} else {
			if err := s.Room.ChangeState(NewTurnSelectState(s.Room)); err != nil {
				return err
			}
		}
		s.Room.BroadcastSnapshot()
		return nil
	}

	return s.RoomStateBase.HandleAction(player, action)
}

// RoundEndState holds the finished canvas for review until the host moves
// the room back to discussion.
type RoundEndState struct {
	RoomStateBase
}

func NewRoundEndState(room RoomContext) *RoundEndState {
	return &RoundEndState{RoomStateBase{ID: PhaseRoundEnd, Room: room}}
}

func (s *RoundEndState) HandleAction(player Player, action *Action) error {
	switch action.Type {
	case network.MsgGoToDiscussion:
		if err := s.requireHost(player); err != nil {
			return err
		}
		if err := s.Room.ChangeState(NewDiscussionState(s.Room)); err != nil {
			return err
		}
		s.Room.BroadcastSnapshot()
		return nil
	}

	return s.RoomStateBase.HandleAction(player, action)
}
