package state

import (
	"context"
	"encoding/json"

	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/logger"
	"github.com/partyroom/impostor/network"
)

// LobbyState is the pre-game phase: players gather, the host configures and
// starts a mode.
type LobbyState struct {
	RoomStateBase
}

func NewLobbyState(room RoomContext) *LobbyState {
	return &LobbyState{RoomStateBase{ID: PhaseLobby, Room: room}}
}

func (s *LobbyState) HandleAction(player Player, action *Action) error {
	switch action.Type {
	case network.MsgStartGame:
		if err := s.requireHost(player); err != nil {
			return err
		}

		var payload struct {
			Mode   game.Mode   `json:"mode"`
			Config game.Config `json:"config"`
		}
		if err := json.Unmarshal(action.Data, &payload); err != nil {
			return err
		}

		round, err := s.Room.Assigner().Assign(context.Background(), payload.Mode, payload.Config, s.Room.ActiveIDs())
		if err != nil {
			return err
		}
		s.Room.SetRound(round)

		// Assignment is synchronous, so the lobby moves straight into
		// discussion with no player input in between.
		if err := s.Room.ChangeState(NewDiscussionState(s.Room)); err != nil {
			return err
		}
		logger.Log.Infof("room %s started mode %s with %d impostor(s)",
			s.Room.GetCode(), payload.Mode, len(round.ImpostorIDs))
		s.Room.BroadcastSnapshot()
		return nil
	}

	return s.RoomStateBase.HandleAction(player, action)
}

// DiscussionState covers the open-talk phase after roles are dealt. In the
// drawing variant it is also the hub the per-turn loop returns to.
type DiscussionState struct {
	RoomStateBase
}

func NewDiscussionState(room RoomContext) *DiscussionState {
	return &DiscussionState{RoomStateBase{ID: PhaseDiscussion, Room: room}}
}

func (s *DiscussionState) HandleAction(player Player, action *Action) error {
	switch action.Type {
	case network.MsgTriggerOrder:
		if err := s.requireHost(player); err != nil {
			return err
		}
		round := s.Room.Round()
		if round == nil {
			return ErrIllegalAction
		}
		order := game.ShuffleOrder(s.Room.ActiveIDs())
		round.SpeakingOrder = order
		s.Room.Broadcast(network.NewEnvelope(network.MsgSpeakingOrder, map[string][]string{
			"speakingOrder": order,
		}))
		s.Room.BroadcastSnapshot()
		return nil

	case network.MsgStartVoting:
		if err := s.requireHost(player); err != nil {
			return err
		}
		if err := s.Room.ChangeState(NewVotingState(s.Room)); err != nil {
			return err
		}
		s.Room.BroadcastSnapshot()
		return nil

	case network.MsgStartDrawing:
		if err := s.requireHost(player); err != nil {
			return err
		}
		round := s.Room.Round()
		if round == nil || round.Board == nil {
			return ErrIllegalAction
		}
		if err := s.Room.ChangeState(NewTurnSelectState(s.Room)); err != nil {
			return err
		}
		s.Room.BroadcastSnapshot()
		return nil
	}

	return s.RoomStateBase.HandleAction(player, action)
}

// VotingState collects exactly one live vote per active player and resolves
// automatically once everyone has voted.
type VotingState struct {
	RoomStateBase
}

func NewVotingState(room RoomContext) *VotingState {
	return &VotingState{RoomStateBase{ID: PhaseVoting, Room: room}}
}

func (s *VotingState) HandleAction(player Player, action *Action) error {
	round := s.Room.Round()
	if round == nil {
		return s.RoomStateBase.HandleAction(player, action)
	}

	switch action.Type {
	case network.MsgSubmitVote:
		var payload struct {
			TargetID string `json:"targetId"`
		}
		if err := json.Unmarshal(action.Data, &payload); err != nil {
			return err
		}
		active := s.Room.ActiveSet()
		if err := round.SubmitVote(player.GetID(), payload.TargetID, active); err != nil {
			return err
		}
		if round.VotesComplete(active) {
			return s.reveal(round)
		}
		s.Room.BroadcastSnapshot()
		return nil

	case network.MsgRevealImpostor:
		// Host-forced early reveal; missing votes count as abstentions.
		if err := s.requireHost(player); err != nil {
			return err
		}
		return s.reveal(round)
	}

	return s.RoomStateBase.HandleAction(player, action)
}

func (s *VotingState) reveal(round *game.Round) error {
	result := round.Resolve(s.Room.ActiveSet())
	if err := s.Room.ChangeState(NewRevealState(s.Room)); err != nil {
		return err
	}
	logger.Log.Infof("room %s resolved votes: crewWins=%v votesForImpostor=%d",
		s.Room.GetCode(), result.CrewWins, result.VotesForImpostor)
	s.Room.BroadcastSnapshot()
	return nil
}

// RevealState shows the outcome; only a new round or a reset leaves it.
type RevealState struct {
	RoomStateBase
}

func NewRevealState(room RoomContext) *RevealState {
	return &RevealState{RoomStateBase{ID: PhaseReveal, Room: room}}
}

func (s *RevealState) HandleAction(player Player, action *Action) error {
	switch action.Type {
	case network.MsgNewRound:
		if err := s.requireHost(player); err != nil {
			return err
		}
		// Players and host survive; the round payload does not.
		s.Room.SetRound(nil)
		if err := s.Room.ChangeState(NewLobbyState(s.Room)); err != nil {
			return err
		}
		s.Room.BroadcastSnapshot()
		return nil
	}

	return s.RoomStateBase.HandleAction(player, action)
}
