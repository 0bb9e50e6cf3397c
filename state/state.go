package state

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/partyroom/impostor/network"
)

// Phase ids double as the room's client-visible status string.
const (
	PhaseLobby      = "lobby"
	PhaseDiscussion = "discussion"
	PhaseVoting     = "voting"
	PhaseReveal     = "reveal"
	PhaseTurnSelect = "turn-select"
	PhaseDrawing    = "drawing"
	PhaseRoundEnd   = "round-end"
)

var (
	// ErrTransitionNotAllowed is returned when a phase transition is not an
	// edge of the machine's transition table.
	ErrTransitionNotAllowed = errors.New("state transition not allowed")
	// ErrIllegalAction marks an action the current phase does not accept. It
	// is logged and the action is dropped; no state changes, no broadcast.
	ErrIllegalAction = errors.New("action not legal in current state")
	// ErrNotHost marks a host-only action attempted by a non-host.
	ErrNotHost = errors.New("action requires host privileges")
)

type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(from, to string)
}

type State interface {
	OnEnter()
	OnExit()
	GetID() string
	HandleAction(player Player, action *Action) error
}

// BaseStateMachine guards phase changes with an explicit edge table: once
// any edge is registered, a change is legal only along a registered edge.
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]bool
	mutex        sync.RWMutex
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]bool),
	}
	initialState.OnEnter()
	return machine
}

func (sm *BaseStateMachine) ChangeState(newState State) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if len(sm.transitions) > 0 {
		if !sm.transitions[sm.currentState.GetID()][newState.GetID()] {
			return ErrTransitionNotAllowed
		}
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(from, to string) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if _, exists := sm.transitions[from]; !exists {
		sm.transitions[from] = make(map[string]bool)
	}
	sm.transitions[from][to] = true
}

// RegisterTransitions installs the full legal-edge table of the game phase
// graph, including the host's hard-reset escape hatch back to the lobby
// from every phase.
func RegisterTransitions(sm StateMachine) {
	sm.AddTransition(PhaseLobby, PhaseDiscussion)
	sm.AddTransition(PhaseDiscussion, PhaseVoting)
	sm.AddTransition(PhaseVoting, PhaseReveal)
	sm.AddTransition(PhaseReveal, PhaseLobby)

	// Drawing variant: per-turn loop inside discussion.
	sm.AddTransition(PhaseDiscussion, PhaseTurnSelect)
	sm.AddTransition(PhaseTurnSelect, PhaseDrawing)
	sm.AddTransition(PhaseDrawing, PhaseTurnSelect)
	sm.AddTransition(PhaseDrawing, PhaseRoundEnd)
	sm.AddTransition(PhaseRoundEnd, PhaseDiscussion)

	for _, phase := range []string{
		PhaseLobby, PhaseDiscussion, PhaseVoting, PhaseReveal,
		PhaseTurnSelect, PhaseDrawing, PhaseRoundEnd,
	} {
		sm.AddTransition(phase, PhaseLobby)
	}
}

// RoomStateBase carries the shared phase state plumbing. Its HandleAction
// covers the actions legal in every phase (hard reset, kick); concrete
// phases fall through to it for anything they do not accept themselves.
type RoomStateBase struct {
	ID   string
	Room RoomContext
}

func (s *RoomStateBase) GetID() string {
	return s.ID
}

func (s *RoomStateBase) OnEnter() {}

func (s *RoomStateBase) OnExit() {}

func (s *RoomStateBase) HandleAction(player Player, action *Action) error {
	switch action.Type {
	case network.MsgReset:
		if err := s.requireHost(player); err != nil {
			return err
		}
		s.Room.SetRound(nil)
		if err := s.Room.ChangeState(NewLobbyState(s.Room)); err != nil {
			return err
		}
		s.Room.BroadcastSnapshot()
		return nil

	case network.MsgKick:
		if err := s.requireHost(player); err != nil {
			return err
		}
		var payload struct {
			TargetID string `json:"targetId"`
		}
		if err := json.Unmarshal(action.Data, &payload); err != nil {
			return err
		}
		return s.Room.KickPlayer(payload.TargetID)
	}

	return ErrIllegalAction
}

func (s *RoomStateBase) requireHost(player Player) error {
	if player.GetID() != s.Room.HostID() {
		return ErrNotHost
	}
	return nil
}
