// state/interfaces.go
package state

import (
	"encoding/json"

	"github.com/partyroom/impostor/game"
	"github.com/partyroom/impostor/network"
)

// Player is the minimal view of a room member a phase state needs.
type Player interface {
	GetID() string
	GetName() string
	IsConnected() bool
}

// Action is one inbound client message routed into the current phase.
type Action struct {
	Type string
	Data json.RawMessage
}

// RoomContext is the interface a Room implements to be driven by the phase
// machine. It is defined here to break the import cycle between room and
// state. All methods are called from inside the room's own action loop, so
// implementations need no additional locking.
type RoomContext interface {
	GetCode() string
	HostID() string
	ActiveIDs() []string        // connected members in join order
	ActiveSet() map[string]bool // connected members as a set
	Round() *game.Round
	SetRound(round *game.Round)
	Assigner() *game.Assigner
	ChangeState(newState State) error
	Broadcast(env *network.Envelope)
	BroadcastSnapshot()
	KickPlayer(targetID string) error
}
