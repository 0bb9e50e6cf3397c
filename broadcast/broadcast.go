// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/partyroom/impostor/network"
	"github.com/partyroom/impostor/room"
	"github.com/partyroom/impostor/session"
)

var ErrRoomNotFound = errors.New("room not found")

// Broadcaster fans envelopes out to sets of live sockets.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, env *network.Envelope) error
	BroadcastToAll(env *network.Envelope)
}

// RoomBroadcaster resolves a room code to its current socket set at send
// time. Delivery is best-effort: a socket that errors on enqueue is already
// on its disconnect path and is skipped, never retried inline.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomCode string, env *network.Envelope) error {
	r, exists := b.roomManager.Get(roomCode)
	if !exists {
		return ErrRoomNotFound
	}

	for _, conn := range r.Connections() {
		if err := conn.Send(env); err != nil {
			continue
		}
	}
	return nil
}

// BroadcastToAll reaches every live session, including sockets that have
// not joined a room yet, used for shutdown notices.
func (b *RoomBroadcaster) BroadcastToAll(env *network.Envelope) {
	for _, s := range b.sessionManager.All() {
		s.Conn.Send(env)
	}
}
