package room

import "github.com/partyroom/impostor/network"

// Broadcaster fans an envelope out to every live socket of a room. It is
// defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, env *network.Envelope) error
}
