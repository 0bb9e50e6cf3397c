// models/models.go
package models

import (
	"time"

	"github.com/partyroom/impostor/game"
)

// PlayerView is the public shape of a room member.
type PlayerView struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"isHost"`
}

// RoomSnapshot is the full, self-consistent room state broadcast as
// room-update after every mutation. There is no partial-update message.
type RoomSnapshot struct {
	Code      string       `json:"code"`
	HostID    string       `json:"hostId"`
	Status    string       `json:"status"`
	GameMode  game.Mode    `json:"gameMode,omitempty"`
	Players   []PlayerView `json:"players"`
	GameData  *game.Round  `json:"gameData,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// REST request payloads.

type CreateRoomRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type JoinRoomRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type StartGameRequest struct {
	PlayerID string      `json:"playerId" binding:"required"`
	Mode     game.Mode   `json:"mode" binding:"required"`
	Config   game.Config `json:"config"`
}

type VoteRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

type PlayerActionRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

type SaveThemeRequest struct {
	Name       string   `json:"name" binding:"required"`
	AccessCode string   `json:"accessCode" binding:"required"`
	Words      []string `json:"words" binding:"required"`
}

// Websocket payloads.

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type StartGamePayload struct {
	Mode   game.Mode   `json:"mode"`
	Config game.Config `json:"config"`
}

type VotePayload struct {
	TargetID string `json:"targetId"`
}

type KickPayload struct {
	TargetID string `json:"targetId"`
}

type TurnCompletePayload struct {
	CanvasSnapshot string `json:"canvasSnapshot,omitempty"`
}

// Outbound event payloads.

type PlayerEvent struct {
	PlayerName string `json:"playerName"`
}

type HostChangedEvent struct {
	NewHostName string `json:"newHostName"`
}

type SpeakingOrderEvent struct {
	SpeakingOrder []string `json:"speakingOrder"`
}

type DrawingTurnStartEvent struct {
	DrawerID       string `json:"drawerId"`
	CanvasSnapshot string `json:"canvasSnapshot,omitempty"`
}

type RTCTokenResponse struct {
	Token   string `json:"token"`
	Channel string `json:"channel"`
	UID     uint32 `json:"uid"`
	Expires int64  `json:"expires"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
