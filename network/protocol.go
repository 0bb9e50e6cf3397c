package network

import "encoding/json"

// Inbound message types, one per client action.
const (
	MsgJoinRoom            = "join-room"
	MsgStartGame           = "start-game"
	MsgSubmitVote          = "submit-vote"
	MsgStartVoting         = "start-voting"
	MsgRevealImpostor      = "reveal-impostor"
	MsgNewRound            = "new-round"
	MsgReset               = "reset"
	MsgTriggerOrder        = "trigger-speaking-order"
	MsgStartDrawing        = "start-drawing"
	MsgDrawStroke          = "draw-stroke"
	MsgDrawUndo            = "draw-undo"
	MsgDrawingTurnComplete = "drawing-turn-complete"
	MsgGoToDiscussion      = "go-to-discussion"
	MsgKick                = "kick"
	MsgLeave               = "leave"
)

// Outbound message types.
const (
	MsgRoomUpdate       = "room-update"
	MsgSpeakingOrder    = "start-speaking-order-wheel"
	MsgDrawingTurnStart = "drawing-turn-start"
	MsgDrawingRoundEnd  = "drawing-round-end"
	MsgPlayerJoined     = "player-joined"
	MsgPlayerLeft       = "player-left"
	MsgHostChanged      = "host-changed"
	MsgKicked           = "kicked"
	MsgError            = "error"
)

// Envelope is the wire frame for every websocket message in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an envelope. A payload that fails to
// marshal is a programming error, so the envelope is sent without data and
// the caller's broadcast still goes out.
func NewEnvelope(msgType string, payload interface{}) *Envelope {
	env := &Envelope{Type: msgType}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			env.Data = data
		}
	}
	return env
}
