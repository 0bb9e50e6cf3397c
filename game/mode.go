package game

import "errors"

// Mode tags the selected game variant.
type Mode string

const (
	ModeWord      Mode = "word"      // one shared word, impostors get nothing
	ModeLocation  Mode = "location"  // shared location, per-player roles
	ModeFactions  Mode = "factions"  // two groups, two different words
	ModeCategory  Mode = "category"  // shared category, item only for crew
	ModeQuestions Mode = "questions" // crew question vs adjacent impostor question
	ModeDrawing   Mode = "drawing"   // word mode played on a shared canvas
)

// MinPlayers is the floor for starting any mode.
const MinPlayers = 3

func (m Mode) Valid() bool {
	switch m {
	case ModeWord, ModeLocation, ModeFactions, ModeCategory, ModeQuestions, ModeDrawing:
		return true
	}
	return false
}

// Config is the host-supplied start-game configuration.
type Config struct {
	Impostors  int    `json:"impostors"`
	Theme      string `json:"theme,omitempty"`
	AccessCode string `json:"accessCode,omitempty"`
	Rounds     int    `json:"rounds,omitempty"` // drawing mode passes per player
}

var (
	ErrUnknownMode       = errors.New("unknown game mode")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrTooManyImpostors  = errors.New("impostor count must be below player count")
	ErrUnevenFactions    = errors.New("factions mode needs an even crew split")
	ErrVoteNotAllowed    = errors.New("voter is not an active player")
	ErrInvalidVoteTarget = errors.New("vote target is not an active player")
	ErrNotYourTurn       = errors.New("player is not the active drawer")
	ErrNothingToUndo     = errors.New("no stroke to undo in this turn")
)
