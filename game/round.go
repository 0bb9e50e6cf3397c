package game

// Assignment is one player's secret hand for the current round. Impostors
// receive only the fields every player shares (category, location name in
// location mode is withheld, etc.); the zero value of a field means "not
// part of this mode".
type Assignment struct {
	Impostor bool   `json:"impostor"`
	Word     string `json:"word,omitempty"`
	Category string `json:"category,omitempty"`
	Location string `json:"location,omitempty"`
	Role     string `json:"role,omitempty"`
	Question string `json:"question,omitempty"`
	Faction  int    `json:"faction,omitempty"` // 1 or 2 in factions mode
}

// Round is the mode-specific game payload a Room carries from assignment
// through reveal. It is created whole by the Assigner and discarded on
// new-round or reset.
type Round struct {
	Mode          Mode                  `json:"mode"`
	Config        Config                `json:"config"`
	Assignments   map[string]Assignment `json:"assignments"`
	ImpostorIDs   []string              `json:"impostorIds"`
	SpeakingOrder []string              `json:"speakingOrder,omitempty"`
	Votes         map[string]string     `json:"votes"`
	Result        *Result               `json:"result,omitempty"`
	Board         *Board                `json:"board,omitempty"`
}

// SubmitVote upserts the voter's choice: a later vote from the same player
// replaces the earlier one, never duplicates it.
func (r *Round) SubmitVote(voterID, targetID string, active map[string]bool) error {
	if !active[voterID] {
		return ErrVoteNotAllowed
	}
	if !active[targetID] {
		return ErrInvalidVoteTarget
	}
	r.Votes[voterID] = targetID
	return nil
}

// VotesComplete reports whether every active player has a live vote.
func (r *Round) VotesComplete(active map[string]bool) bool {
	voters := 0
	for voterID := range r.Votes {
		if active[voterID] {
			voters++
		}
	}
	return voters >= len(active) && len(active) > 0
}

// RemovePlayer scrubs a fully departed player from the round: their vote no
// longer counts and votes cast for them are dropped from the tally. Board
// removal is the room's job because it may force a turn advance.
func (r *Round) RemovePlayer(playerID string) {
	delete(r.Votes, playerID)
	for voterID, targetID := range r.Votes {
		if targetID == playerID {
			delete(r.Votes, voterID)
		}
	}
	r.SpeakingOrder = removeID(r.SpeakingOrder, playerID)
}

func (r *Round) isImpostor(playerID string) bool {
	for _, id := range r.ImpostorIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
