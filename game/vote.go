package game

// Result is the immutable outcome of a voting phase, computed once when the
// room enters reveal and cleared only by a new round.
type Result struct {
	ImpostorIDs      []string       `json:"impostorIds"`
	Counts           map[string]int `json:"counts"`
	VotesForImpostor int            `json:"votesForImpostor"`
	CrewWins         bool           `json:"crewWins"`
}

// Resolve tallies the live votes of the given active players. The policy is
// strict majority, not plurality: crew wins only if the votes received by
// the most-voted impostor exceed half of the active player count. Ties and
// abstentions (players who never voted before the reveal) therefore favor
// the impostor.
func (r *Round) Resolve(active map[string]bool) *Result {
	counts := make(map[string]int)
	for voterID, targetID := range r.Votes {
		if !active[voterID] {
			continue
		}
		counts[targetID]++
	}

	votesForImpostor := 0
	for _, id := range r.ImpostorIDs {
		if counts[id] > votesForImpostor {
			votesForImpostor = counts[id]
		}
	}

	result := &Result{
		ImpostorIDs:      r.ImpostorIDs,
		Counts:           counts,
		VotesForImpostor: votesForImpostor,
		CrewWins:         votesForImpostor*2 > len(active),
	}
	r.Result = result
	return result
}
