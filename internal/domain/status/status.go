// Package status classifies a tile's board-facing state for one team.
package status

import (
	"github.com/okian/bingo/internal/domain/model"
	"github.com/okian/bingo/internal/domain/prereq"
)

// SatisfiedSet returns the tile ids a team may count toward unlocking
// other tiles. With verifiedOnly, only admin-verified tiles count;
// otherwise verified-or-complete tiles do.
func SatisfiedSet(states map[string]model.ResolvedTileState, verifiedOnly bool) map[string]bool {
	satisfied := make(map[string]bool, len(states))
	for id, s := range states {
		if s.Verified || (!verifiedOnly && s.Complete) {
			satisfied[id] = true
		}
	}
	return satisfied
}

// Classify derives the status of one tile from its resolved state (nil if
// the team never submitted) and the team's satisfied set. Precedence is
// fixed: verified beats requires-action beats submitted beats
// partially-complete; tiles with no submission are unlocked or locked by
// their prerequisite expression.
func Classify(tile model.TileDefinition, state *model.ResolvedTileState, satisfied map[string]bool) model.Status {
	if state != nil && state.HasSubmission {
		switch {
		case state.Verified:
			return model.StatusVerified
		case state.RequiresAction:
			return model.StatusRequiresAction
		case state.Complete:
			return model.StatusSubmitted
		default:
			return model.StatusPartiallyComplete
		}
	}
	if prereq.Parse(tile.Prerequisites).SatisfiedBy(satisfied) {
		return model.StatusUnlocked
	}
	return model.StatusLocked
}
