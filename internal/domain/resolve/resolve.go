// Package resolve collapses the raw submission log into one authoritative
// record per (team, tile) key.
package resolve

import (
	"github.com/okian/bingo/internal/domain/model"
)

// Latest scans events in reverse insertion order and keeps, per key, the
// first non-archived event encountered. Insertion order is the tie-break:
// the write path overwrites a team's row for a tile in place or appends a
// new one, so positional recency equals logical recency and timestamps
// never need comparing.
//
// Events missing a team or tile id are skipped; archived rows are audit
// history and never resolve, even when they are the most recent by
// position.
func Latest(events []model.SubmissionEvent) map[model.Key]model.SubmissionEvent {
	latest := make(map[model.Key]model.SubmissionEvent)
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Archived || !e.Addressable() {
			continue
		}
		k := e.KeyOf()
		if _, ok := latest[k]; !ok {
			latest[k] = e
		}
	}
	return latest
}

// TeamStates projects the resolved log onto per-team tile state maps.
// Only teams in the given list appear in the result; every listed team is
// present even when it has no submissions yet.
func TeamStates(events []model.SubmissionEvent, teams []string) map[string]map[string]model.ResolvedTileState {
	known := make(map[string]bool, len(teams))
	states := make(map[string]map[string]model.ResolvedTileState, len(teams))
	for _, t := range teams {
		known[t] = true
		states[t] = make(map[string]model.ResolvedTileState)
	}
	for k, e := range Latest(events) {
		if !known[k.Team] {
			continue
		}
		states[k.Team][k.TileID] = e.ResolveState()
	}
	return states
}
