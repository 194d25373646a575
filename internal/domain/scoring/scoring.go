// Package scoring computes idempotent per-team scores from resolved tile
// states.
package scoring

import (
	"sort"

	"github.com/okian/bingo/internal/domain/model"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithScoreOnVerifiedOnly controls the scoring policy: when true (the
// default) a tile scores only once admin-verified, otherwise completion
// is enough.
func WithScoreOnVerifiedOnly(verifiedOnly bool) Option {
	return func(a *Aggregator) {
		a.verifiedOnly = verifiedOnly
	}
}

// WithPoints sets the tile point table used for totals.
func WithPoints(points map[string]int) Option {
	return func(a *Aggregator) {
		a.points = make(map[string]int, len(points))
		for id, p := range points {
			if p > 0 {
				a.points[id] = p
			}
		}
	}
}

// Aggregator sums tile point values under the active scoring policy.
// Because resolved states hold exactly one entry per (team, tile) key,
// each tile contributes at most once no matter how many raw submission
// rows exist; that idempotence is the contract the whole derivation
// protects.
type Aggregator struct {
	points       map[string]int
	verifiedOnly bool
}

// New constructs an Aggregator with the given options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		points:       make(map[string]int),
		verifiedOnly: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scorable reports whether a single resolved state earns its tile's
// points under the active policy.
func (a *Aggregator) Scorable(s model.ResolvedTileState) bool {
	if a.verifiedOnly {
		return s.Verified
	}
	return s.Complete
}

// TeamScore totals one team's points from its resolved tile states.
func (a *Aggregator) TeamScore(states map[string]model.ResolvedTileState) int {
	total := 0
	for id, s := range states {
		if a.Scorable(s) {
			total += a.points[id]
		}
	}
	return total
}

// PointsFor returns the point value of a tile, zero when unknown.
func (a *Aggregator) PointsFor(tileID string) (int, bool) {
	p, ok := a.points[tileID]
	return p, ok
}

// Scoreboard ranks teams by descending score; ties break on team name so
// output is deterministic.
func (a *Aggregator) Scoreboard(teamStates map[string]map[string]model.ResolvedTileState) []model.TeamState {
	board := make([]model.TeamState, 0, len(teamStates))
	for team, states := range teamStates {
		board = append(board, model.TeamState{
			Team:       team,
			Score:      a.TeamScore(states),
			TileStates: states,
		})
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Score != board[j].Score {
			return board[i].Score > board[j].Score
		}
		return board[i].Team < board[j].Team
	})
	return board
}

// PointTable extracts the tile point map from definitions, dropping
// non-positive values.
func PointTable(tiles []model.TileDefinition) map[string]int {
	points := make(map[string]int, len(tiles))
	for _, t := range tiles {
		if t.Points > 0 {
			points[t.TileID] = t.Points
		}
	}
	return points
}
