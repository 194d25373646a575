// Package replay walks the submission log chronologically and re-derives
// score deltas into a chart-ready time series.
package replay

import (
	"sort"
	"time"

	"github.com/okian/bingo/internal/domain/model"
)

// Option applies a configuration option to the Replayer.
type Option func(*Replayer)

// WithScoreOnVerifiedOnly sets the scoring policy; must match the
// aggregator's policy for the equivalence guarantee to hold.
func WithScoreOnVerifiedOnly(verifiedOnly bool) Option {
	return func(r *Replayer) {
		r.verifiedOnly = verifiedOnly
	}
}

// WithPoints sets the tile point table. Events for tiles without a point
// value are skipped.
func WithPoints(points map[string]int) Option {
	return func(r *Replayer) {
		r.points = points
	}
}

// WithTeams fixes the set of teams present in every emitted snapshot.
// Events for teams outside the set are skipped.
func WithTeams(teams []string) Option {
	return func(r *Replayer) {
		r.teams = teams
		r.known = make(map[string]bool, len(teams))
		for _, t := range teams {
			r.known[t] = true
		}
	}
}

// Replayer builds the score-over-time series. The walk is sequential:
// each event is judged by its own flags, not the resolved-latest state,
// so a tile can score and later un-score as corrections land. The final
// running totals equal the aggregator's result over the resolved log.
type Replayer struct {
	points       map[string]int
	teams        []string
	known        map[string]bool
	verifiedOnly bool
}

// New constructs a Replayer with the given options.
func New(opts ...Option) *Replayer {
	r := &Replayer{
		points:       make(map[string]int),
		verifiedOnly: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Series replays the log in chronological order and returns one data
// point per instant where some team's scorable set changed. Archived
// rows are audit noise and excluded. Events tied on timestamp keep log
// order.
func (r *Replayer) Series(events []model.SubmissionEvent) []model.ChartDataPoint {
	ordered := make([]model.SubmissionEvent, 0, len(events))
	for _, e := range events {
		if e.Archived || !e.Addressable() {
			continue
		}
		if _, ok := r.points[e.TileID]; !ok {
			continue
		}
		if r.known != nil && !r.known[e.Team] {
			continue
		}
		ordered = append(ordered, e)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	totals := make(map[string]int, len(r.teams))
	for _, team := range r.teams {
		totals[team] = 0
	}
	scored := make(map[model.Key]bool)

	var series []model.ChartDataPoint
	for _, e := range ordered {
		k := e.KeyOf()
		scorable := r.scorable(e)
		switch {
		case scorable && !scored[k]:
			totals[e.Team] += r.points[e.TileID]
			scored[k] = true
		case !scorable && scored[k]:
			totals[e.Team] -= r.points[e.TileID]
			scored[k] = false
		default:
			// No-op events produce no point.
			continue
		}
		series = append(series, model.ChartDataPoint{
			Timestamp:   pointTime(e, scorable),
			ScoreByTeam: snapshot(totals),
		})
	}
	return series
}

// FinalTotals returns the running totals after a full replay, keyed by
// team. Used to cross-check the aggregator.
func (r *Replayer) FinalTotals(events []model.SubmissionEvent) map[string]int {
	series := r.Series(events)
	if len(series) == 0 {
		totals := make(map[string]int, len(r.teams))
		for _, team := range r.teams {
			totals[team] = 0
		}
		return totals
	}
	return series[len(series)-1].ScoreByTeam
}

func (r *Replayer) scorable(e model.SubmissionEvent) bool {
	if r.verifiedOnly {
		return e.AdminVerified
	}
	return e.IsComplete
}

// pointTime prefers the completion instant when a tile scores and one
// was recorded; corrections fall back to the row's creation instant.
func pointTime(e model.SubmissionEvent, scorable bool) time.Time {
	if scorable && e.CompletionTimestamp != nil {
		return *e.CompletionTimestamp
	}
	return e.Timestamp
}

func snapshot(totals map[string]int) map[string]int {
	out := make(map[string]int, len(totals))
	for team, score := range totals {
		out[team] = score
	}
	return out
}
