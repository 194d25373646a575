// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// SubmissionEvent is one row of the append-only submission log.
// Rows are never deleted; superseded rows are marked Archived and kept
// for audit.
type SubmissionEvent struct {
	EventID             string     // unique id, minted at ingestion when absent
	Timestamp           time.Time  // creation instant, immutable
	CompletionTimestamp *time.Time // instant first marked complete, nil if never
	Player              string
	Team                string
	TileID              string
	Evidence            []EvidenceLink
	Notes               string
	AdminVerified       bool // settable only by the admin path
	IsComplete          bool
	RequiresAction      bool
	Archived            bool // set only by duplicate resolution
}

// EvidenceLink is one piece of submitted evidence.
type EvidenceLink struct {
	Link  string `json:"link"`
	Label string `json:"label"`
}

// Key identifies the logical state slot an event belongs to.
type Key struct {
	Team   string
	TileID string
}

// KeyOf returns the event's (team, tile) key.
func (e SubmissionEvent) KeyOf() Key {
	return Key{Team: e.Team, TileID: e.TileID}
}

// Addressable reports whether the event carries both a team and a tile id.
// Events missing either never resolve to a state.
func (e SubmissionEvent) Addressable() bool {
	return strings.TrimSpace(e.Team) != "" && strings.TrimSpace(e.TileID) != ""
}

// TileDefinition describes one challenge tile on the board.
type TileDefinition struct {
	TileID        string
	Name          string
	Description   string
	Prerequisites string // raw expression, parsed lazily by the prereq package
	TopPct        float64
	LeftPct       float64
	WidthPct      float64
	HeightPct     float64
	Points        int // non-negative; unparsable source values default to 0
	Rotation      string
	Overrides     string // opaque style JSON, parse-failure tolerant
}

// ResolvedTileState is the single authoritative status of a (team, tile)
// pair, derived from the latest non-archived event for that key.
type ResolvedTileState struct {
	Verified       bool
	Complete       bool
	RequiresAction bool
	HasSubmission  bool
}

// ResolveState projects an event onto its tile-state view.
func (e SubmissionEvent) ResolveState() ResolvedTileState {
	return ResolvedTileState{
		Verified:       e.AdminVerified,
		Complete:       e.IsComplete,
		RequiresAction: e.RequiresAction,
		HasSubmission:  true,
	}
}

// TeamState is the fully derived view for one team.
type TeamState struct {
	Team       string
	Score      int
	TileStates map[string]ResolvedTileState
}

// ChartDataPoint is one instant of the score-over-time series. Points are
// emitted only when at least one team's scorable set changed.
type ChartDataPoint struct {
	Timestamp   time.Time
	ScoreByTeam map[string]int
}

// Status is the board-facing classification of a tile for a team.
type Status string

const (
	StatusVerified          Status = "verified"
	StatusRequiresAction    Status = "requires_action"
	StatusSubmitted         Status = "submitted"
	StatusPartiallyComplete Status = "partially_complete"
	StatusUnlocked          Status = "unlocked"
	StatusLocked            Status = "locked"
)
