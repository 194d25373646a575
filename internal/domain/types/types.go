// Package types contains read-model types returned to API consumers.
package types

import (
	"time"

	"github.com/okian/bingo/internal/domain/model"
)

// ScoreboardEntry is one ranked row of the team scoreboard.
type ScoreboardEntry struct {
	Rank  int    `json:"rank"`
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// TileView is one tile's board-facing state for a team.
type TileView struct {
	TileID         string       `json:"tile_id"`
	Name           string       `json:"name"`
	Points         int          `json:"points"`
	Status         model.Status `json:"status"`
	Verified       bool         `json:"verified"`
	Complete       bool         `json:"complete"`
	RequiresAction bool         `json:"requires_action"`
	HasSubmission  bool         `json:"has_submission"`
}

// TeamBoard is the fully derived board for one team, tiles in definition
// order.
type TeamBoard struct {
	Team  string     `json:"team"`
	Score int        `json:"score"`
	Tiles []TileView `json:"tiles"`
}

// BoardView bundles every team's board with the ranked scoreboard.
type BoardView struct {
	Scoreboard []ScoreboardEntry `json:"scoreboard"`
	Teams      []TeamBoard       `json:"teams"`
}

// ChartPoint is one instant of the score-over-time series.
type ChartPoint struct {
	Timestamp time.Time      `json:"timestamp"`
	Scores    map[string]int `json:"scores"`
}

// ConflictView describes a duplicate group awaiting admin resolution.
type ConflictView struct {
	Team     string   `json:"team"`
	TileID   string   `json:"tile_id"`
	EventIDs []string `json:"event_ids"`
}
