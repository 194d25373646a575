package testevents

import "time"

// Config holds configuration for the board load test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumEvents  int           // Number of submissions to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Password   string        // Team password sent with every submission
	OutputFile string        // Output file for submissions
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Submission mirrors the POST /submissions request body
type Submission struct {
	Team     string `json:"team"`
	TileID   string `json:"tile_id"`
	Player   string `json:"player"`
	Password string `json:"password"`
	Notes    string `json:"notes,omitempty"`
	Complete bool   `json:"complete"`
}

// SubmissionAck mirrors the submission response
type SubmissionAck struct {
	EventID string `json:"event_id"`
	Team    string `json:"team"`
	TileID  string `json:"tile_id"`
}

// ScoreboardEntry mirrors one ranked scoreboard row
type ScoreboardEntry struct {
	Rank  int    `json:"rank"`
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// TileView mirrors one tile of a team board
type TileView struct {
	TileID string `json:"tile_id"`
	Status string `json:"status"`
}

// TeamBoard mirrors one team's board
type TeamBoard struct {
	Team  string     `json:"team"`
	Score int        `json:"score"`
	Tiles []TileView `json:"tiles"`
}

// BoardView mirrors the GET /board response
type BoardView struct {
	Scoreboard []ScoreboardEntry `json:"scoreboard"`
	Teams      []TeamBoard       `json:"teams"`
}

// ChartPoint mirrors one point of the GET /history series
type ChartPoint struct {
	Timestamp time.Time      `json:"timestamp"`
	Scores    map[string]int `json:"scores"`
}

// Stats holds test statistics
type Stats struct {
	SubmissionsGenerated  int
	SubmissionsSubmitted  int
	SubmissionsSuccessful int
	SubmissionsRejected   int
	SubmissionsFailed     int
	HistoryPoints         int
	BoardTeams            int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
