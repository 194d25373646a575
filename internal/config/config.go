// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
// - The engine never reads ambient config: the struct is built here once
//   and threaded through every core call.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TeamNames lists the teams competing on the board. Submissions for
	// other teams are rejected.
	TeamNames []string `koanf:"team_names"`

	// TeamPasswords maps team name to its shared submission password.
	TeamPasswords map[string]string `koanf:"team_passwords"`

	// AdminPassword guards status edits and duplicate resolution.
	AdminPassword string `koanf:"admin_password"`

	// ScoreOnVerifiedOnly makes tiles score only once admin-verified.
	// Defaults to true; with false, completion is enough.
	ScoreOnVerifiedOnly bool `koanf:"score_on_verified_only"`

	// UnlockOnVerifiedOnly makes prerequisite satisfaction require
	// verification instead of verified-or-complete.
	UnlockOnVerifiedOnly bool `koanf:"unlock_on_verified_only"`

	// WriteLockTimeoutMS bounds the wait for the log's exclusive write lock.
	WriteLockTimeoutMS int `koanf:"write_lock_timeout_ms"`

	// TilesFile and EventsFile point at CSV exports of the external
	// tables to load at startup. Empty means start empty.
	TilesFile  string `koanf:"tiles_file"`
	EventsFile string `koanf:"events_file"`

	// MaxHistoryPoints caps the chart series returned by /history.
	MaxHistoryPoints int `koanf:"max_history_points"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		TeamNames:            nil,
		TeamPasswords:        map[string]string{},
		ScoreOnVerifiedOnly:  true,
		UnlockOnVerifiedOnly: false,
		WriteLockTimeoutMS:   10_000,
		MaxHistoryPoints:     10_000,
	}
}
