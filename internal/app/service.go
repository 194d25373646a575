// Package service provides the core board engine behind the HTTP API.
//
// Every read recomputes the full derived view from the submission log;
// nothing is cached or materialized. Write operations go through the
// store's bounded-wait exclusive lock.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	repository "github.com/okian/bingo/internal/adapters/repository"
	"github.com/okian/bingo/internal/adapters/sheet"
	"github.com/okian/bingo/internal/domain/dedupe"
	"github.com/okian/bingo/internal/domain/model"
	"github.com/okian/bingo/internal/domain/replay"
	"github.com/okian/bingo/internal/domain/resolve"
	"github.com/okian/bingo/internal/domain/scoring"
	"github.com/okian/bingo/internal/domain/status"
	"github.com/okian/bingo/internal/domain/types"
	"github.com/okian/bingo/pkg/logger"
	"github.com/okian/bingo/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultLockTimeout      = 10 * time.Second
	defaultMaxHistoryPoints = 10_000
)

// Service implements the board operations consumed by the HTTP layer.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	teamNames            []string
	teamPasswords        map[string]string
	adminPassword        string
	scoreOnVerifiedOnly  bool
	unlockOnVerifiedOnly bool
	lockTimeout          time.Duration
	maxHistoryPoints     int
	tilesFile            string
	eventsFile           string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTeams sets the configured team list.
func WithTeams(teams []string) Option {
	return func(s *Service) {
		s.teamNames = teams
	}
}

// WithTeamPasswords sets per-team submission passwords.
func WithTeamPasswords(passwords map[string]string) Option {
	return func(s *Service) {
		s.teamPasswords = passwords
	}
}

// WithAdminPassword sets the password guarding admin operations.
func WithAdminPassword(password string) Option {
	return func(s *Service) {
		s.adminPassword = password
	}
}

// WithScoreOnVerifiedOnly sets the scoring policy.
func WithScoreOnVerifiedOnly(verifiedOnly bool) Option {
	return func(s *Service) {
		s.scoreOnVerifiedOnly = verifiedOnly
	}
}

// WithUnlockOnVerifiedOnly sets the prerequisite satisfaction policy.
func WithUnlockOnVerifiedOnly(verifiedOnly bool) Option {
	return func(s *Service) {
		s.unlockOnVerifiedOnly = verifiedOnly
	}
}

// WithWriteLockTimeout bounds the wait for the log's write lock.
func WithWriteLockTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.lockTimeout = timeout
		}
	}
}

// WithMaxHistoryPoints caps the chart series length.
func WithMaxHistoryPoints(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistoryPoints = n
		}
	}
}

// WithBoardFiles points the service at CSV exports to load on Start.
func WithBoardFiles(tilesFile, eventsFile string) Option {
	return func(s *Service) {
		s.tilesFile = tilesFile
		s.eventsFile = eventsFile
	}
}

// WithStore injects a pre-built store, bypassing CSV loading.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		teamPasswords:       map[string]string{},
		scoreOnVerifiedOnly: true,
		lockTimeout:         defaultLockTimeout,
		maxHistoryPoints:    defaultMaxHistoryPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the external tables and readies the service.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		storeOpts := []repository.Option{
			repository.WithLockTimeout(s.lockTimeout),
		}
		if s.tilesFile != "" {
			tiles, err := sheet.ReadTilesFile(s.tilesFile)
			if err != nil {
				return fmt.Errorf("load tiles: %w", err)
			}
			storeOpts = append(storeOpts, repository.WithTiles(tiles))
		}
		if s.eventsFile != "" {
			events, err := sheet.ReadEventsFile(s.eventsFile)
			if err != nil {
				return fmt.Errorf("load events: %w", err)
			}
			storeOpts = append(storeOpts, repository.WithEvents(events))
		}
		s.store = repository.NewMemStore(ctx, storeOpts...)
	}

	s.started = true
	metrics.UpdateTrackedTeams(len(s.teamNames))
	s.logger.Info(ctx, "board service started",
		logger.Int("teams", len(s.teamNames)),
		logger.Any("scoreOnVerifiedOnly", s.scoreOnVerifiedOnly),
		logger.Any("unlockOnVerifiedOnly", s.unlockOnVerifiedOnly),
	)
	return nil
}

// Stop shuts the service down. The store has no background work, so this
// only flips the started flag.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "board service stopped")
}

// Board derives the full board view: per-team tile states, statuses and
// the ranked scoreboard. Everything is rebuilt from the raw log on every
// call.
func (s *Service) Board(ctx context.Context) (types.BoardView, error) {
	start := time.Now()
	events, tiles, err := s.tables(ctx)
	if err != nil {
		return types.BoardView{}, err
	}

	agg := s.aggregator(tiles)
	teamStates := resolve.TeamStates(events, s.teamNames)
	ranked := agg.Scoreboard(teamStates)

	view := types.BoardView{
		Scoreboard: make([]types.ScoreboardEntry, 0, len(ranked)),
		Teams:      make([]types.TeamBoard, 0, len(ranked)),
	}
	resolved := 0
	for i, ts := range ranked {
		view.Scoreboard = append(view.Scoreboard, types.ScoreboardEntry{
			Rank:  i + 1,
			Team:  ts.Team,
			Score: ts.Score,
		})
		satisfied := status.SatisfiedSet(ts.TileStates, s.unlockOnVerifiedOnly)
		board := types.TeamBoard{
			Team:  ts.Team,
			Score: ts.Score,
			Tiles: make([]types.TileView, 0, len(tiles)),
		}
		for _, tile := range tiles {
			var state *model.ResolvedTileState
			if st, ok := ts.TileStates[tile.TileID]; ok {
				st := st
				state = &st
				resolved++
			}
			tv := types.TileView{
				TileID: tile.TileID,
				Name:   tile.Name,
				Points: tile.Points,
				Status: status.Classify(tile, state, satisfied),
			}
			if state != nil {
				tv.Verified = state.Verified
				tv.Complete = state.Complete
				tv.RequiresAction = state.RequiresAction
				tv.HasSubmission = state.HasSubmission
			}
			board.Tiles = append(board.Tiles, tv)
		}
		view.Teams = append(view.Teams, board)
	}

	metrics.UpdateResolvedStates(resolved)
	metrics.RecordBoardRebuildDuration(float64(time.Since(start).Milliseconds()))
	return view, nil
}

// TileStatus classifies a single tile for a team.
func (s *Service) TileStatus(ctx context.Context, tileID, team string) (model.Status, error) {
	if !s.knownTeam(team) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	events, tiles, err := s.tables(ctx)
	if err != nil {
		return "", err
	}
	var tile *model.TileDefinition
	for i := range tiles {
		if tiles[i].TileID == tileID {
			tile = &tiles[i]
			break
		}
	}
	if tile == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTile, tileID)
	}

	states := resolve.TeamStates(events, []string{team})[team]
	satisfied := status.SatisfiedSet(states, s.unlockOnVerifiedOnly)
	var state *model.ResolvedTileState
	if st, ok := states[tileID]; ok {
		state = &st
	}
	return status.Classify(*tile, state, satisfied), nil
}

// History replays the log into the score-over-time chart series. When
// the series exceeds the configured cap, the most recent points win.
func (s *Service) History(ctx context.Context) ([]types.ChartPoint, error) {
	start := time.Now()
	events, tiles, err := s.tables(ctx)
	if err != nil {
		return nil, err
	}

	r := replay.New(
		replay.WithPoints(scoring.PointTable(tiles)),
		replay.WithTeams(s.teamNames),
		replay.WithScoreOnVerifiedOnly(s.scoreOnVerifiedOnly),
	)
	series := r.Series(events)
	if len(series) > s.maxHistoryPoints {
		series = series[len(series)-s.maxHistoryPoints:]
	}

	out := make([]types.ChartPoint, len(series))
	for i, p := range series {
		out[i] = types.ChartPoint{Timestamp: p.Timestamp, Scores: p.ScoreByTeam}
	}
	metrics.RecordReplayPointsEmitted(len(out))
	metrics.RecordReplayDuration(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Duplicates lists conflict groups awaiting manual resolution.
func (s *Service) Duplicates(ctx context.Context) ([]types.ConflictView, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	events, err := s.store.Events(ctx)
	if err != nil {
		return nil, err
	}
	conflicts := dedupe.Detect(events)
	views := make([]types.ConflictView, 0, len(conflicts))
	for _, c := range conflicts {
		ids := make([]string, 0, len(c.Events))
		for _, e := range c.Events {
			ids = append(ids, e.EventID)
		}
		views = append(views, types.ConflictView{
			Team:     c.Key.Team,
			TileID:   c.Key.TileID,
			EventIDs: ids,
		})
	}
	metrics.UpdateDuplicateGroups(len(views))
	return views, nil
}

// ResolveDuplicateGroup archives every conflicting row except the keeper.
// Admin credential required.
func (s *Service) ResolveDuplicateGroup(ctx context.Context, password, keepEventID string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if !s.adminAuthorized(password) {
		return 0, fmt.Errorf("%w: admin", ErrInvalidCredential)
	}
	events, err := s.store.Events(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range dedupe.Detect(events) {
		archive, err := c.PlanResolution(keepEventID)
		if err != nil {
			continue
		}
		n, err := s.store.Archive(ctx, archive)
		if err != nil {
			return 0, err
		}
		metrics.RecordDuplicateResolved()
		s.logger.Info(ctx, "duplicate group resolved",
			logger.String("team", c.Key.Team),
			logger.String("tile", c.Key.TileID),
			logger.String("kept", keepEventID),
			logger.Int("archived", n),
		)
		return n, nil
	}
	return 0, fmt.Errorf("%w: no conflict group contains event %q", dedupe.ErrKeeperNotInGroup, keepEventID)
}

// SubmitRequest carries a player submission or re-submission.
type SubmitRequest struct {
	Team     string
	TileID   string
	Player   string
	Password string
	Evidence []model.EvidenceLink
	Notes    string
	Complete bool
}

// Submit validates the team credential and writes the submission through
// the store's locked write path. A re-submission overwrites the team's
// live row for the tile; admin-only flags are always cleared on this
// path.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (model.SubmissionEvent, error) {
	if err := s.ready(); err != nil {
		return model.SubmissionEvent{}, err
	}
	if !s.knownTeam(req.Team) {
		metrics.RecordSubmissionRejected()
		return model.SubmissionEvent{}, fmt.Errorf("%w: %q", ErrUnknownTeam, req.Team)
	}
	if !s.teamAuthorized(req.Team, req.Password) {
		metrics.RecordSubmissionRejected()
		return model.SubmissionEvent{}, fmt.Errorf("%w: team %q", ErrInvalidCredential, req.Team)
	}
	if err := s.knownTile(ctx, req.TileID); err != nil {
		metrics.RecordSubmissionRejected()
		return model.SubmissionEvent{}, err
	}

	stored, err := s.store.Upsert(ctx, model.SubmissionEvent{
		EventID:    uuid.New().String(),
		Team:       req.Team,
		TileID:     req.TileID,
		Player:     req.Player,
		Evidence:   req.Evidence,
		Notes:      req.Notes,
		IsComplete: req.Complete,
	})
	if err != nil {
		return model.SubmissionEvent{}, err
	}
	s.logger.Debug(ctx, "submission stored",
		logger.String("eventID", stored.EventID),
		logger.String("team", stored.Team),
		logger.String("tile", stored.TileID),
	)
	return stored, nil
}

// UpdateFlags applies admin status edits to the latest live row for a
// (team, tile) key. Admin credential required.
func (s *Service) UpdateFlags(ctx context.Context, password string, key model.Key, patch repository.FlagPatch) (model.SubmissionEvent, error) {
	if err := s.ready(); err != nil {
		return model.SubmissionEvent{}, err
	}
	if !s.adminAuthorized(password) {
		return model.SubmissionEvent{}, fmt.Errorf("%w: admin", ErrInvalidCredential)
	}
	return s.store.UpdateFlags(ctx, key, patch)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":              s.started,
		"teams":                len(s.teamNames),
		"scoreOnVerifiedOnly":  s.scoreOnVerifiedOnly,
		"unlockOnVerifiedOnly": s.unlockOnVerifiedOnly,
	}
	if s.started {
		stats["logRows"] = s.store.Count(context.Background())
	}
	return stats
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return ErrNotStarted
	}
	return nil
}

// tables fetches both external tables for a derivation pass.
func (s *Service) tables(ctx context.Context) ([]model.SubmissionEvent, []model.TileDefinition, error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	events, err := s.store.Events(ctx)
	if err != nil {
		return nil, nil, err
	}
	tiles, err := s.store.Tiles(ctx)
	if err != nil {
		return nil, nil, err
	}
	return events, tiles, nil
}

func (s *Service) aggregator(tiles []model.TileDefinition) *scoring.Aggregator {
	return scoring.New(
		scoring.WithPoints(scoring.PointTable(tiles)),
		scoring.WithScoreOnVerifiedOnly(s.scoreOnVerifiedOnly),
	)
}

func (s *Service) knownTeam(team string) bool {
	for _, t := range s.teamNames {
		if t == team {
			return true
		}
	}
	return false
}

func (s *Service) knownTile(ctx context.Context, tileID string) error {
	tiles, err := s.store.Tiles(ctx)
	if err != nil {
		return err
	}
	for _, t := range tiles {
		if t.TileID == tileID {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTile, tileID)
}

func (s *Service) teamAuthorized(team, password string) bool {
	want, ok := s.teamPasswords[team]
	if !ok {
		// Teams without a configured password accept any submission.
		return true
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}

func (s *Service) adminAuthorized(password string) bool {
	if s.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.adminPassword), []byte(password)) == 1
}
