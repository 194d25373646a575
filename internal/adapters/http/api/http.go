// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/bingo/internal/adapters/repository"
	service "github.com/okian/bingo/internal/app"
	"github.com/okian/bingo/internal/domain/dedupe"
	"github.com/okian/bingo/internal/domain/model"
	"github.com/okian/bingo/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations recompute derived views from the submission log.
	Board(ctx context.Context) (types.BoardView, error)
	TileStatus(ctx context.Context, tileID, team string) (model.Status, error)
	History(ctx context.Context) ([]types.ChartPoint, error)
	Duplicates(ctx context.Context) ([]types.ConflictView, error)

	// Write operations go through the store's bounded-wait lock.
	Submit(ctx context.Context, req service.SubmitRequest) (model.SubmissionEvent, error)
	UpdateFlags(ctx context.Context, password string, key model.Key, patch repository.FlagPatch) (model.SubmissionEvent, error)
	ResolveDuplicateGroup(ctx context.Context, password, keepEventID string) (int, error)
}

// Server wires HTTP routes for the board API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	boardHandler       *BoardHandler
	tileStatusHandler  *TileStatusHandler
	historyHandler     *HistoryHandler
	duplicatesHandler  *DuplicatesHandler
	submissionsHandler *SubmissionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		boardHandler:       NewBoardHandler(deps),
		tileStatusHandler:  NewTileStatusHandler(deps),
		historyHandler:     NewHistoryHandler(deps),
		duplicatesHandler:  NewDuplicatesHandler(deps),
		submissionsHandler: NewSubmissionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/tiles/", MetricsMiddleware(s.tileStatusHandler.HandleGetStatus, "tile_status"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/duplicates", MetricsMiddleware(s.duplicatesHandler.HandleList, "duplicates"))
	mux.HandleFunc("/duplicates/resolve", MetricsMiddleware(s.duplicatesHandler.HandleResolve, "duplicates_resolve"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePost, "submissions"))
	mux.HandleFunc("/submissions/flags", MetricsMiddleware(s.submissionsHandler.HandlePatchFlags, "submission_flags"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates sentinel error kinds into HTTP responses.
// Derivation failures never crash the read path: missing collaborators
// and lock timeouts come back as structured, retryable failures.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredential):
		writeError(w, http.StatusForbidden, "invalid_credential", err)
	case errors.Is(err, service.ErrUnknownTeam), errors.Is(err, service.ErrUnknownTile):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, dedupe.ErrKeeperNotInGroup):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrAmbiguousState):
		writeError(w, http.StatusConflict, "ambiguous_state", err)
	case errors.Is(err, repository.ErrStaleWrite):
		writeError(w, http.StatusServiceUnavailable, "stale_write", err)
	case errors.Is(err, repository.ErrMissingCollaborator):
		writeError(w, http.StatusServiceUnavailable, "missing_collaborator", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
