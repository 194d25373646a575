// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/bingo/internal/domain/model"
)

// TileStatusDependencies defines the interface for tile classification.
type TileStatusDependencies interface {
	TileStatus(ctx context.Context, tileID, team string) (model.Status, error)
}

// TileStatusHandler handles per-tile status requests.
type TileStatusHandler struct {
	deps TileStatusDependencies
}

// NewTileStatusHandler creates a new tile status handler.
func NewTileStatusHandler(deps TileStatusDependencies) *TileStatusHandler {
	return &TileStatusHandler{deps: deps}
}

type tileStatusResponse struct {
	TileID string       `json:"tile_id"`
	Team   string       `json:"team"`
	Status model.Status `json:"status"`
}

// HandleGetStatus handles GET /tiles/{tile_id}/status?team=X requests.
func (h *TileStatusHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/tiles/")
	tileID, ok := strings.CutSuffix(path, "/status")
	if !ok || tileID == "" || strings.Contains(tileID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	team := r.URL.Query().Get("team")
	if team == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	st, err := h.deps.TileStatus(r.Context(), tileID, team)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tileStatusResponse{TileID: tileID, Team: team, Status: st})
}
