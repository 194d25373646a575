// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/bingo/internal/domain/types"
)

// HistoryDependencies defines the interface for the replay series.
type HistoryDependencies interface {
	History(ctx context.Context) ([]types.ChartPoint, error)
}

// HistoryHandler handles chart series requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /history requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	series, err := h.deps.History(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if series == nil {
		series = []types.ChartPoint{}
	}
	writeJSON(w, http.StatusOK, series)
}
