// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/bingo/internal/domain/types"
)

// BoardDependencies defines the interface for board derivation.
type BoardDependencies interface {
	Board(ctx context.Context) (types.BoardView, error)
}

// BoardHandler handles board view requests.
type BoardHandler struct {
	deps BoardDependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// HandleGetBoard handles GET /board requests. The optional team query
// parameter narrows the response to one team's board.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.Board(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if team := r.URL.Query().Get("team"); team != "" {
		for _, tb := range view.Teams {
			if tb.Team == team {
				writeJSON(w, http.StatusOK, tb)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
