// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/bingo/internal/domain/types"
)

// DuplicatesDependencies defines the interface for conflict handling.
type DuplicatesDependencies interface {
	Duplicates(ctx context.Context) ([]types.ConflictView, error)
	ResolveDuplicateGroup(ctx context.Context, password, keepEventID string) (int, error)
}

// DuplicatesHandler handles duplicate inspection and resolution.
type DuplicatesHandler struct {
	deps DuplicatesDependencies
}

// NewDuplicatesHandler creates a new duplicates handler.
func NewDuplicatesHandler(deps DuplicatesDependencies) *DuplicatesHandler {
	return &DuplicatesHandler{deps: deps}
}

// HandleList handles GET /duplicates requests.
func (h *DuplicatesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	conflicts, err := h.deps.Duplicates(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if conflicts == nil {
		conflicts = []types.ConflictView{}
	}
	writeJSON(w, http.StatusOK, conflicts)
}

type resolveRequest struct {
	Password    string `json:"password"`
	KeepEventID string `json:"keep_event_id"`
}

func (req resolveRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Password) == "":
		return errors.New("missing password")
	case strings.TrimSpace(req.KeepEventID) == "":
		return errors.New("missing keep_event_id")
	}
	return nil
}

type resolveResponse struct {
	Kept     string `json:"kept"`
	Archived int    `json:"archived"`
}

// HandleResolve handles POST /duplicates/resolve requests.
func (h *DuplicatesHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n, err := h.deps.ResolveDuplicateGroup(r.Context(), req.Password, req.KeepEventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Kept: req.KeepEventID, Archived: n})
}
