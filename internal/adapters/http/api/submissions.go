// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	repository "github.com/okian/bingo/internal/adapters/repository"
	service "github.com/okian/bingo/internal/app"
	"github.com/okian/bingo/internal/domain/model"
)

// SubmissionsHandler handles player submissions and admin flag edits.
type SubmissionsHandler struct {
	deps Dependencies
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps Dependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

// submissionRequest mirrors the POST /submissions body.
type submissionRequest struct {
	Team     string               `json:"team"`
	TileID   string               `json:"tile_id"`
	Player   string               `json:"player"`
	Password string               `json:"password"`
	Evidence []model.EvidenceLink `json:"evidence"`
	Notes    string               `json:"notes"`
	Complete bool                 `json:"complete"`
}

func (req submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Team) == "":
		return errors.New("missing team")
	case strings.TrimSpace(req.TileID) == "":
		return errors.New("missing tile_id")
	case strings.TrimSpace(req.Player) == "":
		return errors.New("missing player")
	}
	return nil
}

type submissionResponse struct {
	EventID   string    `json:"event_id"`
	Team      string    `json:"team"`
	TileID    string    `json:"tile_id"`
	Complete  bool      `json:"complete"`
	Timestamp time.Time `json:"timestamp"`
}

// HandlePost handles POST /submissions requests.
func (h *SubmissionsHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	stored, err := h.deps.Submit(r.Context(), service.SubmitRequest{
		Team:     req.Team,
		TileID:   req.TileID,
		Player:   req.Player,
		Password: req.Password,
		Evidence: req.Evidence,
		Notes:    req.Notes,
		Complete: req.Complete,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submissionResponse{
		EventID:   stored.EventID,
		Team:      stored.Team,
		TileID:    stored.TileID,
		Complete:  stored.IsComplete,
		Timestamp: stored.Timestamp,
	})
}

// flagsRequest mirrors the POST /submissions/flags body. Nil fields are
// left untouched on the target row.
type flagsRequest struct {
	Password       string  `json:"password"`
	Team           string  `json:"team"`
	TileID         string  `json:"tile_id"`
	Verified       *bool   `json:"verified"`
	Complete       *bool   `json:"complete"`
	RequiresAction *bool   `json:"requires_action"`
	Notes          *string `json:"notes"`
}

func (req flagsRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Team) == "":
		return errors.New("missing team")
	case strings.TrimSpace(req.TileID) == "":
		return errors.New("missing tile_id")
	case req.Verified == nil && req.Complete == nil && req.RequiresAction == nil && req.Notes == nil:
		return errors.New("no fields to update")
	}
	return nil
}

// HandlePatchFlags handles POST /submissions/flags requests (admin).
func (h *SubmissionsHandler) HandlePatchFlags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req flagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	updated, err := h.deps.UpdateFlags(r.Context(), req.Password,
		model.Key{Team: req.Team, TileID: req.TileID},
		repository.FlagPatch{
			Verified:       req.Verified,
			Complete:       req.Complete,
			RequiresAction: req.RequiresAction,
			Notes:          req.Notes,
		},
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse{
		EventID:   updated.EventID,
		Team:      updated.Team,
		TileID:    updated.TileID,
		Complete:  updated.IsComplete,
		Timestamp: updated.Timestamp,
	})
}
