// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/pucklab/puckrank/internal/domain/types"
)

// RankDependencies defines the interface for single-team rank reads.
type RankDependencies interface {
	TeamRank(ctx context.Context, variant, teamID string) (types.RankingEntry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{team} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rank/
	team := strings.TrimPrefix(r.URL.Path, "/rank/")
	if team == "" || strings.Contains(team, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	entry, err := h.deps.TeamRank(r.Context(), r.URL.Query().Get("variant"), strings.ToUpper(team))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
