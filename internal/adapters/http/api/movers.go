// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/pucklab/puckrank/internal/domain/types"
)

// MoversDependencies defines the interface for ranking comparisons.
type MoversDependencies interface {
	Movers(ctx context.Context, variant string) (types.MoversResponse, error)
}

// MoversHandler handles mover requests.
type MoversHandler struct {
	deps MoversDependencies
}

// NewMoversHandler creates a new movers handler.
func NewMoversHandler(deps MoversDependencies) *MoversHandler {
	return &MoversHandler{deps: deps}
}

// HandleGetMovers handles GET /movers?variant=V requests.
func (h *MoversHandler) HandleGetMovers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	resp, err := h.deps.Movers(r.Context(), r.URL.Query().Get("variant"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
