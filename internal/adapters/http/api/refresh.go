// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/pucklab/puckrank/internal/domain/types"
)

// RefreshDependencies defines the interface for triggering refreshes.
type RefreshDependencies interface {
	TriggerRefresh(ctx context.Context) (types.RefreshAccepted, error)
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh requests. The trigger is
// accepted asynchronously: a 202 means a recomputation will cover this
// request, either its own run or one already pending ("coalesced").
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	accepted, err := h.deps.TriggerRefresh(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, accepted)
}
