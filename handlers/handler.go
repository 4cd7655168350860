package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraicbc/scoreapi/hub"
	"github.com/padraicbc/scoreapi/store"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	store *store.Store
	hub   *hub.Hub
}

// New creates a Handler with the given store gateway and subscriber hub.
func New(st *store.Store, hb *hub.Hub) *Handler {
	return &Handler{store: st, hub: hb}
}

// statusResponse is the result body for every mutation: {status:"success"} or
// {status:"failure", message:"..."}. Failures at this level are API results,
// not HTTP errors; HTTP errors are reserved for malformed input.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func success() statusResponse {
	return statusResponse{Status: "success"}
}

func failure(msg string) statusResponse {
	return statusResponse{Status: "failure", Message: msg}
}

// broadcastAggregate recomputes the per-team totals view and fans it out.
// Called after a committed team/test/score mutation, before the HTTP response
// is written. Failures are logged and contained; they never fail the request.
func (h *Handler) broadcastAggregate(ctx context.Context) {
	totals, err := h.store.AggregateByTeam(ctx)
	if err != nil {
		zap.L().Warn("aggregate view for broadcast failed", zap.Error(err))
		return
	}
	h.hub.Broadcast(totals)
}

// broadcastResults fans out the current legacy results list.
func (h *Handler) broadcastResults(ctx context.Context) {
	results, err := h.store.Results(ctx)
	if err != nil {
		zap.L().Warn("results list for broadcast failed", zap.Error(err))
		return
	}
	h.hub.Broadcast(results)
}
