package handler

import (
	"net/http"

	"github.com/hexforge/catan/internal/agent"
	"github.com/hexforge/catan/internal/model"
	"github.com/hexforge/catan/internal/service"
	"github.com/hexforge/catan/pkg/catan"
)

// ActionHandler applies manually submitted player actions (spec.md §6).
type ActionHandler struct {
	registry *service.Registry
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(registry *service.Registry) *ActionHandler {
	return &ActionHandler{registry: registry}
}

// Apply handles POST /games/{id}/actions.
func (h *ActionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	var req model.ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	s, lookupErr := h.registry.GetGame(gameID)
	if lookupErr != nil {
		writeCatanError(w, lookupErr)
		return
	}

	seat := s.ActivePlayer().ID
	action := agent.DecodeAction(req.Action, req.Payload, seat)

	updated, err := h.registry.ApplyAction(gameID, action)
	if err != nil {
		writeCatanError(w, err)
		return
	}

	var event catan.EventType
	if n := len(updated.EventLog); n > 0 {
		event = updated.EventLog[n-1].Type
	}
	writeJSON(w, http.StatusOK, model.ActionResponse{
		Action: action,
		Event:  event,
		State:  model.NewStateView(updated),
	})
}
