package handler

import (
	"net/http"

	"github.com/hexforge/catan/internal/agent"
	"github.com/hexforge/catan/internal/model"
	"github.com/hexforge/catan/internal/service"
	"github.com/hexforge/catan/pkg/catan"
)

// AgentHandler drives a non-human seat's turn to completion (C7).
type AgentHandler struct {
	registry  *service.Registry
	clientFor func(provider string) agent.ProviderClient
}

// NewAgentHandler creates an AgentHandler. clientFor resolves a seat's
// configured provider id to the client that speaks its wire protocol; an
// algorithm-only game never consults it.
func NewAgentHandler(registry *service.Registry, clientFor func(provider string) agent.ProviderClient) *AgentHandler {
	return &AgentHandler{registry: registry, clientFor: clientFor}
}

// RunTurn handles POST /games/{id}/agent-turn.
func (h *AgentHandler) RunTurn(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	var req model.AgentTurnRequest
	_ = decodeJSON(r, &req) // body is optional; zero value is a valid request

	s, lookupErr := h.registry.GetGame(gameID)
	if lookupErr != nil {
		writeCatanError(w, lookupErr)
		return
	}
	seat := s.ActivePlayer().ID

	var provider agent.ProviderClient
	if p := s.PlayerByID(seat); p != nil && p.AgentKind == catan.AgentLLM {
		provider = h.clientFor(p.Provider.Provider)
	}

	deps := agent.DriverDeps{
		Provider:     provider,
		SystemPrompt: defaultSystemPrompt,
		UserPrompt:   req.Notes,
	}

	updated, result := h.registry.RunAgentTurn(r.Context(), gameID, seat, deps)
	resp := model.AgentTurnResponse{}
	for _, a := range result.Actions {
		resp.Actions = append(resp.Actions, model.AppliedActionView{Action: a.Action, Event: a.Event})
	}
	if updated != nil {
		resp.State = model.NewStateView(updated)
	}

	if result.Err != nil {
		resp.Error = result.Err.Error()
		status := http.StatusInternalServerError
		switch result.Err.Kind {
		case catan.KindInvalidRequest, catan.KindIllegalAction:
			status = http.StatusBadRequest
		case catan.KindNotFound:
			status = http.StatusNotFound
		case catan.KindProviderError:
			status = http.StatusBadGateway
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

const defaultSystemPrompt = "You are an agent playing a Catan-style strategy game. " +
	"Respond with a single JSON action chosen from the legal actions available to your seat."
