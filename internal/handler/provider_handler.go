package handler

import (
	"net/http"

	"github.com/hexforge/catan/internal/agent"
	"github.com/hexforge/catan/internal/model"
)

// ProviderHandler verifies LLM provider credentials ahead of seating an
// llm-controlled player (spec.md §6).
type ProviderHandler struct {
	clientFor   func(provider string) agent.ProviderClient
	credentials map[string]string
}

// NewProviderHandler creates a ProviderHandler. clientFor resolves a
// provider id ("openai", "anthropic", "local", ...) to the client that
// speaks its wire protocol; credentials supplies the env-var fallback
// used when the request omits an apiKey, per spec.md §6.
func NewProviderHandler(clientFor func(provider string) agent.ProviderClient, credentials map[string]string) *ProviderHandler {
	return &ProviderHandler{clientFor: clientFor, credentials: credentials}
}

// Verify handles POST /providers/verify.
func (h *ProviderHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" {
		writeError(w, http.StatusBadRequest, "provider is required")
		return
	}
	if req.APIKey == "" {
		req.APIKey = h.credentials[req.Provider]
	}

	client := h.clientFor(req.Provider)
	result, err := client.VerifyCredentials(r.Context(), req.APIKey, req.APIEndpoint)
	if err != nil {
		writeCatanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.VerifyResponse{
		OK:      result.OK,
		Status:  result.Status,
		Message: result.Detail,
	})
}
