package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hexforge/catan/internal/model"
	"github.com/hexforge/catan/internal/service"
	"github.com/hexforge/catan/pkg/catan"
)

// GameHandler handles game lifecycle endpoints: create, inspect, delete.
type GameHandler struct {
	registry            *service.Registry
	providerCredentials map[string]string
}

// NewGameHandler creates a GameHandler. providerCredentials maps a
// provider id to its env-var fallback API key (spec.md §6), applied to
// any llm seat whose request omits one.
func NewGameHandler(registry *service.Registry, providerCredentials map[string]string) *GameHandler {
	return &GameHandler{registry: registry, providerCredentials: providerCredentials}
}

// CreateGame handles POST /games.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.PlayerConfigs) < 2 || len(req.PlayerConfigs) > 4 {
		writeError(w, http.StatusBadRequest, "a game requires 2-4 playerConfigs")
		return
	}

	seats := make([]catan.SeatConfig, len(req.PlayerConfigs))
	for i, sc := range req.PlayerConfigs {
		seats[i] = h.seatConfigFromRequest(sc)
	}

	s, err := h.registry.CreateGame(seats)
	if err != nil {
		writeCatanError(w, err)
		return
	}

	log.Info().Str("gameId", s.ID).Msg("Game created")
	writeJSON(w, http.StatusCreated, model.NewStateView(s))
}

// GetGame handles GET /games/{id}.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	s, err := h.registry.GetGame(gameID)
	if err != nil {
		writeCatanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewStateView(s))
}

// DeleteGame handles DELETE /games/{id}.
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if err := h.registry.DeleteGame(gameID); err != nil {
		writeCatanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// DeleteAllGames handles DELETE /games: bulk teardown of every registered
// session (spec.md §6).
func (h *GameHandler) DeleteAllGames(w http.ResponseWriter, r *http.Request) {
	n := h.registry.DeleteAllGames()
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

// ListGames handles GET /games.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"gameIds": h.registry.ListGameIDs()})
}

func (h *GameHandler) seatConfigFromRequest(sc model.SeatRequest) catan.SeatConfig {
	apiKey := sc.APIKey
	if apiKey == "" {
		apiKey = h.providerCredentials[sc.Provider]
	}
	return catan.SeatConfig{
		Name:          sc.Name,
		Color:         sc.Color,
		AgentKind:     catan.AgentKind(sc.AgentKind),
		AlgorithmMode: catan.AlgorithmMode(sc.AlgorithmMode),
		Algorithm:     catan.Algorithm(sc.Algorithm),
		Params: catan.AlgorithmParams{
			Depth:        sc.Depth,
			Iterations:   sc.Iterations,
			RolloutDepth: sc.RolloutDepth,
		},
		Provider: catan.ProviderConfig{
			Provider:    sc.Provider,
			Model:       sc.Model,
			APIEndpoint: sc.APIEndpoint,
			APIKey:      apiKey,
		},
	}
}
