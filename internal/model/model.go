// Package model holds the JSON-facing projections exposed by the HTTP
// layer (C8): request payloads and the derived, UI-ready game-state view
// described in spec.md §4.8.
package model

import "github.com/hexforge/catan/pkg/catan"

// SeatRequest is one entry of playerConfigs in POST /games.
type SeatRequest struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	AgentKind     string `json:"agentKind"`
	Provider      string `json:"provider,omitempty"`
	Model         string `json:"model,omitempty"`
	APIEndpoint   string `json:"apiEndpoint,omitempty"`
	APIKey        string `json:"apiKey,omitempty"`
	AlgorithmMode string `json:"algorithmMode,omitempty"`
	Algorithm     string `json:"algorithm,omitempty"`
	Iterations    int    `json:"iterations,omitempty"`
	Depth         int    `json:"depth,omitempty"`
	RolloutDepth  int    `json:"rolloutDepth,omitempty"`
}

// CreateGameRequest is the body of POST /games.
type CreateGameRequest struct {
	NumPlayers    int           `json:"numPlayers"`
	PlayerConfigs []SeatRequest `json:"playerConfigs"`
}

// ActionRequest is the body of POST /games/:id/actions.
type ActionRequest struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// AgentTurnRequest is the body of POST /games/:id/agent-turn.
type AgentTurnRequest struct {
	Model       string `json:"model,omitempty"`
	Provider    string `json:"provider,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	APIEndpoint string `json:"apiEndpoint,omitempty"`
	Notes       string `json:"notes,omitempty"`
	AutoApply   bool   `json:"autoApply,omitempty"`
}

// VerifyRequest is the body of POST /providers/verify.
type VerifyRequest struct {
	Provider    string `json:"provider"`
	APIKey      string `json:"apiKey,omitempty"`
	APIEndpoint string `json:"apiEndpoint,omitempty"`
}

// VerifyResponse is the body returned from POST /providers/verify.
type VerifyResponse struct {
	OK      bool   `json:"ok"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ActionResponse is the body of POST /games/:id/actions: the applied
// action, the event it produced, and the resulting state, per spec.md §6.
type ActionResponse struct {
	Action catan.Action    `json:"action"`
	Event  catan.EventType `json:"event,omitempty"`
	State  *StateView      `json:"state"`
}

// AppliedActionView is one entry of AgentTurnResponse.Actions.
type AppliedActionView struct {
	Action catan.Action    `json:"action"`
	Event  catan.EventType `json:"event,omitempty"`
}

// AgentTurnResponse is the body of POST /games/:id/agent-turn: every
// action the driver applied (partial success on failure) plus the
// resulting state, per spec.md §6/§7.
type AgentTurnResponse struct {
	Actions []AppliedActionView `json:"actions"`
	State   *StateView          `json:"state"`
	Error   string              `json:"error,omitempty"`
}

// PlayerView is the derived, UI-ready projection of a player: the raw
// resources/dev-card hand plus computed counts that the engine does not
// store directly (towns, cities, roads, devCardCount), per spec.md §4.8.
type PlayerView struct {
	ID                    int                     `json:"id"`
	Name                  string                  `json:"name"`
	Color                 string                  `json:"color"`
	AgentKind             catan.AgentKind         `json:"agentKind"`
	Resources             map[catan.Resource]int  `json:"resources"`
	DevCards              []catan.DevCard         `json:"devCards"`
	DevCardCount          int                     `json:"devCardCount"`
	Towns                 int                     `json:"towns"`
	Cities                int                     `json:"cities"`
	Roads                 int                     `json:"roads"`
	KnightsPlayed         int                     `json:"knightsPlayed"`
	Trades                int                     `json:"trades"`
	LongestRoad           bool                    `json:"longestRoad"`
	LargestArmy           bool                    `json:"largestArmy"`
	HasRolled             bool                    `json:"hasRolled"`
	RobberMovedThisTurn   bool                    `json:"robberMovedThisTurn"`
	BoughtDevCardThisTurn bool                    `json:"boughtDevCardThisTurn"`
	VictoryPoints         int                     `json:"victoryPoints"`
}

// StateView is the full projection returned by GET /games/:id and echoed
// by every mutating endpoint: the board as-is, players with derived
// counts, and turn/event metadata.
type StateView struct {
	ID             string               `json:"id"`
	Board          *catan.Board         `json:"board"`
	Players        []PlayerView         `json:"players"`
	Current        int                  `json:"current"`
	Turn           int                  `json:"turn"`
	LastRoll       int                  `json:"lastRoll"`
	LastProduction catan.ProductionSummary `json:"lastProduction,omitempty"`
	DeckSize       int                  `json:"deckSize"`
	Winner         int                  `json:"winner,omitempty"`
	Events         []catan.SessionEvent `json:"events"`
}

// NewStateView builds the UI-ready projection of a session.
func NewStateView(s *catan.GameSession) *StateView {
	view := &StateView{
		ID:             s.ID,
		Board:          s.Board,
		Current:        s.Current,
		Turn:           s.Turn,
		LastRoll:       s.LastRoll,
		LastProduction: s.LastProduction,
		DeckSize:       len(s.DevCardDeck),
		Winner:         -1,
		Events:         s.EventLog,
	}
	if w := s.Winner(); w != nil {
		view.Winner = w.ID
	}
	for _, p := range s.Players {
		view.Players = append(view.Players, newPlayerView(s, p))
	}
	return view
}

func newPlayerView(s *catan.GameSession, p *catan.Player) PlayerView {
	towns, cities, roads := 0, 0, 0
	for _, n := range s.Board.Nodes {
		if n.Building != nil && n.Building.OwnerID == p.ID {
			if n.Building.Type == catan.City {
				cities++
			} else {
				towns++
			}
		}
	}
	for _, e := range s.Board.Edges {
		if e.OwnerID == p.ID {
			roads++
		}
	}
	return PlayerView{
		ID:                    p.ID,
		Name:                  p.Name,
		Color:                 p.Color,
		AgentKind:             p.AgentKind,
		Resources:             p.Resources,
		DevCards:              p.DevCards,
		DevCardCount:          len(p.DevCards),
		Towns:                 towns,
		Cities:                cities,
		Roads:                 roads,
		KnightsPlayed:         p.KnightsPlayed,
		Trades:                p.Trades,
		LongestRoad:           p.LongestRoad,
		LargestArmy:           p.LargestArmy,
		HasRolled:             p.HasRolled,
		RobberMovedThisTurn:   p.RobberMovedThisTurn,
		BoughtDevCardThisTurn: p.BoughtDevCardThisTurn,
		VictoryPoints:         p.VP,
	}
}
