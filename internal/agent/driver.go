package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/hexforge/catan/pkg/catan"
)

const (
	// MaxActionsPerTurn bounds the agent driver's loop (spec.md §4.7).
	MaxActionsPerTurn = 8
	// MaxLLMAttempts bounds provider retries per proposal (spec.md §4.7).
	MaxLLMAttempts = 3
)

// AppliedAction records one action the driver actually committed through
// the Rules Engine, for the partial-success response described in
// spec.md §7.
type AppliedAction struct {
	Action catan.Action
	Event  catan.EventType
}

// TurnResult is the Agent Driver's public contract output:
// {actionsApplied[], finalState}, plus any error that escaped retries.
type TurnResult struct {
	Actions []AppliedAction
	Err     *catan.Error
}

// DriverDeps supplies the collaborators runAgentTurn needs beyond the
// session itself: the provider client for llm seats (nil for algorithm
// seats) and prompt text for building requests.
type DriverDeps struct {
	Provider     ProviderClient
	SystemPrompt string
	UserPrompt   string
}

// RunAgentTurn runs one full turn for a non-human seat: proposal →
// sanitize → strategic override → legality fallback → apply → loop until
// the turn ends or the action budget is exhausted, per spec.md §4.7. The
// driver never mutates session state directly; every mutation goes through
// the Rules Engine (C2), which guarantees invariants.
func RunAgentTurn(ctx context.Context, s *catan.GameSession, seat int, deps DriverDeps) TurnResult {
	player := s.PlayerByID(seat)
	if player == nil {
		return TurnResult{Err: catan.InvalidRequest("unknown seat")}
	}
	if player.AgentKind == catan.AgentHuman {
		return TurnResult{Err: catan.InvalidRequest("seat is human-controlled")}
	}

	var result TurnResult
	var lastProviderNote string

	for i := 0; i < MaxActionsPerTurn; i++ {
		if s.Winner() != nil || s.ActivePlayer().ID != seat {
			return result
		}

		proposal, err := obtainProposal(ctx, s, seat, player, deps, lastProviderNote)
		if err != nil {
			if catan.IsKind(err, catan.KindProviderError) {
				lastProviderNote = err.Error()
			}
			proposal = catan.Action{Type: catan.ActionEndTurn, PlayerID: seat}
		}

		proposal = strategicOverride(s, seat, proposal)

		applied, applyErr := safeApply(s, seat, proposal)
		if applyErr != nil {
			result.Err = applyErr
			return result
		}

		result.Actions = append(result.Actions, AppliedAction{Action: applied, Event: lastEventType(s)})

		if applied.Type == catan.ActionEndTurn || s.ActivePlayer().ID != seat {
			return result
		}
	}
	return result
}

func lastEventType(s *catan.GameSession) catan.EventType {
	if len(s.EventLog) == 0 {
		return ""
	}
	return s.EventLog[len(s.EventLog)-1].Type
}

// obtainProposal gets a raw proposal per spec.md §4.7 step 2: the
// configured search policy for algorithm seats, or the provider client
// (with retries) for llm seats. On total failure it returns the last
// provider error, and RunAgentTurn substitutes endTurn.
func obtainProposal(ctx context.Context, s *catan.GameSession, seat int, player *catan.Player, deps DriverDeps, lastNote string) (catan.Action, *catan.Error) {
	if player.AgentKind == catan.AgentAlgorithm || deps.Provider == nil {
		policy := PolicyForAlgorithm(player.Algorithm, player.Params)
		return policy.ChooseAction(s, seat), nil
	}

	snapshot := s.Snapshot()
	userPrompt := deps.UserPrompt
	var lastErr *catan.Error
	for attempt := 0; attempt < MaxLLMAttempts; attempt++ {
		prompt := userPrompt
		if lastNote != "" {
			prompt = fmt.Sprintf("%s\n\nPrevious attempt failed: %s", userPrompt, lastNote)
		}
		proposal, err := deps.Provider.RequestAction(ctx, ProviderRequest{
			SystemPrompt: deps.SystemPrompt,
			UserPrompt:   prompt,
			Model:        player.Provider.Model,
			APIKey:       player.Provider.APIKey,
			APIEndpoint:  player.Provider.APIEndpoint,
		}, snapshot)
		if err == nil {
			return sanitizeProposal(seat, proposal), nil
		}
		lastErr = err
		lastNote = err.Error()
	}
	return catan.Action{}, lastErr
}

// sanitizeProposal maps the provider's loosely-typed Proposal onto the
// fixed Action vocabulary, dropping unknown fields, per spec.md §4.7
// step 3.
func sanitizeProposal(seat int, p *Proposal) catan.Action {
	return DecodeAction(p.Action, p.Payload, seat)
}

// DecodeAction maps a loosely-typed action name and JSON payload onto the
// fixed Action vocabulary, dropping unknown fields and normalizing
// resource-name synonyms. Shared by the provider-proposal path (above) and
// the HTTP action endpoint, which accepts the same {action, payload} shape
// from a human client per spec.md §6.
func DecodeAction(actionType string, payload map[string]any, seat int) catan.Action {
	a := catan.Action{Type: catan.ActionType(actionType), PlayerID: seat}
	if payload == nil {
		return a
	}
	if v, ok := payload["nodeId"].(float64); ok {
		a.NodeID = int(v)
	}
	if v, ok := payload["edgeId"].(float64); ok {
		a.EdgeID = int(v)
	}
	if v, ok := payload["hexId"].(float64); ok {
		a.HexID = int(v)
	}
	if v, ok := payload["free"].(bool); ok {
		a.Free = v
	}
	if v, ok := payload["giveResource"].(string); ok {
		if r, ok := catan.NormalizeResource(v); ok {
			a.Give = r
		}
	}
	if v, ok := payload["receiveResource"].(string); ok {
		if r, ok := catan.NormalizeResource(v); ok {
			a.Receive = r
		}
	}
	if v, ok := payload["resource"].(string); ok {
		if r, ok := catan.NormalizeResource(v); ok {
			a.Resource1 = r
		}
	}
	if v, ok := payload["resource1"].(string); ok {
		if r, ok := catan.NormalizeResource(v); ok {
			a.Resource1 = r
		}
	}
	if v, ok := payload["resource2"].(string); ok {
		if r, ok := catan.NormalizeResource(v); ok {
			a.Resource2 = r
		}
	}
	return a
}

// strategicOverride replaces a stalling proposal (endTurn, or rollDice
// while already rolled) with the heuristic policy's pick whenever that
// pick is not itself a pass, per spec.md §4.7 step 4.
func strategicOverride(s *catan.GameSession, seat int, proposal catan.Action) catan.Action {
	p := s.PlayerByID(seat)
	stalling := proposal.Type == catan.ActionEndTurn || (proposal.Type == catan.ActionRollDice && p.HasRolled)
	if !stalling {
		return proposal
	}
	alt := (&HeuristicPolicy{}).ChooseAction(s, seat)
	if alt.Type == catan.ActionEndTurn {
		return proposal
	}
	return alt
}

// safeApply tries to apply the proposal via the Rules Engine. On failure
// for a positional action it retries the ranked C3 candidate list in
// decreasing score order; any other action, or a positional action with no
// candidate that applies, falls back once to endTurn, per spec.md §4.7
// step 5.
func safeApply(s *catan.GameSession, seat int, proposal catan.Action) (catan.Action, *catan.Error) {
	if err := applyForReal(s, proposal); err == nil {
		return proposal, nil
	}

	switch proposal.Type {
	case catan.ActionBuildTown, catan.ActionBuildCity, catan.ActionBuildRoad, catan.ActionMoveRobber:
		for _, candidate := range rankedCandidates(s, seat, proposal.Type) {
			if err := applyForReal(s, candidate); err == nil {
				return candidate, nil
			}
		}
	}

	fallback := catan.Action{Type: catan.ActionEndTurn, PlayerID: seat}
	if err := applyForReal(s, fallback); err != nil {
		return catan.Action{}, err
	}
	return fallback, nil
}

// rankedCandidates returns every legal candidate of the given type for
// seat, ordered by descending heuristic score (node/edge production
// score, or robber-move desirability).
func rankedCandidates(s *catan.GameSession, seat int, actionType catan.ActionType) []catan.Action {
	la := s.LegalActionsFor(seat)
	var out []catan.Action

	switch actionType {
	case catan.ActionBuildTown:
		ids := append([]int(nil), la.BuildTown...)
		sort.Slice(ids, func(i, j int) bool {
			return nodeProductionScore(s.Board, ids[i], ModeTown) > nodeProductionScore(s.Board, ids[j], ModeTown)
		})
		for _, id := range ids {
			out = append(out, catan.Action{Type: catan.ActionBuildTown, PlayerID: seat, NodeID: id})
		}
	case catan.ActionBuildCity:
		ids := append([]int(nil), la.BuildCity...)
		sort.Slice(ids, func(i, j int) bool {
			return nodeProductionScore(s.Board, ids[i], ModeCity) > nodeProductionScore(s.Board, ids[j], ModeCity)
		})
		for _, id := range ids {
			out = append(out, catan.Action{Type: catan.ActionBuildCity, PlayerID: seat, NodeID: id})
		}
	case catan.ActionBuildRoad:
		opts := append([]catan.RoadOption(nil), la.BuildRoad...)
		sort.Slice(opts, func(i, j int) bool {
			return edgeExpansionScore(s.Board, opts[i].EdgeID) > edgeExpansionScore(s.Board, opts[j].EdgeID)
		})
		for _, opt := range opts {
			out = append(out, catan.Action{Type: catan.ActionBuildRoad, PlayerID: seat, EdgeID: opt.EdgeID, Free: opt.Free})
		}
	case catan.ActionMoveRobber:
		ids := append([]int(nil), la.MoveRobber...)
		sort.Slice(ids, func(i, j int) bool {
			return robberDesirability(s, seat, ids[i]) > robberDesirability(s, seat, ids[j])
		})
		for _, id := range ids {
			out = append(out, catan.Action{Type: catan.ActionMoveRobber, PlayerID: seat, HexID: id})
		}
	}
	return out
}

func robberDesirability(s *catan.GameSession, seat, hexID int) float64 {
	return bestRobberHexScore(s, seat, hexID)
}

func bestRobberHexScore(s *catan.GameSession, seat, hexID int) float64 {
	tile := s.Board.TileAt(hexID)
	if tile == nil || tile.Number == 0 {
		return -0.15
	}
	oppWeight, selfWeight := 0.0, 0.0
	for _, n := range s.Board.Nodes {
		if n.Building == nil || !tileAdjacent(n.AdjTiles, hexID) {
			continue
		}
		w := 1.0
		if n.Building.Type == catan.City {
			w = 2.0
		}
		if n.Building.OwnerID == seat {
			selfWeight += w
		} else {
			oppWeight += w
		}
	}
	return rollProbability(tile.Number) * (oppWeight - 0.65*selfWeight)
}
