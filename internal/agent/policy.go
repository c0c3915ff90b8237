package agent

import "github.com/hexforge/catan/pkg/catan"

// Policy is the capability shared by every search agent: produce one action
// for a player given the current state. The heuristic, minimax, and MCTS
// policies implement it. LLM-backed seats do not: the driver asks their
// ProviderClient directly, and no composite (llm_plus_algo) policy exists.
type Policy interface {
	Name() string
	ChooseAction(s *catan.GameSession, playerID int) catan.Action
}

// PolicyForAlgorithm returns the search policy named by alg, defaulting to
// the heuristic cascade for an unrecognized or "none" value.
func PolicyForAlgorithm(alg catan.Algorithm, params catan.AlgorithmParams) Policy {
	switch alg {
	case catan.AlgorithmMinimax:
		depth := params.Depth
		if depth <= 0 {
			depth = 2
		}
		return &MinimaxPolicy{Depth: depth}
	case catan.AlgorithmMCTS:
		iterations := params.Iterations
		if iterations <= 0 {
			iterations = 220
		}
		rolloutDepth := params.RolloutDepth
		if rolloutDepth <= 0 {
			rolloutDepth = 4
		}
		return &MCTSPolicy{Iterations: iterations, RolloutDepth: rolloutDepth}
	default:
		return &HeuristicPolicy{}
	}
}

// ApplyAction performs the given candidate through the authoritative Rules
// Engine (C2). Exported so the session service can dispatch manually
// submitted actions through the same path search agents and the driver use.
func ApplyAction(s *catan.GameSession, a catan.Action) *catan.Error {
	return applyForReal(s, a)
}

// applyForReal performs the given candidate through the authoritative
// Rules Engine (C2).
func applyForReal(s *catan.GameSession, a catan.Action) *catan.Error {
	switch a.Type {
	case catan.ActionRollDice:
		_, err := s.RollDice()
		return err
	case catan.ActionMoveRobber:
		return s.MoveRobber(a.HexID)
	case catan.ActionBuildRoad:
		return s.BuildRoad(a.EdgeID, a.PlayerID, a.Free)
	case catan.ActionBuildTown:
		return s.BuildTown(a.NodeID, a.PlayerID)
	case catan.ActionBuildCity:
		return s.BuildCity(a.NodeID, a.PlayerID)
	case catan.ActionHarborTrade:
		return s.HarborTrade(a.PlayerID, a.Give, a.Receive)
	case catan.ActionBuyDevCard:
		return s.BuyDevCard(a.PlayerID)
	case catan.ActionPlayKnight:
		return s.PlayKnight(a.PlayerID)
	case catan.ActionPlayRoadBuilding:
		return s.PlayRoadBuilding(a.PlayerID)
	case catan.ActionPlayYearOfPlenty:
		return s.PlayYearOfPlenty(a.PlayerID, a.Resource1, a.Resource2)
	case catan.ActionPlayMonopoly:
		return s.PlayMonopoly(a.PlayerID, a.Resource1)
	case catan.ActionEndTurn:
		return s.EndTurn()
	}
	return catan.InvalidRequest("unknown action type")
}

// candidateActions turns a player's LegalActions into the flat Action list
// search agents and the driver's fallback both operate on.
func candidateActions(s *catan.GameSession, playerID int) []catan.Action {
	la := s.LegalActionsFor(playerID)
	var out []catan.Action

	if la.RollDice {
		out = append(out, catan.Action{Type: catan.ActionRollDice, PlayerID: playerID})
	}
	for _, hexID := range la.MoveRobber {
		out = append(out, catan.Action{Type: catan.ActionMoveRobber, PlayerID: playerID, HexID: hexID})
	}
	for _, nodeID := range la.BuildCity {
		out = append(out, catan.Action{Type: catan.ActionBuildCity, PlayerID: playerID, NodeID: nodeID})
	}
	for _, nodeID := range la.BuildTown {
		out = append(out, catan.Action{Type: catan.ActionBuildTown, PlayerID: playerID, NodeID: nodeID})
	}
	for _, opt := range la.BuildRoad {
		out = append(out, catan.Action{Type: catan.ActionBuildRoad, PlayerID: playerID, EdgeID: opt.EdgeID, Free: opt.Free})
	}
	if la.BuyDevCard {
		out = append(out, catan.Action{Type: catan.ActionBuyDevCard, PlayerID: playerID})
	}
	for _, opt := range la.HarborTrade {
		out = append(out, catan.Action{Type: catan.ActionHarborTrade, PlayerID: playerID, Give: opt.Give, Receive: opt.Receive})
	}
	if la.EndTurn {
		out = append(out, catan.Action{Type: catan.ActionEndTurn, PlayerID: playerID})
	}
	return out
}
