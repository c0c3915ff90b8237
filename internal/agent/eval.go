// Package agent implements the search policies (C5) and the agent driver
// (C7) that advance a non-human seat's turn: heuristic, depth-limited
// alpha-beta minimax, and MCTS/UCB1, sharing one evaluation vocabulary.
package agent

import (
	"math"

	"github.com/hexforge/catan/pkg/catan"
)

// rollProbability is the hard-coded 2d6 distribution: P(n) = (6-|7-n|)/36,
// with P(7) = 0 because rolls of 7 do not produce.
func rollProbability(n int) float64 {
	if n < 2 || n > 12 || n == 7 {
		return 0
	}
	return float64(6-absInt(7-n)) / 36.0
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// BuildMode distinguishes scoring a node for a settlement versus a city
// upgrade; production weight differs since a city doubles its yield.
type BuildMode int

const (
	ModeTown BuildMode = iota
	ModeCity
)

// resourceWeight assigns a relative value per resource, tilted toward the
// inputs of the more expensive builds (ore/wheat for cities, wood/brick for
// the early game of roads and towns).
func resourceWeight(r catan.Resource, mode BuildMode) float64 {
	switch mode {
	case ModeCity:
		switch r {
		case catan.Ore:
			return 1.3
		case catan.Wheat:
			return 1.2
		case catan.Sheep:
			return 0.9
		case catan.Wood, catan.Brick:
			return 0.8
		}
	default:
		switch r {
		case catan.Wood, catan.Brick:
			return 1.2
		case catan.Wheat, catan.Sheep:
			return 1.0
		case catan.Ore:
			return 0.7
		}
	}
	return 0.5
}

// nodeProductionScore sums P(number)*weight(resource) over a node's
// adjacent non-desert tiles, penalizing a robber-occupied tile and adding
// a small bonus for resource diversity, per spec.md §4.5.
func nodeProductionScore(board *catan.Board, nodeID int, mode BuildMode) float64 {
	score := 0.0
	seen := make(map[catan.Resource]bool)
	for _, t := range board.AdjacentTiles(nodeID) {
		if t == nil || t.Resource == catan.Desert || t.Resource == catan.Water {
			continue
		}
		base := rollProbability(t.Number) * resourceWeight(t.Resource, mode)
		if t.HasRobber {
			base -= 0.15
		}
		score += base
		seen[t.Resource] = true
	}
	if len(seen) > 1 {
		score += 0.05 * float64(len(seen)-1)
	}
	return score
}

// edgeExpansionScore is the max of the two endpoint node scores plus 0.05
// per endpoint currently empty-and-buildable.
func edgeExpansionScore(board *catan.Board, edgeID int) float64 {
	e := board.EdgeAt(edgeID)
	if e == nil {
		return 0
	}
	a := nodeProductionScore(board, e.NodeA, ModeTown)
	b := nodeProductionScore(board, e.NodeB, ModeTown)
	score := math.Max(a, b)
	for _, nodeID := range []int{e.NodeA, e.NodeB} {
		n := board.NodeAt(nodeID)
		if n != nil && n.Building == nil && n.CanBuild {
			score += 0.05
		}
	}
	return score
}

// playerProduction estimates a player's expected production per roll from
// their current buildings.
func playerProduction(board *catan.Board, playerID int) float64 {
	total := 0.0
	for _, n := range board.Nodes {
		if n.Building == nil || n.Building.OwnerID != playerID {
			continue
		}
		mode := ModeTown
		if n.Building.Type == catan.City {
			mode = ModeCity
		}
		total += nodeProductionScore(board, n.ID, mode)
	}
	return total
}

func resourceHeuristic(p *catan.Player) float64 {
	return float64(p.ResourceTotal())
}

// evaluateState scores a state from rootPlayerId's perspective:
// 2.4*myVP + 1.2*myProduction + 0.6*myResourceHeuristic - 0.9*bestOpponentValue,
// where opponent value = 1.25*vp + 0.85*production, per spec.md §4.5.
func evaluateState(s *catan.GameSession, rootPlayerID int) float64 {
	root := s.PlayerByID(rootPlayerID)
	if root == nil {
		return 0
	}
	myVP := float64(root.VP)
	myProduction := playerProduction(s.Board, rootPlayerID)
	myResource := resourceHeuristic(root)

	best := math.Inf(-1)
	for _, p := range s.Players {
		if p.ID == rootPlayerID {
			continue
		}
		oppValue := 1.25*float64(p.VP) + 0.85*playerProduction(s.Board, p.ID)
		if oppValue > best {
			best = oppValue
		}
	}
	if math.IsInf(best, -1) {
		best = 0
	}

	return 2.4*myVP + 1.2*myProduction + 0.6*myResource - 0.9*best
}
