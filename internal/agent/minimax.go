package agent

import "github.com/hexforge/catan/pkg/catan"

// MinimaxPolicy is depth-limited alpha-beta search (spec.md §4.5b) over the
// candidate actions from the Legal Action Generator (C3), stepping a clone
// via the Approximate Forward Model (C4) and scoring leaves with
// evaluateState. The root player maximizes; every other seat minimizes, a
// single-agent approximation of the true multi-player game.
type MinimaxPolicy struct {
	Depth int
}

func (MinimaxPolicy) Name() string { return "minimax" }

func (m *MinimaxPolicy) ChooseAction(s *catan.GameSession, playerID int) catan.Action {
	candidates := candidateActions(s, playerID)
	if len(candidates) == 0 {
		return catan.Action{Type: catan.ActionEndTurn, PlayerID: playerID}
	}

	depth := m.Depth
	if depth <= 0 {
		depth = 2
	}

	bestIdx := 0
	bestScore := negInf
	alpha, beta := negInf, posInf
	for i, a := range candidates {
		clone := s.Clone()
		clone.ApplyApprox(a)
		score := minimaxValue(clone, playerID, depth-1, alpha, beta, false)
		if score > bestScore {
			bestScore, bestIdx = score, i
		}
		if score > alpha {
			alpha = score
		}
	}
	return candidates[bestIdx]
}

const (
	negInf = -1e18
	posInf = 1e18
)

func minimaxValue(s *catan.GameSession, rootPlayerID, depth int, alpha, beta float64, maximizing bool) float64 {
	if depth <= 0 || anyPlayerWon(s) {
		return evaluateState(s, rootPlayerID)
	}

	seat := s.ActivePlayer().ID
	candidates := candidateActions(s, seat)
	if len(candidates) == 0 {
		return evaluateState(s, rootPlayerID)
	}

	isRoot := seat == rootPlayerID
	if isRoot {
		best := negInf
		for _, a := range candidates {
			clone := s.Clone()
			clone.ApplyApprox(a)
			v := minimaxValue(clone, rootPlayerID, depth-1, alpha, beta, false)
			if v > best {
				best = v
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	worst := posInf
	for _, a := range candidates {
		clone := s.Clone()
		clone.ApplyApprox(a)
		v := minimaxValue(clone, rootPlayerID, depth-1, alpha, beta, true)
		if v < worst {
			worst = v
		}
		if worst < beta {
			beta = worst
		}
		if alpha >= beta {
			break
		}
	}
	return worst
}

func anyPlayerWon(s *catan.GameSession) bool {
	for _, p := range s.Players {
		if p.VP >= 10 {
			return true
		}
	}
	return false
}
