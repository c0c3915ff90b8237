package agent

import (
	"math"
	"math/rand"

	"github.com/hexforge/catan/pkg/catan"
)

// MCTSPolicy is the standard four-phase Monte-Carlo Tree Search loop of
// spec.md §4.5c: UCB1 selection (c ≈ 1.35), expansion, a heuristic-policy
// rollout capped at RolloutDepth actions (or until endTurn), and
// backpropagation of evaluateState. The move chosen is the root child with
// the highest visit count (robust child); a root with zero candidates
// falls back to the heuristic policy.
type MCTSPolicy struct {
	Iterations   int
	RolloutDepth int
}

const explorationConstant = 1.35

func (MCTSPolicy) Name() string { return "mcts" }

type mctsNode struct {
	parent    *mctsNode
	action    catan.Action
	state     *catan.GameSession
	children  []*mctsNode
	untried   []catan.Action
	visits    int
	valueSum  float64
}

func (m *MCTSPolicy) ChooseAction(s *catan.GameSession, playerID int) catan.Action {
	iterations := m.Iterations
	if iterations <= 0 {
		iterations = 220
	}
	rolloutDepth := m.RolloutDepth
	if rolloutDepth <= 0 {
		rolloutDepth = 4
	}

	root := &mctsNode{state: s.Clone()}
	root.untried = candidateActions(root.state, playerID)
	if len(root.untried) == 0 {
		return (&HeuristicPolicy{}).ChooseAction(s, playerID)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < iterations; i++ {
		leaf := selectAndExpand(root, rng)
		value := rollout(leaf.state, playerID, rolloutDepth)
		backpropagate(leaf, value)
	}

	if len(root.children) == 0 {
		return (&HeuristicPolicy{}).ChooseAction(s, playerID)
	}
	best := root.children[0]
	for _, c := range root.children[1:] {
		if c.visits > best.visits {
			best = c
		}
	}
	return best.action
}

func selectAndExpand(node *mctsNode, rng *rand.Rand) *mctsNode {
	for len(node.untried) == 0 && len(node.children) > 0 {
		node = bestUCB1Child(node)
	}
	if len(node.untried) == 0 {
		return node
	}

	idx := rng.Intn(len(node.untried))
	action := node.untried[idx]
	node.untried = append(node.untried[:idx], node.untried[idx+1:]...)

	childState := node.state.Clone()
	childState.ApplyApprox(action)
	child := &mctsNode{parent: node, action: action, state: childState}
	child.untried = candidateActions(childState, childState.ActivePlayer().ID)
	node.children = append(node.children, child)
	return child
}

func bestUCB1Child(node *mctsNode) *mctsNode {
	best, bestScore := node.children[0], math.Inf(-1)
	logParent := math.Log(float64(node.visits) + 1)
	for _, c := range node.children {
		if c.visits == 0 {
			return c
		}
		exploit := c.valueSum / float64(c.visits)
		explore := explorationConstant * math.Sqrt(logParent/float64(c.visits))
		score := exploit + explore
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// rollout runs the heuristic policy on the clone for up to rolloutDepth
// actions or until an endTurn, returning evaluateState at the stopping
// point.
func rollout(s *catan.GameSession, rootPlayerID, rolloutDepth int) float64 {
	clone := s.Clone()
	h := &HeuristicPolicy{}
	for i := 0; i < rolloutDepth; i++ {
		if anyPlayerWon(clone) {
			break
		}
		seat := clone.ActivePlayer().ID
		a := h.ChooseAction(clone, seat)
		clone.ApplyApprox(a)
		if a.Type == catan.ActionEndTurn {
			break
		}
	}
	return evaluateState(clone, rootPlayerID)
}

func backpropagate(node *mctsNode, value float64) {
	for n := node; n != nil; n = n.parent {
		n.visits++
		n.valueSum += value
	}
}
