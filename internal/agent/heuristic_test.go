package agent

import (
	"math/rand"
	"testing"

	"github.com/hexforge/catan/pkg/catan"
)

func TestHeuristicPolicyRollsFirst(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	action := (&HeuristicPolicy{}).ChooseAction(s, p.ID)
	if action.Type != catan.ActionRollDice {
		t.Errorf("expected rollDice as the first move, got %s", action.Type)
	}
}

func TestHeuristicPolicyEndsTurnWhenNothingAffordable(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	for r := range p.Resources {
		p.Resources[r] = 0
	}
	s.RollDice()
	// A roll of 7 owes a robber move first; settle it so the policy sees
	// the main phase with nothing affordable.
	if p.RobberMoveOwed {
		if errv := s.MoveRobber((s.Board.RobberTile + 1) % len(s.Board.Tiles)); errv != nil {
			t.Fatalf("MoveRobber: %v", errv)
		}
	}
	action := (&HeuristicPolicy{}).ChooseAction(s, p.ID)
	if action.Type != catan.ActionEndTurn {
		t.Errorf("expected endTurn with no affordable actions, got %s", action.Type)
	}
}

func TestMinimaxPolicyChoosesALegalAction(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[catan.Wood] = 5
	p.Resources[catan.Brick] = 5
	s.RollDice()

	policy := &MinimaxPolicy{Depth: 2}
	action := policy.ChooseAction(s, p.ID)
	if errv := applyForReal(s, action); errv != nil {
		t.Fatalf("minimax proposed an illegal action: %v", errv)
	}
}

func TestMCTSPolicyChoosesALegalAction(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[catan.Wood] = 5
	p.Resources[catan.Brick] = 5
	s.RollDice()

	policy := &MCTSPolicy{Iterations: 30, RolloutDepth: 3}
	action := policy.ChooseAction(s, p.ID)
	if errv := applyForReal(s, action); errv != nil {
		t.Fatalf("mcts proposed an illegal action: %v", errv)
	}
}

func TestMCTSPolicyDeterministicGivenSeed(t *testing.T) {
	run := func() catan.ActionType {
		s, _ := catan.NewSession("mcts-seed", []catan.SeatConfig{
			{Name: "A", AgentKind: catan.AgentAlgorithm},
			{Name: "B", AgentKind: catan.AgentHuman},
		}, rand.New(rand.NewSource(99)))
		p := s.ActivePlayer()
		p.Resources[catan.Wood] = 5
		p.Resources[catan.Brick] = 5
		s.RollDice()
		policy := &MCTSPolicy{Iterations: 40, RolloutDepth: 3}
		return policy.ChooseAction(s, p.ID).Type
	}
	if run() != run() {
		t.Error("expected identical seeded MCTS runs to choose the same action type")
	}
}
