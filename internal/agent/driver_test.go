package agent

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/hexforge/catan/pkg/catan"
)

func newTestSession(t *testing.T) *catan.GameSession {
	t.Helper()
	s, err := catan.NewSession("driver-test", []catan.SeatConfig{
		{Name: "A", AgentKind: catan.AgentAlgorithm, Algorithm: catan.AlgorithmHeuristic},
		{Name: "B", AgentKind: catan.AgentHuman},
	}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestRunAgentTurnAlgorithmAdvancesSeat(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	// Enough for one town and one road, so the heuristic's productive moves
	// fit inside MaxActionsPerTurn and it reaches endTurn.
	p.Resources[catan.Wood] = 2
	p.Resources[catan.Brick] = 2
	p.Resources[catan.Wheat] = 1
	p.Resources[catan.Sheep] = 1
	p.Resources[catan.Ore] = 0

	result := RunAgentTurn(context.Background(), s, p.ID, DriverDeps{})
	if result.Err != nil {
		t.Fatalf("RunAgentTurn: %v", result.Err)
	}
	if len(result.Actions) == 0 {
		t.Fatal("expected at least one applied action")
	}
	if result.Actions[0].Action.Type != catan.ActionRollDice {
		t.Errorf("expected first action to be rollDice, got %s", result.Actions[0].Action.Type)
	}
	last := result.Actions[len(result.Actions)-1]
	if last.Action.Type != catan.ActionEndTurn {
		t.Errorf("expected turn to end with endTurn, got %s", last.Action.Type)
	}
	if s.Current != 1 {
		t.Errorf("expected current seat to advance to 1, got %d", s.Current)
	}
}

type stubProvider struct {
	responses []*Proposal
	calls     int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) VerifyCredentials(ctx context.Context, apiKey, endpoint string) (VerifyResult, *catan.Error) {
	return VerifyResult{OK: true, Status: 200}, nil
}

func (s *stubProvider) RequestAction(ctx context.Context, req ProviderRequest, snapshot *catan.Snapshot) (*Proposal, *catan.Error) {
	if s.calls >= len(s.responses) {
		return nil, catan.ProviderError("no more stubbed responses", nil)
	}
	p := s.responses[s.calls]
	s.calls++
	return p, nil
}

func TestRunAgentTurnSanitizesBadNodeIDViaRankedFallback(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.AgentKind = catan.AgentLLM
	p.Resources[catan.Wood] = 10
	p.Resources[catan.Brick] = 10
	p.Resources[catan.Wheat] = 10
	p.Resources[catan.Sheep] = 10

	s.RollDice()
	// A roll of 7 owes a robber move, during which no town is legal; settle
	// it so the fallback has town candidates to rank.
	if p.RobberMoveOwed {
		if errv := s.MoveRobber((s.Board.RobberTile + 1) % len(s.Board.Tiles)); errv != nil {
			t.Fatalf("MoveRobber: %v", errv)
		}
	}

	payload := map[string]any{}
	raw, _ := json.Marshal(map[string]any{"nodeId": 9999})
	_ = json.Unmarshal(raw, &payload)

	stub := &stubProvider{responses: []*Proposal{
		{Action: "buildTown", Payload: payload, Reason: "looks good"},
	}}

	result := RunAgentTurn(context.Background(), s, p.ID, DriverDeps{Provider: stub, SystemPrompt: "sys", UserPrompt: "go"})
	if result.Err != nil {
		t.Fatalf("RunAgentTurn: %v", result.Err)
	}
	if len(result.Actions) == 0 {
		t.Fatal("expected an applied action from the ranked fallback")
	}
	applied := result.Actions[0].Action
	if applied.Type != catan.ActionBuildTown {
		t.Fatalf("expected the fallback to still build a town, got %s", applied.Type)
	}

	found := false
	for _, n := range s.Board.Nodes {
		if n.ID == applied.NodeID && n.Building != nil && n.Building.OwnerID == p.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected applied nodeId to be a legal town-build candidate, not the proposed 9999")
	}
}

func TestRunAgentTurnRejectsHumanSeat(t *testing.T) {
	s := newTestSession(t)
	human := s.Players[1]
	result := RunAgentTurn(context.Background(), s, human.ID, DriverDeps{})
	if result.Err == nil {
		t.Fatal("expected error when running an agent turn for a human seat")
	}
}
