package catan

import (
	"math/rand"
	"testing"
)

func newTestSession(t *testing.T) *GameSession {
	t.Helper()
	seats := []SeatConfig{
		{Name: "Alice", Color: "red", AgentKind: AgentHuman},
		{Name: "Bob", Color: "blue", AgentKind: AgentHuman},
	}
	s, err := NewSession("test-game", seats, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionRequiresTwoToFourSeats(t *testing.T) {
	_, err := NewSession("g", []SeatConfig{{Name: "solo", AgentKind: AgentHuman}}, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected error for single-seat game")
	}
	if err.Kind != KindInvalidRequest {
		t.Errorf("expected InvalidRequest, got %s", err.Kind)
	}
}

func TestInitialPlacementGivesTwoTownsPerPlayer(t *testing.T) {
	s := newTestSession(t)
	for _, p := range s.Players {
		towns, cities := s.countBuildings(p.ID)
		if towns != 2 || cities != 0 {
			t.Errorf("player %d: expected 2 towns 0 cities, got %d/%d", p.ID, towns, cities)
		}
	}
}

func TestInitialPlacementRespectsDistanceRule(t *testing.T) {
	s := newTestSession(t)
	for _, n := range s.Board.Nodes {
		if n.Building == nil {
			continue
		}
		for _, nb := range s.Board.NeighborNodes(n.ID) {
			if s.Board.NodeAt(nb).Building != nil {
				t.Errorf("nodes %d and %d both have buildings and are adjacent", n.ID, nb)
			}
		}
	}
}

func TestRollDiceRejectsSecondRollSameTurn(t *testing.T) {
	s := newTestSession(t)
	if _, errv := s.RollDice(); errv != nil {
		t.Fatalf("first roll should succeed: %v", errv)
	}
	if _, errv := s.RollDice(); errv == nil {
		t.Fatal("expected second rollDice this turn to fail")
	} else if errv.Kind != KindIllegalAction {
		t.Errorf("expected IllegalAction, got %s", errv.Kind)
	}
}

func TestBuildTownRequiresHasRolled(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	var freeNode int = -1
	for _, n := range s.Board.Nodes {
		if n.Building == nil {
			freeNode = n.ID
			break
		}
	}
	if freeNode < 0 {
		t.Fatal("no free node to test against")
	}
	if errv := s.BuildTown(freeNode, p.ID); errv == nil || errv.Kind != KindIllegalAction {
		t.Fatalf("expected IllegalAction before rolling, got %v", errv)
	}
}

func TestBuildRoadRejectsUnaffordable(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[Wood] = 0
	p.Resources[Brick] = 0
	s.RollDice()

	var ownEdge int = -1
	for _, n := range s.Board.Nodes {
		if n.Building != nil && n.Building.OwnerID == p.ID {
			for _, eid := range s.Board.EdgesOf(n.ID) {
				if s.Board.Edges[eid].OwnerID < 0 {
					ownEdge = eid
					break
				}
			}
		}
		if ownEdge >= 0 {
			break
		}
	}
	if ownEdge < 0 {
		t.Fatal("no free edge adjacent to a starting building")
	}
	if errv := s.BuildRoad(ownEdge, p.ID, false); errv == nil {
		t.Fatal("expected unaffordable road build to fail")
	}
}

func TestBuildRoadSucceedsAndRejectsDoubleOwnership(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[Wood] = 5
	p.Resources[Brick] = 5
	s.RollDice()

	var ownEdge int = -1
	for _, n := range s.Board.Nodes {
		if n.Building != nil && n.Building.OwnerID == p.ID {
			for _, eid := range s.Board.EdgesOf(n.ID) {
				if s.Board.Edges[eid].OwnerID < 0 {
					ownEdge = eid
					break
				}
			}
		}
		if ownEdge >= 0 {
			break
		}
	}
	if ownEdge < 0 {
		t.Fatal("no free edge adjacent to a starting building")
	}
	if errv := s.BuildRoad(ownEdge, p.ID, false); errv != nil {
		t.Fatalf("expected road build to succeed: %v", errv)
	}
	if s.Board.Edges[ownEdge].OwnerID != p.ID {
		t.Error("edge owner not set after build")
	}
	if errv := s.BuildRoad(ownEdge, p.ID, false); errv == nil {
		t.Fatal("expected second build on same edge to fail")
	}
}

func TestMoveRobberRequiredAfterSevenBlocksOtherActions(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.HasRolled = true
	s.LastRoll = 7
	p.RobberMoveOwed = true

	if errv := s.BuildRoad(0, p.ID, false); errv == nil || errv.Kind != KindIllegalAction {
		t.Fatalf("expected build to be blocked pending robber move, got %v", errv)
	}
	if errv := s.EndTurn(); errv == nil {
		t.Fatal("expected endTurn to be blocked pending robber move")
	}

	target := s.Board.RobberTile
	for _, tile := range s.Board.Tiles {
		if tile.ID != s.Board.RobberTile {
			target = tile.ID
			break
		}
	}
	if errv := s.MoveRobber(target); errv != nil {
		t.Fatalf("expected moveRobber to succeed: %v", errv)
	}
	if errv := s.MoveRobber(target); errv == nil {
		t.Fatal("expected second moveRobber this turn to fail")
	}
}

func TestEndTurnAdvancesAndResetsFlags(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	s.RollDice()
	p.BoughtDevCardThisTurn = true

	startTurn := s.Turn
	if errv := s.EndTurn(); errv != nil {
		t.Fatalf("EndTurn: %v", errv)
	}
	if s.Turn != startTurn+1 {
		t.Errorf("expected turn counter to advance, got %d", s.Turn)
	}
	if s.Current != 1 {
		t.Errorf("expected current seat to advance to 1, got %d", s.Current)
	}
	if p.HasRolled || p.BoughtDevCardThisTurn {
		t.Error("expected per-turn flags to clear on endTurn")
	}
}

func TestHarborTradeDefaultsToFourToOne(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[Wood] = 4
	s.RollDice()

	if errv := s.HarborTrade(p.ID, Wood, Ore); errv != nil {
		t.Fatalf("HarborTrade: %v", errv)
	}
	if p.Resources[Wood] != 0 {
		t.Errorf("expected 4 wood spent at default ratio, got %d remaining", p.Resources[Wood])
	}
	if p.Resources[Ore] != 1 {
		t.Errorf("expected 1 ore gained, got %d", p.Resources[Ore])
	}
}

func TestPlayMonopolySweepsResource(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	other := s.Players[1]
	other.Resources[Sheep] = 3
	p.DevCards = append(p.DevCards, DevCard{Type: Monopoly, CanPlay: true})

	if errv := s.PlayMonopoly(p.ID, Sheep); errv != nil {
		t.Fatalf("PlayMonopoly: %v", errv)
	}
	if p.Resources[Sheep] != 3 {
		t.Errorf("expected monopolist to gain 3 sheep, got %d", p.Resources[Sheep])
	}
	if other.Resources[Sheep] != 0 {
		t.Errorf("expected victim to lose all sheep, got %d", other.Resources[Sheep])
	}
}

func TestVPNeverStoredIndependently(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.LongestRoad = true
	s.recomputeVP()
	towns, cities := s.countBuildings(p.ID)
	want := towns + 2*cities + 2
	if p.VP != want {
		t.Errorf("VP = %d, want %d", p.VP, want)
	}
}
