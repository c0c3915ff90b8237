package catan

import "testing"

func TestLegalActionsBeforeRollOnlyRollAndEnd(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	la := s.LegalActionsFor(p.ID)
	if !la.RollDice || !la.EndTurn {
		t.Fatal("expected rollDice and endTurn to be legal pre-roll")
	}
	if len(la.BuildTown) != 0 || len(la.BuildCity) != 0 || len(la.BuildRoad) != 0 || la.BuyDevCard {
		t.Fatal("expected no build/buy actions legal before rolling")
	}
}

func TestLegalActionsDuringMustMoveRobberOnlyListsRobber(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.HasRolled = true
	s.LastRoll = 7
	p.RobberMoveOwed = true

	la := s.LegalActionsFor(p.ID)
	if la.RollDice || la.EndTurn || la.BuyDevCard {
		t.Fatal("expected only moveRobber to be legal after a 7")
	}
	if len(la.MoveRobber) != len(s.Board.Tiles)-1 {
		t.Errorf("expected every tile but the robber's current one, got %d candidates", len(la.MoveRobber))
	}
}

func TestLegalActionsBuildTownRespectsDistanceRule(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[Wood] = 10
	p.Resources[Brick] = 10
	p.Resources[Wheat] = 10
	p.Resources[Sheep] = 10
	s.RollDice()

	la := s.LegalActionsFor(p.ID)
	for _, nodeID := range la.BuildTown {
		for _, nb := range s.Board.NeighborNodes(nodeID) {
			if s.Board.NodeAt(nb).Building != nil {
				t.Errorf("candidate node %d violates distance rule via neighbor %d", nodeID, nb)
			}
		}
	}
}

func TestLegalActionsHarborTradeOnlyWhenAffordable(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[Wood] = 0
	s.RollDice()

	la := s.LegalActionsFor(p.ID)
	for _, opt := range la.HarborTrade {
		if opt.Give == Wood {
			t.Fatal("did not expect a wood-give trade option with zero wood")
		}
	}
}
