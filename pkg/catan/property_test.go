package catan

import (
	"math/rand"
	"testing"
)

// replaySteps drives the session through n steps, each time picking a
// uniformly random legal action for the active player (failing the test if
// the generator offers nothing, or if a generated action is rejected), and
// asserts invariants P1-P5 and P7-P8 after every step.
func replaySteps(t *testing.T, s *GameSession, n int, rng *rand.Rand) {
	t.Helper()
	prevDeckSize := len(s.DevCardDeck)

	for i := 0; i < n; i++ {
		if s.Winner() != nil {
			return
		}
		p := s.ActivePlayer()
		la := s.LegalActionsFor(p.ID)

		switch pickAndApply(t, s, p.ID, la, rng) {
		case ActionBuyDevCard:
			if len(s.DevCardDeck) != prevDeckSize-1 {
				t.Fatalf("step %d: deck size changed by more than 1 on buyDevCard", i)
			}
		}
		prevDeckSize = len(s.DevCardDeck)

		assertInvariants(t, s, i)
	}
}

func pickAndApply(t *testing.T, s *GameSession, playerID int, la *LegalActions, rng *rand.Rand) ActionType {
	t.Helper()

	type choice struct {
		apply func() *Error
		kind  ActionType
	}
	var choices []choice

	if la.RollDice {
		choices = append(choices, choice{func() *Error { _, e := s.RollDice(); return e }, ActionRollDice})
	}
	for _, hexID := range la.MoveRobber {
		hexID := hexID
		choices = append(choices, choice{func() *Error { return s.MoveRobber(hexID) }, ActionMoveRobber})
	}
	for _, nodeID := range la.BuildTown {
		nodeID := nodeID
		choices = append(choices, choice{func() *Error { return s.BuildTown(nodeID, playerID) }, ActionBuildTown})
	}
	for _, nodeID := range la.BuildCity {
		nodeID := nodeID
		choices = append(choices, choice{func() *Error { return s.BuildCity(nodeID, playerID) }, ActionBuildCity})
	}
	for _, opt := range la.BuildRoad {
		opt := opt
		choices = append(choices, choice{func() *Error { return s.BuildRoad(opt.EdgeID, playerID, opt.Free) }, ActionBuildRoad})
	}
	if la.BuyDevCard {
		choices = append(choices, choice{func() *Error { return s.BuyDevCard(playerID) }, ActionBuyDevCard})
	}
	for _, opt := range la.HarborTrade {
		opt := opt
		choices = append(choices, choice{func() *Error { return s.HarborTrade(playerID, opt.Give, opt.Receive) }, ActionHarborTrade})
	}
	if la.EndTurn {
		choices = append(choices, choice{func() *Error { return s.EndTurn() }, ActionEndTurn})
	}

	if len(choices) == 0 {
		t.Fatalf("legal-action generator returned no candidates for player %d", playerID)
	}
	c := choices[rng.Intn(len(choices))]
	if errv := c.apply(); errv != nil {
		t.Fatalf("P10 violated: legal-generator-sourced action %s failed: %v", c.kind, errv)
	}
	return c.kind
}

func assertInvariants(t *testing.T, s *GameSession, step int) {
	t.Helper()

	robberCount := 0
	for _, tile := range s.Board.Tiles {
		if tile.HasRobber {
			robberCount++
		}
	}
	if robberCount != 1 {
		t.Fatalf("P1 violated at step %d: %d tiles have the robber", step, robberCount)
	}

	for _, p := range s.Players {
		for r, n := range p.Resources {
			if n < 0 {
				t.Fatalf("P2 violated at step %d: player %d has %d %s", step, p.ID, n, r)
			}
		}
	}

	for _, e := range s.Board.Edges {
		if e.OwnerID < 0 {
			continue
		}
		a, b := s.Board.NodeAt(e.NodeA), s.Board.NodeAt(e.NodeB)
		if !a.CanBuild && !b.CanBuild {
			t.Fatalf("P3 violated at step %d: edge %d has no buildable endpoint", step, e.ID)
		}
	}

	for _, n := range s.Board.Nodes {
		if n.Building == nil {
			continue
		}
		for _, nb := range s.Board.NeighborNodes(n.ID) {
			if s.Board.NodeAt(nb).Building != nil {
				t.Fatalf("P4 violated at step %d: nodes %d and %d both built and adjacent", step, n.ID, nb)
			}
		}
	}

	for _, p := range s.Players {
		towns, cities := s.countBuildings(p.ID)
		want := towns + 2*cities
		if p.LongestRoad {
			want += 2
		}
		if p.LargestArmy {
			want += 2
		}
		for _, c := range p.DevCards {
			if c.Type == VictoryPoint {
				want++
			}
		}
		if p.VP != want {
			t.Fatalf("P5 violated at step %d: player %d vp=%d want=%d", step, p.ID, p.VP, want)
		}
	}

	for _, p := range s.Players {
		if p.LongestRoad && s.longestRoadLength(p.ID) < 5 {
			t.Fatalf("P8 violated at step %d: longest-road holder %d has chain < 5", step, p.ID)
		}
		if p.LargestArmy && p.KnightsPlayed < 3 {
			t.Fatalf("P8 violated at step %d: largest-army holder %d has knightsPlayed < 3", step, p.ID)
		}
	}
}

func TestPropertyInvariantsHoldAcrossRandomPlay(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		s, err := NewSession("prop-game", []SeatConfig{
			{Name: "A", AgentKind: AgentHuman},
			{Name: "B", AgentKind: AgentHuman},
			{Name: "C", AgentKind: AgentHuman},
		}, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		replaySteps(t, s, 200, rand.New(rand.NewSource(seed*1000+1)))
	}
}

func TestIllegalActionLeavesStateUnchanged(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	before := p.Resources[Wood]

	var freeNode int = -1
	for _, n := range s.Board.Nodes {
		if n.Building == nil {
			freeNode = n.ID
			break
		}
	}
	if errv := s.BuildTown(freeNode, p.ID); errv == nil {
		t.Fatal("expected pre-roll buildTown to fail")
	}
	if p.Resources[Wood] != before {
		t.Fatal("P9 violated: resources changed despite IllegalAction")
	}
	if p.HasRolled {
		t.Fatal("P9 violated: hasRolled changed despite IllegalAction")
	}
}

func TestDeckOnlyShrinksByBuyDevCard(t *testing.T) {
	s := newTestSession(t)
	p := s.ActivePlayer()
	p.Resources[Sheep] = 10
	p.Resources[Wheat] = 10
	p.Resources[Ore] = 10
	s.RollDice()

	before := len(s.DevCardDeck)
	if errv := s.BuyDevCard(p.ID); errv != nil {
		t.Fatalf("BuyDevCard: %v", errv)
	}
	if len(s.DevCardDeck) != before-1 {
		t.Fatalf("P7 violated: deck went from %d to %d", before, len(s.DevCardDeck))
	}
}
