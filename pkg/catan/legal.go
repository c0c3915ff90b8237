package catan

// LegalActions is the structured candidate set for one player, keyed by
// action type, per spec.md §4.3. It is the source of truth for both the
// agent driver's fallback and the UI's clickability hints.
type LegalActions struct {
	RollDice    bool
	EndTurn     bool
	BuildTown   []int
	BuildCity   []int
	BuildRoad   []RoadOption
	MoveRobber  []int
	BuyDevCard  bool
	HarborTrade []HarborTradeOption
}

// RoadOption is one buildable edge, tagged with whether it would be paid
// for out of the player's free-road token (Road-Building card) or out of
// resources — the apply path (engine.BuildRoad's free argument) must match
// whichever the candidate was generated as, or a sound-looking candidate
// can fail to apply.
type RoadOption struct {
	EdgeID int
	Free   bool
}

// HarborTradeOption is one affordable (give, receive) pair at the
// player's best available ratio.
type HarborTradeOption struct {
	Give    Resource
	Receive Resource
	Ratio   int
}

// LegalActionsFor enumerates every legal action available to playerID in
// the session's current state.
func (s *GameSession) LegalActionsFor(playerID int) *LegalActions {
	p := s.PlayerByID(playerID)
	if p == nil {
		return &LegalActions{}
	}
	la := &LegalActions{}

	if !p.HasRolled {
		la.RollDice = true
		la.EndTurn = true
		return la
	}

	if s.mustMoveRobberPending() {
		for _, t := range s.Board.Tiles {
			if t.ID != s.Board.RobberTile {
				la.MoveRobber = append(la.MoveRobber, t.ID)
			}
		}
		return la
	}

	la.EndTurn = true

	for _, n := range s.Board.Nodes {
		if n.Building != nil || !n.CanBuild {
			continue
		}
		blocked := false
		for _, nb := range s.Board.NeighborNodes(n.ID) {
			if s.Board.NodeAt(nb).Building != nil {
				blocked = true
				break
			}
		}
		if !blocked && canAfford(p, townCost) {
			la.BuildTown = append(la.BuildTown, n.ID)
		}
	}

	for _, n := range s.Board.Nodes {
		if n.Building != nil && n.Building.OwnerID == playerID && n.Building.Type == Town && canAfford(p, cityCost) {
			la.BuildCity = append(la.BuildCity, n.ID)
		}
	}

	for _, e := range s.Board.Edges {
		if e.OwnerID >= 0 {
			continue
		}
		if !s.hasRoadConnectivity(&e, playerID) {
			continue
		}
		if p.FreeRoadsRemaining > 0 {
			la.BuildRoad = append(la.BuildRoad, RoadOption{EdgeID: e.ID, Free: true})
		} else if canAfford(p, roadCost) {
			la.BuildRoad = append(la.BuildRoad, RoadOption{EdgeID: e.ID, Free: false})
		}
	}

	if len(s.DevCardDeck) > 0 && canAfford(p, devCardCost) {
		la.BuyDevCard = true
	}

	for _, give := range ProducibleResources {
		ratio := s.bestHarborRatio(playerID, give)
		if p.Resources[give] < ratio {
			continue
		}
		for _, receive := range ProducibleResources {
			if receive == give {
				continue
			}
			la.HarborTrade = append(la.HarborTrade, HarborTradeOption{Give: give, Receive: receive, Ratio: ratio})
		}
	}

	return la
}
