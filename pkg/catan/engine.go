package catan

// Costs, fixed by spec.md §4.2.
var (
	roadCost    = map[Resource]int{Wood: 1, Brick: 1}
	townCost    = map[Resource]int{Wood: 1, Brick: 1, Wheat: 1, Sheep: 1}
	cityCost    = map[Resource]int{Wheat: 2, Ore: 3}
	devCardCost = map[Resource]int{Sheep: 1, Wheat: 1, Ore: 1}
)

func canAfford(p *Player, cost map[Resource]int) bool {
	for r, n := range cost {
		if p.Resources[r] < n {
			return false
		}
	}
	return true
}

func pay(p *Player, cost map[Resource]int) {
	for r, n := range cost {
		p.Resources[r] -= n
	}
}

// mustMoveRobberPending reports whether the active player owes a robber
// move (state MUST_MOVE_ROBBER) — triggered by rolling a 7 or playing a
// Knight, whichever comes first each turn — which blocks every action
// except moveRobber.
func (s *GameSession) mustMoveRobberPending() bool {
	return s.ActivePlayer().RobberMoveOwed
}

// oweRobberMove arms the robber-move obligation, unless the player's
// single robber move for this turn has already been spent (spec.md §9:
// "at most one robber movement per turn total", shared between the
// post-7 and Knight triggers).
func oweRobberMove(p *Player) {
	if p.RobberMovedThisTurn {
		return
	}
	p.RobberMoveOwed = true
}

// RollDice rolls 2d6 for the active player. Fails if already rolled this
// turn. On 7, production is withheld and robber movement becomes required;
// otherwise every building adjacent to a matching, non-robber tile grants
// its owner {town: 1, city: 2} of that tile's resource.
func (s *GameSession) RollDice() (int, *Error) {
	p := s.ActivePlayer()
	if p.HasRolled {
		return 0, IllegalAction("dice already rolled this turn")
	}
	d1 := 1 + s.rng.Intn(6)
	d2 := 1 + s.rng.Intn(6)
	total := d1 + d2
	s.LastRoll = total
	p.HasRolled = true

	if total == 7 {
		s.LastProduction = nil
		oweRobberMove(p)
		s.emit(SessionEvent{Type: EventDiceRolled, PlayerID: p.ID, Payload: map[string]any{"total": total}})
		return total, nil
	}

	production := make(ProductionSummary)
	for _, t := range s.Board.Tiles {
		if t.Number != total || t.HasRobber {
			continue
		}
		for _, n := range s.Board.Nodes {
			if n.Building == nil || !containsTile(n.AdjTiles, t.ID) {
				continue
			}
			amt := 1
			if n.Building.Type == City {
				amt = 2
			}
			owner := s.PlayerByID(n.Building.OwnerID)
			owner.Resources[t.Resource] += amt
			if production[owner.ID] == nil {
				production[owner.ID] = make(map[Resource]int)
			}
			production[owner.ID][t.Resource] += amt
		}
	}
	s.LastProduction = production
	s.emit(SessionEvent{Type: EventDiceRolled, PlayerID: p.ID, Payload: map[string]any{"total": total}})
	return total, nil
}

func containsTile(tiles []int, id int) bool {
	for _, t := range tiles {
		if t == id {
			return true
		}
	}
	return false
}

// MoveRobber relocates the robber. Fails if no robber move is currently
// owed (state MUST_MOVE_ROBBER, triggered by a 7-roll or a Knight), or if
// the target tile already holds the robber.
func (s *GameSession) MoveRobber(hexID int) *Error {
	p := s.ActivePlayer()
	if !p.RobberMoveOwed {
		return IllegalAction("no robber move owed this turn")
	}
	tile := s.Board.TileAt(hexID)
	if tile == nil {
		return InvalidRequest("unknown hex id")
	}
	if hexID == s.Board.RobberTile {
		return IllegalAction("robber already on that tile")
	}
	s.Board.TileAt(s.Board.RobberTile).HasRobber = false
	tile.HasRobber = true
	s.Board.RobberTile = hexID
	p.RobberMoveOwed = false
	p.RobberMovedThisTurn = true
	s.emit(SessionEvent{Type: EventRobberMoved, PlayerID: p.ID, Payload: map[string]any{"hexId": hexID}})
	return nil
}

// BuildRoad builds a road on edgeID for playerID. Requires hasRolled unless
// free (Road-Building card token). Fails on ownership, connectivity (I6),
// or affordability.
func (s *GameSession) BuildRoad(edgeID, playerID int, free bool) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if !free && !p.HasRolled {
		return IllegalAction("must roll dice before building")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	edge := s.Board.EdgeAt(edgeID)
	if edge == nil {
		return InvalidRequest("unknown edge id")
	}
	if edge.OwnerID >= 0 {
		return IllegalAction("edge already owned")
	}
	if !s.hasRoadConnectivity(edge, playerID) {
		return IllegalAction("edge is not connected to an existing road or building")
	}
	if free {
		if p.FreeRoadsRemaining <= 0 {
			return IllegalAction("no free roads remaining")
		}
	} else if !canAfford(p, roadCost) {
		return IllegalAction("cannot afford road")
	}

	if free {
		p.FreeRoadsRemaining--
	} else {
		pay(p, roadCost)
	}
	edge.OwnerID = playerID
	s.recomputeLongestRoad()
	s.recomputeVP()
	s.emit(SessionEvent{Type: EventRoadBuilt, PlayerID: playerID, Payload: map[string]any{"edgeId": edgeID, "free": free}})
	return nil
}

// hasRoadConnectivity implements invariant I6: an endpoint node holds one
// of the player's buildings, or an adjacent edge is already owned by them.
func (s *GameSession) hasRoadConnectivity(edge *Edge, playerID int) bool {
	for _, nodeID := range []int{edge.NodeA, edge.NodeB} {
		n := s.Board.NodeAt(nodeID)
		if n.Building != nil && n.Building.OwnerID == playerID {
			return true
		}
		for _, eid := range s.Board.EdgesOf(nodeID) {
			if eid == edge.ID {
				continue
			}
			if s.Board.Edges[eid].OwnerID == playerID {
				return true
			}
		}
	}
	return false
}

// BuildTown places a town on nodeID for playerID. Requires hasRolled.
// Fails on occupancy, canBuild, the distance rule (I5), or affordability.
func (s *GameSession) BuildTown(nodeID, playerID int) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if !p.HasRolled {
		return IllegalAction("must roll dice before building")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	node := s.Board.NodeAt(nodeID)
	if node == nil {
		return InvalidRequest("unknown node id")
	}
	if node.Building != nil {
		return IllegalAction("node already has a building")
	}
	if !node.CanBuild {
		return IllegalAction("node is not buildable")
	}
	for _, nb := range s.Board.NeighborNodes(nodeID) {
		if s.Board.NodeAt(nb).Building != nil {
			return IllegalAction("violates distance rule")
		}
	}
	if !canAfford(p, townCost) {
		return IllegalAction("cannot afford town")
	}

	pay(p, townCost)
	node.Building = &Building{OwnerID: playerID, Type: Town}
	s.recomputeVP()
	s.emit(SessionEvent{Type: EventTownBuilt, PlayerID: playerID, Payload: map[string]any{"nodeId": nodeID}})
	return nil
}

// BuildCity upgrades an existing own town on nodeID to a city. Requires
// hasRolled and affordability of the city cost.
func (s *GameSession) BuildCity(nodeID, playerID int) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if !p.HasRolled {
		return IllegalAction("must roll dice before building")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	node := s.Board.NodeAt(nodeID)
	if node == nil {
		return InvalidRequest("unknown node id")
	}
	if node.Building == nil || node.Building.OwnerID != playerID || node.Building.Type != Town {
		return IllegalAction("no own town on that node")
	}
	if !canAfford(p, cityCost) {
		return IllegalAction("cannot afford city")
	}

	pay(p, cityCost)
	node.Building.Type = City
	s.recomputeVP()
	s.emit(SessionEvent{Type: EventCityBuilt, PlayerID: playerID, Payload: map[string]any{"nodeId": nodeID}})
	return nil
}

// bestHarborRatio scans every node currently holding one of the player's
// buildings and returns the best ratio available for give, defaulting to
// 4:1 when no applicable harbor is held.
func (s *GameSession) bestHarborRatio(playerID int, give Resource) int {
	best := 4
	for _, n := range s.Board.Nodes {
		if n.Building == nil || n.Building.OwnerID != playerID {
			continue
		}
		for _, h := range n.Harbors {
			if h.Type == Harbor2for1 && h.Resource == give && best > 2 {
				best = 2
			}
			if h.Type == Harbor3for1 && best > 3 {
				best = 3
			}
		}
	}
	return best
}

// HarborTrade exchanges give for receive at the player's best available
// ratio. Requires hasRolled and sufficient give-balance.
func (s *GameSession) HarborTrade(playerID int, give, receive Resource) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if !p.HasRolled {
		return IllegalAction("must roll dice before trading")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	ratio := s.bestHarborRatio(playerID, give)
	if p.Resources[give] < ratio {
		return IllegalAction("insufficient resources for trade ratio")
	}
	p.Resources[give] -= ratio
	p.Resources[receive]++
	p.Trades++
	s.emit(SessionEvent{Type: EventHarborTraded, PlayerID: playerID, Payload: map[string]any{"give": give, "receive": receive, "ratio": ratio}})
	return nil
}

// BuyDevCard pops the top of the deck into the player's hand with
// canPlay=false. Requires hasRolled, a non-empty deck, and affordability.
func (s *GameSession) BuyDevCard(playerID int) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if !p.HasRolled {
		return IllegalAction("must roll dice before buying")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	if len(s.DevCardDeck) == 0 {
		return IllegalAction("dev card deck is empty")
	}
	if !canAfford(p, devCardCost) {
		return IllegalAction("cannot afford dev card")
	}

	pay(p, devCardCost)
	card := s.DevCardDeck[len(s.DevCardDeck)-1]
	s.DevCardDeck = s.DevCardDeck[:len(s.DevCardDeck)-1]
	card.CanPlay = false
	p.DevCards = append(p.DevCards, card)
	p.BoughtDevCardThisTurn = true
	s.recomputeVP()
	s.emit(SessionEvent{Type: EventDevCardBought, PlayerID: playerID})
	return nil
}

func (s *GameSession) takePlayableCard(p *Player, t DevCardType) (int, *Error) {
	for i, c := range p.DevCards {
		if c.Type == t && c.CanPlay {
			return i, nil
		}
	}
	return -1, IllegalAction("no playable " + string(t) + " card")
}

// PlayKnight consumes a playable knight card, increments knightsPlayed,
// and recomputes the largest-army bonus. Also sets the robber-move
// obligation unless it was already satisfied this turn.
func (s *GameSession) PlayKnight(playerID int) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	idx, err := s.takePlayableCard(p, Knight)
	if err != nil {
		return err
	}
	p.DevCards = append(p.DevCards[:idx], p.DevCards[idx+1:]...)
	p.KnightsPlayed++
	oweRobberMove(p)
	s.recomputeLargestArmy()
	s.recomputeVP()
	s.emit(SessionEvent{Type: EventDevCardPlayed, PlayerID: playerID, Payload: map[string]any{"card": Knight}})
	return nil
}

// PlayRoadBuilding consumes a playable road-building card and grants the
// player a two-use free-road token for the rest of the turn (spec.md §9
// resolution of the free-road-accounting Open Question).
func (s *GameSession) PlayRoadBuilding(playerID int) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	idx, err := s.takePlayableCard(p, RoadBuilding)
	if err != nil {
		return err
	}
	p.DevCards = append(p.DevCards[:idx], p.DevCards[idx+1:]...)
	p.FreeRoadsRemaining += 2
	s.emit(SessionEvent{Type: EventDevCardPlayed, PlayerID: playerID, Payload: map[string]any{"card": RoadBuilding}})
	return nil
}

// PlayYearOfPlenty consumes a playable year-of-plenty card and grants the
// two chosen resources.
func (s *GameSession) PlayYearOfPlenty(playerID int, r1, r2 Resource) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	idx, err := s.takePlayableCard(p, YearOfPlenty)
	if err != nil {
		return err
	}
	p.DevCards = append(p.DevCards[:idx], p.DevCards[idx+1:]...)
	p.Resources[r1]++
	p.Resources[r2]++
	s.emit(SessionEvent{Type: EventDevCardPlayed, PlayerID: playerID, Payload: map[string]any{"card": YearOfPlenty}})
	return nil
}

// PlayMonopoly consumes a playable monopoly card and sweeps one named
// resource from every other player into the caller.
func (s *GameSession) PlayMonopoly(playerID int, resource Resource) *Error {
	p := s.PlayerByID(playerID)
	if p == nil {
		return InvalidRequest("unknown player id")
	}
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before acting")
	}
	idx, err := s.takePlayableCard(p, Monopoly)
	if err != nil {
		return err
	}
	p.DevCards = append(p.DevCards[:idx], p.DevCards[idx+1:]...)
	total := 0
	for _, other := range s.Players {
		if other.ID == playerID {
			continue
		}
		total += other.Resources[resource]
		other.Resources[resource] = 0
	}
	p.Resources[resource] += total
	s.emit(SessionEvent{Type: EventDevCardPlayed, PlayerID: playerID, Payload: map[string]any{"card": Monopoly, "resource": resource, "swept": total}})
	return nil
}

// EndTurn makes the active player's dev cards playable, clears per-turn
// flags, advances to the next seat, and increments the turn counter.
func (s *GameSession) EndTurn() *Error {
	p := s.ActivePlayer()
	if s.mustMoveRobberPending() {
		return IllegalAction("must move robber before ending turn")
	}
	for i := range p.DevCards {
		p.DevCards[i].CanPlay = true
	}
	p.HasRolled = false
	p.RobberMovedThisTurn = false
	p.RobberMoveOwed = false
	p.BoughtDevCardThisTurn = false
	p.FreeRoadsRemaining = 0

	endedPlayer := p.ID
	s.Current = (s.Current + 1) % len(s.Players)
	s.Turn++
	s.emit(SessionEvent{Type: EventTurnEnded, PlayerID: endedPlayer, Payload: map[string]any{"nextPlayerId": s.ActivePlayer().ID, "turn": s.Turn}})
	return nil
}
