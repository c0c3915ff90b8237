package catan

import "math/rand"

// ProductionSummary records the resource grants from the last non-seven
// rollDice, keyed by player id then resource.
type ProductionSummary map[int]map[Resource]int

// GameSession is one in-progress game: board, players, turn state, and the
// append-only event log. All mutation happens through the Rules Engine
// methods in engine.go; callers never touch fields directly except to read.
type GameSession struct {
	ID      string
	Board   *Board
	Players []*Player
	Current int
	Turn    int

	LastRoll       int
	LastProduction ProductionSummary

	DevCardDeck []DevCard

	EventLog []SessionEvent

	rng *rand.Rand
}

// NewSession builds a session with a freshly generated board and initial
// placement (two placement rounds) already performed (spec.md §4.1 step 8).
func NewSession(id string, seats []SeatConfig, rng *rand.Rand) (*GameSession, *Error) {
	if len(seats) < 2 || len(seats) > 4 {
		return nil, InvalidRequest("a game requires 2-4 seats")
	}
	s := &GameSession{
		ID:          id,
		Board:       GenerateBoard(rng),
		DevCardDeck: NewDevCardDeck(rng),
		rng:         rng,
	}
	for i, seat := range seats {
		s.Players = append(s.Players, NewPlayer(i, seat))
	}
	if err := s.performInitialPlacement(); err != nil {
		return nil, err
	}
	s.recomputeVP()
	return s, nil
}

// ActivePlayer returns the player whose turn it currently is.
func (s *GameSession) ActivePlayer() *Player {
	return s.Players[s.Current]
}

// PlayerByID returns the player with the given id, or nil.
func (s *GameSession) PlayerByID(id int) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Winner returns the first player with derived vp >= 10, or nil.
func (s *GameSession) Winner() *Player {
	for _, p := range s.Players {
		if p.VP >= 10 {
			return p
		}
	}
	return nil
}

func (s *GameSession) emit(evt SessionEvent) {
	evt.Seq = len(s.EventLog)
	s.EventLog = append(s.EventLog, evt)
}

// countBuildings returns (towns, cities) owned by a player across the board.
func (s *GameSession) countBuildings(playerID int) (towns, cities int) {
	for _, n := range s.Board.Nodes {
		if n.Building == nil || n.Building.OwnerID != playerID {
			continue
		}
		if n.Building.Type == City {
			cities++
		} else {
			towns++
		}
	}
	return towns, cities
}

// recomputeVP derives every player's vp from board state, bonus flags, and
// dev cards (invariant I9), then checks for a winner.
func (s *GameSession) recomputeVP() {
	for _, p := range s.Players {
		towns, cities := s.countBuildings(p.ID)
		p.RecomputeVP(towns, cities)
	}
	if w := s.Winner(); w != nil {
		s.emit(SessionEvent{Type: EventWinnerDeclared, PlayerID: w.ID})
	}
}

// performInitialPlacement runs two rounds in turn order, each placing one
// town and one road adjacent to it per player, per spec.md §4.1 step 8:
// candidates must be buildable and not adjacent to the desert; after each
// placement the node and its neighbors stay excluded for both rounds.
func (s *GameSession) performInitialPlacement() *Error {
	excluded := make(map[int]bool)

	placeOne := func(p *Player) *Error {
		node := s.pickInitialNode(excluded)
		if node == nil {
			return InternalError("no buildable node left for initial placement", nil)
		}
		node.Building = &Building{OwnerID: p.ID, Type: Town}
		excluded[node.ID] = true
		for _, nb := range s.Board.NeighborNodes(node.ID) {
			excluded[nb] = true
		}

		edgeID := s.pickInitialEdge(node.ID)
		if edgeID < 0 {
			return InternalError("no edge adjacent to initial town", nil)
		}
		s.Board.Edges[edgeID].OwnerID = p.ID
		return nil
	}

	for round := 0; round < 2; round++ {
		for _, p := range s.Players {
			if err := placeOne(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *GameSession) desertAdjacent(nodeID int) bool {
	for _, t := range s.Board.AdjacentTiles(nodeID) {
		if t != nil && t.Resource == Desert {
			return true
		}
	}
	return false
}

func (s *GameSession) pickInitialNode(excluded map[int]bool) *Node {
	var candidates []int
	for _, n := range s.Board.Nodes {
		if !n.CanBuild || n.Building != nil || excluded[n.ID] || s.desertAdjacent(n.ID) {
			continue
		}
		candidates = append(candidates, n.ID)
	}
	if len(candidates) == 0 {
		return nil
	}
	pick := candidates[s.rng.Intn(len(candidates))]
	return s.Board.NodeAt(pick)
}

func (s *GameSession) pickInitialEdge(nodeID int) int {
	edges := s.Board.EdgesOf(nodeID)
	var free []int
	for _, eid := range edges {
		if s.Board.Edges[eid].OwnerID < 0 {
			free = append(free, eid)
		}
	}
	if len(free) == 0 {
		return -1
	}
	return free[s.rng.Intn(len(free))]
}
