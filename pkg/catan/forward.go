package catan

import "math/rand"

// ActionType enumerates the action vocabulary shared by the Rules Engine
// (C2), the Legal Action Generator (C3), and the Approximate Forward Model
// (C4).
type ActionType string

const (
	ActionRollDice         ActionType = "rollDice"
	ActionMoveRobber       ActionType = "moveRobber"
	ActionBuildRoad        ActionType = "buildRoad"
	ActionBuildTown        ActionType = "buildTown"
	ActionBuildCity        ActionType = "buildCity"
	ActionHarborTrade      ActionType = "harborTrade"
	ActionBuyDevCard       ActionType = "buyDevCard"
	ActionPlayKnight       ActionType = "playKnight"
	ActionPlayRoadBuilding ActionType = "playRoadBuilding"
	ActionPlayYearOfPlenty ActionType = "playYearOfPlenty"
	ActionPlayMonopoly     ActionType = "playMonopoly"
	ActionEndTurn          ActionType = "endTurn"
)

// Action is a candidate or proposed move: one action type plus its payload
// fields, per spec.md §6's action vocabulary table. Unused fields are
// zero-valued for action types that don't need them.
type Action struct {
	Type      ActionType
	PlayerID  int
	NodeID    int
	EdgeID    int
	HexID     int
	Free      bool
	Give      Resource
	Receive   Resource
	Resource1 Resource
	Resource2 Resource
}

// Clone deep-copies the session for use by search agents (C5): board
// (tiles/nodes/edges/buildings), players (resources/dev cards/flags), deck,
// and turn state. The event log is not copied — the forward model never
// produces client-visible events.
func (s *GameSession) Clone() *GameSession {
	c := &GameSession{
		ID:             s.ID,
		Current:        s.Current,
		Turn:           s.Turn,
		LastRoll:       s.LastRoll,
		DevCardDeck:    append([]DevCard(nil), s.DevCardDeck...),
		rng:            rand.New(rand.NewSource(s.rng.Int63())),
	}
	c.Board = cloneBoard(s.Board)
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = clonePlayer(p)
	}
	return c
}

func cloneBoard(b *Board) *Board {
	nb := &Board{
		Tiles:      append([]Tile(nil), b.Tiles...),
		Edges:      append([]Edge(nil), b.Edges...),
		RobberTile: b.RobberTile,
	}
	nb.Nodes = make([]Node, len(b.Nodes))
	for i, n := range b.Nodes {
		nn := n
		nn.AdjTiles = append([]int(nil), n.AdjTiles...)
		nn.Harbors = append([]Harbor(nil), n.Harbors...)
		if n.Building != nil {
			bld := *n.Building
			nn.Building = &bld
		}
		nb.Nodes[i] = nn
	}
	for i, t := range b.Tiles {
		if t.Harbor != nil {
			h := *t.Harbor
			nb.Tiles[i].Harbor = &h
		}
	}
	nb.buildIndexes()
	return nb
}

func clonePlayer(p *Player) *Player {
	np := *p
	np.Resources = make(map[Resource]int, len(p.Resources))
	for r, n := range p.Resources {
		np.Resources[r] = n
	}
	np.DevCards = append([]DevCard(nil), p.DevCards...)
	return &np
}

// ApplyApprox mutates the clone per the simplified forward-model semantics
// of spec.md §4.4: it pays costs and writes ownership without revalidating
// distance or connectivity (the caller already filtered candidates via C3),
// simulates dice with a 2d6 uniform draw, and never recomputes
// longest-road/largest-army (search heuristics use raw counts instead).
// It is never used to authoritatively apply an action; only C2 is.
func (s *GameSession) ApplyApprox(a Action) {
	p := s.PlayerByID(a.PlayerID)
	if p == nil {
		return
	}
	switch a.Type {
	case ActionRollDice:
		total := 1 + s.rng.Intn(6) + 1 + s.rng.Intn(6)
		s.LastRoll = total
		p.HasRolled = true
		if total == 7 {
			oweRobberMove(p)
		} else {
			for _, t := range s.Board.Tiles {
				if t.Number != total || t.HasRobber {
					continue
				}
				for i := range s.Board.Nodes {
					n := &s.Board.Nodes[i]
					if n.Building == nil || !containsTile(n.AdjTiles, t.ID) {
						continue
					}
					amt := 1
					if n.Building.Type == City {
						amt = 2
					}
					if owner := s.PlayerByID(n.Building.OwnerID); owner != nil {
						owner.Resources[t.Resource] += amt
					}
				}
			}
		}
	case ActionMoveRobber:
		if tile := s.Board.TileAt(s.Board.RobberTile); tile != nil {
			tile.HasRobber = false
		}
		if tile := s.Board.TileAt(a.HexID); tile != nil {
			tile.HasRobber = true
			s.Board.RobberTile = a.HexID
		}
		p.RobberMoveOwed = false
		p.RobberMovedThisTurn = true
	case ActionBuildRoad:
		if !a.Free {
			pay(p, roadCost)
		}
		if e := s.Board.EdgeAt(a.EdgeID); e != nil {
			e.OwnerID = a.PlayerID
		}
	case ActionBuildTown:
		pay(p, townCost)
		if n := s.Board.NodeAt(a.NodeID); n != nil {
			n.Building = &Building{OwnerID: a.PlayerID, Type: Town}
		}
	case ActionBuildCity:
		pay(p, cityCost)
		if n := s.Board.NodeAt(a.NodeID); n != nil && n.Building != nil {
			n.Building.Type = City
		}
	case ActionHarborTrade:
		ratio := s.bestHarborRatio(a.PlayerID, a.Give)
		p.Resources[a.Give] -= ratio
		p.Resources[a.Receive]++
	case ActionBuyDevCard:
		pay(p, devCardCost)
		if len(s.DevCardDeck) > 0 {
			card := s.DevCardDeck[len(s.DevCardDeck)-1]
			s.DevCardDeck = s.DevCardDeck[:len(s.DevCardDeck)-1]
			p.DevCards = append(p.DevCards, card)
		}
	case ActionPlayKnight:
		p.KnightsPlayed++
		oweRobberMove(p)
	case ActionPlayRoadBuilding:
		p.FreeRoadsRemaining += 2
	case ActionPlayYearOfPlenty:
		p.Resources[a.Resource1]++
		p.Resources[a.Resource2]++
	case ActionPlayMonopoly:
		for _, other := range s.Players {
			if other.ID == a.PlayerID {
				continue
			}
			p.Resources[a.Resource1] += other.Resources[a.Resource1]
			other.Resources[a.Resource1] = 0
		}
	case ActionEndTurn:
		p.HasRolled = false
		p.RobberMovedThisTurn = false
		p.RobberMoveOwed = false
		p.BoughtDevCardThisTurn = false
		p.FreeRoadsRemaining = 0
		s.Current = (s.Current + 1) % len(s.Players)
		s.Turn++
	}
}
