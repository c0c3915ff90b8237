package catan

// Snapshot is the compact projection of session state passed to an LLM
// provider per spec.md §4.6. Node/edge/tile ids in any proposal are
// understood to be indices into these arrays.
type Snapshot struct {
	Tiles     []TileSnapshot     `json:"tiles"`
	OpenNodes []NodeSnapshot     `json:"openNodes"`
	OpenEdges []EdgeSnapshot     `json:"openEdges"`
	Players   []PlayerSnapshot   `json:"players"`
	LastRoll  int                `json:"lastRoll"`
	RobberHex int                `json:"robberHexId"`
}

type TileSnapshot struct {
	ID        int      `json:"id"`
	Resource  Resource `json:"resource"`
	Number    int      `json:"number"`
	HasRobber bool     `json:"hasRobber"`
}

type NodeSnapshot struct {
	ID           int   `json:"id"`
	AdjacentHexes []int `json:"adjacentHexes"`
}

type EdgeSnapshot struct {
	ID        int `json:"id"`
	NodeA     int `json:"nodeA"`
	NodeB     int `json:"nodeB"`
}

type DevCardSummary struct {
	Type    DevCardType `json:"type"`
	CanPlay bool        `json:"canPlay"`
}

type PlayerSnapshot struct {
	ID                    int              `json:"id"`
	VP                    int              `json:"vp"`
	Resources             map[Resource]int `json:"resources"`
	DevCards              []DevCardSummary `json:"devCards"`
	HasRolled             bool             `json:"hasRolled"`
	RobberMovedThisTurn   bool             `json:"robberMovedThisTurn"`
	BoughtDevCardThisTurn bool             `json:"boughtDevCardThisTurn"`
}

// Snapshot builds the compact, LLM-facing projection of the current state.
func (s *GameSession) Snapshot() *Snapshot {
	snap := &Snapshot{
		LastRoll:  s.LastRoll,
		RobberHex: s.Board.RobberTile,
	}
	for _, t := range s.Board.Tiles {
		snap.Tiles = append(snap.Tiles, TileSnapshot{ID: t.ID, Resource: t.Resource, Number: t.Number, HasRobber: t.HasRobber})
	}
	for _, n := range s.Board.Nodes {
		if n.Building != nil {
			continue
		}
		snap.OpenNodes = append(snap.OpenNodes, NodeSnapshot{ID: n.ID, AdjacentHexes: append([]int(nil), n.AdjTiles...)})
	}
	for _, e := range s.Board.Edges {
		if e.OwnerID >= 0 {
			continue
		}
		snap.OpenEdges = append(snap.OpenEdges, EdgeSnapshot{ID: e.ID, NodeA: e.NodeA, NodeB: e.NodeB})
	}
	for _, p := range s.Players {
		ps := PlayerSnapshot{
			ID:                    p.ID,
			VP:                    p.VP,
			Resources:             p.Resources,
			HasRolled:             p.HasRolled,
			RobberMovedThisTurn:   p.RobberMovedThisTurn,
			BoughtDevCardThisTurn: p.BoughtDevCardThisTurn,
		}
		for _, c := range p.DevCards {
			ps.DevCards = append(ps.DevCards, DevCardSummary{Type: c.Type, CanPlay: c.CanPlay})
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
