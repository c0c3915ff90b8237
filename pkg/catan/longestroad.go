package catan

// longestRoadLength returns the length (edge count) of the longest simple
// path through nodes connected by edges owned by playerID, using nodes as
// the visit token per spec.md §9's resolution of the longest-road Open
// Question (node-visited DFS, not edge-visited).
func (s *GameSession) longestRoadLength(playerID int) int {
	adj := make(map[int][]int) // node -> neighbor nodes via owned edges
	for _, e := range s.Board.Edges {
		if e.OwnerID != playerID {
			continue
		}
		adj[e.NodeA] = append(adj[e.NodeA], e.NodeB)
		adj[e.NodeB] = append(adj[e.NodeB], e.NodeA)
	}
	if len(adj) == 0 {
		return 0
	}

	best := 0
	visited := make(map[int]bool)
	var dfs func(node, length int)
	dfs = func(node, length int) {
		if length > best {
			best = length
		}
		visited[node] = true
		for _, next := range adj[node] {
			if visited[next] {
				continue
			}
			dfs(next, length+1)
		}
		visited[node] = false
	}
	for start := range adj {
		dfs(start, 0)
	}
	return best
}

// recomputeLongestRoad applies the bonus to whichever player has a chain
// >=5 and is uniquely longest; ties favor the current holder, otherwise no
// one holds it.
func (s *GameSession) recomputeLongestRoad() {
	lengths := make(map[int]int, len(s.Players))
	maxLen := 0
	for _, p := range s.Players {
		l := s.longestRoadLength(p.ID)
		lengths[p.ID] = l
		if l > maxLen {
			maxLen = l
		}
	}
	if maxLen < 5 {
		for _, p := range s.Players {
			p.LongestRoad = false
		}
		return
	}

	var leaders []int
	currentHolder := -1
	for _, p := range s.Players {
		if lengths[p.ID] == maxLen {
			leaders = append(leaders, p.ID)
		}
		if p.LongestRoad {
			currentHolder = p.ID
		}
	}

	winner := -1
	if len(leaders) == 1 {
		winner = leaders[0]
	} else {
		for _, id := range leaders {
			if id == currentHolder {
				winner = id
				break
			}
		}
	}

	for _, p := range s.Players {
		p.LongestRoad = p.ID == winner
	}
}

// recomputeLargestArmy is the knights-played analog of recomputeLongestRoad,
// threshold >=3.
func (s *GameSession) recomputeLargestArmy() {
	maxKnights := 0
	for _, p := range s.Players {
		if p.KnightsPlayed > maxKnights {
			maxKnights = p.KnightsPlayed
		}
	}
	if maxKnights < 3 {
		for _, p := range s.Players {
			p.LargestArmy = false
		}
		return
	}

	var leaders []int
	currentHolder := -1
	for _, p := range s.Players {
		if p.KnightsPlayed == maxKnights {
			leaders = append(leaders, p.ID)
		}
		if p.LargestArmy {
			currentHolder = p.ID
		}
	}

	winner := -1
	if len(leaders) == 1 {
		winner = leaders[0]
	} else {
		for _, id := range leaders {
			if id == currentHolder {
				winner = id
				break
			}
		}
	}

	for _, p := range s.Players {
		p.LargestArmy = p.ID == winner
	}
}
