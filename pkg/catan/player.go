package catan

// AgentKind distinguishes who is driving a seat.
type AgentKind string

const (
	AgentHuman     AgentKind = "human"
	AgentLLM       AgentKind = "llm"
	AgentAlgorithm AgentKind = "algorithm"
)

// AlgorithmMode controls whether an algorithmic policy runs alongside, in
// place of, or not at all next to an LLM proposal for a given seat.
type AlgorithmMode string

const (
	ModeNone         AlgorithmMode = "none"
	ModeLLMOnly      AlgorithmMode = "llm_only"
	ModeAlgoOnly     AlgorithmMode = "algo_only"
	ModeLLMPlusAlgo  AlgorithmMode = "llm_plus_algo"
)

// Algorithm names a search policy from C5.
type Algorithm string

const (
	AlgorithmNone     Algorithm = "none"
	AlgorithmHeuristic Algorithm = "heuristic"
	AlgorithmMinimax  Algorithm = "minimax"
	AlgorithmMCTS     Algorithm = "mcts"
)

// AlgorithmParams carries free-form tuning knobs for a search policy
// (iterations, depth, rolloutDepth); zero values mean "use the policy
// default".
type AlgorithmParams struct {
	Depth        int
	Iterations   int
	RolloutDepth int
}

// ProviderConfig names the LLM provider bound to an llm seat.
type ProviderConfig struct {
	Provider    string
	Model       string
	APIEndpoint string
	APIKey      string
}

// SeatConfig is the per-seat configuration supplied at game creation.
type SeatConfig struct {
	Name          string
	Color         string
	AgentKind     AgentKind
	Provider      ProviderConfig
	AlgorithmMode AlgorithmMode
	Algorithm     Algorithm
	Params        AlgorithmParams
}

// Player is one seat's mutable state.
type Player struct {
	ID    int
	Name  string
	Color string

	AgentKind AgentKind
	Provider  ProviderConfig
	AlgoMode  AlgorithmMode
	Algorithm Algorithm
	Params    AlgorithmParams

	Resources map[Resource]int
	DevCards  []DevCard

	KnightsPlayed int
	Trades        int

	LongestRoad bool
	LargestArmy bool

	HasRolled              bool
	RobberMovedThisTurn    bool
	RobberMoveOwed         bool
	BoughtDevCardThisTurn  bool
	FreeRoadsRemaining     int

	VP int
}

// NewPlayer constructs a player with empty resources and an id assigned by
// the caller (seat index).
func NewPlayer(id int, cfg SeatConfig) *Player {
	p := &Player{
		ID:        id,
		Name:      cfg.Name,
		Color:     cfg.Color,
		AgentKind: cfg.AgentKind,
		Provider:  cfg.Provider,
		AlgoMode:  cfg.AlgorithmMode,
		Algorithm: cfg.Algorithm,
		Params:    cfg.Params,
		Resources: make(map[Resource]int, len(ProducibleResources)),
	}
	for _, r := range ProducibleResources {
		p.Resources[r] = 0
	}
	return p
}

// ResourceTotal sums all resources currently held.
func (p *Player) ResourceTotal() int {
	n := 0
	for _, c := range p.Resources {
		n += c
	}
	return n
}

// TownCount and CityCount are derived by the session from board state, not
// stored on the player; see GameSession.countBuildings.

// RecomputeVP derives vp from towns/cities (supplied by the caller, since
// buildings live on the board), bonus flags, and VP dev cards. Never stored
// independently of this computation (invariant I9).
func (p *Player) RecomputeVP(towns, cities int) {
	vp := towns + 2*cities
	if p.LongestRoad {
		vp += 2
	}
	if p.LargestArmy {
		vp += 2
	}
	for _, c := range p.DevCards {
		if c.Type == VictoryPoint {
			vp++
		}
	}
	p.VP = vp
}
