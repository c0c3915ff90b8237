// Package service holds the session registry (C8): the in-memory home for
// live GameSessions, the one place HTTP handlers reach to create, mutate,
// and tear down games. There is no persistence layer — games live only as
// long as the process does, per spec.md §1's explicit Non-goal.
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hexforge/catan/internal/agent"
	"github.com/hexforge/catan/pkg/catan"
)

type entry struct {
	session *catan.GameSession
	// mu serializes every mutation against this one game. A session is
	// single-threaded by design (spec.md §5): two concurrent requests for
	// the same game must never interleave rule checks.
	mu sync.Mutex
}

// Registry holds every live GameSession, keyed by id.
type Registry struct {
	mu          sync.RWMutex
	games       map[string]*entry
	broadcaster Broadcaster
}

// NewRegistry creates an empty Registry. A nil broadcaster is replaced
// with a no-op so callers that don't run the WebSocket hub (tests) don't
// need to care.
func NewRegistry(broadcaster Broadcaster) *Registry {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &Registry{
		games:       make(map[string]*entry),
		broadcaster: broadcaster,
	}
}

// CreateGame generates a new session id, builds the board and initial
// placement for the given seats, and registers it.
func (r *Registry) CreateGame(seats []catan.SeatConfig) (*catan.GameSession, *catan.Error) {
	id := uuid.NewString()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s, err := catan.NewSession(id, seats, rng)
	if err != nil {
		var cerr *catan.Error
		errors.As(err, &cerr)
		return nil, cerr
	}

	r.mu.Lock()
	r.games[id] = &entry{session: s}
	r.mu.Unlock()

	log.Info().Str("gameId", id).Int("players", len(seats)).Msg("Game created")
	return s, nil
}

// GetGame returns the session for id, or ErrGameNotFound.
func (r *Registry) GetGame(id string) (*catan.GameSession, *catan.Error) {
	e := r.lookup(id)
	if e == nil {
		return nil, catan.ErrGameNotFound
	}
	return e.session, nil
}

// DeleteGame removes a session from the registry.
func (r *Registry) DeleteGame(id string) *catan.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return catan.ErrGameNotFound
	}
	delete(r.games, id)
	log.Info().Str("gameId", id).Msg("Game deleted")
	return nil
}

// DeleteAllGames tears down every registered session and reports how many
// were removed, backing the bulk `DELETE /games` teardown route (spec.md §6).
func (r *Registry) DeleteAllGames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.games)
	r.games = make(map[string]*entry)
	log.Info().Int("count", n).Msg("All games deleted")
	return n
}

// ListGameIDs returns every currently registered game id.
func (r *Registry) ListGameIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) lookup(id string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games[id]
}

// ApplyAction dispatches one manually submitted action through the Rules
// Engine (C2), serialized against concurrent requests for the same game.
// It broadcasts every event the action produced to WebSocket subscribers.
func (r *Registry) ApplyAction(id string, a catan.Action) (*catan.GameSession, *catan.Error) {
	e := r.lookup(id)
	if e == nil {
		return nil, catan.ErrGameNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := len(e.session.EventLog)
	if err := agent.ApplyAction(e.session, a); err != nil {
		return nil, err
	}
	r.broadcastNewEvents(id, e.session, before)
	return e.session, nil
}

// RunAgentTurn drives a non-human seat's turn to completion (C7),
// serialized against concurrent requests for the same game.
func (r *Registry) RunAgentTurn(ctx context.Context, id string, seat int, deps agent.DriverDeps) (*catan.GameSession, agent.TurnResult) {
	e := r.lookup(id)
	if e == nil {
		return nil, agent.TurnResult{Err: catan.ErrGameNotFound}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := len(e.session.EventLog)
	result := agent.RunAgentTurn(ctx, e.session, seat, deps)
	r.broadcastNewEvents(id, e.session, before)
	return e.session, result
}

func (r *Registry) broadcastNewEvents(gameID string, s *catan.GameSession, from int) {
	for _, evt := range s.EventLog[from:] {
		r.broadcaster.BroadcastEvent(gameID, evt)
	}
}
