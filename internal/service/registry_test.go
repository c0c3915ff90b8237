package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexforge/catan/internal/agent"
	"github.com/hexforge/catan/pkg/catan"
)

func twoHumanSeats() []catan.SeatConfig {
	return []catan.SeatConfig{
		{Name: "Alice", AgentKind: catan.AgentHuman},
		{Name: "Bob", AgentKind: catan.AgentHuman},
	}
}

func TestCreateGameRegistersSession(t *testing.T) {
	r := NewRegistry(nil)
	s, err := r.CreateGame(twoHumanSeats())
	require.Nil(t, err)
	require.NotEmpty(t, s.ID)

	got, err := r.GetGame(s.ID)
	require.Nil(t, err)
	require.Equal(t, s.ID, got.ID)
}

func TestGetGameUnknownIDReturnsNotFound(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.GetGame("does-not-exist")
	require.NotNil(t, err)
	require.Equal(t, catan.KindNotFound, err.Kind)
}

func TestDeleteGameRemovesSession(t *testing.T) {
	r := NewRegistry(nil)
	s, _ := r.CreateGame(twoHumanSeats())

	require.Nil(t, r.DeleteGame(s.ID))
	_, err := r.GetGame(s.ID)
	require.NotNil(t, err)

	require.NotNil(t, r.DeleteGame(s.ID), "deleting twice should fail")
}

func TestDeleteAllGamesClearsRegistry(t *testing.T) {
	r := NewRegistry(nil)
	r.CreateGame(twoHumanSeats())
	r.CreateGame(twoHumanSeats())

	require.Equal(t, 2, r.DeleteAllGames())
	require.Empty(t, r.ListGameIDs())
	require.Equal(t, 0, r.DeleteAllGames())
}

func TestApplyActionDispatchesThroughRulesEngine(t *testing.T) {
	r := NewRegistry(nil)
	s, _ := r.CreateGame(twoHumanSeats())
	seat := s.ActivePlayer().ID

	updated, err := r.ApplyAction(s.ID, catan.Action{Type: catan.ActionRollDice, PlayerID: seat})
	require.Nil(t, err)
	require.True(t, updated.ActivePlayer().HasRolled)
}

func TestApplyActionRejectsIllegalMove(t *testing.T) {
	r := NewRegistry(nil)
	s, _ := r.CreateGame(twoHumanSeats())
	seat := s.ActivePlayer().ID

	// Building before rolling is illegal regardless of which node is named.
	_, err := r.ApplyAction(s.ID, catan.Action{Type: catan.ActionBuildTown, PlayerID: seat, NodeID: s.Board.Nodes[0].ID})
	require.NotNil(t, err)
	require.Equal(t, catan.KindIllegalAction, err.Kind)
}

func TestRunAgentTurnRejectsHumanSeat(t *testing.T) {
	r := NewRegistry(nil)
	s, _ := r.CreateGame(twoHumanSeats())
	seat := s.ActivePlayer().ID

	_, result := r.RunAgentTurn(context.Background(), s.ID, seat, agent.DriverDeps{})
	require.NotNil(t, result.Err)
}

type countingBroadcaster struct {
	events int
}

func (b *countingBroadcaster) BroadcastEvent(string, catan.SessionEvent) { b.events++ }

func TestApplyActionBroadcastsNewEvents(t *testing.T) {
	bc := &countingBroadcaster{}
	r := NewRegistry(bc)
	s, _ := r.CreateGame(twoHumanSeats())
	seat := s.ActivePlayer().ID

	_, err := r.ApplyAction(s.ID, catan.Action{Type: catan.ActionRollDice, PlayerID: seat})
	require.Nil(t, err)
	require.Equal(t, 1, bc.events)
}
