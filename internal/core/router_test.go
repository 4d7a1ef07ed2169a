package core

import (
	"fmt"
	"testing"
)

func TestRoomDeliveryIsExact(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	inRoom := make([]*Client, 3)
	for i := range inRoom {
		c := NewClient(fmt.Sprintf("in-%d", i), ChannelLeaderboard)
		reg.Register(c)
		if _, err := rt.Join(c, RoomKindContest, "42"); err != nil {
			t.Fatalf("join: %v", err)
		}
		inRoom[i] = c
	}
	outsider := NewClient("out", ChannelLeaderboard)
	reg.Register(outsider)

	rt.EmitRoom(ContestRoom(42), DataEvent("contest:entry-update", nil))

	for _, c := range inRoom {
		mustNamedEvent(t, c.Events, "contest:entry-update")
		noEvent(t, c.Events) // exactly once
	}
	noEvent(t, outsider.Events)
}

func TestMalformedJoinDoesNotMutate(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	c := NewClient("a", ChannelLeaderboard)
	reg.Register(c)

	cases := []struct{ kind, id string }{
		{RoomKindUser, "abc"},
		{RoomKindTeam, ""},
		{RoomKindContest, "-1"},
		{RoomKindTV, "5"},
		{RoomKindSession, "  "},
		{"mystery", "1"},
	}
	for _, tc := range cases {
		if _, err := rt.Join(c, tc.kind, tc.id); err == nil {
			t.Fatalf("expected error joining kind=%q id=%q", tc.kind, tc.id)
		}
	}
	if got := len(reg.MembershipsOf(c)); got != 0 {
		t.Fatalf("malformed joins mutated state: %d memberships", got)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	c := NewClient("a", ChannelTraining)
	reg.Register(c)

	if _, err := rt.Leave(c, RoomKindModule, "m-1"); err != nil {
		t.Fatalf("leave of never-joined room should succeed, got %v", err)
	}

	if _, err := rt.Join(c, RoomKindModule, "m-1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := rt.Leave(c, RoomKindModule, "m-1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := rt.Leave(c, RoomKindModule, "m-1"); err != nil {
		t.Fatalf("second leave should be a no-op, got %v", err)
	}
	if got := len(reg.MembershipsOf(c)); got != 0 {
		t.Fatalf("expected no memberships, got %d", got)
	}
}

func TestRoomDeliveryIsFIFO(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	c := NewClient("a", ChannelTraining)
	reg.Register(c)
	if _, err := rt.Join(c, RoomKindSession, "s-1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	const n = 10
	for i := 0; i < n; i++ {
		rt.EmitRoom(SessionRoom("s-1"), DataEvent("roleplay:typing", i))
	}
	for i := 0; i < n; i++ {
		ev := mustEvent(t, c.Events, EventData)
		if ev.Data.(int) != i {
			t.Fatalf("out of order delivery: expected %d, got %v", i, ev.Data)
		}
	}
}

func TestEmitToEmptyRoomIsNoOp(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	// Must not panic or error.
	rt.EmitRoom(TeamRoom(99), DataEvent("module:update", nil))

	if got := len(rt.ConnectionsIn(TeamRoom(99))); got != 0 {
		t.Fatalf("expected empty room, got %d connections", got)
	}
}

func TestChannelEmitRespectsNamespace(t *testing.T) {
	reg := NewRegistry()
	rt := NewRouter(reg)

	board := NewClient("board", ChannelLeaderboard)
	field := NewClient("field", ChannelField)
	reg.Register(board)
	reg.Register(field)

	rt.EmitChannel(ChannelLeaderboard, DataEvent("rankings:update", nil))

	mustNamedEvent(t, board.Events, "rankings:update")
	noEvent(t, field.Events)
}
