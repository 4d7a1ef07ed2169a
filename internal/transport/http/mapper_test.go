package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/proto"
)

func inbound(t *testing.T, typ, data string) proto.Inbound {
	t.Helper()
	return proto.Inbound{Type: typ, Data: json.RawMessage(data)}
}

func TestInboundToCommand(t *testing.T) {
	cases := []struct {
		name string
		in   proto.Inbound
		want core.Command
	}{
		{
			name: "hello",
			in:   inbound(t, proto.InboundTypeHello, `{"token":"abc"}`),
			want: core.Command{Kind: core.CommandHello, Token: "abc"},
		},
		{
			name: "join room",
			in:   inbound(t, proto.InboundTypeJoin, `{"kind":"team","id":"3"}`),
			want: core.Command{Kind: core.CommandJoinRoom, RoomKind: core.RoomKindTeam, RoomID: "3"},
		},
		{
			name: "join tv without identifier",
			in:   inbound(t, proto.InboundTypeJoin, `{"kind":"tv-display"}`),
			want: core.Command{Kind: core.CommandJoinRoom, RoomKind: core.RoomKindTV},
		},
		{
			name: "leave room",
			in:   inbound(t, proto.InboundTypeLeave, `{"kind":"session","id":"s-1"}`),
			want: core.Command{Kind: core.CommandLeaveRoom, RoomKind: core.RoomKindSession, RoomID: "s-1"},
		},
		{
			name: "roleplay message",
			in:   inbound(t, proto.InboundTypeRoleplay, `{"session_id":"s-1","message":"hi"}`),
			want: core.Command{Kind: core.CommandRoleplay, SessionID: "s-1", Text: "hi"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tc.in)
			require.Nil(t, protoErr)
			require.NotNil(t, cmd)
			assert.Equal(t, tc.want, *cmd)
		})
	}
}

func TestInboundToCommandRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		in   proto.Inbound
		code string
	}{
		{
			name: "hello without token",
			in:   inbound(t, proto.InboundTypeHello, `{}`),
			code: core.ErrCodeBadRequest,
		},
		{
			name: "hello with wrong-typed token",
			in:   inbound(t, proto.InboundTypeHello, `{"token":5}`),
			code: core.ErrCodeBadRequest,
		},
		{
			name: "join with unknown kind",
			in:   inbound(t, proto.InboundTypeJoin, `{"kind":"galaxy","id":"1"}`),
			code: core.ErrCodeInvalidRoom,
		},
		{
			name: "join with wrong-typed identifier",
			in:   inbound(t, proto.InboundTypeJoin, `{"kind":"user","id":5}`),
			code: core.ErrCodeInvalidRoom,
		},
		{
			name: "join with truncated payload",
			in:   inbound(t, proto.InboundTypeJoin, `{"kind":`),
			code: core.ErrCodeInvalidRoom,
		},
		{
			name: "roleplay without message",
			in:   inbound(t, proto.InboundTypeRoleplay, `{"session_id":"s-1"}`),
			code: core.ErrCodeBadRequest,
		},
		{
			name: "roleplay with wrong-typed message",
			in:   inbound(t, proto.InboundTypeRoleplay, `{"session_id":"s-1","message":[1]}`),
			code: core.ErrCodeBadRequest,
		},
		{
			name: "unknown envelope type",
			in:   inbound(t, "ping", `{}`),
			code: "invalid_message",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tc.in)
			assert.Nil(t, cmd)
			require.NotNil(t, protoErr)
			assert.Equal(t, tc.code, protoErr.Code)
		})
	}
}

func TestOutboundFromEvent(t *testing.T) {
	data := outboundFromEvent(core.DataEvent("xp:gained", map[string]int{"amount": 10}))
	assert.Equal(t, proto.OutboundTypeEvent, data.Type)
	assert.Equal(t, "xp:gained", data.Event)
	assert.NotNil(t, data.Data)

	ack := outboundFromEvent(core.AckEvent("join", core.RoomTV))
	assert.Equal(t, proto.OutboundTypeAck, ack.Type)
	assert.Equal(t, "join", ack.Verb)
	assert.Equal(t, core.RoomTV, ack.Room)

	fail := outboundFromEvent(core.ErrorEvent(core.ErrCodeUnauthorized, "token rejected"))
	assert.Equal(t, proto.OutboundTypeError, fail.Type)
	require.NotNil(t, fail.Error)
	assert.Equal(t, core.ErrCodeUnauthorized, fail.Error.Code)
	assert.Equal(t, "token rejected", fail.Error.Msg)
}
