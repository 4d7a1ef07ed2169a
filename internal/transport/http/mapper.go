package http

import (
	"encoding/json"

	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a hub command. Any malformed
// payload, including a wrong-typed field, is answered as a protocol error on
// the originating connection; it never tears the connection down.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if err := json.Unmarshal(inbound.Data, &hello); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed hello payload"}
		}
		if err := hello.Validate(); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "token is required"}
		}
		return &core.Command{
			Kind:  core.CommandHello,
			Token: hello.Token,
		}, nil
	case proto.InboundTypeJoin, proto.InboundTypeLeave:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: "malformed room payload"}
		}
		if err := join.Validate(); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: "unknown room kind"}
		}
		kind := core.CommandJoinRoom
		if inbound.Type == proto.InboundTypeLeave {
			kind = core.CommandLeaveRoom
		}
		return &core.Command{
			Kind:     kind,
			RoomKind: join.Kind,
			RoomID:   join.ID,
		}, nil
	case proto.InboundTypeRoleplay:
		var msg proto.RoleplayData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed roleplay payload"}
		}
		if err := msg.Validate(); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "session_id and message are required"}
		}
		return &core.Command{
			Kind:      core.CommandRoleplay,
			SessionID: msg.SessionID,
			Text:      msg.Message,
		}, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventData:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: event.Name,
			Data:  event.Data,
		}
	case core.EventAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			Verb: event.Name,
			Room: event.Room,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
