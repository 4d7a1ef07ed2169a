package proto

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello    = "hello"
	InboundTypeJoin     = "join"
	InboundTypeLeave    = "leave"
	InboundTypeRoleplay = "roleplay"

	OutboundTypeEvent = "event"
	OutboundTypeAck   = "ack"
	OutboundTypeError = "error"
)

// HelloData attaches an authenticated identity to the connection.
type HelloData struct {
	Token    string `json:"token" validate:"required"`
	Protocol int    `json:"protocol,omitempty"`
}

// Validate checks the payload shape.
func (d HelloData) Validate() error { return validate.Struct(d) }

// JoinData requests to join or leave a room, uniform (kind, identifier?)
// shape. tv-display takes no identifier; user/team/contest take a numeric
// one; session/module take a string.
type JoinData struct {
	Kind string `json:"kind" validate:"required,oneof=tv-display user team contest session module"`
	ID   string `json:"id,omitempty"`
}

// Validate checks the payload shape. Identifier semantics are validated by
// the room router.
func (d JoinData) Validate() error { return validate.Struct(d) }

// RoleplayData feeds one trainee message into a roleplay session.
type RoleplayData struct {
	SessionID string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// Validate checks the payload shape.
func (d RoleplayData) Validate() error { return validate.Struct(d) }

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Verb  string `json:"verb,omitempty"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
