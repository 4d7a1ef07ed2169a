package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandHello attaches an authenticated identity to the connection.
	CommandHello CommandKind = iota
	// CommandJoinRoom subscribes the connection to a room.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the connection from a room.
	CommandLeaveRoom
	// CommandRoleplay feeds a message into a roleplay session.
	CommandRoleplay
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind

	// Hello
	Token string

	// Join / leave
	RoomKind string
	RoomID   string

	// Roleplay
	SessionID string
	Text      string
}
