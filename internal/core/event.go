package core

// EventKind distinguishes the outbound frames a client can receive.
type EventKind int

const (
	// EventData carries a named payload from the broadcast catalog.
	EventData EventKind = iota
	// EventAck confirms a control message (hello, join, leave).
	EventAck
	// EventError reports a protocol or domain error to the sender.
	EventError
)

// Event is sent to clients to describe what happened in the system. Events
// are immutable once constructed; the payload is a plain record carrying its
// own timestamp.
type Event struct {
	Kind  EventKind
	Name  string // catalog name, e.g. "rankings:update"
	Room  string
	Data  any
	Error *CoreError
}

// DataEvent builds a broadcastable catalog event.
func DataEvent(name string, data any) *Event {
	return &Event{Kind: EventData, Name: name, Data: data}
}

// AckEvent confirms the named verb, optionally carrying the resolved room.
func AckEvent(verb, room string) *Event {
	return &Event{Kind: EventAck, Name: verb, Room: room}
}

// ErrorEvent reports a domain error to a single connection.
func ErrorEvent(code, msg string) *Event {
	return &Event{Kind: EventError, Error: coreError(code, msg)}
}
