package core

// Router maps logical multicast groups to the set of live connections in the
// registry. It validates room names on join/leave and exposes the emit
// primitives the event broadcast service is built on. Broadcasting is
// fire-and-forget: a room with zero members is a no-op, not an error.
type Router struct {
	reg *Registry
}

// NewRouter builds a router over the given registry.
func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg}
}

// Join subscribes the connection to the room named by (kind, id). A
// malformed request returns an error without mutating any state.
func (rt *Router) Join(c *Client, kind, id string) (string, error) {
	room, err := BuildRoom(kind, id)
	if err != nil {
		return "", err
	}
	if err := rt.reg.join(c, room); err != nil {
		return "", err
	}
	return room, nil
}

// Leave unsubscribes the connection from the room named by (kind, id).
// Leaving a room the connection never joined is idempotent.
func (rt *Router) Leave(c *Client, kind, id string) (string, error) {
	room, err := BuildRoom(kind, id)
	if err != nil {
		return "", err
	}
	rt.reg.leave(c, room)
	return room, nil
}

// ConnectionsIn returns the connections currently in the room.
func (rt *Router) ConnectionsIn(room string) []*Client {
	return rt.reg.snapshotRoom(room)
}

// IsUserOnline reports whether the user has at least one live connection.
func (rt *Router) IsUserOnline(userID int64) bool {
	return rt.reg.userOnline(userID)
}

// EmitRoom delivers an event to every connection in the room.
func (rt *Router) EmitRoom(room string, ev *Event) {
	rt.reg.broadcastRoom(room, ev)
}

// EmitChannel delivers an event to every connection on the logical channel.
func (rt *Router) EmitChannel(channel string, ev *Event) {
	rt.reg.broadcastChannel(channel, ev)
}

// EmitUser delivers an event to all of the user's live connections.
func (rt *Router) EmitUser(userID int64, ev *Event) {
	rt.reg.broadcastUser(userID, ev)
}
