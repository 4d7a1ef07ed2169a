package core

import "sync"

// Registry is the single owner of live connection state: which connections
// exist, which rooms each belongs to, and which connections belong to which
// authenticated user. All mutation goes through its methods; no other
// component touches the membership sets directly.
type Registry struct {
	mu          sync.Mutex
	clients     map[*Client]struct{}
	memberships map[*Client]map[string]struct{}
	rooms       map[string]map[*Client]struct{}
	users       map[int64]map[*Client]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:     make(map[*Client]struct{}),
		memberships: make(map[*Client]map[string]struct{}),
		rooms:       make(map[string]map[*Client]struct{}),
		users:       make(map[int64]map[*Client]struct{}),
	}
}

// Register adds a connection to the registry.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
	r.memberships[c] = make(map[string]struct{})
}

// AttachUser binds an authenticated user identity to a connection. One user
// may hold multiple simultaneous connections.
func (r *Registry) AttachUser(c *Client, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return ErrNotRegistered
	}
	c.UserID = userID
	set, ok := r.users[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.users[userID] = set
	}
	set[c] = struct{}{}
	return nil
}

// Deregister removes a connection from every room it belonged to and from
// the user index. If it was the user's last connection, the user goes
// offline. Safe to call more than once.
func (r *Registry) Deregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return
	}
	for room := range r.memberships[c] {
		r.removeFromRoom(c, room)
	}
	delete(r.memberships, c)
	delete(r.clients, c)
	if c.UserID != 0 {
		if set, ok := r.users[c.UserID]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(r.users, c.UserID)
			}
		}
	}
}

// MembershipsOf returns the rooms the connection currently belongs to.
func (r *Registry) MembershipsOf(c *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms := make([]string, 0, len(r.memberships[c]))
	for room := range r.memberships[c] {
		rooms = append(rooms, room)
	}
	return rooms
}

// join and leave are used by the Router under the registry lock's atomicity
// guarantees. Leaving a room never joined is a no-op.

func (r *Registry) join(c *Client, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return ErrNotRegistered
	}
	r.memberships[c][room] = struct{}{}
	set, ok := r.rooms[room]
	if !ok {
		set = make(map[*Client]struct{})
		r.rooms[room] = set
	}
	set[c] = struct{}{}
	return nil
}

func (r *Registry) leave(c *Client, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ms, ok := r.memberships[c]; ok {
		delete(ms, room)
	}
	r.removeFromRoom(c, room)
}

func (r *Registry) removeFromRoom(c *Client, room string) {
	if set, ok := r.rooms[room]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.rooms, room)
		}
	}
}

// snapshotRoom copies the room's connection set under the lock so a
// broadcast sees a consistent membership view.
func (r *Registry) snapshotRoom(room string) []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.rooms[room]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Delivery happens under the registry lock so a broadcast sees a consistent
// membership snapshot and events stay FIFO within one room. Sends never
// block; a slow consumer's event is dropped, as with any missed broadcast.

func (r *Registry) broadcastRoom(room string, ev *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.rooms[room] {
		trySend(c, ev)
	}
}

func (r *Registry) broadcastChannel(channel string, ev *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		if c.Channel == channel {
			trySend(c, ev)
		}
	}
}

func (r *Registry) broadcastUser(userID int64, ev *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.users[userID] {
		trySend(c, ev)
	}
}

func trySend(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}

func (r *Registry) userOnline(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users[userID]) > 0
}
