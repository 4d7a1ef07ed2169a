package core

// Client is one live connection as seen by the core layer. A user with
// several open tabs or devices owns several clients.
type Client struct {
	ID      string
	Channel string
	UserID  int64 // zero until an identity is attached

	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client on the given logical channel.
func NewClient(id, channel string) *Client {
	if channel == "" {
		channel = ChannelNotifications
	}
	return &Client{
		ID:       id,
		Channel:  channel,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
