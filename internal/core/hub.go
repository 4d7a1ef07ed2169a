package core

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"
)

// IdentityVerifier checks a client-supplied token and resolves the user it
// belongs to. Implemented by the auth service.
type IdentityVerifier interface {
	Verify(token string) (int64, error)
}

// RoleplayHandler processes one inbound roleplay message. Implementations
// must serialize processing per session identifier; the hub calls this from
// a goroutine so one slow session never blocks the dispatch loop.
// This interface lives in core so the hub does not depend on the engine.
type RoleplayHandler interface {
	HandleMessage(ctx context.Context, userID int64, sessionID, text string) error
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub runs the single dispatch loop that services every connection's
// commands. A connection's bad input is answered on that connection only and
// never crashes the loop.
type Hub struct {
	registry *Registry
	router   *Router
	verifier IdentityVerifier
	roleplay RoleplayHandler
	log      *zerolog.Logger

	commands chan clientCommand
	done     chan struct{}
}

// NewHub wires the hub over its registry and router. The verifier and
// roleplay handler may be nil in tests that exercise only room traffic.
func NewHub(reg *Registry, rt *Router, verifier IdentityVerifier, roleplay RoleplayHandler, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry: reg,
		router:   rt,
		verifier: verifier,
		roleplay: roleplay,
		log:      logger,
		commands: make(chan clientCommand, 64),
		done:     make(chan struct{}),
	}
}

// RegisterClient adds the connection to the registry and starts pumping its
// commands into the dispatch loop.
func (h *Hub) RegisterClient(c *Client) {
	h.registry.Register(c)
	go h.pump(c)
}

// UnregisterClient removes the connection from every room and from the user
// index.
func (h *Hub) UnregisterClient(c *Client) {
	h.registry.Deregister(c)
}

// Router exposes the emit primitives for the event broadcast service.
func (h *Hub) Router() *Router {
	return h.router
}

// Run services commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case cc := <-h.commands:
			h.dispatch(ctx, cc.client, cc.cmd)
		}
	}
}

func (h *Hub) pump(c *Client) {
	for {
		select {
		case <-h.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-h.done:
				return
			}
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandHello:
		h.handleHello(c, cmd)
	case CommandJoinRoom:
		room, err := h.router.Join(c, cmd.RoomKind, cmd.RoomID)
		if err != nil {
			trySend(c, ErrorEvent(ErrCodeInvalidRoom, err.Error()))
			return
		}
		trySend(c, AckEvent("join", room))
	case CommandLeaveRoom:
		room, err := h.router.Leave(c, cmd.RoomKind, cmd.RoomID)
		if err != nil {
			trySend(c, ErrorEvent(ErrCodeInvalidRoom, err.Error()))
			return
		}
		trySend(c, AckEvent("leave", room))
	case CommandRoleplay:
		h.handleRoleplay(ctx, c, cmd)
	default:
		trySend(c, ErrorEvent(ErrCodeBadRequest, "unknown command"))
	}
}

func (h *Hub) handleHello(c *Client, cmd *Command) {
	if h.verifier == nil {
		trySend(c, ErrorEvent(ErrCodeUnauthorized, "identity not supported"))
		return
	}
	userID, err := h.verifier.Verify(cmd.Token)
	if err != nil {
		h.log.Debug().Err(err).Str("client_id", c.ID).Msg("hello rejected")
		trySend(c, ErrorEvent(ErrCodeUnauthorized, "invalid token"))
		return
	}
	if err := h.registry.AttachUser(c, userID); err != nil {
		trySend(c, ErrorEvent(ErrCodeBadRequest, err.Error()))
		return
	}
	// Every authenticated connection listens on its own user room.
	room, err := h.router.Join(c, RoomKindUser, strconv.FormatInt(userID, 10))
	if err != nil {
		trySend(c, ErrorEvent(ErrCodeInvalidRoom, err.Error()))
		return
	}
	trySend(c, AckEvent("hello", room))
}

func (h *Hub) handleRoleplay(ctx context.Context, c *Client, cmd *Command) {
	if c.UserID == 0 {
		trySend(c, ErrorEvent(ErrCodeUnauthorized, "identity required"))
		return
	}
	if h.roleplay == nil {
		trySend(c, ErrorEvent(ErrCodeRoleplayFailed, "roleplay not available"))
		return
	}
	userID := c.UserID
	sessionID := cmd.SessionID
	text := cmd.Text
	// Processing suspends on the text generator; hand it off so other
	// connections keep being serviced. The engine serializes per session.
	go func() {
		if err := h.roleplay.HandleMessage(ctx, userID, sessionID, text); err != nil {
			var ce *CoreError
			if errors.As(err, &ce) {
				trySend(c, &Event{Kind: EventError, Error: ce})
				return
			}
			h.log.Warn().Err(err).Str("session_id", sessionID).Msg("roleplay message failed")
			trySend(c, ErrorEvent(ErrCodeRoleplayFailed, "could not process message"))
		}
	}()
}
