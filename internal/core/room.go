package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Logical channels (namespaces). Each is an independent event/room space.
const (
	ChannelLeaderboard   = "leaderboard"
	ChannelTraining      = "training"
	ChannelField         = "field"
	ChannelNotifications = "notifications"
)

// Room kinds accepted in join/leave control messages.
const (
	RoomKindTV      = "tv-display"
	RoomKindUser    = "user"
	RoomKindTeam    = "team"
	RoomKindContest = "contest"
	RoomKindSession = "session"
	RoomKindModule  = "module"
)

// RoomTV is the singleton public display room.
const RoomTV = "tv-display"

// UserRoom names the private room delivering user-scoped events.
func UserRoom(userID int64) string {
	return RoomKindUser + ":" + strconv.FormatInt(userID, 10)
}

// TeamRoom names the multicast group for one team.
func TeamRoom(teamID int64) string {
	return RoomKindTeam + ":" + strconv.FormatInt(teamID, 10)
}

// ContestRoom names the multicast group for one contest.
func ContestRoom(contestID int64) string {
	return RoomKindContest + ":" + strconv.FormatInt(contestID, 10)
}

// SessionRoom names the room scoped to one roleplay session.
func SessionRoom(sessionID string) string {
	return RoomKindSession + ":" + sessionID
}

// ModuleRoom names the room scoped to one training module.
func ModuleRoom(moduleID string) string {
	return RoomKindModule + ":" + moduleID
}

// ValidChannel reports whether name is a known logical channel.
func ValidChannel(name string) bool {
	switch name {
	case ChannelLeaderboard, ChannelTraining, ChannelField, ChannelNotifications:
		return true
	}
	return false
}

// BuildRoom validates a (kind, id) pair from a join/leave control message and
// returns the canonical room name. User, team and contest rooms require a
// numeric identifier; session and module rooms require a non-empty string.
func BuildRoom(kind, id string) (string, error) {
	switch kind {
	case RoomKindTV:
		if id != "" {
			return "", fmt.Errorf("%w: tv-display takes no identifier", ErrInvalidRoom)
		}
		return RoomTV, nil
	case RoomKindUser, RoomKindTeam, RoomKindContest:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%w: %s requires a numeric identifier", ErrInvalidRoom, kind)
		}
		return kind + ":" + strconv.FormatInt(n, 10), nil
	case RoomKindSession, RoomKindModule:
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w: %s requires an identifier", ErrInvalidRoom, kind)
		}
		return kind + ":" + id, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRoom, kind)
	}
}
