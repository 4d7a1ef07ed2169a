package events

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/core"
)

// Broadcaster owns the send policy for every event category: namespace-wide,
// user-scoped, dual (user plus TV display) or room-scoped. Callers never
// block on delivery; broadcasting to an empty room is a normal no-op.
type Broadcaster struct {
	router *core.Router
	log    *zerolog.Logger
	now    func() time.Time
}

// NewBroadcaster builds the broadcast service over the room router.
func NewBroadcaster(router *core.Router, logger *zerolog.Logger) *Broadcaster {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Broadcaster{router: router, log: logger, now: time.Now}
}

// RankingsUpdate refreshes the standings for everyone on the leaderboard
// channel.
func (b *Broadcaster) RankingsUpdate(standings []RankingEntry) {
	b.channel(core.ChannelLeaderboard, NameRankingsUpdate, RankingsPayload{
		Standings: standings,
		Timestamp: b.now(),
	})
}

// RankChanged notifies the user their rank moved and, when the improvement
// is significant, celebrates it on the TV display. Insignificant moves must
// not spam the public display.
func (b *Broadcaster) RankChanged(userID int64, name string, previousRank, newRank int) {
	payload := RankChangePayload{
		UserID:       userID,
		Name:         name,
		PreviousRank: previousRank,
		NewRank:      newRank,
		Timestamp:    b.now(),
	}
	b.user(userID, NameRankChanged, payload)
	if SignificantRankChange(previousRank, newRank) {
		b.room(core.RoomTV, NameTVUpdate, TVPayload{
			Kind:      "rank-celebration",
			Data:      payload,
			Timestamp: payload.Timestamp,
		})
	}
}

// SignificantRankChange reports whether a rank move deserves a public
// celebration: a top-ten rank, or an improvement of five or more positions.
func SignificantRankChange(previousRank, newRank int) bool {
	return newRank <= 10 || previousRank-newRank >= 5
}

// ContestNewEntry announces a new submission to the whole leaderboard
// channel.
func (b *Broadcaster) ContestNewEntry(entry ContestEntry) {
	b.channel(core.ChannelLeaderboard, NameContestNewEntry, ContestPayload{
		Entry:     entry,
		Timestamp: b.now(),
	})
}

// ContestEntryUpdate delivers an updated tally to the contest's room.
func (b *Broadcaster) ContestEntryUpdate(entry ContestEntry) {
	b.room(core.ContestRoom(entry.ContestID), NameContestEntryUpdate, ContestPayload{
		Entry:     entry,
		Timestamp: b.now(),
	})
}

// AchievementEarned is the canonical dual delivery: the earner gets
// achievement:earned, the TV room gets achievement:celebration.
func (b *Broadcaster) AchievementEarned(userID int64, userName string, a Achievement) {
	payload := AchievementPayload{
		UserID:      userID,
		UserName:    userName,
		Achievement: a,
		Timestamp:   b.now(),
	}
	b.user(userID, NameAchievementEarned, payload)
	b.room(core.RoomTV, NameAchievementCelebration, payload)
}

// AchievementUnlocked privately notifies the user a badge is now available.
func (b *Broadcaster) AchievementUnlocked(userID int64, a Achievement) {
	b.user(userID, NameAchievementUnlocked, AchievementPayload{
		UserID:      userID,
		Achievement: a,
		Timestamp:   b.now(),
	})
}

// AchievementShowcase parades a badge on the whole leaderboard channel.
func (b *Broadcaster) AchievementShowcase(userID int64, userName string, a Achievement) {
	b.channel(core.ChannelLeaderboard, NameAchievementShowcase, AchievementPayload{
		UserID:      userID,
		UserName:    userName,
		Achievement: a,
		Timestamp:   b.now(),
	})
}

// LeaderboardRefresh asks every leaderboard viewer to re-pull standings.
func (b *Broadcaster) LeaderboardRefresh() {
	b.channel(core.ChannelLeaderboard, NameLeaderboardRefresh, struct {
		Timestamp time.Time `json:"timestamp"`
	}{b.now()})
}

// TVUpdate pushes an arbitrary celebration frame to the display room.
func (b *Broadcaster) TVUpdate(kind string, data any) {
	b.room(core.RoomTV, NameTVUpdate, TVPayload{
		Kind:      kind,
		Data:      data,
		Timestamp: b.now(),
	})
}

// XPGained reports experience to the earning user only.
func (b *Broadcaster) XPGained(userID int64, amount, totalXP int) {
	b.user(userID, NameXPGained, XPPayload{
		UserID:    userID,
		Amount:    amount,
		TotalXP:   totalXP,
		Timestamp: b.now(),
	})
}

// LevelUp notifies the user and celebrates the new level publicly.
func (b *Broadcaster) LevelUp(userID int64, userName string, level int) {
	payload := LevelPayload{
		UserID:    userID,
		UserName:  userName,
		Level:     level,
		Timestamp: b.now(),
	}
	b.user(userID, NameLevelUp, payload)
	b.channel(core.ChannelLeaderboard, NameLevelCelebration, payload)
}

// StreakUpdate reports the user's current streak privately.
func (b *Broadcaster) StreakUpdate(userID int64, days int) {
	b.user(userID, NameStreakUpdate, StreakPayload{
		UserID:    userID,
		Days:      days,
		Timestamp: b.now(),
	})
}

// StreakMilestone celebrates a streak milestone on the leaderboard channel.
func (b *Broadcaster) StreakMilestone(userID int64, userName string, days int) {
	b.channel(core.ChannelLeaderboard, NameStreakMilestone, StreakPayload{
		UserID:    userID,
		UserName:  userName,
		Days:      days,
		Timestamp: b.now(),
	})
}

// RoleplayTyping signals the assistant is composing a reply.
func (b *Broadcaster) RoleplayTyping(sessionID string) {
	b.room(core.SessionRoom(sessionID), NameRoleplayTyping, RoleplaySignalPayload{
		SessionID: sessionID,
		Timestamp: b.now(),
	})
}

// RoleplayMessageReceived acknowledges an inbound roleplay message.
func (b *Broadcaster) RoleplayMessageReceived(sessionID string) {
	b.room(core.SessionRoom(sessionID), NameRoleplayReceived, RoleplaySignalPayload{
		SessionID: sessionID,
		Timestamp: b.now(),
	})
}

// RoleplayResponse delivers the assistant reply to the session room.
func (b *Broadcaster) RoleplayResponse(payload RoleplayResponsePayload) {
	payload.Timestamp = b.now()
	b.room(core.SessionRoom(payload.SessionID), NameRoleplayResponse, payload)
}

// ProgressUpdate shares module progress with everyone watching the module.
func (b *Broadcaster) ProgressUpdate(moduleID string, userID int64, percent int) {
	b.room(core.ModuleRoom(moduleID), NameProgressUpdate, ProgressPayload{
		UserID:    userID,
		ModuleID:  moduleID,
		Percent:   percent,
		Timestamp: b.now(),
	})
}

// ProgressChanged tells the user their own progress record moved.
func (b *Broadcaster) ProgressChanged(userID int64, moduleID string, percent int) {
	b.user(userID, NameProgressChanged, ProgressPayload{
		UserID:    userID,
		ModuleID:  moduleID,
		Percent:   percent,
		Timestamp: b.now(),
	})
}

// QuizCompleted notifies the user their quiz was scored.
func (b *Broadcaster) QuizCompleted(userID int64, quizID string, score int) {
	b.user(userID, NameQuizCompleted, QuizPayload{
		UserID:    userID,
		QuizID:    quizID,
		Score:     score,
		Timestamp: b.now(),
	})
}

// ModuleUpdate announces new content to the module's room.
func (b *Broadcaster) ModuleUpdate(moduleID, title string) {
	b.room(core.ModuleRoom(moduleID), NameModuleUpdate, ModulePayload{
		ModuleID:  moduleID,
		Title:     title,
		Timestamp: b.now(),
	})
}

func (b *Broadcaster) room(room, name string, data any) {
	b.log.Debug().Str("room", room).Str("event", name).Msg("broadcast")
	b.router.EmitRoom(room, core.DataEvent(name, data))
}

func (b *Broadcaster) channel(channel, name string, data any) {
	b.log.Debug().Str("channel", channel).Str("event", name).Msg("broadcast")
	b.router.EmitChannel(channel, core.DataEvent(name, data))
}

func (b *Broadcaster) user(userID int64, name string, data any) {
	b.log.Debug().Int64("user_id", userID).Str("event", name).Msg("broadcast")
	b.router.EmitUser(userID, core.DataEvent(name, data))
}
