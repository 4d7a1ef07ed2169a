package events

import "time"

// Outbound event names, always <domain>:<action>.
const (
	NameRankingsUpdate         = "rankings:update"
	NameRankChanged            = "rank:changed"
	NameContestNewEntry        = "contest:new-entry"
	NameContestEntryUpdate     = "contest:entry-update"
	NameAchievementEarned      = "achievement:earned"
	NameAchievementCelebration = "achievement:celebration"
	NameLeaderboardRefresh     = "leaderboard:refresh"
	NameTVUpdate               = "tv:update"
	NameXPGained               = "xp:gained"
	NameLevelUp                = "level:up"
	NameLevelCelebration       = "level:celebration"
	NameStreakUpdate           = "streak:update"
	NameStreakMilestone        = "streak:milestone"
	NameAchievementUnlocked    = "achievement:unlocked"
	NameAchievementShowcase    = "achievement:showcase"
	NameRoleplayResponse       = "roleplay:response"
	NameRoleplayTyping         = "roleplay:typing"
	NameRoleplayReceived       = "roleplay:message-received"
	NameProgressUpdate         = "progress:update"
	NameProgressChanged        = "progress:changed"
	NameQuizCompleted          = "quiz:completed"
	NameModuleUpdate           = "module:update"
)

// RankingEntry is one row of a leaderboard standing.
type RankingEntry struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Rank   int    `json:"rank"`
	Points int    `json:"points"`
}

// RankingsPayload refreshes the full standings on the leaderboard channel.
type RankingsPayload struct {
	Standings []RankingEntry `json:"standings"`
	Timestamp time.Time      `json:"timestamp"`
}

// RankChangePayload notifies one user that their rank moved.
type RankChangePayload struct {
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	PreviousRank int       `json:"previous_rank"`
	NewRank      int       `json:"new_rank"`
	Timestamp    time.Time `json:"timestamp"`
}

// ContestEntry is a single contest submission or its updated tally.
type ContestEntry struct {
	ContestID int64  `json:"contest_id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Value     int    `json:"value"`
}

// ContestPayload wraps a contest entry event.
type ContestPayload struct {
	Entry     ContestEntry `json:"entry"`
	Timestamp time.Time    `json:"timestamp"`
}

// Achievement describes an earned badge.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AchievementPayload carries an achievement event for a user.
type AchievementPayload struct {
	UserID      int64       `json:"user_id"`
	UserName    string      `json:"user_name,omitempty"`
	Achievement Achievement `json:"achievement"`
	Timestamp   time.Time   `json:"timestamp"`
}

// XPPayload reports experience gained by one user.
type XPPayload struct {
	UserID    int64     `json:"user_id"`
	Amount    int       `json:"amount"`
	TotalXP   int       `json:"total_xp"`
	Timestamp time.Time `json:"timestamp"`
}

// LevelPayload reports a level change.
type LevelPayload struct {
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Level     int       `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// StreakPayload reports a streak counter.
type StreakPayload struct {
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Days      int       `json:"days"`
	Timestamp time.Time `json:"timestamp"`
}

// TVPayload is a public celebration frame for the display room.
type TVPayload struct {
	Kind      string    `json:"kind"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RoleplayResponsePayload is the asynchronous reply to a roleplay message.
type RoleplayResponsePayload struct {
	SessionID    string    `json:"session_id"`
	Message      string    `json:"message"`
	Feedback     []string  `json:"feedback,omitempty"`
	MistakeCount int       `json:"mistake_count"`
	SessionEnded bool      `json:"session_ended"`
	DoorSlammed  bool      `json:"door_slammed"`
	FinalScore   *int      `json:"final_score,omitempty"`
	XPAwarded    *int      `json:"xp_awarded,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoleplaySignalPayload covers typing and message-received signals.
type RoleplaySignalPayload struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressPayload reports training progress for a user within a module.
type ProgressPayload struct {
	UserID    int64     `json:"user_id"`
	ModuleID  string    `json:"module_id"`
	Percent   int       `json:"percent"`
	Timestamp time.Time `json:"timestamp"`
}

// QuizPayload reports a completed quiz.
type QuizPayload struct {
	UserID    int64     `json:"user_id"`
	QuizID    string    `json:"quiz_id"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// ModulePayload carries a content update for a training module.
type ModulePayload struct {
	ModuleID  string    `json:"module_id"`
	Title     string    `json:"title,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
