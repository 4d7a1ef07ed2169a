package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/events"
	"github.com/floorcast/floorcast-server/internal/store"
)

// xpPerLevel is how much total XP advances one level.
const xpPerLevel = 1000

// streakMilestoneEvery marks which streak lengths get a public celebration.
const streakMilestoneEvery = 5

// Service maintains each user's XP, level and streak counters and emits the
// progression events that accompany a change.
type Service struct {
	store  store.ProgressStore
	events *events.Broadcaster
	log    *zerolog.Logger
	now    func() time.Time
}

// NewService builds the progression service.
func NewService(st store.ProgressStore, broadcaster *events.Broadcaster, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{store: st, events: broadcaster, log: logger, now: time.Now}
}

// Level computes the level a total XP amount corresponds to.
func Level(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return 1 + totalXP/xpPerLevel
}

// Award credits XP to the user, advances their level and daily streak, and
// emits xp:gained plus any level/streak events that follow from the change.
func (s *Service) Award(ctx context.Context, userID int64, xp int) (*store.Progress, error) {
	if xp <= 0 {
		return nil, fmt.Errorf("xp must be positive, got %d", xp)
	}

	p, err := s.store.GetProgress(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		p = &store.Progress{UserID: userID, Level: 1}
	} else if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	now := s.now()
	previousLevel := p.Level
	previousStreak := p.Streak

	p.TotalXP += xp
	p.Level = Level(p.TotalXP)
	p.Streak = nextStreak(p.Streak, p.UpdatedAt, now)
	p.UpdatedAt = now

	if err := s.store.UpsertProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	s.events.XPGained(userID, xp, p.TotalXP)
	if p.Level > previousLevel {
		s.events.LevelUp(userID, "", p.Level)
	}
	if p.Streak != previousStreak {
		s.events.StreakUpdate(userID, p.Streak)
		if p.Streak > 0 && p.Streak%streakMilestoneEvery == 0 {
			s.events.StreakMilestone(userID, "", p.Streak)
		}
	}

	s.log.Debug().Int64("user_id", userID).Int("xp", xp).Int("level", p.Level).
		Int("streak", p.Streak).Msg("progress awarded")
	return p, nil
}

// nextStreak advances the daily streak: same-day activity keeps it, next-day
// activity extends it, a longer gap restarts at one.
func nextStreak(current int, last, now time.Time) int {
	if last.IsZero() || current == 0 {
		return 1
	}
	lastDay := last.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)
	switch int(today.Sub(lastDay).Hours() / 24) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}
