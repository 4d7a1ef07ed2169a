package progression

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/events"
	"github.com/floorcast/floorcast-server/internal/store"
)

type memProgress struct {
	mu      sync.Mutex
	records map[int64]store.Progress
}

func (m *memProgress) GetProgress(_ context.Context, userID int64) (*store.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := p
	return &out, nil
}

func (m *memProgress) UpsertProgress(_ context.Context, p *store.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[p.UserID] = *p
	return nil
}

type serviceFixture struct {
	svc  *Service
	user *core.Client
	fans *core.Client
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	reg := core.NewRegistry()
	rt := core.NewRouter(reg)

	user := core.NewClient("user", core.ChannelNotifications)
	reg.Register(user)
	require.NoError(t, reg.AttachUser(user, 7))

	fans := core.NewClient("fans", core.ChannelLeaderboard)
	reg.Register(fans)

	svc := NewService(&memProgress{records: make(map[int64]store.Progress)},
		events.NewBroadcaster(rt, nil), nil)
	return &serviceFixture{svc: svc, user: user, fans: fans}
}

func eventNames(c *core.Client) []string {
	var out []string
	for {
		select {
		case ev := <-c.Events:
			out = append(out, ev.Name)
		default:
			return out
		}
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		totalXP int
		want    int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1001, 2},
		{2500, 3},
		{-50, 1},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Level(tc.totalXP), "totalXP=%d", tc.totalXP)
	}
}

func TestAwardRejectsNonPositiveXP(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Award(context.Background(), 7, 0)
	assert.Error(t, err)
	_, err = f.svc.Award(context.Background(), 7, -5)
	assert.Error(t, err)
}

func TestFirstAwardStartsStreak(t *testing.T) {
	f := newServiceFixture(t)

	p, err := f.svc.Award(context.Background(), 7, 80)
	require.NoError(t, err)
	assert.Equal(t, 80, p.TotalXP)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 1, p.Streak)

	assert.Equal(t, []string{events.NameXPGained, events.NameStreakUpdate}, eventNames(f.user))
	assert.Empty(t, eventNames(f.fans), "no public event for a plain award")
}

func TestLevelUpAtBoundary(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Award(ctx, 7, 999)
	require.NoError(t, err)
	eventNames(f.user)
	eventNames(f.fans)

	p, err := f.svc.Award(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1000, p.TotalXP)
	assert.Equal(t, 2, p.Level)

	assert.Contains(t, eventNames(f.user), events.NameLevelUp)
	assert.Contains(t, eventNames(f.fans), events.NameLevelCelebration)
}

func TestDailyStreakProgression(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return day }

	p, err := f.svc.Award(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)

	// Later the same day: streak unchanged.
	f.svc.now = func() time.Time { return day.Add(8 * time.Hour) }
	p, err = f.svc.Award(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)

	// Four consecutive days reach the first milestone.
	for i := 1; i <= 4; i++ {
		next := day.AddDate(0, 0, i)
		f.svc.now = func() time.Time { return next }
		p, err = f.svc.Award(ctx, 7, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, p.Streak)
	assert.Contains(t, eventNames(f.fans), events.NameStreakMilestone)

	// A gap longer than one day restarts the streak.
	f.svc.now = func() time.Time { return day.AddDate(0, 0, 10) }
	p, err = f.svc.Award(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Streak)
}
