package achieve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/events"
)

type rulesFixture struct {
	rules *Rules
	user  *core.Client
	tv    *core.Client
	board *core.Client
}

func newRulesFixture(t *testing.T) *rulesFixture {
	t.Helper()
	reg := core.NewRegistry()
	rt := core.NewRouter(reg)

	user := core.NewClient("user", core.ChannelNotifications)
	reg.Register(user)
	require.NoError(t, reg.AttachUser(user, 7))

	tv := core.NewClient("tv", core.ChannelLeaderboard)
	reg.Register(tv)
	_, err := rt.Join(tv, core.RoomKindTV, "")
	require.NoError(t, err)

	board := core.NewClient("board", core.ChannelLeaderboard)
	reg.Register(board)

	return &rulesFixture{
		rules: NewRules(events.NewBroadcaster(rt, nil), nil),
		user:  user,
		tv:    tv,
		board: board,
	}
}

func received(c *core.Client) map[string]int {
	out := map[string]int{}
	for {
		select {
		case ev := <-c.Events:
			out[ev.Name]++
		default:
			return out
		}
	}
}

func TestBigCloserDualDelivery(t *testing.T) {
	f := newRulesFixture(t)

	err := f.rules.Evaluate(context.Background(), BusinessEvent{
		Kind: KindSalesFigure, UserID: 7, UserName: "Dana", Value: 12000,
	})
	require.NoError(t, err)

	userGot := received(f.user)
	assert.Equal(t, 1, userGot[events.NameAchievementEarned])

	tvGot := received(f.tv)
	assert.Equal(t, 1, tvGot[events.NameAchievementCelebration])

	boardGot := received(f.board)
	assert.Equal(t, 1, boardGot[events.NameAchievementShowcase])
}

func TestBelowThresholdIsNoOp(t *testing.T) {
	f := newRulesFixture(t)
	ctx := context.Background()

	below := []BusinessEvent{
		{Kind: KindSalesFigure, UserID: 7, Value: 9999},
		{Kind: KindSignups, UserID: 7, Value: 99},
		{Kind: KindStreak, UserID: 7, Value: 29},
		{Kind: KindRankChange, UserID: 7, Value: 4},
		{Kind: KindRankChange, UserID: 7, Value: 0},
		{Kind: KindTrainingMilestone, UserID: 7, Value: 89},
		{Kind: "unknown", UserID: 7, Value: 1e9},
	}
	for _, ev := range below {
		require.NoError(t, f.rules.Evaluate(ctx, ev))
	}

	assert.Empty(t, received(f.user))
	assert.Empty(t, received(f.tv))
	assert.Empty(t, received(f.board))
}

func TestTrainingMilestoneSkipsShowcase(t *testing.T) {
	f := newRulesFixture(t)

	err := f.rules.Evaluate(context.Background(), BusinessEvent{
		Kind: KindTrainingMilestone, UserID: 7, Value: 95,
	})
	require.NoError(t, err)

	userGot := received(f.user)
	assert.Equal(t, 1, userGot[events.NameAchievementEarned])

	// Training wins stay off the public ticker.
	assert.Zero(t, received(f.board)[events.NameAchievementShowcase])

	// The TV celebration still fires as part of the earned delivery.
	assert.Equal(t, 1, received(f.tv)[events.NameAchievementCelebration])
}

func TestThresholdAchievements(t *testing.T) {
	cases := []struct {
		name  string
		ev    BusinessEvent
		badge string
	}{
		{"rainmaker", BusinessEvent{Kind: KindSignups, UserID: 7, Value: 100}, "rainmaker"},
		{"iron streak", BusinessEvent{Kind: KindStreak, UserID: 7, Value: 30}, "iron-streak"},
		{"podium finish", BusinessEvent{Kind: KindRankChange, UserID: 7, Value: 3}, "podium-finish"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRulesFixture(t)
			require.NoError(t, f.rules.Evaluate(context.Background(), tc.ev))

			select {
			case ev := <-f.user.Events:
				require.Equal(t, events.NameAchievementEarned, ev.Name)
				payload := ev.Data.(events.AchievementPayload)
				assert.Equal(t, tc.badge, payload.Achievement.ID)
			default:
				t.Fatal("expected an achievement:earned event")
			}
		})
	}
}
