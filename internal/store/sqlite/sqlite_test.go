package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorcast/floorcast-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(id string, userID int64, created time.Time) *store.Session {
	return &store.Session{
		ID:         id,
		UserID:     userID,
		ScenarioID: "cold-call-intro",
		Difficulty: "intro",
		Transcript: []store.SessionMessage{
			{Role: store.RoleSystem, Text: "Scenario started: Cold Call Intro", CreatedAt: created},
		},
		Score:     50,
		Status:    store.SessionActive,
		CreatedAt: created,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	sess := sampleSession("s-1", 7, created)
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "cold-call-intro", got.ScenarioID)
	assert.Equal(t, store.SessionActive, got.Status)
	assert.Equal(t, 50, got.Score)
	assert.Nil(t, got.CompletedAt)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, store.RoleSystem, got.Transcript[0].Role)
}

func TestUpdateSessionPersistsEndedState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	sess := sampleSession("s-1", 7, created)
	require.NoError(t, s.CreateSession(ctx, sess))

	completed := created.Add(10 * time.Minute)
	sess.Transcript = append(sess.Transcript,
		store.SessionMessage{Role: store.RoleUser, Text: "score me", CreatedAt: completed},
		store.SessionMessage{Role: store.RoleAssistant, Text: "That's a wrap.", CreatedAt: completed},
	)
	sess.Score = 55
	sess.XPEarned = 44
	sess.Status = store.SessionEnded
	sess.CompletedAt = &completed
	require.NoError(t, s.UpdateSession(ctx, sess))

	got, err := s.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, store.SessionEnded, got.Status)
	assert.Equal(t, 55, got.Score)
	assert.Equal(t, 44, got.XPEarned)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, 1, got.UserMessageCount())
	require.Len(t, got.Transcript, 3)
	assert.Equal(t, "score me", got.Transcript[1].Text)
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateSessionNotFound(t *testing.T) {
	s := newTestStore(t)

	sess := sampleSession("ghost", 7, time.Now().UTC())
	assert.ErrorIs(t, s.UpdateSession(context.Background(), sess), store.ErrNotFound)
}

func TestListSessionsByUserNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateSession(ctx, sampleSession("old", 7, base)))
	require.NoError(t, s.CreateSession(ctx, sampleSession("new", 7, base.Add(time.Hour))))
	require.NoError(t, s.CreateSession(ctx, sampleSession("other", 8, base)))

	got, err := s.ListSessionsByUser(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)

	limited, err := s.ListSessionsByUser(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].ID)
}

func TestProgressUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetProgress(ctx, 7)
	assert.ErrorIs(t, err, store.ErrNotFound)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertProgress(ctx, &store.Progress{
		UserID: 7, TotalXP: 84, Level: 1, Streak: 1, UpdatedAt: now,
	}))

	p, err := s.GetProgress(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 84, p.TotalXP)
	assert.Equal(t, 1, p.Streak)

	require.NoError(t, s.UpsertProgress(ctx, &store.Progress{
		UserID: 7, TotalXP: 184, Level: 1, Streak: 2, UpdatedAt: now.Add(24 * time.Hour),
	}))

	p, err = s.GetProgress(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 184, p.TotalXP)
	assert.Equal(t, 2, p.Streak)
}
