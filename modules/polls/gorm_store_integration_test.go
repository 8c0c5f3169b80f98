//go:build integration

package polls

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("ballot"),
		tcpostgres.WithUsername("ballot"),
		tcpostgres.WithPassword("ballot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	require.NoError(t, err)

	store, err := NewGormStore(db)
	require.NoError(t, err)
	return store
}

func TestGormStore(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	t.Run("Round trips a poll with votes", func(t *testing.T) {
		poll := newTestPoll(false, "A", "B", "C")
		poll.Id = "round-trip"
		for k := range poll.Options {
			poll.Options[k].Id = poll.Id + "-" + poll.Options[k].Text
		}
		_, err := store.Save(ctx, poll)
		require.NoError(t, err)

		_, err = SubmitVote(poll, Ballot{OptionId: poll.Options[2].Id, VoterId: "u1", VoterName: "One"}, testNow)
		require.NoError(t, err)
		_, err = store.Save(ctx, poll)
		require.NoError(t, err)

		stored, err := store.Get(ctx, poll.Id)
		require.NoError(t, err)
		assert.Equal(t, "Q?", stored.Question)
		require.Len(t, stored.Options, 3)
		assert.Equal(t, "A", stored.Options[0].Text)
		assert.Equal(t, "C", stored.Options[2].Text)
		require.Len(t, stored.Votes, 1)
		assert.Equal(t, "One", stored.Votes[0].UserName)
	})

	t.Run("Removed votes are deleted", func(t *testing.T) {
		poll, err := store.Get(ctx, "round-trip")
		require.NoError(t, err)

		outcome, err := SubmitVote(poll, Ballot{OptionId: poll.Options[0].Id, VoterId: "u1", VoterName: "One"}, testNow)
		require.NoError(t, err)
		assert.Equal(t, Replaced, outcome)
		_, err = store.Save(ctx, poll)
		require.NoError(t, err)

		stored, err := store.Get(ctx, poll.Id)
		require.NoError(t, err)
		require.Len(t, stored.Votes, 1)
		assert.Equal(t, poll.Options[0].Id, stored.Votes[0].OptionId)

		outcome, err = SubmitVote(stored, Ballot{OptionId: poll.Options[0].Id, VoterId: "u1"}, testNow)
		require.NoError(t, err)
		assert.Equal(t, Removed, outcome)
		_, err = store.Save(ctx, stored)
		require.NoError(t, err)

		stored, err = store.Get(ctx, poll.Id)
		require.NoError(t, err)
		assert.Empty(t, stored.Votes)
	})

	t.Run("Lists expired open polls", func(t *testing.T) {
		past := testNow.Add(-time.Minute)
		future := testNow.Add(time.Hour)
		for id, deadline := range map[string]*time.Time{"expired": &past, "pending": &future, "forever": nil} {
			poll := newTestPoll(false, "A", "B")
			poll.Id = id
			for k := range poll.Options {
				poll.Options[k].Id = id + "-" + poll.Options[k].Text
			}
			poll.Deadline = deadline
			_, err := store.Save(ctx, poll)
			require.NoError(t, err)
		}

		expired, err := store.ListExpiredOpen(ctx, testNow)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, "expired", expired[0].Id)
		assert.Len(t, expired[0].Options, 2)

		expired[0].Closed = true
		_, err = store.Save(ctx, expired[0])
		require.NoError(t, err)

		expired, err = store.ListExpiredOpen(ctx, testNow)
		require.NoError(t, err)
		assert.Empty(t, expired)
	})

	t.Run("Delete cascades", func(t *testing.T) {
		deleted, err := store.Delete(ctx, "round-trip")
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = store.Get(ctx, "round-trip")
		assert.ErrorIs(t, err, ErrNotFound)

		deleted, err = store.Delete(ctx, "round-trip")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("Service on postgres", func(t *testing.T) {
		s := NewService(store, nil, WithClock(&fakeClock{now: testNow}))
		poll := createTestPoll(t, s, CreateRequest{})

		_, _, err := s.Vote(ctx, VoteRequest{PollId: poll.Id, OptionId: poll.Options[1].Id, VoterId: "u1"})
		require.NoError(t, err)
		_, err = s.Close(ctx, CloseRequest{PollId: poll.Id, RequesterId: "creator"})
		require.NoError(t, err)

		results, err := s.Results(ctx, ResultsRequest{PollId: poll.Id, RequesterId: "anyone"})
		require.NoError(t, err)
		assert.Equal(t, "B", results.Options[0].Text)
	})
}
