package agentlog_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/logestic/risklake/pkg/duck"
	"github.com/logestic/risklake/pkg/warehouse/agentlog"
)

func TestWarehouse_AgentLog_Store(t *testing.T) {
	t.Parallel()

	log := slog.Default()

	t.Run("config validation", func(t *testing.T) {
		t.Parallel()

		_, err := agentlog.NewStore(agentlog.StoreConfig{DB: duck.TestDB(t)})
		require.ErrorContains(t, err, "logger is required")

		_, err = agentlog.NewStore(agentlog.StoreConfig{Logger: log})
		require.ErrorContains(t, err, "db is required")
	})

	t.Run("insert event fills identifiers and timestamps", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
		store := newTestStore(t, log, clockwork.NewFakeClockAt(now))
		ctx := context.Background()

		stored, err := store.InsertEvent(ctx, agentlog.Event{
			SessionID: "session-1",
			AgentName: "risk-agent",
			UserQuery: "What is delayed?",
		})
		require.NoError(t, err)
		require.NotEmpty(t, stored.LogID)
		require.NotEmpty(t, stored.EventID)
		require.NotEmpty(t, stored.ConversationID)
		require.Equal(t, now, stored.EventTime)
		require.Equal(t, now, stored.CreatedDate)

		_, err = store.InsertEvent(ctx, agentlog.Event{})
		require.ErrorContains(t, err, "session id is required")
	})

	t.Run("insert thinking truncates oversized fields", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log, nil)
		ctx := context.Background()

		long := strings.Repeat("x", 60000)
		stored, err := store.InsertThinking(ctx, agentlog.Thinking{
			SessionID:      "session-1",
			ThinkingStage:  "analysis",
			ThoughtContent: long,
		})
		require.NoError(t, err)
		require.Len(t, stored.ThoughtContent, 50000+len("... [TRUNCATED]"))
		require.True(t, strings.HasSuffix(stored.ThoughtContent, "... [TRUNCATED]"))

		short := "fits as is"
		stored, err = store.InsertThinking(ctx, agentlog.Thinking{
			SessionID:      "session-1",
			ThoughtContent: short,
		})
		require.NoError(t, err)
		require.Equal(t, short, stored.ThoughtContent)
	})

	t.Run("conversation history is ordered by event time", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log, nil)
		ctx := context.Background()

		base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
		for i, q := range []string{"first", "second", "third"} {
			_, err := store.InsertEvent(ctx, agentlog.Event{
				SessionID:      "session-1",
				ConversationID: "conv-1",
				UserQuery:      q,
				EventTime:      base.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}
		// Another conversation must not leak in.
		_, err := store.InsertEvent(ctx, agentlog.Event{
			SessionID:      "session-2",
			ConversationID: "conv-2",
			UserQuery:      "other",
			EventTime:      base,
		})
		require.NoError(t, err)

		events, err := store.ConversationHistory(ctx, "conv-1")
		require.NoError(t, err)
		require.Len(t, events, 3)
		require.Equal(t, "first", events[0].UserQuery)
		require.Equal(t, "third", events[2].UserQuery)

		events, err = store.SessionEvents(ctx, "session-2")
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "other", events[0].UserQuery)
	})

	t.Run("list reports newest first", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log, nil)
		ctx := context.Background()

		base := time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC)
		for i, name := range []string{"old.pdf", "mid.pdf", "new.pdf"} {
			_, err := store.InsertReport(ctx, agentlog.Report{
				SessionID:   "session-1",
				Filename:    name,
				CreatedDate: base.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
		}

		reports, err := store.ListReports(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 3)
		require.Equal(t, "new.pdf", reports[0].Filename)
		require.Equal(t, "old.pdf", reports[2].Filename)
	})

	t.Run("database errors are propagated", func(t *testing.T) {
		t.Parallel()

		store, err := agentlog.NewStore(agentlog.StoreConfig{
			Logger: log,
			DB:     &duck.FailingDB{},
		})
		require.NoError(t, err)

		_, err = store.InsertEvent(context.Background(), agentlog.Event{SessionID: "s"})
		require.Error(t, err)
	})
}

func newTestStore(t *testing.T, log *slog.Logger, clock clockwork.Clock) *agentlog.Store {
	t.Helper()

	store, err := agentlog.NewStore(agentlog.StoreConfig{
		Logger: log,
		Clock:  clock,
		DB:     duck.TestDB(t),
	})
	require.NoError(t, err)
	require.NoError(t, store.CreateTablesIfNotExists(context.Background()))
	return store
}
