package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/logestic/risklake/pkg/warehouse/agentlog"
)

func TestReport_RecentConversations(t *testing.T) {
	t.Parallel()

	insertEvent := func(t *testing.T, f *fixture, conversationID, query string, at time.Time) {
		t.Helper()
		_, err := f.logs.InsertEvent(context.Background(), agentlog.Event{
			SessionID:      "sess-" + conversationID,
			ConversationID: conversationID,
			UserQuery:      query,
			EventTime:      at,
		})
		require.NoError(t, err)
	}

	t.Run("limit and descending order", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		base := f.createdAt

		insertEvent(t, f, "conv-1", "oldest", base)
		insertEvent(t, f, "conv-2", "middle", base.Add(time.Hour))
		insertEvent(t, f, "conv-3", "newest", base.Add(2*time.Hour))

		conversations, err := f.engine.RecentConversations(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, conversations, 2)
		require.Equal(t, "conv-3", conversations[0].ConversationID)
		require.Equal(t, "conv-2", conversations[1].ConversationID)
	})

	t.Run("first query carries the latest non-null query", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		base := f.createdAt

		insertEvent(t, f, "conv-1", "earliest question", base)
		insertEvent(t, f, "conv-1", "followup question", base.Add(time.Minute))
		// A system turn without a query must not shadow the followup.
		_, err := f.logs.InsertEvent(context.Background(), agentlog.Event{
			SessionID:      "sess-conv-1",
			ConversationID: "conv-1",
			Action:         "Report Generated",
			EventTime:      base.Add(2 * time.Minute),
		})
		require.NoError(t, err)

		conversations, err := f.engine.RecentConversations(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, conversations, 1)
		require.Equal(t, "followup question", conversations[0].FirstQuery)
		require.Equal(t, base.Add(time.Minute), conversations[0].LastEventTime)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		base := f.createdAt
		for i := 0; i < 12; i++ {
			insertEvent(t, f, string(rune('a'+i)), "q", base.Add(time.Duration(i)*time.Minute))
		}

		conversations, err := f.engine.RecentConversations(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, conversations, 10)
	})

	t.Run("negative limit is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.engine.RecentConversations(context.Background(), -1)
		require.ErrorContains(t, err, "limit must be positive")
	})

	t.Run("no queried conversations yields empty result", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		conversations, err := f.engine.RecentConversations(context.Background(), 5)
		require.NoError(t, err)
		require.Empty(t, conversations)
	})
}
