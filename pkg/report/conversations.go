package report

import (
	"context"
	"fmt"
	"time"
)

// DefaultConversationLimit applies when RecentConversations is called with a
// zero limit.
const DefaultConversationLimit = 10

// ConversationSummary is one distinct conversation with its last activity.
//
// FirstQuery carries the latest non-null user query of the conversation, not
// the chronologically first one. The upstream consumers depend on that
// behavior under this field name, so it is kept as is.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	SessionID      string    `json:"session_id"`
	FirstQuery     string    `json:"first_query"`
	LastEventTime  time.Time `json:"last_event_time"`
}

const recentConversationsSQL = `
	SELECT conversation_id, session_id, user_query, event_time
	FROM (
		SELECT
			conversation_id, session_id, user_query, event_time,
			ROW_NUMBER() OVER (
				PARTITION BY conversation_id
				ORDER BY event_time DESC, log_id DESC
			) AS rn
		FROM dim_agent_event_log
		WHERE user_query IS NOT NULL
	)
	WHERE rn = 1
	ORDER BY event_time DESC
	LIMIT ?
`

// RecentConversations returns up to limit distinct conversations, newest
// first by their latest queried event. A zero limit means
// DefaultConversationLimit; a negative limit is an error.
func (e *Engine) RecentConversations(ctx context.Context, limit int) ([]ConversationSummary, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if limit == 0 {
		limit = DefaultConversationLimit
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, recentConversationsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationSummary
	for rows.Next() {
		var c ConversationSummary
		if err := rows.Scan(&c.ConversationID, &c.SessionID, &c.FirstQuery, &c.LastEventTime); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	return out, nil
}
