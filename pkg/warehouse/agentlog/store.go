package agentlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/logestic/risklake/pkg/duck"
)

// maxTextFieldLen caps oversized text fields before insert. Anything longer
// is cut and marked so downstream consumers can tell a row was shortened.
const (
	maxTextFieldLen  = 50000
	truncationMarker = "... [TRUNCATED]"
)

type StoreConfig struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	DB     duck.DB
}

func (c *StoreConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.DB == nil {
		return errors.New("db is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Store owns the agent log tables: turn events, intermediate thinking stages
// and generated report artifacts.
type Store struct {
	log   *slog.Logger
	clock clockwork.Clock
	db    duck.DB
}

func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}
	return &Store{
		log:   cfg.Logger,
		clock: cfg.Clock,
		db:    cfg.DB,
	}, nil
}

func (s *Store) CreateTablesIfNotExists(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	for _, table := range Schema.Tables {
		if _, err := conn.ExecContext(ctx, table.CreateSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
	}
	return nil
}

type Event struct {
	LogID          string
	EventID        string
	AgentName      string
	EventTime      time.Time
	Action         string
	ResultSummary  string
	UserQuery      string
	AgentOutput    string
	ConversationID string
	SessionID      string
	CreatedDate    time.Time
}

type Thinking struct {
	LogID               string
	AgentName           string
	ThinkingStage       string
	ThoughtContent      string
	ThinkingStageOutput string
	AgentOutput         string
	ConversationID      string
	SessionID           string
	ModelDeploymentName string
	ThreadID            string
	UserQuery           string
	Status              string
	CreatedDate         time.Time
}

type Report struct {
	ReportID       string
	SessionID      string
	ConversationID string
	Filename       string
	BlobURL        string
	ReportType     string
	CreatedDate    time.Time
}

// InsertEvent writes one agent turn. Missing identifiers and timestamps are
// filled in; the stored row is returned.
func (s *Store) InsertEvent(ctx context.Context, e Event) (Event, error) {
	if e.SessionID == "" {
		return Event{}, errors.New("session id is required")
	}
	if e.LogID == "" {
		e.LogID = uuid.NewString()
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.ConversationID == "" {
		e.ConversationID = uuid.NewString()
	}
	if e.EventTime.IsZero() {
		e.EventTime = s.clock.Now().UTC()
	}
	if e.CreatedDate.IsZero() {
		e.CreatedDate = s.clock.Now().UTC()
	}
	e.ResultSummary = truncate(e.ResultSummary)
	e.AgentOutput = truncate(e.AgentOutput)

	err := s.exec(ctx, `
		INSERT INTO dim_agent_event_log (log_id, event_id, agent_name, event_time, action, result_summary, user_query, agent_output, conversation_id, session_id, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.LogID, e.EventID, e.AgentName, e.EventTime, e.Action, e.ResultSummary,
		nullable(e.UserQuery), e.AgentOutput, e.ConversationID, e.SessionID, e.CreatedDate)
	if err != nil {
		return Event{}, fmt.Errorf("failed to insert event log: %w", err)
	}
	return e, nil
}

// InsertThinking writes one reasoning stage. Text fields longer than the cap
// are shortened with a truncation marker.
func (s *Store) InsertThinking(ctx context.Context, th Thinking) (Thinking, error) {
	if th.SessionID == "" {
		return Thinking{}, errors.New("session id is required")
	}
	if th.LogID == "" {
		th.LogID = uuid.NewString()
	}
	if th.CreatedDate.IsZero() {
		th.CreatedDate = s.clock.Now().UTC()
	}
	th.ThoughtContent = truncate(th.ThoughtContent)
	th.ThinkingStageOutput = truncate(th.ThinkingStageOutput)
	th.AgentOutput = truncate(th.AgentOutput)

	err := s.exec(ctx, `
		INSERT INTO dim_agent_thinking_log (log_id, agent_name, thinking_stage, thought_content, thinking_stage_output, agent_output, conversation_id, session_id, model_deployment_name, thread_id, user_query, status, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, th.LogID, th.AgentName, th.ThinkingStage, th.ThoughtContent, th.ThinkingStageOutput,
		th.AgentOutput, th.ConversationID, th.SessionID, th.ModelDeploymentName,
		th.ThreadID, nullable(th.UserQuery), th.Status, th.CreatedDate)
	if err != nil {
		return Thinking{}, fmt.Errorf("failed to insert thinking log: %w", err)
	}
	return th, nil
}

func (s *Store) InsertReport(ctx context.Context, r Report) (Report, error) {
	if r.SessionID == "" {
		return Report{}, errors.New("session id is required")
	}
	if r.ReportID == "" {
		r.ReportID = uuid.NewString()
	}
	if r.CreatedDate.IsZero() {
		r.CreatedDate = s.clock.Now().UTC()
	}

	err := s.exec(ctx, `
		INSERT INTO fact_risk_report (report_id, session_id, conversation_id, filename, blob_url, report_type, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ReportID, r.SessionID, r.ConversationID, r.Filename, r.BlobURL, r.ReportType, r.CreatedDate)
	if err != nil {
		return Report{}, fmt.Errorf("failed to insert risk report: %w", err)
	}
	return r, nil
}

// ConversationHistory returns all events of one conversation in the order
// they happened.
func (s *Store) ConversationHistory(ctx context.Context, conversationID string) ([]Event, error) {
	return s.queryEvents(ctx, `
		SELECT log_id, event_id, agent_name, event_time, action, result_summary, user_query, agent_output, conversation_id, session_id, created_date
		FROM dim_agent_event_log
		WHERE conversation_id = ?
		ORDER BY event_time ASC, log_id ASC
	`, conversationID)
}

// SessionEvents returns all events of one session in the order they happened.
func (s *Store) SessionEvents(ctx context.Context, sessionID string) ([]Event, error) {
	return s.queryEvents(ctx, `
		SELECT log_id, event_id, agent_name, event_time, action, result_summary, user_query, agent_output, conversation_id, session_id, created_date
		FROM dim_agent_event_log
		WHERE session_id = ?
		ORDER BY event_time ASC, log_id ASC
	`, sessionID)
}

// ListReports returns generated reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]Report, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT report_id, session_id, conversation_id, filename, blob_url, report_type, created_date
		FROM fact_risk_report
		ORDER BY created_date DESC, report_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ReportID, &r.SessionID, &r.ConversationID, &r.Filename, &r.BlobURL, &r.ReportType, &r.CreatedDate); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}
	return reports, nil
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event logs: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e         Event
			userQuery sql.NullString
		)
		if err := rows.Scan(&e.LogID, &e.EventID, &e.AgentName, &e.EventTime, &e.Action, &e.ResultSummary,
			&userQuery, &e.AgentOutput, &e.ConversationID, &e.SessionID, &e.CreatedDate); err != nil {
			return nil, fmt.Errorf("failed to scan event log row: %w", err)
		}
		e.UserQuery = userQuery.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event log rows: %w", err)
	}
	return events, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	return duck.RetryWithBackoff(ctx, s.log, "agentlog insert", func() error {
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to execute insert: %w", err)
		}
		return nil
	})
}

func truncate(s string) string {
	if len(s) <= maxTextFieldLen {
		return s
	}
	return s[:maxTextFieldLen] + truncationMarker
}

// nullable maps an empty string to SQL NULL. User queries are absent on
// system turns and the readers filter on NULL, not on empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
