package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/logestic/risklake/pkg/warehouse/agentlog"
)

// HeatmapFilter narrows the risk aggregation to one conversation and/or one
// session. Empty fields match everything.
type HeatmapFilter struct {
	ConversationID string
	SessionID      string
}

// RiskBreakdownEntry is one contributing risk record behind a per-country
// average.
type RiskBreakdownEntry struct {
	Country             string `json:"country"`
	Description         string `json:"description"`
	Summary             string `json:"summary"`
	Likelihood          int    `json:"likelihood"`
	LikelihoodReasoning string `json:"likelihood_reasoning"`
	PublicationDate     string `json:"publication_date"`
	Source              string `json:"source"`
	SourceURL           string `json:"source_url"`
}

// CountryRiskSummary is one per-country aggregation group.
type CountryRiskSummary struct {
	DatetimeStamp  string               `json:"datetime_stamp"`
	ConversationID string               `json:"conversation_id"`
	SessionID      string               `json:"session_id"`
	Country        string               `json:"country"`
	AverageRisk    int                  `json:"average_risk"`
	Breakdown      []RiskBreakdownEntry `json:"breakdown"`
}

// likelihoodValue tolerates absent, null and non-numeric likelihoods, all of
// which count as zero.
type likelihoodValue int

func (l *likelihoodValue) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*l = 0
		return nil
	}
	*l = likelihoodValue(f)
	return nil
}

type politicalRisk struct {
	Country             string          `json:"country"`
	PoliticalType       string          `json:"political_type"`
	RiskInformation     string          `json:"risk_information"`
	Likelihood          likelihoodValue `json:"likelihood"`
	LikelihoodReasoning string          `json:"likelihood_reasoning"`
	PublicationDate     string          `json:"publication_date"`
	CitationTitle       string          `json:"citation_title"`
	CitationName        string          `json:"citation_name"`
	CitationURL         string          `json:"citation_url"`
}

type politicalRiskPayload struct {
	PoliticalRisks []politicalRisk `json:"political_risks"`
}

// CountryRiskHeatmap mines tagged event log rows for political-risk records
// and aggregates them per (conversation, session, country). Rows whose
// payload is not valid JSON, or whose political_risks array is missing or
// empty, are skipped without aborting the query. A country field naming
// several countries separated by hyphens contributes one record per country.
func (e *Engine) CountryRiskHeatmap(ctx context.Context, filter HeatmapFilter) ([]CountryRiskSummary, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	query := `
		SELECT log_id, conversation_id, session_id, agent_output
		FROM dim_agent_event_log
		WHERE action = ?
	`
	args := []any{agentlog.ActionPoliticalRisk}
	if filter.ConversationID != "" {
		query += " AND conversation_id = ?"
		args = append(args, filter.ConversationID)
	}
	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	query += " ORDER BY event_time ASC, log_id ASC"

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk log rows: %w", err)
	}
	defer rows.Close()

	type groupKey struct {
		conversationID string
		sessionID      string
		country        string
	}
	type group struct {
		sum     int
		entries []RiskBreakdownEntry
	}

	// Group insertion order determines output order.
	var keys []groupKey
	groups := make(map[groupKey]*group)

	for rows.Next() {
		var (
			logID          string
			conversationID string
			sessionID      string
			agentOutput    sql.NullString
		)
		if err := rows.Scan(&logID, &conversationID, &sessionID, &agentOutput); err != nil {
			return nil, fmt.Errorf("failed to scan risk log row: %w", err)
		}

		var payload politicalRiskPayload
		if err := json.Unmarshal([]byte(agentOutput.String), &payload); err != nil {
			e.log.Debug("skipping log row with unparseable agent output", "log_id", logID, "error", err)
			continue
		}
		if len(payload.PoliticalRisks) == 0 {
			continue
		}

		for _, risk := range payload.PoliticalRisks {
			for _, country := range splitCountries(risk.Country) {
				key := groupKey{conversationID, sessionID, country}
				g, ok := groups[key]
				if !ok {
					g = &group{}
					groups[key] = g
					keys = append(keys, key)
				}
				g.sum += int(risk.Likelihood)
				g.entries = append(g.entries, RiskBreakdownEntry{
					Country:             country,
					Description:         risk.PoliticalType,
					Summary:             risk.RiskInformation,
					Likelihood:          int(risk.Likelihood),
					LikelihoodReasoning: risk.LikelihoodReasoning,
					PublicationDate:     risk.PublicationDate,
					Source:              risk.CitationName,
					SourceURL:           risk.CitationURL,
				})
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk log rows: %w", err)
	}

	stamp := e.clock.Now().UTC().Format(time.RFC3339)

	summaries := make([]CountryRiskSummary, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		summaries = append(summaries, CountryRiskSummary{
			DatetimeStamp:  stamp,
			ConversationID: key.conversationID,
			SessionID:      key.sessionID,
			Country:        key.country,
			AverageRisk:    int(math.Round(float64(g.sum) / float64(len(g.entries)))),
			Breakdown:      g.entries,
		})
	}
	return summaries, nil
}

// splitCountries expands a hyphen-delimited country field into trimmed
// entries. An entry that is empty after trimming is kept; such records form
// their own empty-named group rather than being dropped.
func splitCountries(field string) []string {
	parts := strings.Split(field, "-")
	countries := make([]string, 0, len(parts))
	for _, p := range parts {
		countries = append(countries, strings.TrimSpace(p))
	}
	return countries
}
