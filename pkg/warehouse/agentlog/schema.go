package agentlog

import (
	schematypes "github.com/logestic/risklake/pkg/warehouse/schema"
)

// ActionPoliticalRisk tags event rows whose agent_output carries the
// political-risk JSON payload consumed by the risk aggregation engine.
const ActionPoliticalRisk = "Political Risk JSON Data"

var Schema = &schematypes.Schema{
	Name: "agentlog",
	Description: `
Agent activity logs and generated reports:
- dim_agent_event_log: one row per agent turn (query, action, output)
- dim_agent_thinking_log: intermediate reasoning stages per turn
- fact_risk_report: generated report artifacts per session

agent_output is stored as VARCHAR; consumers parse it themselves and must
tolerate rows that do not contain valid JSON.
`,
	Tables: []schematypes.TableInfo{
		{
			Name:        "dim_agent_event_log",
			Description: "Agent turn events. log_id is a UUID generated at insert time.",
			Columns: []schematypes.ColumnInfo{
				{Name: "log_id", Type: "VARCHAR", PrimaryKey: true},
				{Name: "event_id", Type: "VARCHAR"},
				{Name: "agent_name", Type: "VARCHAR"},
				{Name: "event_time", Type: "TIMESTAMP", NotNull: true},
				{Name: "action", Type: "VARCHAR", Description: "Event tag, e.g. Political Risk JSON Data"},
				{Name: "result_summary", Type: "VARCHAR"},
				{Name: "user_query", Type: "VARCHAR", Description: "Nullable; system turns carry no query"},
				{Name: "agent_output", Type: "VARCHAR", Description: "Raw payload; JSON for tagged actions"},
				{Name: "conversation_id", Type: "VARCHAR"},
				{Name: "session_id", Type: "VARCHAR", NotNull: true},
				{Name: "created_date", Type: "TIMESTAMP"},
			},
		},
		{
			Name:        "dim_agent_thinking_log",
			Description: "Intermediate reasoning stages. Oversized text fields are truncated at insert time.",
			Columns: []schematypes.ColumnInfo{
				{Name: "log_id", Type: "VARCHAR", PrimaryKey: true},
				{Name: "agent_name", Type: "VARCHAR"},
				{Name: "thinking_stage", Type: "VARCHAR"},
				{Name: "thought_content", Type: "VARCHAR"},
				{Name: "thinking_stage_output", Type: "VARCHAR"},
				{Name: "agent_output", Type: "VARCHAR"},
				{Name: "conversation_id", Type: "VARCHAR"},
				{Name: "session_id", Type: "VARCHAR", NotNull: true},
				{Name: "model_deployment_name", Type: "VARCHAR"},
				{Name: "thread_id", Type: "VARCHAR"},
				{Name: "user_query", Type: "VARCHAR"},
				{Name: "status", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
			},
		},
		{
			Name:        "fact_risk_report",
			Description: "Generated report artifacts.",
			Columns: []schematypes.ColumnInfo{
				{Name: "report_id", Type: "VARCHAR", PrimaryKey: true},
				{Name: "session_id", Type: "VARCHAR", NotNull: true},
				{Name: "conversation_id", Type: "VARCHAR"},
				{Name: "filename", Type: "VARCHAR"},
				{Name: "blob_url", Type: "VARCHAR"},
				{Name: "report_type", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
			},
		},
	},
}
