package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/logestic/risklake/pkg/duck"
	"github.com/logestic/risklake/pkg/report"
	"github.com/logestic/risklake/pkg/warehouse/admin"
)

func runSchedule(ctx context.Context, log *slog.Logger, db duck.DB, milestone string, asJSON bool) error {
	engine, err := report.NewEngine(report.Config{
		Logger:            log,
		DB:                db,
		DeliveryMilestone: milestone,
	})
	if err != nil {
		return fmt.Errorf("failed to create report engine: %w", err)
	}

	rows, err := engine.ScheduleComparison(ctx)
	if err != nil {
		return fmt.Errorf("failed to run schedule comparison: %w", err)
	}

	if asJSON {
		return printJSON(rows)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Project", "Equipment", "Milestone", "Supplier", "PO", "Baseline", "Actual", "Variance", "Due In", "Alternatives"})
	for _, r := range rows {
		table.Append([]string{
			r.ProjectCode,
			r.EquipmentCode,
			r.MilestoneActivity,
			r.SupplierName,
			r.PONumber + "/" + r.LineItem,
			r.BaselineDueDate.Format(time.DateOnly),
			r.ActualDueDate.Format(time.DateOnly),
			strconv.Itoa(r.DaysVariance),
			strconv.Itoa(r.DaysUntilBaselineDue),
			r.AlternativeSuppliers,
		})
	}
	table.Render()

	log.Info("schedule comparison complete", "rows", len(rows))
	return nil
}

func runHeatmap(ctx context.Context, log *slog.Logger, db duck.DB, conversationID, sessionID string, asJSON bool) error {
	engine, err := report.NewEngine(report.Config{Logger: log, DB: db})
	if err != nil {
		return fmt.Errorf("failed to create report engine: %w", err)
	}

	summaries, err := engine.CountryRiskHeatmap(ctx, report.HeatmapFilter{
		ConversationID: conversationID,
		SessionID:      sessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to run country risk heatmap: %w", err)
	}

	if asJSON {
		return printJSON(summaries)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Country", "Average Risk", "Records", "Conversation", "Session"})
	for _, s := range summaries {
		table.Append([]string{
			s.Country,
			strconv.Itoa(s.AverageRisk),
			strconv.Itoa(len(s.Breakdown)),
			s.ConversationID,
			s.SessionID,
		})
	}
	table.Render()

	log.Info("country risk heatmap complete", "groups", len(summaries))
	return nil
}

func runConversations(ctx context.Context, log *slog.Logger, db duck.DB, limit int, asJSON bool) error {
	engine, err := report.NewEngine(report.Config{Logger: log, DB: db})
	if err != nil {
		return fmt.Errorf("failed to create report engine: %w", err)
	}

	conversations, err := engine.RecentConversations(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list recent conversations: %w", err)
	}

	if asJSON {
		return printJSON(conversations)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Conversation", "Session", "Query", "Last Activity"})
	for _, c := range conversations {
		table.Append([]string{
			c.ConversationID,
			c.SessionID,
			c.FirstQuery,
			c.LastEventTime.Format(time.RFC3339),
		})
	}
	table.Render()
	return nil
}

func runDrop(ctx context.Context, log *slog.Logger, db duck.DB, confirm, dryRun bool) error {
	a, err := admin.New(admin.Config{Logger: log, DB: db})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	dropped, err := a.DropAllProjectTables(ctx, admin.DropOptions{Confirm: confirm, DryRun: dryRun})
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("would drop %d tables in order: %s\n", len(dropped), strings.Join(dropped, ", "))
		return nil
	}
	log.Info("dropped all warehouse tables", "count", len(dropped))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
