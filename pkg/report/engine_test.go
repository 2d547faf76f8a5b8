package report_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/logestic/risklake/pkg/duck"
	"github.com/logestic/risklake/pkg/report"
	"github.com/logestic/risklake/pkg/warehouse/agentlog"
	"github.com/logestic/risklake/pkg/warehouse/procurement"
)

func TestReport_Engine_Config(t *testing.T) {
	t.Parallel()

	log := slog.Default()

	t.Run("config validation", func(t *testing.T) {
		t.Parallel()

		_, err := report.NewEngine(report.Config{DB: duck.TestDB(t)})
		require.ErrorContains(t, err, "logger is required")

		_, err = report.NewEngine(report.Config{Logger: log})
		require.ErrorContains(t, err, "db is required")
	})

	t.Run("defaults are filled", func(t *testing.T) {
		t.Parallel()

		cfg := report.Config{Logger: log, DB: duck.TestDB(t)}
		require.NoError(t, cfg.Validate())
		require.NotNil(t, cfg.Clock)
		require.Equal(t, report.DefaultDeliveryMilestone, cfg.DeliveryMilestone)
	})
}

// fixture wires an in-memory warehouse with both stores and an engine whose
// clock is pinned.
type fixture struct {
	db        duck.DB
	proc      *procurement.Store
	logs      *agentlog.Store
	engine    *report.Engine
	clock     *clockwork.FakeClock
	createdAt time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.Default()
	db := duck.TestDB(t)
	ctx := context.Background()

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	proc, err := procurement.NewStore(procurement.StoreConfig{Logger: log, DB: db})
	require.NoError(t, err)
	require.NoError(t, proc.CreateTablesIfNotExists(ctx))

	logs, err := agentlog.NewStore(agentlog.StoreConfig{Logger: log, Clock: clock, DB: db})
	require.NoError(t, err)
	require.NoError(t, logs.CreateTablesIfNotExists(ctx))

	engine, err := report.NewEngine(report.Config{Logger: log, Clock: clock, DB: db})
	require.NoError(t, err)

	return &fixture{
		db:        db,
		proc:      proc,
		logs:      logs,
		engine:    engine,
		clock:     clock,
		createdAt: now,
	}
}
