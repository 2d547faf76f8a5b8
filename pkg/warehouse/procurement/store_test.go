package procurement_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/logestic/risklake/pkg/duck"
	"github.com/logestic/risklake/pkg/warehouse/procurement"
)

func TestWarehouse_Procurement_Store(t *testing.T) {
	t.Parallel()

	log := slog.Default()

	t.Run("config validation", func(t *testing.T) {
		t.Parallel()

		_, err := procurement.NewStore(procurement.StoreConfig{DB: duck.TestDB(t)})
		require.ErrorContains(t, err, "logger is required")

		_, err = procurement.NewStore(procurement.StoreConfig{Logger: log})
		require.ErrorContains(t, err, "db is required")
	})

	t.Run("create tables is idempotent", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log)
		ctx := context.Background()

		require.NoError(t, store.CreateTablesIfNotExists(ctx))
		require.NoError(t, store.CreateTablesIfNotExists(ctx))
	})

	t.Run("insert and read back project", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log)
		ctx := context.Background()
		require.NoError(t, store.CreateTablesIfNotExists(ctx))

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		err := store.InsertProject(ctx, procurement.Project{
			ID:           1,
			Code:         "PRJ-001",
			Name:         "Refinery Expansion",
			Country:      "Brazil",
			Location:     "Rio de Janeiro",
			CreatedDate:  now,
			ModifiedDate: now,
		})
		require.NoError(t, err)

		got, err := store.GetProjectByCode(ctx, "PRJ-001")
		require.NoError(t, err)
		require.Equal(t, int64(1), got.ID)
		require.Equal(t, "Refinery Expansion", got.Name)
		require.Equal(t, "Brazil", got.Country)

		projects, err := store.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 1)
	})

	t.Run("unique business keys are enforced", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log)
		ctx := context.Background()
		require.NoError(t, store.CreateTablesIfNotExists(ctx))

		now := time.Now().UTC()
		sup := procurement.Supplier{ID: 1, SupplierNumber: "SUP-01", Name: "Acme", CreatedDate: now, ModifiedDate: now}
		require.NoError(t, store.InsertSupplier(ctx, sup))

		sup.ID = 2
		require.Error(t, store.InsertSupplier(ctx, sup))
	})

	t.Run("count rows", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t, log)
		ctx := context.Background()
		require.NoError(t, store.CreateTablesIfNotExists(ctx))

		count, err := store.CountRows(ctx, "fact_purchase_order")
		require.NoError(t, err)
		require.Zero(t, count)

		require.NoError(t, store.InsertPurchaseOrder(ctx, procurement.PurchaseOrder{
			ID:       1,
			PONumber: "PO-100",
			LineItem: "10",
		}))

		count, err = store.CountRows(ctx, "fact_purchase_order")
		require.NoError(t, err)
		require.Equal(t, int64(1), count)

		_, err = store.CountRows(ctx, "no_such_table")
		require.ErrorContains(t, err, "unknown table")
	})

	t.Run("database errors are propagated", func(t *testing.T) {
		t.Parallel()

		store, err := procurement.NewStore(procurement.StoreConfig{
			Logger: log,
			DB:     &duck.FailingDB{},
		})
		require.NoError(t, err)

		require.Error(t, store.CreateTablesIfNotExists(context.Background()))
	})
}

func newTestStore(t *testing.T, log *slog.Logger) *procurement.Store {
	t.Helper()

	store, err := procurement.NewStore(procurement.StoreConfig{
		Logger: log,
		DB:     duck.TestDB(t),
	})
	require.NoError(t, err)
	return store
}
