package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/logestic/risklake/pkg/warehouse/schema"
)

func TestWarehouse_Schema_DDL(t *testing.T) {
	t.Parallel()

	table := schema.TableInfo{
		Name: "dim_widget",
		Columns: []schema.ColumnInfo{
			{Name: "id", Type: "BIGINT", PrimaryKey: true},
			{Name: "code", Type: "VARCHAR", NotNull: true},
			{Name: "name", Type: "VARCHAR"},
		},
		Unique: [][]string{{"code"}},
	}

	t.Run("create sql", func(t *testing.T) {
		t.Parallel()

		sql := table.CreateSQL()
		require.Contains(t, sql, "CREATE TABLE IF NOT EXISTS dim_widget")
		require.Contains(t, sql, "id BIGINT PRIMARY KEY")
		require.Contains(t, sql, "code VARCHAR NOT NULL")
		require.Contains(t, sql, "UNIQUE (code)")
	})

	t.Run("drop sql", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "DROP TABLE IF EXISTS dim_widget", table.DropSQL())
	})

	t.Run("column names preserve declaration order", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, []string{"id", "code", "name"}, table.ColumnNames())
	})

	t.Run("table lookup and prefix classification", func(t *testing.T) {
		t.Parallel()

		s := &schema.Schema{
			Name: "test",
			Tables: []schema.TableInfo{
				{Name: "dim_widget"},
				{Name: "fact_widget_order"},
				{Name: "dim_vendor"},
			},
		}

		got, ok := s.Table("fact_widget_order")
		require.True(t, ok)
		require.Equal(t, "fact_widget_order", got.Name)

		_, ok = s.Table("missing")
		require.False(t, ok)

		require.Len(t, s.FactTables(), 1)
		require.Len(t, s.DimensionTables(), 2)
	})
}
