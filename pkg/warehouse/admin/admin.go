// Package admin provides destructive maintenance operations on the
// warehouse. Everything here is guarded: drops refuse to run without an
// explicit confirmation and support dry-run.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/logestic/risklake/pkg/duck"
	"github.com/logestic/risklake/pkg/warehouse/agentlog"
	"github.com/logestic/risklake/pkg/warehouse/procurement"
	schematypes "github.com/logestic/risklake/pkg/warehouse/schema"
)

type Config struct {
	Logger *slog.Logger
	DB     duck.DB
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.DB == nil {
		return errors.New("db is required")
	}
	return nil
}

type Admin struct {
	log *slog.Logger
	db  duck.DB
}

func New(cfg Config) (*Admin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid admin config: %w", err)
	}
	return &Admin{log: cfg.Logger, db: cfg.DB}, nil
}

type DropOptions struct {
	// Confirm must be set for the drop to execute.
	Confirm bool
	// DryRun reports the drop order without executing anything.
	DryRun bool
}

// DropAllProjectTables removes every warehouse table. Fact tables go first so
// that no fact row ever outlives the dimensions it references. Returns the
// table names in drop order.
func (a *Admin) DropAllProjectTables(ctx context.Context, opts DropOptions) ([]string, error) {
	order := dropOrder()

	if opts.DryRun {
		return order, nil
	}
	if !opts.Confirm {
		return nil, errors.New("refusing to drop tables without confirmation")
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	for _, name := range order {
		table, ok := lookupTable(name)
		if !ok {
			return nil, fmt.Errorf("unknown table %s", name)
		}
		if _, err := conn.ExecContext(ctx, table.DropSQL()); err != nil {
			return nil, fmt.Errorf("failed to drop table %s: %w", name, err)
		}
		a.log.Info("dropped table", "table", name)
	}
	return order, nil
}

func dropOrder() []string {
	var facts, dims []string
	for _, schema := range schemas() {
		for _, t := range schema.FactTables() {
			facts = append(facts, t.Name)
		}
		for _, t := range schema.DimensionTables() {
			dims = append(dims, t.Name)
		}
	}
	return append(facts, dims...)
}

func lookupTable(name string) (schematypes.TableInfo, bool) {
	for _, schema := range schemas() {
		if t, ok := schema.Table(name); ok {
			return t, true
		}
	}
	return schematypes.TableInfo{}, false
}

func schemas() []*schematypes.Schema {
	return []*schematypes.Schema{procurement.Schema, agentlog.Schema}
}
