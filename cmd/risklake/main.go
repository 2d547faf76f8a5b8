package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/logestic/risklake/pkg/duck"
	"github.com/logestic/risklake/pkg/logger"
	"github.com/logestic/risklake/pkg/report"
	"github.com/logestic/risklake/pkg/warehouse/agentlog"
	"github.com/logestic/risklake/pkg/warehouse/procurement"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage: risklake [flags] <command>

Commands:
  init           create all warehouse tables
  schedule       run the schedule comparison report
  heatmap        run the country risk heatmap aggregation
  conversations  list recent conversations
  drop           drop all warehouse tables (requires --yes, supports --dry-run)
  version        print version information
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	dbPathFlag := flag.String("db", "", "path to the DuckDB database file, empty for in-memory (or set RISKLAKE_DB_PATH env var)")
	jsonFlag := flag.Bool("json", false, "print results as JSON instead of a table")
	milestoneFlag := flag.String("milestone", report.DefaultDeliveryMilestone, "milestone activity the schedule comparison filters on")
	conversationIDFlag := flag.String("conversation-id", "", "restrict the heatmap to one conversation")
	sessionIDFlag := flag.String("session-id", "", "restrict the heatmap to one session")
	limitFlag := flag.Int("limit", report.DefaultConversationLimit, "maximum conversations to return")
	yesFlag := flag.Bool("yes", false, "confirm destructive operations")
	dryRunFlag := flag.Bool("dry-run", false, "report what a destructive operation would do without executing it")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	// .env is optional; flags and real env vars win over it.
	_ = godotenv.Load()

	if envDBPath := os.Getenv("RISKLAKE_DB_PATH"); envDBPath != "" && *dbPathFlag == "" {
		*dbPathFlag = envDBPath
	}

	log := logger.New(*verboseFlag)

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one command, got %d", flag.NArg())
	}
	command := flag.Arg(0)

	if command == "version" {
		fmt.Printf("risklake %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := duck.NewDB(ctx, log, *dbPathFlag)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()
	log.Debug("using database", "path", duck.RedactedDatabasePath(*dbPathFlag))

	switch command {
	case "init":
		return runInit(ctx, log, db)
	case "schedule":
		return runSchedule(ctx, log, db, *milestoneFlag, *jsonFlag)
	case "heatmap":
		return runHeatmap(ctx, log, db, *conversationIDFlag, *sessionIDFlag, *jsonFlag)
	case "conversations":
		return runConversations(ctx, log, db, *limitFlag, *jsonFlag)
	case "drop":
		return runDrop(ctx, log, db, *yesFlag, *dryRunFlag)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runInit(ctx context.Context, log *slog.Logger, db duck.DB) error {
	procStore, err := procurement.NewStore(procurement.StoreConfig{Logger: log, DB: db})
	if err != nil {
		return fmt.Errorf("failed to create procurement store: %w", err)
	}
	if err := procStore.CreateTablesIfNotExists(ctx); err != nil {
		return fmt.Errorf("failed to create procurement tables: %w", err)
	}

	logStore, err := agentlog.NewStore(agentlog.StoreConfig{Logger: log, DB: db})
	if err != nil {
		return fmt.Errorf("failed to create agent log store: %w", err)
	}
	if err := logStore.CreateTablesIfNotExists(ctx); err != nil {
		return fmt.Errorf("failed to create agent log tables: %w", err)
	}

	log.Info("warehouse tables created")
	return nil
}
