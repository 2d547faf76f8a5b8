package procurement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/logestic/risklake/pkg/duck"
)

type StoreConfig struct {
	Logger *slog.Logger
	DB     duck.DB
}

func (c *StoreConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.DB == nil {
		return errors.New("db is required")
	}
	return nil
}

// Store owns the procurement warehouse tables and provides typed writes for
// the loaders plus a handful of lookups used by the CLI.
type Store struct {
	log *slog.Logger
	db  duck.DB
	cfg StoreConfig
}

func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}
	return &Store{
		log: cfg.Logger,
		db:  cfg.DB,
		cfg: cfg,
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

type Project struct {
	ID           int64
	Code         string
	Name         string
	Country      string
	Location     string
	CreatedDate  time.Time
	ModifiedDate time.Time
}

type WorkPackage struct {
	ID           int64
	Code         string
	Name         string
	WBS          string
	CreatedDate  time.Time
	ModifiedDate time.Time
}

type Equipment struct {
	ID             int64
	Code           string
	Name           string
	EquipmentType  string
	Specifications string
	CreatedDate    time.Time
	ModifiedDate   time.Time
}

type Milestone struct {
	ID              int64
	MilestoneNumber string
	Activity        string
	Description     string
	CreatedDate     time.Time
	ModifiedDate    time.Time
}

type Supplier struct {
	ID             int64
	SupplierNumber string
	Name           string
	ContactName    string
	ContactNumber  string
	Email          string
	CreatedDate    time.Time
	ModifiedDate   time.Time
}

type EquipmentSupplier struct {
	ID           int64
	EquipmentID  int64
	SupplierID   int64
	UnitCost     float64
	IsPreferred  bool
	LeadTimeDays int
	Remarks      string
	CreatedDate  time.Time
	ModifiedDate time.Time
}

type PurchaseOrder struct {
	ID            int64
	PONumber      string
	LineItem      string
	ProjectID     int64
	WorkPackageID int64
	SupplierID    int64
	EquipmentID   int64
	Amount        float64
	ShortText     string
	Remarks       string
}

type P6Schedule struct {
	ID            int64
	ProjectID     int64
	WorkPackageID int64
	EquipmentID   int64
	MilestoneID   int64
	DueDate       time.Time
}

type EquipmentMilestoneSchedule struct {
	ID              int64
	EquipmentID     int64
	ProjectID       int64
	WorkPackageID   int64
	MilestoneID     int64
	PurchaseOrderID int64
	DueDate         time.Time
	Status          string
}

type ManufacturingLocation struct {
	EquipmentID     int64
	SupplierID      int64
	LocationAddress string
}

type LogisticsInfo struct {
	EquipmentID   int64
	SupplierID    int64
	Method        string
	ShippingPort  string
	ReceivingPort string
}

func (s *Store) InsertProject(ctx context.Context, p Project) error {
	return s.exec(ctx, `
		INSERT INTO dim_project (id, code, name, country, location, created_date, modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Code, p.Name, p.Country, p.Location, p.CreatedDate, p.ModifiedDate)
}

func (s *Store) InsertWorkPackage(ctx context.Context, w WorkPackage) error {
	return s.exec(ctx, `
		INSERT INTO dim_work_package (id, code, name, wbs, created_date, modified_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.ID, w.Code, w.Name, w.WBS, w.CreatedDate, w.ModifiedDate)
}

func (s *Store) InsertEquipment(ctx context.Context, e Equipment) error {
	return s.exec(ctx, `
		INSERT INTO dim_equipment (id, code, name, equipment_type, specifications, created_date, modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Code, e.Name, e.EquipmentType, e.Specifications, e.CreatedDate, e.ModifiedDate)
}

func (s *Store) InsertMilestone(ctx context.Context, m Milestone) error {
	return s.exec(ctx, `
		INSERT INTO dim_milestone (id, milestone_number, activity, description, created_date, modified_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.MilestoneNumber, m.Activity, m.Description, m.CreatedDate, m.ModifiedDate)
}

func (s *Store) InsertSupplier(ctx context.Context, sp Supplier) error {
	return s.exec(ctx, `
		INSERT INTO dim_supplier (id, supplier_number, name, contact_name, contact_number, email, created_date, modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sp.ID, sp.SupplierNumber, sp.Name, sp.ContactName, sp.ContactNumber, sp.Email, sp.CreatedDate, sp.ModifiedDate)
}

func (s *Store) InsertEquipmentSupplier(ctx context.Context, es EquipmentSupplier) error {
	return s.exec(ctx, `
		INSERT INTO dim_equipment_supplier (id, equipment_id, supplier_id, unit_cost, is_preferred, lead_time_days, remarks, created_date, modified_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, es.ID, es.EquipmentID, es.SupplierID, es.UnitCost, es.IsPreferred, es.LeadTimeDays, es.Remarks, es.CreatedDate, es.ModifiedDate)
}

func (s *Store) InsertPurchaseOrder(ctx context.Context, po PurchaseOrder) error {
	return s.exec(ctx, `
		INSERT INTO fact_purchase_order (id, po_number, line_item, project_id, work_package_id, supplier_id, equipment_id, amount, short_text, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, po.ID, po.PONumber, po.LineItem, po.ProjectID, po.WorkPackageID, po.SupplierID, po.EquipmentID, po.Amount, po.ShortText, po.Remarks)
}

func (s *Store) InsertP6Schedule(ctx context.Context, p P6Schedule) error {
	return s.exec(ctx, `
		INSERT INTO fact_p6_schedule (id, project_id, work_package_id, equipment_id, milestone_id, due_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.ProjectID, p.WorkPackageID, p.EquipmentID, p.MilestoneID, p.DueDate)
}

func (s *Store) InsertEquipmentMilestoneSchedule(ctx context.Context, e EquipmentMilestoneSchedule) error {
	return s.exec(ctx, `
		INSERT INTO fact_equipment_milestone_schedule (id, equipment_id, project_id, work_package_id, milestone_id, purchase_order_id, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.EquipmentID, e.ProjectID, e.WorkPackageID, e.MilestoneID, e.PurchaseOrderID, e.DueDate, e.Status)
}

func (s *Store) InsertManufacturingLocation(ctx context.Context, m ManufacturingLocation) error {
	return s.exec(ctx, `
		INSERT INTO fact_manufacturing_location (equipment_id, supplier_id, location_address)
		VALUES (?, ?, ?)
	`, m.EquipmentID, m.SupplierID, m.LocationAddress)
}

func (s *Store) InsertLogisticsInfo(ctx context.Context, l LogisticsInfo) error {
	return s.exec(ctx, `
		INSERT INTO fact_logistics_info (equipment_id, supplier_id, method, shipping_port, receiving_port)
		VALUES (?, ?, ?, ?, ?)
	`, l.EquipmentID, l.SupplierID, l.Method, l.ShippingPort, l.ReceivingPort)
}

func (s *Store) GetProjectByCode(ctx context.Context, code string) (*Project, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	var p Project
	row := conn.QueryRowContext(ctx, `
		SELECT id, code, name, country, location, created_date, modified_date
		FROM dim_project
		WHERE code = ?
	`, code)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Country, &p.Location, &p.CreatedDate, &p.ModifiedDate); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", code, err)
	}
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT id, code, name, country, location, created_date, modified_date
		FROM dim_project
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Country, &p.Location, &p.CreatedDate, &p.ModifiedDate); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}
	return projects, nil
}

func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	if _, ok := Schema.Table(table); !ok {
		return 0, fmt.Errorf("unknown table %s", table)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	var count int64
	row := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	return duck.RetryWithBackoff(ctx, s.log, "procurement insert", func() error {
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to execute insert: %w", err)
		}
		return nil
	})
}
