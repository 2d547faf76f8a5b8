package report

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/logestic/risklake/pkg/duck"
)

// ScheduleComparisonRow pairs the planning-baseline due date with the tracked
// due date for one (project, work package, equipment, milestone) tuple and
// enriches it with supplier, sourcing and logistics attributes.
type ScheduleComparisonRow struct {
	ProjectCode      string `json:"project_code"`
	ProjectName      string `json:"project_name"`
	ProjectCountry   string `json:"project_country"`
	WorkPackageCode  string `json:"work_package_code"`
	WorkPackageName  string `json:"work_package_name"`
	EquipmentCode    string `json:"equipment_code"`
	EquipmentName    string `json:"equipment_name"`
	EquipmentType    string `json:"equipment_type"`
	MilestoneActivity    string `json:"milestone_activity"`
	MilestoneDescription string `json:"milestone_description"`
	PONumber     string  `json:"po_number"`
	LineItem     string  `json:"line_item"`
	POAmount     float64 `json:"po_amount"`
	SupplierName string  `json:"supplier_name"`

	BaselineDueDate time.Time `json:"baseline_due_date"`
	ActualDueDate   time.Time `json:"actual_due_date"`
	Status          string    `json:"status"`

	// DaysVariance is actual minus baseline in whole days; negative means
	// the tracked commitment is earlier than the plan.
	DaysVariance int `json:"days_variance"`
	// DaysUntilBaselineDue is baseline minus today in whole days; negative
	// means overdue.
	DaysUntilBaselineDue int `json:"days_until_baseline_due"`

	LeadTimeDays          *int    `json:"lead_time_days"`
	ManufacturingLocation *string `json:"manufacturing_location"`
	ShippingMethod        *string `json:"shipping_method"`
	ShippingPort          *string `json:"shipping_port"`
	ReceivingPort         *string `json:"receiving_port"`

	// AlternativeSuppliers lists every other supplier able to supply this
	// equipment, comma-joined; empty when none exist.
	AlternativeSuppliers string `json:"alternative_suppliers"`
}

const scheduleComparisonSQL = `
	SELECT
		p.code, p.name, p.country,
		wp.code, wp.name,
		e.id, e.code, e.name, e.equipment_type,
		m.activity, m.description,
		po.po_number, po.line_item, po.amount,
		s.id, s.name,
		p6.due_date, ems.due_date, ems.status,
		es.lead_time_days,
		ml.location_address,
		li.method, li.shipping_port, li.receiving_port
	FROM fact_p6_schedule p6
	JOIN fact_equipment_milestone_schedule ems
		ON ems.equipment_id = p6.equipment_id
		AND ems.milestone_id = p6.milestone_id
		AND ems.project_id = p6.project_id
		AND ems.work_package_id = p6.work_package_id
	JOIN dim_project p ON p.id = p6.project_id
	JOIN dim_equipment e ON e.id = p6.equipment_id
	JOIN dim_work_package wp ON wp.id = p6.work_package_id
	JOIN dim_milestone m ON m.id = p6.milestone_id
	JOIN fact_purchase_order po ON po.id = ems.purchase_order_id
	JOIN dim_supplier s ON s.id = po.supplier_id
	LEFT JOIN dim_equipment_supplier es
		ON es.equipment_id = p6.equipment_id AND es.supplier_id = s.id
	LEFT JOIN fact_manufacturing_location ml
		ON ml.equipment_id = p6.equipment_id AND ml.supplier_id = s.id
	LEFT JOIN fact_logistics_info li
		ON li.equipment_id = p6.equipment_id AND li.supplier_id = s.id
	WHERE m.activity = ?
	ORDER BY p.code, e.code, po.po_number, po.line_item
`

const alternativeSuppliersSQL = `
	SELECT es.equipment_id, es.supplier_id, s.name, es.unit_cost, es.lead_time_days
	FROM dim_equipment_supplier es
	JOIN dim_supplier s ON s.id = es.supplier_id
	ORDER BY es.equipment_id, s.name
`

// ScheduleComparison returns one enriched row per matched baseline/tracked
// schedule pair with a linked purchase order, restricted to the configured
// delivery milestone. Tuples missing the baseline, the tracked schedule, a
// dimension row or the purchase order are excluded; sourcing and logistics
// attributes are optional and surface as nil when absent.
func (e *Engine) ScheduleComparison(ctx context.Context) ([]ScheduleComparisonRow, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	alternatives, err := e.loadAlternativeSuppliers(ctx, conn)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, scheduleComparisonSQL, e.deliveryMilestone)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule comparison: %w", err)
	}
	defer rows.Close()

	today := truncateToDay(e.clock.Now().UTC())

	var out []ScheduleComparisonRow
	for rows.Next() {
		var (
			r           ScheduleComparisonRow
			equipmentID int64
			supplierID  int64
			leadTime    sql.NullInt64
			location    sql.NullString
			method      sql.NullString
			shipPort    sql.NullString
			recvPort    sql.NullString
		)
		if err := rows.Scan(
			&r.ProjectCode, &r.ProjectName, &r.ProjectCountry,
			&r.WorkPackageCode, &r.WorkPackageName,
			&equipmentID, &r.EquipmentCode, &r.EquipmentName, &r.EquipmentType,
			&r.MilestoneActivity, &r.MilestoneDescription,
			&r.PONumber, &r.LineItem, &r.POAmount,
			&supplierID, &r.SupplierName,
			&r.BaselineDueDate, &r.ActualDueDate, &r.Status,
			&leadTime, &location, &method, &shipPort, &recvPort,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule comparison row: %w", err)
		}

		r.DaysVariance = daysBetween(r.ActualDueDate, r.BaselineDueDate)
		r.DaysUntilBaselineDue = daysBetween(r.BaselineDueDate, today)

		if leadTime.Valid {
			v := int(leadTime.Int64)
			r.LeadTimeDays = &v
		}
		r.ManufacturingLocation = nullString(location)
		r.ShippingMethod = nullString(method)
		r.ShippingPort = nullString(shipPort)
		r.ReceivingPort = nullString(recvPort)

		r.AlternativeSuppliers = formatAlternatives(alternatives[equipmentID], supplierID)

		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule comparison rows: %w", err)
	}
	return out, nil
}

type alternativeSupplier struct {
	supplierID   int64
	name         string
	unitCost     float64
	leadTimeDays int
}

func (e *Engine) loadAlternativeSuppliers(ctx context.Context, conn duck.Connection) (map[int64][]alternativeSupplier, error) {
	rows, err := conn.QueryContext(ctx, alternativeSuppliersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query alternative suppliers: %w", err)
	}
	defer rows.Close()

	byEquipment := make(map[int64][]alternativeSupplier)
	for rows.Next() {
		var (
			equipmentID int64
			alt         alternativeSupplier
			unitCost    sql.NullFloat64
			leadTime    sql.NullInt64
		)
		if err := rows.Scan(&equipmentID, &alt.supplierID, &alt.name, &unitCost, &leadTime); err != nil {
			return nil, fmt.Errorf("failed to scan alternative supplier row: %w", err)
		}
		alt.unitCost = unitCost.Float64
		alt.leadTimeDays = int(leadTime.Int64)
		byEquipment[equipmentID] = append(byEquipment[equipmentID], alt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alternative supplier rows: %w", err)
	}
	return byEquipment, nil
}

// formatAlternatives renders every supplier of the equipment other than the
// selected one. The input is already ordered by supplier name.
func formatAlternatives(alts []alternativeSupplier, selectedSupplierID int64) string {
	var parts []string
	for _, alt := range alts {
		if alt.supplierID == selectedSupplierID {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (Cost: %s, Lead time: %d days)",
			alt.name, strconv.FormatFloat(alt.unitCost, 'f', -1, 64), alt.leadTimeDays))
	}
	return strings.Join(parts, ", ")
}

func daysBetween(a, b time.Time) int {
	return int(truncateToDay(a).Sub(truncateToDay(b)) / (24 * time.Hour))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
