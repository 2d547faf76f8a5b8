package procurement

import (
	schematypes "github.com/logestic/risklake/pkg/warehouse/schema"
)

var Schema = &schematypes.Schema{
	Name: "procurement",
	Description: `
Procurement and logistics warehouse:
- projects, work packages, equipment, milestones, suppliers
- purchase orders and the baseline/tracked milestone schedules

JOIN SEMANTICS:
- fact_p6_schedule holds the planning-baseline due date;
  fact_equipment_milestone_schedule holds the tracked due date. They pair 1:1
  on (project_id, work_package_id, equipment_id, milestone_id).
- dim_equipment_supplier models the many-to-many sourcing relationship with
  cost and lead-time attributes; unique per (equipment_id, supplier_id).
`,
	Tables: []schematypes.TableInfo{
		{
			Name:        "dim_project",
			Description: "Projects. Business key: code.",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "code", Type: "VARCHAR", NotNull: true, Description: "Project code (unique business key)"},
				{Name: "name", Type: "VARCHAR"},
				{Name: "country", Type: "VARCHAR"},
				{Name: "location", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
				{Name: "modified_date", Type: "TIMESTAMP"},
			},
			Unique: [][]string{{"code"}},
		},
		{
			Name:        "dim_work_package",
			Description: "Work packages. Business key: code.",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "code", Type: "VARCHAR", NotNull: true, Description: "Work package code (unique business key)"},
				{Name: "name", Type: "VARCHAR"},
				{Name: "wbs", Type: "VARCHAR", Description: "Work breakdown structure path"},
				{Name: "created_date", Type: "TIMESTAMP"},
				{Name: "modified_date", Type: "TIMESTAMP"},
			},
			Unique: [][]string{{"code"}},
		},
		{
			Name:        "dim_equipment",
			Description: "Equipment items. Business key: code.",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "code", Type: "VARCHAR", NotNull: true, Description: "Equipment code (unique business key)"},
				{Name: "name", Type: "VARCHAR"},
				{Name: "equipment_type", Type: "VARCHAR"},
				{Name: "specifications", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
				{Name: "modified_date", Type: "TIMESTAMP"},
			},
			Unique: [][]string{{"code"}},
		},
		{
			Name:        "dim_milestone",
			Description: "Milestones. Identity: (activity, description).",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "milestone_number", Type: "VARCHAR"},
				{Name: "activity", Type: "VARCHAR", NotNull: true, Description: "Milestone activity (e.g. Delivery to Site)"},
				{Name: "description", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
				{Name: "modified_date", Type: "TIMESTAMP"},
			},
			Unique: [][]string{{"activity", "description"}},
		},
		{
			Name:        "dim_supplier",
			Description: "Suppliers. Business key: supplier_number.",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "supplier_number", Type: "VARCHAR", NotNull: true, Description: "Supplier number (unique business key)"},
				{Name: "name", Type: "VARCHAR"},
				{Name: "contact_name", Type: "VARCHAR"},
				{Name: "contact_number", Type: "VARCHAR"},
				{Name: "email", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
				{Name: "modified_date", Type: "TIMESTAMP"},
			},
			Unique: [][]string{{"supplier_number"}},
		},
		{
			Name:        "dim_equipment_supplier",
			Description: "Equipment-supplier sourcing relationship with cost/lead-time attributes. Unique per (equipment_id, supplier_id).",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "equipment_id", Type: "BIGINT", NotNull: true, Description: "References dim_equipment.id"},
				{Name: "supplier_id", Type: "BIGINT", NotNull: true, Description: "References dim_supplier.id"},
				{Name: "unit_cost", Type: "DOUBLE"},
				{Name: "is_preferred", Type: "BOOLEAN"},
				{Name: "lead_time_days", Type: "INTEGER"},
				{Name: "remarks", Type: "VARCHAR"},
				{Name: "created_date", Type: "TIMESTAMP"},
				{Name: "modified_date", Type: "TIMESTAMP"},
			},
			Unique: [][]string{{"equipment_id", "supplier_id"}},
		},
		{
			Name:        "fact_purchase_order",
			Description: "Purchase order line items. Business key: (po_number, line_item).",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "po_number", Type: "VARCHAR", NotNull: true},
				{Name: "line_item", Type: "VARCHAR", NotNull: true},
				{Name: "project_id", Type: "BIGINT", Description: "References dim_project.id"},
				{Name: "work_package_id", Type: "BIGINT", Description: "References dim_work_package.id"},
				{Name: "supplier_id", Type: "BIGINT", Description: "References dim_supplier.id"},
				{Name: "equipment_id", Type: "BIGINT", Description: "References dim_equipment.id"},
				{Name: "amount", Type: "DOUBLE"},
				{Name: "short_text", Type: "VARCHAR"},
				{Name: "remarks", Type: "VARCHAR"},
			},
			Unique: [][]string{{"po_number", "line_item"}},
		},
		{
			Name:        "fact_p6_schedule",
			Description: "Planning-baseline due dates per (project, work package, equipment, milestone).",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "project_id", Type: "BIGINT", NotNull: true},
				{Name: "work_package_id", Type: "BIGINT", NotNull: true},
				{Name: "equipment_id", Type: "BIGINT", NotNull: true},
				{Name: "milestone_id", Type: "BIGINT", NotNull: true},
				{Name: "due_date", Type: "DATE"},
			},
		},
		{
			Name:        "fact_equipment_milestone_schedule",
			Description: "Tracked due dates, optionally tied to a purchase order. Pairs 1:1 with fact_p6_schedule on the composite key.",
			Columns: []schematypes.ColumnInfo{
				{Name: "id", Type: "BIGINT", PrimaryKey: true},
				{Name: "equipment_id", Type: "BIGINT", NotNull: true},
				{Name: "project_id", Type: "BIGINT", NotNull: true},
				{Name: "work_package_id", Type: "BIGINT", NotNull: true},
				{Name: "milestone_id", Type: "BIGINT", NotNull: true},
				{Name: "purchase_order_id", Type: "BIGINT", Description: "References fact_purchase_order.id; nullable"},
				{Name: "due_date", Type: "DATE"},
				{Name: "status", Type: "VARCHAR"},
			},
		},
		{
			Name:        "fact_manufacturing_location",
			Description: "Manufacturing location per (equipment, supplier). Optional; outer-joined by consumers.",
			Columns: []schematypes.ColumnInfo{
				{Name: "equipment_id", Type: "BIGINT", NotNull: true},
				{Name: "supplier_id", Type: "BIGINT", NotNull: true},
				{Name: "location_address", Type: "VARCHAR"},
			},
			Unique: [][]string{{"equipment_id", "supplier_id"}},
		},
		{
			Name:        "fact_logistics_info",
			Description: "Shipping attributes per (equipment, supplier). Optional; outer-joined by consumers.",
			Columns: []schematypes.ColumnInfo{
				{Name: "equipment_id", Type: "BIGINT", NotNull: true},
				{Name: "supplier_id", Type: "BIGINT", NotNull: true},
				{Name: "method", Type: "VARCHAR"},
				{Name: "shipping_port", Type: "VARCHAR"},
				{Name: "receiving_port", Type: "VARCHAR"},
			},
			Unique: [][]string{{"equipment_id", "supplier_id"}},
		},
	},
}
