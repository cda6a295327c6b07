package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akhror/zavodbot/core/logger"
	"github.com/jmoiron/sqlx"
)

// ProductionRepo writes production records with attendance and serves
// the aggregates behind statistics and salary reports.
type ProductionRepo struct {
	db *sqlx.DB
}

// NewProductionRepo builds a production repository over db.
func NewProductionRepo(db *sqlx.DB) *ProductionRepo {
	return &ProductionRepo{db: db}
}

// Create persists the record and one attendance row per present
// employee in a single transaction.
func (r *ProductionRepo) Create(ctx context.Context, rec *ProductionRecord, presentEmployeeIDs []int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("production create: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var recordID int64
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO production_records (branch_id, product_id, date, quantity, used_cement_amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		rec.BranchID, rec.ProductID, rec.Date, rec.Quantity, rec.UsedCementAmount,
	).Scan(&recordID)
	if err != nil {
		return 0, fmt.Errorf("production create: insert record: %w", err)
	}

	for _, employeeID := range presentEmployeeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attendance (employee_id, production_record_id) VALUES ($1, $2)`,
			employeeID, recordID,
		); err != nil {
			return 0, fmt.Errorf("production create: insert attendance %d: %w", employeeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("production create: commit: %w", err)
	}

	logger.DB.LogAttrs(ctx, slog.LevelInfo, "production.record.created",
		slog.Int64("record_id", recordID),
		slog.Int64("branch_id", rec.BranchID),
		slog.Int("workers", len(presentEmployeeIDs)),
	)
	return recordID, nil
}

// Stat aggregates produced quantity and cement usage per product over
// the half-open period [from, to].
func (r *ProductionRepo) Stat(ctx context.Context, from, to time.Time) ([]ProductionStatRow, error) {
	var rows []ProductionStatRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT p.name AS name,
		        COALESCE(SUM(pr.quantity), 0) AS total_count,
		        COALESCE(SUM(pr.used_cement_amount), 0) AS used_cement_amount
		 FROM production_records pr
		 JOIN products p ON p.id = pr.product_id
		 WHERE pr.date BETWEEN $1 AND $2
		 GROUP BY p.name
		 ORDER BY p.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("production stat: %w", err)
	}
	return rows, nil
}

// FilterByPeriod returns each production record of a branch within the
// period joined with its product name, the rate effective on the
// record's date and the first names of the attending workers.
func (r *ProductionRepo) FilterByPeriod(ctx context.Context, branchID int64, from, to time.Time) ([]SalaryRow, error) {
	var rows []SalaryRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT pr.id AS record_id,
		        pr.date AS date,
		        p.name AS product_name,
		        pr.quantity AS quantity,
		        COALESCE(rt.payment_rate, 0) AS payment_rate,
		        COALESCE(array_agg(e.first_name ORDER BY e.id)
		                 FILTER (WHERE e.id IS NOT NULL), '{}') AS workers
		 FROM production_records pr
		 JOIN products p ON p.id = pr.product_id
		 LEFT JOIN LATERAL (
		     SELECT payment_rate
		     FROM product_rates
		     WHERE product_id = pr.product_id
		       AND effective_date <= pr.date
		       AND (end_date IS NULL OR end_date >= pr.date)
		     ORDER BY effective_date DESC
		     LIMIT 1
		 ) rt ON TRUE
		 LEFT JOIN attendance a ON a.production_record_id = pr.id
		 LEFT JOIN employees e ON e.id = a.employee_id
		 WHERE pr.branch_id = $1 AND pr.date BETWEEN $2 AND $3
		 GROUP BY pr.id, pr.date, p.name, pr.quantity, rt.payment_rate
		 ORDER BY pr.date, pr.id`, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("production filter by period: %w", err)
	}
	return rows, nil
}

// ProducedTotals sums all-time production per product id.
func (r *ProductionRepo) ProducedTotals(ctx context.Context) (map[int64]int64, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT product_id, COALESCE(SUM(quantity), 0) FROM production_records GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("production totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]int64)
	for rows.Next() {
		var productID, total int64
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, fmt.Errorf("production totals: scan: %w", err)
		}
		totals[productID] = total
	}
	return totals, rows.Err()
}
