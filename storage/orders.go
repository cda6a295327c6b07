package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akhror/zavodbot/core/logger"
	"github.com/jmoiron/sqlx"
)

// OrdersRepo writes sales orders and serves sales aggregates.
type OrdersRepo struct {
	db *sqlx.DB
}

// NewOrdersRepo builds an orders repository over db.
func NewOrdersRepo(db *sqlx.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

// Create persists every line item of the order in one transaction.
// total_amount is computed server-side as quantity * price.
func (r *OrdersRepo) Create(ctx context.Context, items []SalesOrder) error {
	if len(items) == 0 {
		return fmt.Errorf("orders create: empty order")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orders create: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sales_orders (branch_id, product_id, date, quantity, price, total_amount)
			 VALUES ($1, $2, $3, $4, $5, $4 * $5)`,
			item.BranchID, item.ProductID, item.Date, item.Quantity, item.Price,
		); err != nil {
			return fmt.Errorf("orders create: insert product %d: %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orders create: commit: %w", err)
	}

	logger.DB.LogAttrs(ctx, slog.LevelInfo, "sales.order.created",
		slog.Int64("branch_id", items[0].BranchID),
		slog.Int("items", len(items)),
	)
	return nil
}

// Stat aggregates sold quantity and revenue per product over [from, to].
func (r *OrdersRepo) Stat(ctx context.Context, from, to time.Time) ([]SalesStatRow, error) {
	var rows []SalesStatRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT p.name AS name,
		        COALESCE(SUM(so.quantity), 0) AS total_count,
		        COALESCE(SUM(so.total_amount), 0) AS total_amount
		 FROM sales_orders so
		 JOIN products p ON p.id = so.product_id
		 WHERE so.date BETWEEN $1 AND $2
		 GROUP BY p.name
		 ORDER BY p.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("orders stat: %w", err)
	}
	return rows, nil
}

// SoldTotals sums all-time sales per product id.
func (r *OrdersRepo) SoldTotals(ctx context.Context) (map[int64]int64, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT product_id, COALESCE(SUM(quantity), 0) FROM sales_orders GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("orders totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]int64)
	for rows.Next() {
		var productID, total int64
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, fmt.Errorf("orders totals: scan: %w", err)
		}
		totals[productID] = total
	}
	return totals, rows.Err()
}
