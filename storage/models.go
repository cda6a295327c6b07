// Package storage holds the sqlx repositories and row models for the
// factory production and sales domain.
package storage

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// User is an authorized bot operator keyed by Telegram user id.
type User struct {
	ID        int64          `db:"id"`
	FirstName string         `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	Phone     sql.NullString `db:"phone"`
	CreatedAt time.Time      `db:"created_at"`
}

// Branch is a production site.
type Branch struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Owner     sql.NullString `db:"owner"`
	CreatedAt time.Time      `db:"created_at"`
}

// Product is a manufactured item sold by branches.
type Product struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Employee is a branch worker eligible for production attendance.
type Employee struct {
	ID        int64          `db:"id"`
	BranchID  int64          `db:"branch_id"`
	FirstName string         `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	CreatedAt time.Time      `db:"created_at"`
}

// ProductionRecord is one day's output of one product at a branch.
type ProductionRecord struct {
	ID               int64     `db:"id"`
	BranchID         int64     `db:"branch_id"`
	ProductID        int64     `db:"product_id"`
	Date             time.Time `db:"date"`
	Quantity         int64     `db:"quantity"`
	UsedCementAmount float64   `db:"used_cement_amount"`
	CreatedAt        time.Time `db:"created_at"`
}

// SalesOrder is one product line of a sale.
type SalesOrder struct {
	ID          int64     `db:"id"`
	BranchID    int64     `db:"branch_id"`
	ProductID   int64     `db:"product_id"`
	Date        time.Time `db:"date"`
	Quantity    int64     `db:"quantity"`
	Price       int64     `db:"price"`
	TotalAmount int64     `db:"total_amount"`
	CreatedAt   time.Time `db:"created_at"`
}

// ProductRate is the per-unit payment rate for a product, valid from
// EffectiveDate until EndDate (open-ended when EndDate is null).
type ProductRate struct {
	ID            int64        `db:"id"`
	ProductID     int64        `db:"product_id"`
	PaymentRate   float64      `db:"payment_rate"`
	EffectiveDate time.Time    `db:"effective_date"`
	EndDate       sql.NullTime `db:"end_date"`
	CreatedAt     time.Time    `db:"created_at"`
}

// ProductionStatRow aggregates production over a period per product.
type ProductionStatRow struct {
	Name             string  `db:"name"`
	TotalCount       int64   `db:"total_count"`
	UsedCementAmount float64 `db:"used_cement_amount"`
}

// SalesStatRow aggregates sales over a period per product.
type SalesStatRow struct {
	Name        string `db:"name"`
	TotalCount  int64  `db:"total_count"`
	TotalAmount int64  `db:"total_amount"`
}

// SalaryRow is one production record joined with its product rate and
// the first names of the employees present that day.
type SalaryRow struct {
	RecordID    int64          `db:"record_id"`
	Date        time.Time      `db:"date"`
	ProductName string         `db:"product_name"`
	Quantity    int64          `db:"quantity"`
	PaymentRate float64        `db:"payment_rate"`
	Workers     pq.StringArray `db:"workers"`
}

// InventoryRow is the produced-minus-sold balance per product.
type InventoryRow struct {
	Name     string `db:"name"`
	Produced int64  `db:"produced"`
	Sold     int64  `db:"sold"`
	Balance  int64  `db:"balance"`
}
