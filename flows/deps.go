// Package flows defines the domain conversations: production and sales
// recording, statistics, salary and inventory reports. Steps and
// triggers are declared here and assembled into a single registry by
// BuildRegistry.
package flows

import (
	"context"
	"time"

	"github.com/akhror/zavodbot/storage"
)

// UsersRepo is the slice of storage the auth check needs.
type UsersRepo interface {
	GetByID(ctx context.Context, id int64) (*storage.User, error)
}

// BranchesRepo serves branch lists and per-branch assortments.
type BranchesRepo interface {
	All(ctx context.Context) ([]storage.Branch, error)
	GetByID(ctx context.Context, id int64) (*storage.Branch, error)
	Products(ctx context.Context, branchID int64) ([]storage.Product, error)
}

// ProductsRepo serves the product catalog.
type ProductsRepo interface {
	All(ctx context.Context) ([]storage.Product, error)
	GetByID(ctx context.Context, id int64) (*storage.Product, error)
}

// EmployeesRepo serves branch workers for attendance.
type EmployeesRepo interface {
	ByBranch(ctx context.Context, branchID int64) ([]storage.Employee, error)
}

// ProductionRepo persists production and serves its aggregates.
type ProductionRepo interface {
	Create(ctx context.Context, rec *storage.ProductionRecord, presentEmployeeIDs []int64) (int64, error)
	Stat(ctx context.Context, from, to time.Time) ([]storage.ProductionStatRow, error)
	FilterByPeriod(ctx context.Context, branchID int64, from, to time.Time) ([]storage.SalaryRow, error)
	ProducedTotals(ctx context.Context) (map[int64]int64, error)
}

// OrdersRepo persists sales and serves their aggregates.
type OrdersRepo interface {
	Create(ctx context.Context, items []storage.SalesOrder) error
	Stat(ctx context.Context, from, to time.Time) ([]storage.SalesStatRow, error)
	SoldTotals(ctx context.Context) (map[int64]int64, error)
}

// Deps is the typed dependency bundle handed to every step renderer and
// trigger handler. It is built once at startup and never mutated.
type Deps struct {
	Users      UsersRepo
	Branches   BranchesRepo
	Products   ProductsRepo
	Employees  EmployeesRepo
	Production ProductionRepo
	Orders     OrdersRepo

	SuperAdmin int64
	MediaDir   string
	Now        func() time.Time
}

// NowOrWallClock returns Now() or the wall clock when Now is unset.
func (d *Deps) NowOrWallClock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
