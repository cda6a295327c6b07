package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EmployeesRepo reads branch workers.
type EmployeesRepo struct {
	db *sqlx.DB
}

// NewEmployeesRepo builds an employees repository over db.
func NewEmployeesRepo(db *sqlx.DB) *EmployeesRepo {
	return &EmployeesRepo{db: db}
}

// ByBranch lists the workers of a branch ordered by id.
func (r *EmployeesRepo) ByBranch(ctx context.Context, branchID int64) ([]Employee, error) {
	var employees []Employee
	err := r.db.SelectContext(ctx, &employees,
		`SELECT id, branch_id, first_name, last_name, created_at
		 FROM employees WHERE branch_id = $1 ORDER BY id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("employees by branch %d: %w", branchID, err)
	}
	return employees, nil
}
