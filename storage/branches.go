package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BranchesRepo reads branches and their product assortment.
type BranchesRepo struct {
	db *sqlx.DB
}

// NewBranchesRepo builds a branches repository over db.
func NewBranchesRepo(db *sqlx.DB) *BranchesRepo {
	return &BranchesRepo{db: db}
}

// All lists branches ordered by id.
func (r *BranchesRepo) All(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	err := r.db.SelectContext(ctx, &branches,
		`SELECT id, name, owner, created_at FROM branches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("branches all: %w", err)
	}
	return branches, nil
}

// GetByID fetches a single branch.
func (r *BranchesRepo) GetByID(ctx context.Context, id int64) (*Branch, error) {
	var b Branch
	err := r.db.GetContext(ctx, &b,
		`SELECT id, name, owner, created_at FROM branches WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("branches get %d: %w", id, wrapNotFound(err))
	}
	return &b, nil
}

// Products lists the products assigned to a branch.
func (r *BranchesRepo) Products(ctx context.Context, branchID int64) ([]Product, error) {
	var products []Product
	err := r.db.SelectContext(ctx, &products,
		`SELECT p.id, p.name, p.created_at
		 FROM products p
		 JOIN branch_products bp ON bp.product_id = p.id
		 WHERE bp.branch_id = $1
		 ORDER BY p.id`, branchID)
	if err != nil {
		return nil, fmt.Errorf("branches products %d: %w", branchID, err)
	}
	return products, nil
}
