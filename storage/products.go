package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ProductsRepo reads the product catalog.
type ProductsRepo struct {
	db *sqlx.DB
}

// NewProductsRepo builds a products repository over db.
func NewProductsRepo(db *sqlx.DB) *ProductsRepo {
	return &ProductsRepo{db: db}
}

// All lists products ordered by id.
func (r *ProductsRepo) All(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.db.SelectContext(ctx, &products,
		`SELECT id, name, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("products all: %w", err)
	}
	return products, nil
}

// GetByID fetches a single product.
func (r *ProductsRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p,
		`SELECT id, name, created_at FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("products get %d: %w", id, wrapNotFound(err))
	}
	return &p, nil
}
