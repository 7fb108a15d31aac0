package repositories

import (
	"context"
	"errors"

	"katalog/internal/models"
)

// ErrProductNotFound is returned (wrapped with the id) when no product matches an id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Find returns the requested page of matching products and the total match count.
	// The query must already be normalized.
	Find(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update replaces the editable fields of the product with product.ID.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
