package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"katalog/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
		now:      time.Now,
	}
}

func matches(p models.Product, q models.ProductQuery) bool {
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if len(q.Categories) > 0 && !slices.Contains(q.Categories, p.Category) {
		return false
	}
	if q.Available != nil {
		if *q.Available {
			return p.Quantity > 0
		}
		return p.Quantity >= 0
	}
	return true
}

func compareBy(field string) func(a, b models.Product) int {
	switch field {
	case "name":
		return func(a, b models.Product) int { return strings.Compare(a.Name, b.Name) }
	case "price":
		return func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) }
	case "description":
		return func(a, b models.Product) int { return strings.Compare(a.Description, b.Description) }
	case "quantity":
		return func(a, b models.Product) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case "image":
		return func(a, b models.Product) int { return strings.Compare(a.Image, b.Image) }
	case "category":
		return func(a, b models.Product) int { return strings.Compare(a.Category, b.Category) }
	case "updatedAt":
		return func(a, b models.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(a, b models.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// Find returns one page of filtered products and the total match count.
func (r *MemoryProductRepository) Find(_ context.Context, q models.ProductQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	byField := compareBy(q.SortBy)
	desc := q.Descending
	if q.SortBy == "" {
		desc = true
	}
	slices.SortFunc(matched, func(a, b models.Product) int {
		c := byField(a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	})

	total := int64(len(matched))
	start, ok := q.Offset()
	if !ok || start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + min(max(q.Limit, 0), len(matched)-start)
	return matched[start:end], total, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("failed to create product: duplicate ID %s", product.ID)
	}
	now := r.now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update replaces the editable fields of an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, product.ID)
	}
	product.Input().Apply(&stored)
	stored.UpdatedAt = r.now()
	r.products[product.ID] = stored
	*product = stored
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	delete(r.products, id)
	return nil
}
