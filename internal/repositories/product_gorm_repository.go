package repositories

import (
	"context"
	"errors"
	"fmt"

	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productColumns = map[string]string{
	"name":        "name",
	"price":       "price",
	"description": "description",
	"quantity":    "quantity",
	"image":       "image",
	"category":    "category",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Migrate creates or updates the products table.
func (r *GORMProductRepository) Migrate() error {
	if err := r.db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

func (r *GORMProductRepository) filtered(ctx context.Context, q models.ProductQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Product{})
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	switch len(q.Categories) {
	case 0:
	case 1:
		tx = tx.Where("category = ?", q.Categories[0])
	default:
		tx = tx.Where("category IN ?", q.Categories)
	}
	if q.Available != nil {
		if *q.Available {
			tx = tx.Where("quantity > ?", 0)
		} else {
			tx = tx.Where("quantity >= ?", 0)
		}
	}
	return tx
}

// Find retrieves one page of filtered products and the total match count.
func (r *GORMProductRepository) Find(ctx context.Context, q models.ProductQuery) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	offset, ok := q.Offset()
	if !ok || int64(offset) >= total {
		return []models.Product{}, total, nil
	}

	order := clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}
	if col, ok := productColumns[q.SortBy]; ok {
		order = clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Descending}
	}

	var products []models.Product
	err := r.filtered(ctx, q).
		Order(order).
		Order("id").
		Offset(offset).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the editable fields of an existing product and reloads it.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	// Save would insert a missing row, so update the selected columns explicitly.
	res := r.db.WithContext(ctx).
		Model(product).
		Select("name", "price", "description", "quantity", "image", "category", "updated_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, product.ID)
	}
	if err := r.db.WithContext(ctx).First(product, "id = ?", product.ID).Error; err != nil {
		return fmt.Errorf("failed to reload product %s: %w", product.ID, err)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return nil
}
