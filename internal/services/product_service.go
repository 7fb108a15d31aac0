package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo              repositories.ProductRepository
	publisher         EventPublisher
	validate          *validator.Validate
	enforceCategories bool
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// EnforceCategories restricts product categories to models.Categories.
// By default any category string is accepted.
func (s *ProductService) EnforceCategories(enforce bool) *ProductService {
	s.enforceCategories = enforce
	return s
}

// ListProducts returns one page of products matching query.
func (s *ProductService) ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductPage, error) {
	query = query.Normalize()
	products, total, err := s.repo.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	return models.NewProductPage(products, total, query), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates input and persists it as a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{}
	input.Apply(product)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(models.EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct replaces every editable field of the product with id.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input models.ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{ID: id}
	input.Apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(models.EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(models.EventProductDeleted, id, nil)
	return nil
}

func (s *ProductService) validateInput(input models.ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		return newValidationError(err)
	}
	if s.enforceCategories && input.Category != "" {
		rule := "oneof=" + strings.Join(models.Categories, " ")
		if err := s.validate.Var(input.Category, rule); err != nil {
			return &ValidationError{Fields: map[string]string{
				"Category": "Field 'Category' must be one of " + strings.Join(models.Categories, ", "),
			}}
		}
	}
	return nil
}

// publish never fails the write that triggered it.
func (s *ProductService) publish(eventType, productID string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(models.ProductEvent{
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.WithError(err).Warn("Failed to marshal product event")
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.WithError(err).WithFields(log.Fields{"event": eventType, "product_id": productID}).
			Warn("Failed to publish product event")
		return
	}
	log.WithFields(log.Fields{"event": eventType, "product_id": productID}).Debug("Published product event")
}
