package handlers

import (
	"katalog/internal/models"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/create", h.HandleCreateProduct)
	productRoutes.Get("/getAllProducts", h.HandleGetAllProducts)
	productRoutes.Put("/update/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/delete/:id", h.HandleDeleteProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Product not found",
	})
}

func failed(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// HandleGetAllProducts returns one filtered, sorted page of products.
func (h *ProductHandler) HandleGetAllProducts(c *fiber.Ctx) error {
	query := parseProductQuery(c)
	page, err := h.service.ListProducts(c.UserContext(), query)
	if err != nil {
		log.WithError(err).WithField("query", c.Context().QueryArgs().String()).Error("Error fetching products")
		return failed(c, "Failed to fetch products", err)
	}
	return c.JSON(fiber.Map{
		"message":       "Products fetched successfully",
		"products":      page.Products,
		"totalProducts": page.TotalProducts,
		"totalPages":    page.TotalPages,
		"currentPage":   page.CurrentPage,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.UserContext(), productID)
	if err != nil {
		if services.IsNotFound(err) {
			return notFound(c)
		}
		log.WithError(err).WithField("product_id", productID).Error("Error getting product")
		return failed(c, "Failed to fetch product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product fetched successfully",
		"product": product,
	})
}

// HandleCreateProduct creates a new product.
// Body and validation failures are reported as creation failures.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.WithError(err).Warn("Error parsing create product body")
		return failed(c, "Product creation failed", err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		log.WithError(err).Error("Error creating product")
		return failed(c, "Product creation failed", err)
	}
	log.WithField("product_id", product.ID).Info("Product created")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// HandleUpdateProduct replaces every editable field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.WithError(err).WithField("product_id", productID).Warn("Error parsing update product body")
		return failed(c, "Product update failed", err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), productID, input)
	if err != nil {
		if services.IsNotFound(err) {
			return notFound(c)
		}
		log.WithError(err).WithField("product_id", productID).Error("Error updating product")
		return failed(c, "Product update failed", err)
	}
	log.WithField("product_id", productID).Info("Product updated")
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), productID); err != nil {
		if services.IsNotFound(err) {
			return notFound(c)
		}
		log.WithError(err).WithField("product_id", productID).Error("Error deleting product")
		return failed(c, "Product deletion failed", err)
	}
	log.WithField("product_id", productID).Info("Product deleted")
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
