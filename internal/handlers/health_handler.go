package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process liveness and which backends are wired.
type HealthHandler struct {
	store  string
	events bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store string, events bool) *HealthHandler {
	return &HealthHandler{store: store, events: events}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth returns a static health document.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"store":  h.store,
		"events": h.events,
	})
}
