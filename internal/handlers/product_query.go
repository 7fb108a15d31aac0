package handlers

import (
	"math"
	"strconv"
	"strings"

	"katalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseProductQuery reads the listing parameters. Malformed values fall back
// to their defaults instead of failing the request.
func parseProductQuery(c *fiber.Ctx) models.ProductQuery {
	q := models.ProductQuery{
		Page:       positiveInt(c.Query(models.ParamPage), models.DefaultPage),
		Limit:      positiveInt(c.Query(models.ParamLimit), models.DefaultLimit),
		SortBy:     strings.TrimSpace(c.Query(models.ParamSortBy)),
		Descending: c.Query(models.ParamOrder) == models.OrderDesc,
		MinPrice:   priceBound(c.Query(models.ParamMinPrice)),
		MaxPrice:   priceBound(c.Query(models.ParamMaxPrice)),
		Categories: splitCategories(c.Query(models.ParamCategory)),
	}
	if c.Context().QueryArgs().Has(models.ParamAvailable) {
		available := truthy(c.Query(models.ParamAvailable))
		q.Available = &available
	}
	return q.Normalize()
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func priceBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var categories []string
	for _, part := range strings.Split(raw, ",") {
		if label := strings.TrimSpace(part); label != "" {
			categories = append(categories, label)
		}
	}
	return categories
}

// truthy treats an empty value and strconv's false spellings as false.
func truthy(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return true
}
