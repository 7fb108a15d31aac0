package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"katalog/internal/models"
	"katalog/internal/repositories"
)

var demoProducts = []models.Product{
	{Name: "Running Shoes", Description: "Lightweight trail runners", Price: 120, Quantity: 15, Category: "Sport"},
	{Name: "Yoga Mat", Description: "Non-slip 6mm mat", Price: 35, Quantity: 0, Category: "Sport"},
	{Name: "Laptop", Description: "High performance laptop", Price: 1200, Quantity: 10, Category: "Electronics"},
	{Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: 25, Quantity: 50, Category: "Electronics"},
	{Name: "Denim Jacket", Description: "Classic fit", Price: 89.9, Quantity: 7, Category: "Fashion"},
	{Name: "Espresso Beans", Description: "1kg dark roast", Price: 22.5, Quantity: 40, Category: "Food"},
	{Name: "Face Serum", Description: "Vitamin C serum", Price: 18, Quantity: 0, Category: "Beauty"},
}

// seedProducts inserts the demo catalog when the store is empty.
func seedProducts(ctx context.Context, repo repositories.ProductRepository) {
	_, total, err := repo.Find(ctx, models.ProductQuery{Page: 1, Limit: 1})
	if err != nil {
		log.WithError(err).Warn("Skipping demo seed: cannot count products")
		return
	}
	if total > 0 {
		log.WithField("products", total).Info("Skipping demo seed: store is not empty")
		return
	}

	for i := range demoProducts {
		product := demoProducts[i]
		if err := repo.Create(ctx, &product); err != nil {
			log.WithError(err).Errorf("Error seeding product %s", product.Name)
			continue
		}
		log.Debugf("Seeded product: %s (ID: %s)", product.Name, product.ID)
	}
	log.WithField("products", len(demoProducts)).Info("Seeded demo products")
}
