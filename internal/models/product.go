package models

import (
	"encoding/json"
	"time"
)

// Categories is the fixed label set offered by the catalog UI.
var Categories = []string{"Sport", "Electronics", "Fashion", "Food", "Beauty"}

// Product represents a product in the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" gorm:"type:varchar(255)" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description" bson:"description"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Image       string    `json:"image" bson:"image"`
	Category    string    `json:"category" gorm:"index;type:varchar(50)" bson:"category"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Available reports whether the product is in stock.
func (p Product) Available() bool {
	return p.Quantity > 0
}

// MarshalJSON renders the product with its derived availability flag.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Available bool `json:"available"`
	}{product(p), p.Available()})
}

// ProductInput is the full field set accepted on create and update.
// Update replaces every field, so omitted fields are written as zero values.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"max=2000"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Image       string  `json:"image" validate:"max=2048"`
	Category    string  `json:"category" validate:"max=50"`
}

// Apply copies the input fields onto p.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	p.Quantity = in.Quantity
	p.Image = in.Image
	p.Category = in.Category
}

// Input returns the editable fields of p.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    p.Quantity,
		Image:       p.Image,
		Category:    p.Category,
	}
}
