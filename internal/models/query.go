package models

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps the page size a single request may ask for.
	MaxLimit = 100
)

// Query parameter names shared by the HTTP handler and the client.
const (
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamSortBy    = "sortBy"
	ParamOrder     = "order"
	ParamMinPrice  = "minprice"
	ParamMaxPrice  = "maxprice"
	ParamCategory  = "category"
	ParamAvailable = "available"
)

// OrderDesc is the only order value that sorts descending.
const OrderDesc = "desc"

// SortableFields lists the product JSON fields a query may sort by.
var SortableFields = []string{"name", "price", "description", "quantity", "image", "category", "createdAt", "updatedAt"}

// IsSortable reports whether field names a sortable product field.
func IsSortable(field string) bool {
	for _, f := range SortableFields {
		if f == field {
			return true
		}
	}
	return false
}

// ProductQuery describes one page of a filtered product listing.
// Nil bounds and an empty category list mean no restriction.
type ProductQuery struct {
	Page       int
	Limit      int
	SortBy     string // empty sorts newest first
	Descending bool
	MinPrice   *float64
	MaxPrice   *float64
	Categories []string
	// Available restricts to quantity > 0 when true and quantity >= 0 when false.
	Available *bool
}

// Normalize coerces page and limit to positive values, caps limit at MaxLimit
// and drops unknown sort fields.
func (q ProductQuery) Normalize() ProductQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	q.Limit = min(q.Limit, MaxLimit)
	if q.SortBy != "" && !IsSortable(q.SortBy) {
		q.SortBy = ""
	}
	return q
}

// Offset is the number of matching records skipped before the page starts.
// ok is false when the offset does not fit in an int; such a page is empty.
func (q ProductQuery) Offset() (offset int, ok bool) {
	if q.Page < 1 || q.Limit < 1 {
		return 0, true
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return 0, false
	}
	return (q.Page - 1) * q.Limit, true
}

// ProductPage is one page of a product listing plus pagination metadata.
type ProductPage struct {
	Products      []Product `json:"products"`
	TotalProducts int64     `json:"totalProducts"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
}

// NewProductPage builds the page returned for q.
func NewProductPage(products []Product, total int64, q ProductQuery) *ProductPage {
	if products == nil {
		products = []Product{}
	}
	return &ProductPage{
		Products:      products,
		TotalProducts: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(q.Limit))),
		CurrentPage:   q.Page,
	}
}
