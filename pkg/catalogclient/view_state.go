package catalogclient

import (
	"slices"
	"strings"
)

// Defaults of a fresh browsing view.
const (
	DefaultItemsPerPage = 6
	DefaultMaxPrice     = 6000
	maxVisiblePages     = 5
)

// ViewState is the client-side browsing state: pagination plus filters.
type ViewState struct {
	Page          int        `json:"page"`
	ItemsPerPage  int        `json:"itemsPerPage"`
	PriceRange    [2]float64 `json:"priceRange"`
	Categories    []string   `json:"categories"`
	AvailableOnly bool       `json:"availableOnly"`
	SortBy        string     `json:"sortBy"`
	Order         string     `json:"order"`
}

// NewViewState returns the initial view: first page, full price range,
// in-stock products only, cheapest first.
func NewViewState() ViewState {
	return ViewState{
		Page:          1,
		ItemsPerPage:  DefaultItemsPerPage,
		PriceRange:    [2]float64{0, DefaultMaxPrice},
		Categories:    []string{},
		AvailableOnly: true,
		SortBy:        "price",
		Order:         "asc",
	}
}

// Query converts the view into request parameters. The availability flag is
// only sent when restricting to in-stock products.
func (s ViewState) Query() Query {
	minPrice, maxPrice := s.PriceRange[0], s.PriceRange[1]
	q := Query{
		Page:     s.Page,
		Limit:    s.ItemsPerPage,
		SortBy:   s.SortBy,
		Order:    s.Order,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Category: strings.Join(s.Categories, ","),
	}
	if s.AvailableOnly {
		available := true
		q.Available = &available
	}
	return q
}

func (s ViewState) clone() ViewState {
	s.Categories = slices.Clone(s.Categories)
	return s
}

// VisiblePages returns up to five page numbers around current for a
// pagination bar, shifted so the window stays inside [1, totalPages].
func VisiblePages(current, totalPages int) []int {
	if totalPages < 1 {
		return []int{}
	}
	start := max(1, current-2)
	end := min(totalPages, start+maxVisiblePages-1)
	if end-start+1 < maxVisiblePages {
		start = max(1, end-maxVisiblePages+1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// ClampPage limits page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, totalPages))
}
