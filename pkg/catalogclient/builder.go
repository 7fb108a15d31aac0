package catalogclient

import (
	"slices"
	"sync"
	"time"

	"katalog/internal/models"
)

// API is the subset of Client the Builder drives.
type API interface {
	List(q Query) (*models.ProductPage, error)
	Create(input models.ProductInput) (*models.Product, error)
	Update(id string, input models.ProductInput) (*models.Product, error)
	Delete(id string) error
}

// Builder owns a ViewState and keeps the displayed page in sync with the
// server. Filter changes go back to page 1 and are debounced; writes refresh
// the current page immediately. A failed fetch leaves the last page in place.
type Builder struct {
	api      API
	debounce *Debouncer

	mu     sync.Mutex
	state  ViewState
	result *models.ProductPage

	onResult func(*models.ProductPage)
	onError  func(error)
}

// Option configures a Builder.
type Option func(*Builder)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(b *Builder) { b.debounce = NewDebouncer(d) }
}

// WithState starts the builder from s instead of NewViewState.
func WithState(s ViewState) Option {
	return func(b *Builder) { b.state = s.clone() }
}

// OnResult registers a callback for every successfully fetched page.
func OnResult(fn func(*models.ProductPage)) Option {
	return func(b *Builder) { b.onResult = fn }
}

// OnError registers a callback for failed fetches.
func OnError(fn func(error)) Option {
	return func(b *Builder) { b.onError = fn }
}

// NewBuilder creates a Builder over api.
func NewBuilder(api API, opts ...Option) *Builder {
	b := &Builder{
		api:      api,
		debounce: NewDebouncer(DefaultDebounce),
		state:    NewViewState(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns a copy of the current view state.
func (b *Builder) State() ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.clone()
}

// Result returns the last successfully fetched page, or nil.
func (b *Builder) Result() *models.ProductPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

func (b *Builder) changeFilter(mutate func(s *ViewState)) {
	b.mu.Lock()
	mutate(&b.state)
	b.state.Page = 1
	b.mu.Unlock()
	b.schedule()
}

func (b *Builder) schedule() {
	b.debounce.Trigger(func() { _ = b.fetch() })
}

// SetPriceRange sets the inclusive price bounds.
func (b *Builder) SetPriceRange(minPrice, maxPrice float64) {
	b.changeFilter(func(s *ViewState) { s.PriceRange = [2]float64{minPrice, maxPrice} })
}

// ToggleCategory adds category to the selection, or removes it if already selected.
func (b *Builder) ToggleCategory(category string) {
	b.changeFilter(func(s *ViewState) {
		if i := slices.Index(s.Categories, category); i >= 0 {
			s.Categories = slices.Delete(slices.Clone(s.Categories), i, i+1)
			return
		}
		s.Categories = append(slices.Clone(s.Categories), category)
	})
}

// SetAvailableOnly toggles the in-stock restriction.
func (b *Builder) SetAvailableOnly(only bool) {
	b.changeFilter(func(s *ViewState) { s.AvailableOnly = only })
}

// SetItemsPerPage changes the page size.
func (b *Builder) SetItemsPerPage(n int) {
	if n < 1 {
		return
	}
	b.changeFilter(func(s *ViewState) { s.ItemsPerPage = n })
}

// SetPage moves to page without touching the filters.
func (b *Builder) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	b.mu.Lock()
	b.state.Page = page
	b.mu.Unlock()
	b.schedule()
}

// GoToPage moves to page clamped to the page count of the last result.
func (b *Builder) GoToPage(page int) {
	b.mu.Lock()
	total := 1
	if b.result != nil && b.result.TotalPages > 0 {
		total = b.result.TotalPages
	}
	b.mu.Unlock()
	b.SetPage(ClampPage(page, total))
}

// VisiblePages returns the pagination window for the current state.
func (b *Builder) VisiblePages() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.result == nil {
		return []int{}
	}
	return VisiblePages(b.state.Page, b.result.TotalPages)
}

// Refresh fetches the current page now, bypassing the debounce.
func (b *Builder) Refresh() error {
	return b.fetch()
}

func (b *Builder) fetch() error {
	b.mu.Lock()
	q := b.state.Query()
	b.mu.Unlock()

	page, err := b.api.List(q)
	if err != nil {
		if b.onError != nil {
			b.onError(err)
		}
		return err
	}

	b.mu.Lock()
	b.result = page
	b.mu.Unlock()
	if b.onResult != nil {
		b.onResult(page)
	}
	return nil
}

// Create creates a product and then refreshes the current page.
func (b *Builder) Create(input models.ProductInput) (*models.Product, error) {
	product, err := b.api.Create(input)
	if err != nil {
		return nil, err
	}
	_ = b.Refresh()
	return product, nil
}

// Update updates a product and then refreshes the current page.
func (b *Builder) Update(id string, input models.ProductInput) (*models.Product, error) {
	product, err := b.api.Update(id, input)
	if err != nil {
		return nil, err
	}
	_ = b.Refresh()
	return product, nil
}

// Delete deletes a product and then refreshes the current page.
func (b *Builder) Delete(id string) error {
	if err := b.api.Delete(id); err != nil {
		return err
	}
	_ = b.Refresh()
	return nil
}

// Close cancels any pending debounced fetch.
func (b *Builder) Close() {
	b.debounce.Cancel()
}
