package catalogclient_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"katalog/internal/models"
	"katalog/pkg/catalogclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of catalogclient.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) List(q catalogclient.Query) (*models.ProductPage, error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductPage), args.Error(1)
}

func (m *MockAPI) Create(input models.ProductInput) (*models.Product, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockAPI) Update(id string, input models.ProductInput) (*models.Product, error) {
	args := m.Called(id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockAPI) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

const testDebounce = 30 * time.Millisecond

func page(totalPages int, names ...string) *models.ProductPage {
	p := &models.ProductPage{Products: []models.Product{}, TotalPages: totalPages, CurrentPage: 1}
	for _, n := range names {
		p.Products = append(p.Products, models.Product{Name: n})
	}
	p.TotalProducts = int64(len(names))
	return p
}

func lastQuery(api *MockAPI) catalogclient.Query {
	calls := api.Calls
	return calls[len(calls)-1].Arguments.Get(0).(catalogclient.Query)
}

func TestBuilder_DebouncesFilterChanges(t *testing.T) {
	api := new(MockAPI)
	api.On("List", mock.Anything).Return(page(1, "a"), nil)

	var results atomic.Int32
	b := catalogclient.NewBuilder(api,
		catalogclient.WithDebounce(testDebounce),
		catalogclient.OnResult(func(*models.ProductPage) { results.Add(1) }),
	)
	defer b.Close()

	b.SetPage(3)
	b.SetPriceRange(10, 20)
	b.ToggleCategory("Sport")
	b.ToggleCategory("Food")

	assert.Eventually(t, func() bool { return results.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	api.AssertNumberOfCalls(t, "List", 1)

	q := lastQuery(api)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, catalogclient.DefaultItemsPerPage, q.Limit)
	assert.Equal(t, 10.0, *q.MinPrice)
	assert.Equal(t, 20.0, *q.MaxPrice)
	assert.Equal(t, "Sport,Food", q.Category)
	require.NotNil(t, q.Available)
	assert.True(t, *q.Available)
	assert.Equal(t, "price", q.SortBy)
	assert.Equal(t, "asc", q.Order)
	assert.Equal(t, "a", b.Result().Products[0].Name)
}

func TestBuilder_FilterChangeResetsPage(t *testing.T) {
	api := new(MockAPI)
	api.On("List", mock.Anything).Return(page(5), nil)
	var results atomic.Int32
	b := catalogclient.NewBuilder(api,
		catalogclient.WithDebounce(testDebounce),
		catalogclient.OnResult(func(*models.ProductPage) { results.Add(1) }),
	)
	defer b.Close()

	b.SetPage(4)
	assert.Equal(t, 4, b.State().Page)

	b.SetAvailableOnly(false)
	state := b.State()
	assert.Equal(t, 1, state.Page)
	assert.False(t, state.AvailableOnly)

	assert.Eventually(t, func() bool { return results.Load() == 1 }, time.Second, 5*time.Millisecond)
	// The availability flag is omitted rather than sent as false.
	assert.Nil(t, lastQuery(api).Available)

	b.ToggleCategory("Food")
	b.ToggleCategory("Food")
	assert.Empty(t, b.State().Categories)
}

func TestBuilder_GoToPageClampsToLastResult(t *testing.T) {
	api := new(MockAPI)
	api.On("List", mock.Anything).Return(page(3), nil)
	b := catalogclient.NewBuilder(api, catalogclient.WithDebounce(testDebounce))
	defer b.Close()

	require.NoError(t, b.Refresh())
	b.GoToPage(10)
	assert.Equal(t, 3, b.State().Page)
	b.GoToPage(-1)
	assert.Equal(t, 1, b.State().Page)
	assert.Equal(t, []int{1, 2, 3}, b.VisiblePages())
}

func TestBuilder_WritesRefreshImmediately(t *testing.T) {
	api := new(MockAPI)
	api.On("List", mock.Anything).Return(page(1, "fresh"), nil)
	api.On("Create", mock.Anything).Return(&models.Product{ID: "1"}, nil).Once()
	api.On("Update", "1", mock.Anything).Return(&models.Product{ID: "1"}, nil).Once()
	api.On("Delete", "1").Return(nil).Once()

	// A long debounce proves the refresh does not wait for the timer.
	b := catalogclient.NewBuilder(api, catalogclient.WithDebounce(time.Hour))
	defer b.Close()

	_, err := b.Create(models.ProductInput{Name: "x"})
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "List", 1)

	_, err = b.Update("1", models.ProductInput{Name: "y"})
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "List", 2)

	require.NoError(t, b.Delete("1"))
	api.AssertNumberOfCalls(t, "List", 3)
	assert.Equal(t, "fresh", b.Result().Products[0].Name)
	api.AssertExpectations(t)
}

func TestBuilder_FailedWriteDoesNotRefresh(t *testing.T) {
	api := new(MockAPI)
	api.On("Delete", "missing").Return(&catalogclient.APIError{StatusCode: 404, Message: "Product not found"})

	b := catalogclient.NewBuilder(api, catalogclient.WithDebounce(time.Hour))
	defer b.Close()

	err := b.Delete("missing")
	assert.ErrorIs(t, err, catalogclient.ErrNotFound)
	api.AssertNotCalled(t, "List", mock.Anything)
}

func TestBuilder_FailedFetchKeepsStaleResult(t *testing.T) {
	api := new(MockAPI)
	api.On("List", mock.Anything).Return(page(1, "stale"), nil).Once()
	api.On("List", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	var lastErr atomic.Value
	b := catalogclient.NewBuilder(api,
		catalogclient.WithDebounce(time.Hour),
		catalogclient.OnError(func(err error) { lastErr.Store(err) }),
	)
	defer b.Close()

	require.NoError(t, b.Refresh())
	assert.Error(t, b.Refresh())
	assert.EqualError(t, lastErr.Load().(error), "connection refused")
	assert.Equal(t, "stale", b.Result().Products[0].Name)
}
