package catalogclient_test

import (
	"io"
	"net"
	"testing"
	"time"

	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/catalogclient"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer serves the product API over a loopback listener backed by the
// in-memory repository and returns its base URL.
func startServer(t *testing.T) string {
	t.Helper()
	log.SetOutput(io.Discard)

	repo := repositories.NewMemoryProductRepository()
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: true,
	})
	handlers.NewProductHandler(services.NewProductService(repo, nil)).RegisterRoutes(app.Group("/api"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestClientRoundTrip(t *testing.T) {
	client := catalogclient.New(startServer(t)).WithTimeout(2 * time.Second)

	created, err := client.Create(models.ProductInput{
		Name:     "Bench",
		Price:    150,
		Quantity: 2,
		Category: "Furniture",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Bench", created.Name)

	_, err = client.Create(models.ProductInput{Name: "Lamp", Price: 40, Quantity: 0, Category: "Furniture"})
	require.NoError(t, err)

	available := true
	page, err := client.List(catalogclient.Query{Page: 1, Limit: 10, Available: &available})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalProducts)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Products, 1)
	assert.Equal(t, created.ID, page.Products[0].ID)

	got, err := client.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bench", got.Name)

	updated, err := client.Update(created.ID, models.ProductInput{Name: "Bench", Price: 120, Quantity: 0, Category: "Furniture"})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)
	assert.False(t, updated.Available())

	page, err = client.List(catalogclient.Query{Available: &available})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.NotNil(t, page.Products)

	require.NoError(t, client.Delete(created.ID))
	_, err = client.Get(created.ID)
	assert.ErrorIs(t, err, catalogclient.ErrNotFound)
}

func TestClientErrors(t *testing.T) {
	client := catalogclient.New(startServer(t))

	err := client.Delete("missing")
	var apiErr *catalogclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)

	_, err = client.Create(models.ProductInput{Price: 10})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Product creation failed", apiErr.Message)
	assert.NotEmpty(t, apiErr.Detail)
	assert.NotErrorIs(t, err, catalogclient.ErrNotFound)
}

func TestClientUnreachableServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = catalogclient.New("http://" + addr).WithTimeout(500 * time.Millisecond).List(catalogclient.Query{})
	require.Error(t, err)
	_, isAPIErr := err.(*catalogclient.APIError)
	assert.False(t, isAPIErr, "transport failures are not API errors")
}

func TestBuilderAgainstServer(t *testing.T) {
	client := catalogclient.New(startServer(t))
	for _, in := range []models.ProductInput{
		{Name: "Ball", Price: 20, Quantity: 5, Category: "Sport"},
		{Name: "Racket", Price: 90, Quantity: 1, Category: "Sport"},
		{Name: "Bread", Price: 3, Quantity: 10, Category: "Food"},
	} {
		_, err := client.Create(in)
		require.NoError(t, err)
	}

	b := catalogclient.NewBuilder(client, catalogclient.WithDebounce(10*time.Millisecond))
	defer b.Close()

	require.NoError(t, b.Refresh())
	result := b.Result()
	require.Len(t, result.Products, 3)
	assert.Equal(t, "Bread", result.Products[0].Name)

	b.ToggleCategory("Sport")
	assert.Eventually(t, func() bool {
		r := b.Result()
		return r != nil && r.TotalProducts == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Ball", b.Result().Products[0].Name)
}
