// Package catalogclient drives the product catalog HTTP API: a thin client
// for the four product operations plus a debounced query builder that keeps
// a browsing view in sync with the server.
package catalogclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"katalog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ErrNotFound matches API errors for missing products.
var ErrNotFound = errors.New("product not found")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("catalog api: %d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("catalog api: %d %s", e.StatusCode, e.Message)
}

// Is reports whether a 404 APIError is compared against ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == fiber.StatusNotFound
}

// Query holds the listing parameters sent to the server. Zero values and nil
// pointers are omitted from the request.
type Query struct {
	Page      int
	Limit     int
	SortBy    string
	Order     string
	MinPrice  *float64
	MaxPrice  *float64
	Category  string
	Available *bool
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set(models.ParamPage, strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set(models.ParamLimit, strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set(models.ParamSortBy, q.SortBy)
	}
	if q.Order != "" {
		v.Set(models.ParamOrder, q.Order)
	}
	if q.MinPrice != nil {
		v.Set(models.ParamMinPrice, strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set(models.ParamMaxPrice, strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Category != "" {
		v.Set(models.ParamCategory, q.Category)
	}
	if q.Available != nil {
		v.Set(models.ParamAvailable, strconv.FormatBool(*q.Available))
	}
	return v
}

type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Product *models.Product `json:"product"`
}

type listEnvelope struct {
	Message string `json:"message"`
	models.ProductPage
}

// Client calls the product endpoints of a catalog server.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/products",
		timeout: 10 * time.Second,
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// do sends the request held by a and decodes a 2xx body into out.
func (c *Client) do(a *fiber.Agent, out interface{}) error {
	a.Timeout(c.timeout)
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("catalog api request failed: %w", errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		var env envelope
		_ = json.Unmarshal(body, &env)
		if env.Message == "" {
			env.Message = utils.StatusMessage(code)
		}
		return &APIError{StatusCode: code, Message: env.Message, Detail: env.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

// List fetches one page of products.
func (c *Client) List(q Query) (*models.ProductPage, error) {
	a := fiber.Get(c.baseURL + "/getAllProducts")
	a.QueryString(q.Values().Encode())
	var env listEnvelope
	if err := c.do(a, &env); err != nil {
		return nil, err
	}
	if env.Products == nil {
		env.Products = []models.Product{}
	}
	return &env.ProductPage, nil
}

// Get fetches a single product.
func (c *Client) Get(id string) (*models.Product, error) {
	var env envelope
	if err := c.do(fiber.Get(c.baseURL+"/"+url.PathEscape(id)), &env); err != nil {
		return nil, err
	}
	return env.Product, nil
}

// Create creates a product and returns the stored record.
func (c *Client) Create(input models.ProductInput) (*models.Product, error) {
	var env envelope
	if err := c.do(fiber.Post(c.baseURL+"/create").JSON(input), &env); err != nil {
		return nil, err
	}
	return env.Product, nil
}

// Update replaces every editable field of the product with id.
func (c *Client) Update(id string, input models.ProductInput) (*models.Product, error) {
	var env envelope
	if err := c.do(fiber.Put(c.baseURL+"/update/"+url.PathEscape(id)).JSON(input), &env); err != nil {
		return nil, err
	}
	return env.Product, nil
}

// Delete removes the product with id.
func (c *Client) Delete(id string) error {
	return c.do(fiber.Delete(c.baseURL+"/delete/"+url.PathEscape(id)), nil)
}

var _ API = (*Client)(nil)
