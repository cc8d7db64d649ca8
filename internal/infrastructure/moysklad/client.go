package moysklad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/ordersync"
)

// apiBasePath is the JSON API prefix shared by every endpoint
const apiBasePath = "/api/remap/1.2"

// pageSize is the fixed listing page size; listings continue while the last
// page is full
const pageSize = 100

// searchLimit caps search endpoint results
const searchLimit = 10

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrInvalidConfig indicates an unusable client configuration
var ErrInvalidConfig = errors.New("moysklad: invalid client configuration")

// Config holds the connection settings for one system instance
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}
	return nil
}

// Client talks to one MoySklad-style accounting system. The engine holds two
// instances, one per system; the client itself carries no sync state.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client bound to one system instance
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("moysklad"),
	}, nil
}

// entityHref builds the absolute reference URL for an entity, as used inside
// filter clauses
func (c *Client) entityHref(path ...string) string {
	return c.config.BaseURL + apiBasePath + "/entity/" + strings.Join(path, "/")
}

// itemEntity returns the catalog endpoint name for the simple/bundle distinction
func itemEntity(isBundle bool) string {
	if isBundle {
		return ordersync.TypeBundle
	}
	return ordersync.TypeProduct
}

// ---------------------------------------------------------------------------
// Order listing
// ---------------------------------------------------------------------------

type orderRows struct {
	Rows []ordersync.Order `json:"rows"`
}

// ListOrders fetches every order matching the counterparty set, workflow
// states and minimum moment, paging transparently.
func (c *Client) ListOrders(ctx context.Context, counterpartyIDs, stateIDs []string, minMoment string) ([]ordersync.Order, error) {
	clauses := make([]string, 0, len(counterpartyIDs)+len(stateIDs)+1)
	for _, id := range counterpartyIDs {
		clauses = append(clauses, "agent="+c.entityHref("counterparty", id))
	}
	for _, id := range stateIDs {
		clauses = append(clauses, "state="+c.entityHref("customerorder", "metadata", "states", id))
	}
	if minMoment != "" {
		clauses = append(clauses, "moment>="+minMoment)
	}
	filter := strings.Join(clauses, ";")

	var orders []ordersync.Order
	offset := 0
	for {
		query := url.Values{}
		query.Set("filter", filter)
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(offset))

		body, err := c.doGet(ctx, "/entity/customerorder", query)
		if err != nil {
			return nil, err
		}

		var page orderRows
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteInvalidResponse, err)
		}

		orders = append(orders, page.Rows...)
		if len(page.Rows) < pageSize {
			break
		}
		offset += pageSize
	}

	return orders, nil
}

type positionRows struct {
	Rows []ordersync.Position `json:"rows"`
}

// ListPositions fetches every line item of one order, paging transparently.
func (c *Client) ListPositions(ctx context.Context, orderID string) ([]ordersync.Position, error) {
	var positions []ordersync.Position
	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(offset))

		body, err := c.doGet(ctx, "/entity/customerorder/"+orderID+"/positions", query)
		if err != nil {
			return nil, err
		}

		var page positionRows
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteInvalidResponse, err)
		}

		positions = append(positions, page.Rows...)
		if len(page.Rows) < pageSize {
			break
		}
		offset += pageSize
	}

	return positions, nil
}

// ---------------------------------------------------------------------------
// Catalog lookups
// ---------------------------------------------------------------------------

// ProductExternalCode returns the catalog item's article, or "" if unset.
func (c *Client) ProductExternalCode(ctx context.Context, productID string, isBundle bool) (string, error) {
	body, err := c.doGet(ctx, "/entity/"+itemEntity(isBundle)+"/"+productID, nil)
	if err != nil {
		return "", err
	}

	var item struct {
		Article string `json:"article"`
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return "", fmt.Errorf("%w: %v", ordersync.ErrRemoteInvalidResponse, err)
	}
	return item.Article, nil
}

// FindProductByExternalCode returns the first catalog item carrying the
// article, or nil when nothing matches.
func (c *Client) FindProductByExternalCode(ctx context.Context, code string, isBundle bool) (*ordersync.Reference, error) {
	query := url.Values{}
	query.Set("filter", "article="+code)

	body, err := c.doGet(ctx, "/entity/"+itemEntity(isBundle), query)
	if err != nil {
		return nil, err
	}

	var page struct {
		Rows []struct {
			Meta ordersync.Reference `json:"meta"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteInvalidResponse, err)
	}
	if len(page.Rows) == 0 {
		return nil, nil
	}
	meta := page.Rows[0].Meta
	return &meta, nil
}

// ---------------------------------------------------------------------------
// Purchase order creation
// ---------------------------------------------------------------------------

// apiError is the structured error body the API returns on rejection
type apiError struct {
	Error []struct {
		Error string `json:"error"`
	} `json:"error"`
}

// CreatePurchaseOrder submits a purchase order. A 4xx rejection is decoded
// into a failure result; transport failures and server errors surface as
// errors.
func (c *Client) CreatePurchaseOrder(ctx context.Context, payload *ordersync.PurchaseOrder) (*ordersync.CreateResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("moysklad: failed to encode purchase order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+apiBasePath+"/entity/purchaseorder", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("moysklad: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("moysklad: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var rejection apiError
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if err := json.Unmarshal(body, &rejection); err == nil && len(rejection.Error) > 0 {
			msg = rejection.Error[0].Error
		}
		c.logger.Warn("Purchase order rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg),
		)
		return &ordersync.CreateResult{Success: false, ErrorMessage: msg}, nil
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", ordersync.ErrRemoteRequestFailed, resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteInvalidResponse, err)
	}

	return &ordersync.CreateResult{Success: true, PurchaseID: created.ID}, nil
}

// ---------------------------------------------------------------------------
// Search operations (mapping configuration UI)
// ---------------------------------------------------------------------------

// SearchCounterparties searches counterparties by name
func (c *Client) SearchCounterparties(ctx context.Context, term string) ([]ordersync.EntityHit, error) {
	return c.searchByName(ctx, "counterparty", term)
}

// SearchOrganizations searches organizations by free text
func (c *Client) SearchOrganizations(ctx context.Context, term string) ([]ordersync.EntityHit, error) {
	return c.searchByText(ctx, "organization", term)
}

// SearchDepartments searches departments (wire entity "group") by free text
func (c *Client) SearchDepartments(ctx context.Context, term string) ([]ordersync.EntityHit, error) {
	return c.searchByText(ctx, "group", term)
}

// SearchEmployees searches employees by name
func (c *Client) SearchEmployees(ctx context.Context, term string) ([]ordersync.EntityHit, error) {
	return c.searchByName(ctx, "employee", term)
}

// SearchWarehouses searches warehouses (wire entity "store") by name
func (c *Client) SearchWarehouses(ctx context.Context, term string) ([]ordersync.EntityHit, error) {
	return c.searchByName(ctx, "store", term)
}

type hitRows struct {
	Rows []ordersync.EntityHit `json:"rows"`
}

func (c *Client) searchByName(ctx context.Context, entity, term string) ([]ordersync.EntityHit, error) {
	query := url.Values{}
	query.Set("filter", "name~"+term)
	query.Set("limit", strconv.Itoa(searchLimit))
	return c.search(ctx, entity, query)
}

func (c *Client) searchByText(ctx context.Context, entity, term string) ([]ordersync.EntityHit, error) {
	query := url.Values{}
	query.Set("search", term)
	query.Set("limit", strconv.Itoa(searchLimit))
	return c.search(ctx, entity, query)
}

func (c *Client) search(ctx context.Context, entity string, query url.Values) ([]ordersync.EntityHit, error) {
	body, err := c.doGet(ctx, "/entity/"+entity, query)
	if err != nil {
		return nil, err
	}

	var page hitRows
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteInvalidResponse, err)
	}
	return page.Rows, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// doGet performs an authenticated GET against an API path
func (c *Client) doGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.config.BaseURL + apiBasePath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("moysklad: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ordersync.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("moysklad: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ordersync.ErrRemoteRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// Compile-time interface check
var _ ordersync.RemoteClient = (*Client)(nil)
