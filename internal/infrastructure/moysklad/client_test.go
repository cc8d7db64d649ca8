package moysklad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ordersync/backend/internal/domain/ordersync"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Token: "test-token"}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

// pagedOrderHandler serves a listing of exactly total orders, honoring
// limit/offset, and counts the requests it receives.
func pagedOrderHandler(total int, requests *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*requests++
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		rows := make([]map[string]any, 0, limit)
		for i := offset; i < total && i < offset+limit; i++ {
			rows = append(rows, map[string]any{
				"id":   fmt.Sprintf("order-%d", i),
				"name": fmt.Sprintf("ORD-%d", i),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"rows": rows})
	}
}

func TestListOrdersPaging(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		wantOrders   int
		wantRequests int
	}{
		{"exactly one full page", 100, 100, 2},
		{"one full page plus one", 101, 101, 2},
		{"empty listing", 0, 0, 1},
		{"partial page", 42, 42, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := 0
			client, _ := newTestClient(t, pagedOrderHandler(tt.total, &requests))

			orders, err := client.ListOrders(context.Background(), []string{"cp-1"}, nil, "")
			require.NoError(t, err)
			assert.Len(t, orders, tt.wantOrders)
			assert.Equal(t, tt.wantRequests, requests)
		})
	}
}

func TestListOrdersFilter(t *testing.T) {
	var gotFilter string
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		json.NewEncoder(w).Encode(map[string]any{"rows": []any{}})
	}))

	_, err := client.ListOrders(context.Background(),
		[]string{"cp-1", "cp-2"}, []string{"state-1"}, "2024-01-01 00:00:00")
	require.NoError(t, err)

	base := server.URL + apiBasePath
	assert.Equal(t,
		"agent="+base+"/entity/counterparty/cp-1"+
			";agent="+base+"/entity/counterparty/cp-2"+
			";state="+base+"/entity/customerorder/metadata/states/state-1"+
			";moment>=2024-01-01 00:00:00",
		gotFilter)
}

func TestListOrdersServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.ListOrders(context.Background(), []string{"cp-1"}, nil, "")
	assert.ErrorIs(t, err, ordersync.ErrRemoteRequestFailed)
}

func TestListOrdersUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(Config{BaseURL: server.URL, Token: "t"}, zap.NewNop())
	require.NoError(t, err)
	server.Close()

	_, err = client.ListOrders(context.Background(), []string{"cp-1"}, nil, "")
	assert.ErrorIs(t, err, ordersync.ErrRemoteUnavailable)
}

func TestListPositionsPaging(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, apiBasePath+"/entity/customerorder/order-1/positions", r.URL.Path)

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		rows := make([]map[string]any, 0)
		for i := offset; i < 150 && i < offset+limit; i++ {
			rows = append(rows, map[string]any{"id": fmt.Sprintf("pos-%d", i)})
		}
		json.NewEncoder(w).Encode(map[string]any{"rows": rows})
	}))

	positions, err := client.ListPositions(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Len(t, positions, 150)
	assert.Equal(t, 2, requests)
}

func TestProductExternalCode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiBasePath + "/entity/product/prod-1":
			json.NewEncoder(w).Encode(map[string]any{"article": "SKU-42"})
		case apiBasePath + "/entity/bundle/bundle-1":
			json.NewEncoder(w).Encode(map[string]any{"name": "no article set"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	code, err := client.ProductExternalCode(context.Background(), "prod-1", false)
	require.NoError(t, err)
	assert.Equal(t, "SKU-42", code)

	code, err = client.ProductExternalCode(context.Background(), "bundle-1", true)
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestFindProductByExternalCode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiBasePath+"/entity/product", r.URL.Path)
		if r.URL.Query().Get("filter") != "article=SKU-42" {
			json.NewEncoder(w).Encode(map[string]any{"rows": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"rows": []map[string]any{
			{"meta": map[string]any{"href": "https://dest/entity/product/p-9", "type": "product"}},
			{"meta": map[string]any{"href": "https://dest/entity/product/p-10", "type": "product"}},
		}})
	}))

	ref, err := client.FindProductByExternalCode(context.Background(), "SKU-42", false)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "https://dest/entity/product/p-9", ref.Href)

	ref, err = client.FindProductByExternalCode(context.Background(), "missing", false)
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestCreatePurchaseOrder(t *testing.T) {
	t.Run("success returns the new purchase id", func(t *testing.T) {
		var gotBody map[string]any
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, apiBasePath+"/entity/purchaseorder", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(map[string]any{"id": "po-123"})
		}))

		result, err := client.CreatePurchaseOrder(context.Background(), &ordersync.PurchaseOrder{
			Applicable:  true,
			Description: "Synchronized by ordersync. Source order ID: order-1",
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "po-123", result.PurchaseID)
		assert.Equal(t, true, gotBody["applicable"])
	})

	t.Run("rejection surfaces the structured error message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": []map[string]any{
				{"error": "Организация не указана"},
			}})
		}))

		result, err := client.CreatePurchaseOrder(context.Background(), &ordersync.PurchaseOrder{})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Организация не указана", result.ErrorMessage)
	})

	t.Run("rejection without a parseable body falls back to the status", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		result, err := client.CreatePurchaseOrder(context.Background(), &ordersync.PurchaseOrder{})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "HTTP 403", result.ErrorMessage)
	})

	t.Run("server error is not a rejection", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.CreatePurchaseOrder(context.Background(), &ordersync.PurchaseOrder{})
		assert.ErrorIs(t, err, ordersync.ErrRemoteRequestFailed)
	})
}

func TestSearchEndpoints(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"rows": []map[string]any{
			{"id": "e-1", "name": "Acme", "meta": map[string]any{"href": "https://x/e-1"}},
		}})
	}))

	tests := []struct {
		name      string
		call      func() ([]ordersync.EntityHit, error)
		wantPath  string
		wantParam string
	}{
		{"counterparties", func() ([]ordersync.EntityHit, error) {
			return client.SearchCounterparties(context.Background(), "Acme")
		}, "/entity/counterparty", "filter=name~Acme"},
		{"organizations", func() ([]ordersync.EntityHit, error) {
			return client.SearchOrganizations(context.Background(), "Acme")
		}, "/entity/organization", "search=Acme"},
		{"departments", func() ([]ordersync.EntityHit, error) {
			return client.SearchDepartments(context.Background(), "Acme")
		}, "/entity/group", "search=Acme"},
		{"employees", func() ([]ordersync.EntityHit, error) {
			return client.SearchEmployees(context.Background(), "Acme")
		}, "/entity/employee", "filter=name~Acme"},
		{"warehouses", func() ([]ordersync.EntityHit, error) {
			return client.SearchWarehouses(context.Background(), "Acme")
		}, "/entity/store", "filter=name~Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := tt.call()
			require.NoError(t, err)
			require.Len(t, hits, 1)
			assert.Equal(t, "Acme", hits[0].Name)
			assert.Equal(t, apiBasePath+tt.wantPath, gotPath)
			assert.Contains(t, gotQuery, "limit=10")
			assert.Contains(t, gotQuery, tt.wantParam)
		})
	}
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Token: "t"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(Config{BaseURL: "https://x"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
