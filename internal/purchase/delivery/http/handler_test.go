package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/purchase/domain"
)

// scriptedPurchaseRepo returns whatever the test scripts. The Prometheus
// collectors register globally, so the handler is built once for the whole
// package and the repos are reset between tests.
type scriptedPurchaseRepo struct {
	createErr error
	purchase  *domain.Purchase
	cancelled *domain.Purchase
	cancelErr error
}

func (r *scriptedPurchaseRepo) reset() {
	*r = scriptedPurchaseRepo{}
}

func (r *scriptedPurchaseRepo) Create(_ context.Context, purchase *domain.Purchase, items []domain.LineItem) error {
	if r.createErr != nil {
		return r.createErr
	}
	purchase.ID = 1
	purchase.Items = items
	return nil
}

func (r *scriptedPurchaseRepo) FindByID(context.Context, uint) (*domain.Purchase, error) {
	if r.purchase == nil {
		return nil, domain.ErrPurchaseNotFound
	}
	return r.purchase, nil
}

func (r *scriptedPurchaseRepo) FindByCustomer(context.Context, uint, int, int) ([]domain.Purchase, error) {
	return nil, nil
}

func (r *scriptedPurchaseRepo) FindLineItems(context.Context, uint) ([]domain.LineItem, error) {
	return nil, nil
}

func (r *scriptedPurchaseRepo) Cancel(context.Context, uint) (*domain.Purchase, error) {
	if r.cancelErr != nil {
		return nil, r.cancelErr
	}
	return r.cancelled, nil
}

func (r *scriptedPurchaseRepo) Delete(context.Context, uint) error { return nil }

// scriptedCatalog serves price snapshots for the purchase flow.
type scriptedCatalog struct {
	product *productdomain.Product
}

func (c *scriptedCatalog) Create(context.Context, *productdomain.Product) error { return nil }

func (c *scriptedCatalog) FindByID(context.Context, uint) (*productdomain.Product, error) {
	if c.product == nil {
		return nil, productdomain.ErrProductNotFound
	}
	return c.product, nil
}

func (c *scriptedCatalog) FindAll(context.Context, int, int) ([]productdomain.Product, error) {
	return nil, nil
}

func (c *scriptedCatalog) FindByCategory(context.Context, string, int, int) ([]productdomain.Product, error) {
	return nil, nil
}

func (c *scriptedCatalog) Update(context.Context, *productdomain.Product) error { return nil }
func (c *scriptedCatalog) Delete(context.Context, uint) error                   { return nil }
func (c *scriptedCatalog) Count(context.Context) (int64, error)                 { return 0, nil }
func (c *scriptedCatalog) SetQuantity(context.Context, uint, int) error         { return nil }

var (
	testRepo    = &scriptedPurchaseRepo{}
	testCatalog = &scriptedCatalog{}
	testHandler = NewPurchaseHandler(testRepo, testCatalog, nil)
)

func authedRequest(method, target string, body []byte, customerID uint) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), CustomerIDKey, customerID)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func createBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"delivery_address": "Rua das Flores 123",
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
		},
	})
	require.NoError(t, err)
	return body
}

func TestCreatePurchaseStorageFailureIsGeneric500(t *testing.T) {
	testRepo.reset()
	testCatalog.product = &productdomain.Product{ID: 1, PriceCents: 4990}
	testRepo.createErr = fmt.Errorf("failed to create purchase: %w",
		errors.New("pq: connection refused"))

	rec := httptest.NewRecorder()
	testHandler.CreatePurchase(rec, authedRequest(http.MethodPost, "/purchases", createBody(t), 7))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "Internal server error", payload["error"])

	// Driver internals never reach the client.
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCreatePurchaseInvalidStatusIs400(t *testing.T) {
	testRepo.reset()
	testCatalog.product = &productdomain.Product{ID: 1, PriceCents: 4990}

	body, err := json.Marshal(map[string]interface{}{
		"delivery_address": "Rua das Flores 123",
		"status":           "shipped",
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	testHandler.CreatePurchase(rec, authedRequest(http.MethodPost, "/purchases", body, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Contains(t, payload["error"], "invalid status")
}

func TestCreatePurchaseInsufficientStockIs422(t *testing.T) {
	testRepo.reset()
	testCatalog.product = &productdomain.Product{ID: 1, PriceCents: 4990}
	testRepo.createErr = &domain.InsufficientStockError{ProductIDs: []uint{1}}

	rec := httptest.NewRecorder()
	testHandler.CreatePurchase(rec, authedRequest(http.MethodPost, "/purchases", createBody(t), 7))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "Insufficient stock", payload["error"])
	assert.Equal(t, []interface{}{float64(1)}, payload["product_ids"])
}

func TestCreatePurchaseUnknownProductIs404(t *testing.T) {
	testRepo.reset()
	testCatalog.product = nil

	rec := httptest.NewRecorder()
	testHandler.CreatePurchase(rec, authedRequest(http.MethodPost, "/purchases", createBody(t), 7))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelPurchaseStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		purchase   *domain.Purchase
		cancelErr  error
		customerID uint
		wantCode   int
	}{
		{
			name:       "not found",
			purchase:   nil,
			customerID: 7,
			wantCode:   http.StatusNotFound,
		},
		{
			name:       "different owner",
			purchase:   &domain.Purchase{ID: 5, CustomerID: 8, Status: domain.StatusConfirmed},
			customerID: 7,
			wantCode:   http.StatusForbidden,
		},
		{
			name:       "already cancelled",
			purchase:   &domain.Purchase{ID: 5, CustomerID: 7, Status: domain.StatusCancelled},
			cancelErr:  domain.ErrAlreadyCancelled,
			customerID: 7,
			wantCode:   http.StatusConflict,
		},
		{
			name:       "storage failure",
			purchase:   &domain.Purchase{ID: 5, CustomerID: 7, Status: domain.StatusConfirmed},
			cancelErr:  fmt.Errorf("failed to cancel purchase: %w", errors.New("pq: deadlock detected")),
			customerID: 7,
			wantCode:   http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			testRepo.reset()
			testRepo.purchase = tc.purchase
			testRepo.cancelErr = tc.cancelErr

			req := authedRequest(http.MethodPost, "/purchases/5/cancel", nil, tc.customerID)
			req = mux.SetURLVars(req, map[string]string{"id": "5"})

			rec := httptest.NewRecorder()
			testHandler.CancelPurchase(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "pq:")
			}
		})
	}
}
