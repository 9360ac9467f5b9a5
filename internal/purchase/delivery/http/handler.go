package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	productdomain "github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/purchase/domain"
	"github.com/tair/clothing-store/internal/purchase/usecase/command"
	"github.com/tair/clothing-store/internal/purchase/usecase/query"
	"github.com/tair/clothing-store/kafka"
	"github.com/tair/clothing-store/pkg/logger"
	"github.com/tair/clothing-store/pkg/money"
)

// PurchaseHandler handles HTTP requests for the purchase workflow
type PurchaseHandler struct {
	// Command handlers
	createHandler *command.CreatePurchaseHandler
	cancelHandler *command.CancelPurchaseHandler
	deleteHandler *command.DeletePurchaseHandler

	// Query handlers
	getHandler  *query.GetPurchaseHandler
	listHandler *query.ListMyPurchasesHandler

	products  productdomain.ProductRepository
	publisher *kafka.Publisher

	requestCounter     *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	purchasesCreated   prometheus.Counter
	purchasesCancelled prometheus.Counter
	stockRejections    prometheus.Counter
}

// NewPurchaseHandler creates a new purchase handler. publisher may be nil
// when Kafka is not configured; events are then skipped.
func NewPurchaseHandler(repo domain.PurchaseRepository, products productdomain.ProductRepository, publisher *kafka.Publisher) *PurchaseHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_service_requests_total",
			Help: "Total number of requests to purchase endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_service_request_duration_seconds",
			Help:    "Duration of purchase endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	purchasesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_service_purchases_created_total",
			Help: "Total number of purchases created",
		},
	)

	purchasesCancelled := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_service_purchases_cancelled_total",
			Help: "Total number of purchases cancelled",
		},
	)

	stockRejections := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_service_stock_rejections_total",
			Help: "Total number of purchases rejected for insufficient stock",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(purchasesCreated)
	prometheus.MustRegister(purchasesCancelled)
	prometheus.MustRegister(stockRejections)

	return &PurchaseHandler{
		createHandler:      command.NewCreatePurchaseHandler(repo),
		cancelHandler:      command.NewCancelPurchaseHandler(repo),
		deleteHandler:      command.NewDeletePurchaseHandler(repo),
		getHandler:         query.NewGetPurchaseHandler(repo),
		listHandler:        query.NewListMyPurchasesHandler(repo),
		products:           products,
		publisher:          publisher,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
		purchasesCreated:   purchasesCreated,
		purchasesCancelled: purchasesCancelled,
		stockRejections:    stockRejections,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *PurchaseHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// lineItemResponse augments a line item with a display price.
type lineItemResponse struct {
	domain.LineItem
	DisplayUnitPrice string `json:"display_unit_price"`
}

// purchaseResponse is the wire shape of a purchase with display prices and
// the total in cents.
type purchaseResponse struct {
	*domain.Purchase
	Items             []lineItemResponse `json:"items"`
	TotalCents        int64              `json:"total_cents"`
	DisplayTotalPrice string             `json:"display_total_price"`
}

func toPurchaseResponse(p *domain.Purchase) purchaseResponse {
	items := make([]lineItemResponse, 0, len(p.Items))
	var total int64
	for _, item := range p.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
		items = append(items, lineItemResponse{
			LineItem:         item,
			DisplayUnitPrice: money.ToDisplay(item.UnitPriceCents),
		})
	}
	return purchaseResponse{
		Purchase:          p,
		Items:             items,
		TotalCents:        total,
		DisplayTotalPrice: money.ToDisplay(total),
	}
}

// CreatePurchase handles POST /purchases
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	var req struct {
		DeliveryAddress string     `json:"delivery_address"`
		PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
		Status          string     `json:"status,omitempty"`
		Items           []struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		} `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DeliveryAddress == "" {
		h.respondError(w, http.StatusBadRequest, "Delivery address is required")
		return
	}
	if len(req.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "At least one item is required")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			h.respondError(w, http.StatusBadRequest, "Each item needs a product ID and a positive quantity")
			return
		}
	}

	// Snapshot the unit price from the catalog; the client never supplies
	// prices.
	items := make([]command.PurchaseItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := h.products.FindByID(r.Context(), item.ProductID)
		if err != nil {
			h.respondDomainError(w, r, err)
			return
		}
		items = append(items, command.PurchaseItem{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}

	purchase, err := h.createHandler.Handle(r.Context(), command.CreatePurchaseCommand{
		CustomerID:      customerID,
		DeliveryAddress: req.DeliveryAddress,
		PurchaseDate:    req.PurchaseDate,
		Status:          req.Status,
		Items:           items,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.purchasesCreated.Inc()
	h.publishEvent(r, kafka.EventTypePurchaseCreated, purchase)
	h.respondJSON(w, http.StatusCreated, toPurchaseResponse(purchase))
}

// ListMyPurchases handles GET /purchases
func (h *PurchaseHandler) ListMyPurchases(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	purchases, err := h.listHandler.Handle(r.Context(), query.ListMyPurchasesQuery{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	responses := make([]purchaseResponse, 0, len(purchases))
	for i := range purchases {
		responses = append(responses, toPurchaseResponse(&purchases[i]))
	}

	h.respondJSON(w, http.StatusOK, responses)
}

// GetPurchase handles GET /purchases/{id}
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	purchase, err := h.getHandler.Handle(r.Context(), query.GetPurchaseQuery{
		PurchaseID: id,
		CustomerID: customerID,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPurchaseResponse(purchase))
}

// CancelPurchase handles POST /purchases/{id}/cancel
func (h *PurchaseHandler) CancelPurchase(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	purchase, err := h.cancelHandler.Handle(r.Context(), command.CancelPurchaseCommand{
		PurchaseID: id,
		CustomerID: customerID,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.purchasesCancelled.Inc()
	h.publishEvent(r, kafka.EventTypePurchaseCancelled, purchase)
	h.respondJSON(w, http.StatusOK, toPurchaseResponse(purchase))
}

// DeletePurchase handles DELETE /admin/purchases/{id}. Hard delete, no
// stock restoration.
func (h *PurchaseHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeletePurchaseCommand{PurchaseID: id}); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Purchase deleted successfully"})
}

// publishEvent sends a purchase lifecycle event. Publication is best
// effort: a broker failure is logged, never surfaced to the client.
func (h *PurchaseHandler) publishEvent(r *http.Request, eventType string, purchase *domain.Purchase) {
	if h.publisher == nil {
		return
	}

	items := make([]kafka.PurchaseEventItem, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		items = append(items, kafka.PurchaseEventItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	event := kafka.PurchaseEvent{
		PurchaseID: purchase.ID,
		Reference:  purchase.Reference,
		CustomerID: purchase.CustomerID,
		Status:     purchase.Status,
		Items:      items,
	}

	if err := h.publisher.PublishPurchaseEvent(r.Context(), eventType, event); err != nil {
		logger.Error(r.Context()).
			Err(err).
			Str("event_type", eventType).
			Uint("purchase_id", purchase.ID).
			Msg("Failed to publish purchase event")
	}
}

// respondDomainError maps domain errors onto HTTP statuses. Anything not in
// the taxonomy is treated as a storage failure: logged with the trace
// context and answered with a generic 500 so driver internals never reach
// the client.
func (h *PurchaseHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		h.stockRejections.Inc()
		h.respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       "Insufficient stock",
			"product_ids": stockErr.ProductIDs,
		})
	case errors.Is(err, domain.ErrPurchaseNotFound):
		h.respondError(w, http.StatusNotFound, "Purchase not found")
	case errors.Is(err, productdomain.ErrProductNotFound):
		h.respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrNotOwner):
		h.respondError(w, http.StatusForbidden, "Purchase belongs to a different customer")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		h.respondError(w, http.StatusConflict, "Purchase is already cancelled")
	case errors.Is(err, domain.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, productdomain.ErrStockInvariant):
		logger.Error(r.Context()).Err(err).Msg("Stock invariant violated")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error(r.Context()).Err(err).Msg("Purchase request failed")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID extracts the {id} path variable
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

// respondJSON sends a JSON response
func (h *PurchaseHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *PurchaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all purchase routes
func (h *PurchaseHandler) RegisterRoutes(router *mux.Router) {
	// Authenticated customer routes
	router.HandleFunc("/purchases", h.metricsMiddleware("/purchases", AuthMiddleware(h.CreatePurchase))).Methods("POST")
	router.HandleFunc("/purchases", h.metricsMiddleware("/purchases", AuthMiddleware(h.ListMyPurchases))).Methods("GET")
	router.HandleFunc("/purchases/{id}", h.metricsMiddleware("/purchases/{id}", AuthMiddleware(h.GetPurchase))).Methods("GET")
	router.HandleFunc("/purchases/{id}/cancel", h.metricsMiddleware("/purchases/{id}/cancel", AuthMiddleware(h.CancelPurchase))).Methods("POST")

	// Admin routes
	router.HandleFunc("/admin/purchases/{id}", h.metricsMiddleware("/admin/purchases/{id}", AdminMiddleware(h.DeletePurchase))).Methods("DELETE")
}
