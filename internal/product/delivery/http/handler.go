package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/product/usecase/command"
	"github.com/tair/clothing-store/internal/product/usecase/query"
	"github.com/tair/clothing-store/pkg/logger"
	"github.com/tair/clothing-store/pkg/money"
)

// ProductHandler handles HTTP requests for the catalog using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler      *command.CreateProductHandler
	updateHandler      *command.UpdateProductHandler
	deleteHandler      *command.DeleteProductHandler
	updateStockHandler *command.UpdateStockHandler

	// Query handlers
	getHandler   *query.GetProductHandler
	listHandler  *query.ListProductsHandler
	statsHandler *query.GetStatsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo domain.ProductRepository) *ProductHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_service_requests_total",
			Help: "Total number of requests to the product endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "product_service_request_duration_seconds",
			Help:    "Duration of product endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &ProductHandler{
		createHandler:      command.NewCreateProductHandler(repo),
		updateHandler:      command.NewUpdateProductHandler(repo),
		deleteHandler:      command.NewDeleteProductHandler(repo),
		updateStockHandler: command.NewUpdateStockHandler(repo),
		getHandler:         query.NewGetProductHandler(repo),
		listHandler:        query.NewListProductsHandler(repo),
		statsHandler:       query.NewGetStatsHandler(repo),
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
	}
}

// productResponse decorates a product with its display price.
type productResponse struct {
	domain.Product
	DisplayPrice string `json:"display_price"`
}

func toResponse(p domain.Product) productResponse {
	return productResponse{Product: p, DisplayPrice: money.ToDisplay(p.PriceCents)}
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
func (h *ProductHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		PriceCents  int64  `json:"price_cents"`
		Quantity    int    `json:"quantity"`
		Size        string `json:"size"`
		Gender      string `json:"gender"`
		Category    string `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Quantity:    req.Quantity,
		Size:        req.Size,
		Gender:      req.Gender,
		Category:    req.Category,
	}

	product, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toResponse(*product))
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toResponse(*product))
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	category := r.URL.Query().Get("category")

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		Limit:    limit,
		Offset:   offset,
		Category: category,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toResponse(p))
	}
	h.respondJSON(w, http.StatusOK, responses)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		PriceCents  *int64 `json:"price_cents"`
		Size        string `json:"size"`
		Gender      string `json:"gender"`
		Category    string `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Size:        req.Size,
		Gender:      req.Gender,
		Category:    req.Category,
	}

	product, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toResponse(*product))
}

// UpdateStock handles PATCH /products/{id}/stock
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.UpdateStockCommand{ProductID: id, Quantity: req.Quantity}
	if err := h.updateStockHandler.Handle(r.Context(), cmd); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Stock updated successfully"})
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: id}); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// GetStats handles GET /products/stats
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stats)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

// respondDomainError maps domain errors onto HTTP statuses. Unrecognized
// errors are storage failures: logged, answered with a generic 500.
func (h *ProductHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		h.respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(r.Context()).Err(err).Msg("Product request failed")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response
func (h *ProductHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *ProductHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	// Public catalog routes
	router.HandleFunc("/products", h.metricsMiddleware("/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/products/stats", h.metricsMiddleware("/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/products/{id}", h.metricsMiddleware("/products/{id}", h.GetProduct)).Methods("GET")

	// Admin catalog routes
	router.HandleFunc("/products", h.metricsMiddleware("/products", AdminMiddleware(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/products/{id}", h.metricsMiddleware("/products/{id}", AdminMiddleware(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/products/{id}/stock", h.metricsMiddleware("/products/{id}/stock", AdminMiddleware(h.UpdateStock))).Methods("PATCH")
	router.HandleFunc("/products/{id}", h.metricsMiddleware("/products/{id}", AdminMiddleware(h.DeleteProduct))).Methods("DELETE")
}
