package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/internal/customer/usecase/command"
	"github.com/tair/clothing-store/internal/customer/usecase/query"
	"github.com/tair/clothing-store/pkg/logger"
)

// CustomerHandler handles HTTP requests for customer accounts
type CustomerHandler struct {
	// Command handlers
	registerHandler *command.RegisterCustomerHandler
	loginHandler    *command.LoginCustomerHandler
	updateHandler   *command.UpdateCustomerHandler
	deleteHandler   *command.DeleteCustomerHandler

	// Query handlers
	getHandler  *query.GetCustomerHandler
	listHandler *query.ListCustomersHandler

	repo            domain.CustomerRepository
	requestCounter  *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	customersGauge  prometheus.Gauge
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(repo domain.CustomerRepository) *CustomerHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_service_requests_total",
			Help: "Total number of requests to customer endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customer_service_request_duration_seconds",
			Help:    "Duration of customer endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	customersGauge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "customer_service_registered_customers",
			Help: "Number of registered customers",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(customersGauge)

	return &CustomerHandler{
		registerHandler: command.NewRegisterCustomerHandler(repo),
		loginHandler:    command.NewLoginCustomerHandler(repo),
		updateHandler:   command.NewUpdateCustomerHandler(repo),
		deleteHandler:   command.NewDeleteCustomerHandler(repo),
		getHandler:      query.NewGetCustomerHandler(repo),
		listHandler:     query.NewListCustomersHandler(repo),
		repo:            repo,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		customersGauge:  customersGauge,
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
func (h *CustomerHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Register handles POST /auth/register
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.RegisterCustomerCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.RoleCustomer,
	}

	customer, err := h.registerHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.updateCustomersGauge(r.Context())
	h.respondJSON(w, http.StatusCreated, customer)
}

// Login handles POST /auth/login
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.loginHandler.Handle(r.Context(), command.LoginCustomerCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// GetProfile handles GET /customers/me
func (h *CustomerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	customer, err := h.getHandler.Handle(r.Context(), query.GetCustomerQuery{ID: customerID})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, customer)
}

// UpdateProfile handles PUT /customers/me
func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.updateHandler.Handle(r.Context(), command.UpdateCustomerCommand{
		ID:        customerID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, customer)
}

// --- ADMIN ENDPOINTS ---

// GetCustomer handles GET /admin/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	customer, err := h.getHandler.Handle(r.Context(), query.GetCustomerQuery{ID: uint(id)})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, customer)
}

// ListCustomers handles GET /admin/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	customers, err := h.listHandler.Handle(r.Context(), query.ListCustomersQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.updateCustomersGauge(r.Context())
	h.respondJSON(w, http.StatusOK, customers)
}

// DeleteCustomer handles DELETE /admin/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteCustomerCommand{ID: uint(id)}); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.updateCustomersGauge(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

// HealthCheck handles GET /health
func (h *CustomerHandler) HealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// updateCustomersGauge refreshes the registered customers gauge
func (h *CustomerHandler) updateCustomersGauge(ctx context.Context) {
	count, err := h.repo.Count(ctx)
	if err == nil {
		h.customersGauge.Set(float64(count))
	}
}

// respondDomainError maps domain errors onto HTTP statuses. Unrecognized
// errors are storage failures: logged, answered with a generic 500.
func (h *CustomerHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		h.respondError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, domain.ErrCustomerNotFound):
		h.respondError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, domain.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(r.Context()).Err(err).Msg("Customer request failed")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response
func (h *CustomerHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *CustomerHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/auth/register", h.metricsMiddleware("/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/auth/login", h.metricsMiddleware("/auth/login", h.Login)).Methods("POST")

	// Authenticated customer routes
	router.HandleFunc("/customers/me", h.metricsMiddleware("/customers/me", AuthMiddleware(h.GetProfile))).Methods("GET")
	router.HandleFunc("/customers/me", h.metricsMiddleware("/customers/me", AuthMiddleware(h.UpdateProfile))).Methods("PUT")

	// Admin routes
	router.HandleFunc("/admin/customers", h.metricsMiddleware("/admin/customers", AdminMiddleware(h.ListCustomers))).Methods("GET")
	router.HandleFunc("/admin/customers/{id}", h.metricsMiddleware("/admin/customers/{id}", AdminMiddleware(h.GetCustomer))).Methods("GET")
	router.HandleFunc("/admin/customers/{id}", h.metricsMiddleware("/admin/customers/{id}", AdminMiddleware(h.DeleteCustomer))).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
func (h *CustomerHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", h.HealthCheck(db)).Methods("GET")
}
