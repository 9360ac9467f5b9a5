package query

import (
	"context"

	"github.com/tair/clothing-store/internal/customer/domain"
)

// ListCustomersQuery represents the query to list customers
type ListCustomersQuery struct {
	Limit  int
	Offset int
}

// ListCustomersHandler handles list customers query
type ListCustomersHandler struct {
	repo domain.CustomerRepository
}

// NewListCustomersHandler creates a new list customers handler
func NewListCustomersHandler(repo domain.CustomerRepository) *ListCustomersHandler {
	return &ListCustomersHandler{repo: repo}
}

// Handle executes the list customers query
func (h *ListCustomersHandler) Handle(ctx context.Context, q ListCustomersQuery) ([]domain.Customer, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return h.repo.FindAll(ctx, limit, offset)
}
