package query

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/customer/domain"
)

// GetCustomerQuery represents the query to get a customer by ID
type GetCustomerQuery struct {
	ID uint
}

// GetCustomerHandler handles get customer query
type GetCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewGetCustomerHandler creates a new get customer handler
func NewGetCustomerHandler(repo domain.CustomerRepository) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo}
}

// Handle executes the get customer query
func (h *GetCustomerHandler) Handle(ctx context.Context, q GetCustomerQuery) (*domain.Customer, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	return h.repo.FindByID(ctx, q.ID)
}
