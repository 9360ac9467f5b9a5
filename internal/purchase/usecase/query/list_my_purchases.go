package query

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

// ListMyPurchasesQuery represents the query to list the authenticated
// customer's purchases
type ListMyPurchasesQuery struct {
	CustomerID uint
	Limit      int
	Offset     int
}

// ListMyPurchasesHandler handles list purchases query
type ListMyPurchasesHandler struct {
	repo domain.PurchaseRepository
}

// NewListMyPurchasesHandler creates a new list purchases handler
func NewListMyPurchasesHandler(repo domain.PurchaseRepository) *ListMyPurchasesHandler {
	return &ListMyPurchasesHandler{repo: repo}
}

// Handle executes the list purchases query
func (h *ListMyPurchasesHandler) Handle(ctx context.Context, q ListMyPurchasesQuery) ([]domain.Purchase, error) {
	if q.CustomerID == 0 {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	return h.repo.FindByCustomer(ctx, q.CustomerID, limit, offset)
}
