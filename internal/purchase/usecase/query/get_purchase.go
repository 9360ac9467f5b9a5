package query

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

// GetPurchaseQuery represents the query to get a purchase by ID. The
// requesting customer must own the purchase.
type GetPurchaseQuery struct {
	PurchaseID uint
	CustomerID uint
}

// GetPurchaseHandler handles get purchase query
type GetPurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewGetPurchaseHandler creates a new get purchase handler
func NewGetPurchaseHandler(repo domain.PurchaseRepository) *GetPurchaseHandler {
	return &GetPurchaseHandler{repo: repo}
}

// Handle executes the get purchase query
func (h *GetPurchaseHandler) Handle(ctx context.Context, q GetPurchaseQuery) (*domain.Purchase, error) {
	if q.PurchaseID == 0 {
		return nil, fmt.Errorf("%w: purchase id is required", domain.ErrInvalidInput)
	}

	purchase, err := h.repo.FindByID(ctx, q.PurchaseID)
	if err != nil {
		return nil, err
	}

	if err := domain.EnsureOwner(purchase, q.CustomerID); err != nil {
		return nil, err
	}

	return purchase, nil
}
