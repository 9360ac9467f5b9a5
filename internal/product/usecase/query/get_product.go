package query

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/product/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID uint
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*domain.Product, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	return h.repo.FindByID(ctx, q.ID)
}
