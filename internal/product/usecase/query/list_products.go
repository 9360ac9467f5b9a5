package query

import (
	"context"

	"github.com/tair/clothing-store/internal/product/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	Limit    int
	Offset   int
	Category string
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	if q.Category != "" {
		return h.repo.FindByCategory(ctx, q.Category, limit, offset)
	}
	return h.repo.FindAll(ctx, limit, offset)
}
