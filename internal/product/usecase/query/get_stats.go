package query

import (
	"context"

	"github.com/tair/clothing-store/internal/product/domain"
)

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// CatalogStats holds catalog statistics
type CatalogStats struct {
	TotalProducts int64 `json:"total_products"`
}

// GetStatsHandler handles catalog stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the stats query
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*CatalogStats, error) {
	count, err := h.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogStats{TotalProducts: count}, nil
}
