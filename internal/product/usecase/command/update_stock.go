package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/product/domain"
)

// UpdateStockCommand represents the command to overwrite product stock
type UpdateStockCommand struct {
	ProductID uint
	Quantity  int
}

// UpdateStockHandler handles stock update command
type UpdateStockHandler struct {
	repo domain.ProductRepository
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(repo domain.ProductRepository) *UpdateStockHandler {
	return &UpdateStockHandler{repo: repo}
}

// Handle executes the update stock command
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if cmd.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}

	if err := h.repo.SetQuantity(ctx, cmd.ProductID, cmd.Quantity); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return nil
}
