package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/product/domain"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles delete product command
type DeleteProductHandler struct {
	repo domain.ProductRepository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle executes the delete product command
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	return h.repo.Delete(ctx, cmd.ID)
}
