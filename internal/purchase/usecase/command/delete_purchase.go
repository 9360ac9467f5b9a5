package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

// DeletePurchaseCommand represents the administrative command to hard-delete
// a purchase. No stock reversal happens; this is not cancellation.
type DeletePurchaseCommand struct {
	PurchaseID uint
}

// DeletePurchaseHandler handles the administrative hard delete
type DeletePurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewDeletePurchaseHandler creates a new delete purchase handler
func NewDeletePurchaseHandler(repo domain.PurchaseRepository) *DeletePurchaseHandler {
	return &DeletePurchaseHandler{repo: repo}
}

// Handle executes the delete purchase command
func (h *DeletePurchaseHandler) Handle(ctx context.Context, cmd DeletePurchaseCommand) error {
	if cmd.PurchaseID == 0 {
		return fmt.Errorf("%w: purchase id is required", domain.ErrInvalidInput)
	}
	return h.repo.Delete(ctx, cmd.PurchaseID)
}
