package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

// CancelPurchaseCommand represents the command to cancel a purchase
type CancelPurchaseCommand struct {
	PurchaseID uint
	CustomerID uint
}

// CancelPurchaseHandler drives the confirmed -> cancelled transition,
// restoring the stock recorded in the line items.
type CancelPurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewCancelPurchaseHandler creates a new cancel purchase handler
func NewCancelPurchaseHandler(repo domain.PurchaseRepository) *CancelPurchaseHandler {
	return &CancelPurchaseHandler{repo: repo}
}

// Handle executes the cancel purchase command. Ownership is verified before
// the transition; re-cancelling is rejected, not a no-op.
func (h *CancelPurchaseHandler) Handle(ctx context.Context, cmd CancelPurchaseCommand) (*domain.Purchase, error) {
	if cmd.PurchaseID == 0 {
		return nil, fmt.Errorf("%w: purchase id is required", domain.ErrInvalidInput)
	}

	purchase, err := h.repo.FindByID(ctx, cmd.PurchaseID)
	if err != nil {
		return nil, err
	}

	if err := domain.EnsureOwner(purchase, cmd.CustomerID); err != nil {
		return nil, err
	}

	// The repository re-checks the status under a row lock, so a concurrent
	// cancel of the same purchase still gets ErrAlreadyCancelled.
	return h.repo.Cancel(ctx, cmd.PurchaseID)
}
