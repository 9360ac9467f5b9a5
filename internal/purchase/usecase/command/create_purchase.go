package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

// PurchaseItem is one requested line of a purchase.
type PurchaseItem struct {
	ProductID      uint
	Quantity       int
	UnitPriceCents int64
}

// CreatePurchaseCommand represents the command to create a purchase. The
// item list is guaranteed non-empty with positive quantities by the
// validation layer; the customer id comes from the authenticated context.
type CreatePurchaseCommand struct {
	CustomerID      uint
	DeliveryAddress string
	PurchaseDate    *time.Time
	Status          string
	Items           []PurchaseItem
}

// CreatePurchaseHandler turns a purchase request into a durable purchase
// with line items and stock effects, all-or-nothing.
type CreatePurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewCreatePurchaseHandler creates a new create purchase handler
func NewCreatePurchaseHandler(repo domain.PurchaseRepository) *CreatePurchaseHandler {
	return &CreatePurchaseHandler{repo: repo}
}

// Handle executes the create purchase command
func (h *CreatePurchaseHandler) Handle(ctx context.Context, cmd CreatePurchaseCommand) (*domain.Purchase, error) {
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidInput)
	}

	purchaseDate := time.Now()
	if cmd.PurchaseDate != nil {
		purchaseDate = *cmd.PurchaseDate
	}

	status := cmd.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	if status != domain.StatusConfirmed && status != domain.StatusCancelled {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, status)
	}

	purchase := &domain.Purchase{
		Reference:       fmt.Sprintf("PUR-%s", uuid.New().String()[:8]),
		CustomerID:      cmd.CustomerID,
		PurchaseDate:    purchaseDate,
		DeliveryAddress: cmd.DeliveryAddress,
		Status:          status,
	}

	items := make([]domain.LineItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, domain.LineItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	if err := h.repo.Create(ctx, purchase, items); err != nil {
		return nil, err
	}

	return purchase, nil
}
