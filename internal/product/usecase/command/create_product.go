package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/product/domain"
)

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	Name        string
	Description string
	PriceCents  int64
	Quantity    int
	Size        string
	Gender      string
	Category    string
}

// CreateProductHandler handles create product command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if cmd.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}
	if !domain.IsValidSize(cmd.Size) {
		return nil, fmt.Errorf("%w: invalid size %q", domain.ErrInvalidInput, cmd.Size)
	}
	if cmd.Gender != "M" && cmd.Gender != "F" {
		return nil, fmt.Errorf("%w: invalid gender %q", domain.ErrInvalidInput, cmd.Gender)
	}
	if cmd.Category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}

	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		PriceCents:  cmd.PriceCents,
		Quantity:    cmd.Quantity,
		Size:        cmd.Size,
		Gender:      cmd.Gender,
		Category:    cmd.Category,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
