package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/product/domain"
)

// UpdateProductCommand represents the command to update a product.
// Zero-valued fields are left untouched.
type UpdateProductCommand struct {
	ID          uint
	Name        string
	Description string
	PriceCents  *int64
	Size        string
	Gender      string
	Category    string
}

// UpdateProductHandler handles update product command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != "" {
		product.Name = cmd.Name
	}
	if cmd.Description != "" {
		product.Description = cmd.Description
	}
	if cmd.PriceCents != nil {
		if *cmd.PriceCents < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
		}
		product.PriceCents = *cmd.PriceCents
	}
	if cmd.Size != "" {
		if !domain.IsValidSize(cmd.Size) {
			return nil, fmt.Errorf("%w: invalid size %q", domain.ErrInvalidInput, cmd.Size)
		}
		product.Size = cmd.Size
	}
	if cmd.Gender != "" {
		if cmd.Gender != "M" && cmd.Gender != "F" {
			return nil, fmt.Errorf("%w: invalid gender %q", domain.ErrInvalidInput, cmd.Gender)
		}
		product.Gender = cmd.Gender
	}
	if cmd.Category != "" {
		product.Category = cmd.Category
	}

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
