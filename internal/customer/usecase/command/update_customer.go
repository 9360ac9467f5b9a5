package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/pkg/auth"
)

// UpdateCustomerCommand represents the command to update a customer profile.
// Empty fields are left untouched.
type UpdateCustomerCommand struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateCustomerHandler handles customer update command
type UpdateCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewUpdateCustomerHandler creates a new update customer handler
func NewUpdateCustomerHandler(repo domain.CustomerRepository) *UpdateCustomerHandler {
	return &UpdateCustomerHandler{repo: repo}
}

// Handle executes the update customer command
func (h *UpdateCustomerHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) (*domain.Customer, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}

	customer, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.FirstName != "" {
		customer.FirstName = cmd.FirstName
	}
	if cmd.LastName != "" {
		customer.LastName = cmd.LastName
	}
	if cmd.Email != "" {
		customer.Email = cmd.Email
	}
	if cmd.Password != "" {
		if len(cmd.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
		}
		hash, err := auth.HashPassword(cmd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		customer.PasswordHash = hash
	}

	if err := h.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}
