package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/pkg/auth"
)

// RegisterCustomerCommand represents the command to register a new customer
type RegisterCustomerCommand struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string // Optional, defaults to "customer"
}

// RegisterCustomerHandler handles customer registration command
type RegisterCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewRegisterCustomerHandler creates a new register customer handler
func NewRegisterCustomerHandler(repo domain.CustomerRepository) *RegisterCustomerHandler {
	return &RegisterCustomerHandler{repo: repo}
}

// Handle executes the register customer command
func (h *RegisterCustomerHandler) Handle(ctx context.Context, cmd RegisterCustomerCommand) (*domain.Customer, error) {
	if cmd.FirstName == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrInvalidInput)
	}
	if cmd.LastName == "" {
		return nil, fmt.Errorf("%w: last name is required", domain.ErrInvalidInput)
	}
	if cmd.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	if existing, err := h.repo.FindByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
	}

	customer := &domain.Customer{
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Email:        cmd.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := h.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}
