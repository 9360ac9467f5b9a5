package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/pkg/auth"
)

// LoginCustomerCommand represents the command to log a customer in
type LoginCustomerCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token    string           `json:"token"`
	Customer *domain.Customer `json:"customer"`
}

// LoginCustomerHandler handles customer login command
type LoginCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewLoginCustomerHandler creates a new login customer handler
func NewLoginCustomerHandler(repo domain.CustomerRepository) *LoginCustomerHandler {
	return &LoginCustomerHandler{repo: repo}
}

// Handle executes the login command. Lookup and password failures share one
// message so the response does not reveal which emails exist.
func (h *LoginCustomerHandler) Handle(ctx context.Context, cmd LoginCustomerCommand) (*LoginResponse, error) {
	if cmd.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	customer, err := h.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !auth.CheckPassword(customer.PasswordHash, cmd.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := auth.GenerateToken(customer.ID, customer.Email, customer.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, Customer: customer}, nil
}
