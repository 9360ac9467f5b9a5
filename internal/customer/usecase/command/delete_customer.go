package command

import (
	"context"
	"fmt"

	"github.com/tair/clothing-store/internal/customer/domain"
)

// DeleteCustomerCommand represents the command to delete a customer
type DeleteCustomerCommand struct {
	ID uint
}

// DeleteCustomerHandler handles delete customer command
type DeleteCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewDeleteCustomerHandler creates a new delete customer handler
func NewDeleteCustomerHandler(repo domain.CustomerRepository) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{repo: repo}
}

// Handle executes the delete customer command
func (h *DeleteCustomerHandler) Handle(ctx context.Context, cmd DeleteCustomerCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	return h.repo.Delete(ctx, cmd.ID)
}
