package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Role types
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Customer represents a store account (domain model)
type Customer struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	FirstName    string         `json:"first_name" gorm:"not null"`
	LastName     string         `json:"last_name" gorm:"not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"not null"` // Never expose the hash in JSON
	Role         string         `json:"role" gorm:"not null;default:'customer'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"` // Soft delete
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// IsAdmin checks if the account has the admin role
func (c *Customer) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ErrCustomerNotFound is returned when a customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrEmailTaken is returned when registering with an email already in use.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidInput marks rejections of malformed commands, as opposed to
// storage failures. Wrap it so delivery can keep the message.
var ErrInvalidInput = errors.New("invalid input")

// CustomerRepository defines the contract for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uint) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, limit, offset int) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
