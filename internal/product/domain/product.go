package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Product represents a clothing item in the catalog. Quantity is the
// available-to-sell stock and must never go negative.
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"price_cents" gorm:"not null"`
	Quantity    int            `json:"quantity" gorm:"not null;default:0"`
	Size        string         `json:"size" gorm:"not null"`
	Gender      string         `json:"gender" gorm:"not null"`
	Category    string         `json:"category" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Sizes accepted by the catalog.
var ValidSizes = []string{"PP", "P", "M", "G", "GG", "XG", "XGG", "EG"}

// IsValidSize reports whether s is one of the catalog sizes.
func IsValidSize(s string) bool {
	for _, v := range ValidSizes {
		if v == s {
			return true
		}
	}
	return false
}

// ErrProductNotFound is returned when a referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrStockInvariant signals that a decrement would have driven stock
// negative. It indicates a consistency bug, not a user error.
var ErrStockInvariant = errors.New("stock decrement would make quantity negative")

// ErrInvalidInput marks rejections of malformed commands, as opposed to
// storage failures. Wrap it so delivery can keep the message.
var ErrInvalidInput = errors.New("invalid input")

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]Product, error)
	FindByCategory(ctx context.Context, category string, limit, offset int) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	SetQuantity(ctx context.Context, id uint, quantity int) error
}

// StockLedger is the source of truth for per-product available quantity.
// Decrement must never drive quantity negative; a conditional update guards
// the invariant and reports ErrStockInvariant when violated.
type StockLedger interface {
	CheckAvailable(productID uint, qty int) (bool, error)
	Decrement(productID uint, qty int) error
	Increment(productID uint, qty int) error
}
