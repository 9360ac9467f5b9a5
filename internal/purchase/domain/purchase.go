package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Purchase statuses. The only legal transition is confirmed -> cancelled;
// cancelled is terminal.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Purchase is an order header. It is created atomically with its line items
// and the matching stock decrements, and is never hard-deleted by the
// customer-facing flow (cancellation flips the status and restores stock;
// Delete is an administrative escape hatch without stock reversal).
type Purchase struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Reference       string         `json:"reference" gorm:"uniqueIndex;not null"`
	CustomerID      uint           `json:"customer_id" gorm:"not null;index"`
	PurchaseDate    time.Time      `json:"purchase_date" gorm:"not null"`
	DeliveryAddress string         `json:"delivery_address" gorm:"not null"`
	Status          string         `json:"status" gorm:"not null;default:'confirmed'"`
	Items           []LineItem     `json:"items,omitempty" gorm:"foreignKey:PurchaseID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Purchase) TableName() string {
	return "purchases"
}

// IsCancelled reports whether the purchase reached its terminal state.
func (p *Purchase) IsCancelled() bool {
	return p.Status == StatusCancelled
}

// LineItem is one product-and-quantity entry within a purchase. The unit
// price is snapshotted in cents at purchase time and never follows later
// catalog price changes. Line items are immutable after creation.
type LineItem struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	PurchaseID     uint      `json:"purchase_id" gorm:"not null;index"`
	ProductID      uint      `json:"product_id" gorm:"not null;index"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	UnitPriceCents int64     `json:"unit_price_cents" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name
func (LineItem) TableName() string {
	return "purchase_line_items"
}

// Purchase error taxonomy. Storage failures wrap and propagate unchanged;
// these sentinels are the deterministic rejections.
var (
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrNotOwner         = errors.New("purchase belongs to a different customer")
	ErrAlreadyCancelled = errors.New("purchase is already cancelled")

	// ErrInvalidInput marks rejections of malformed commands, as opposed
	// to storage failures. Wrap it so delivery can keep the message.
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientStockError reports every product whose available quantity is
// below the requested amount.
type InsufficientStockError struct {
	ProductIDs []uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for products %v", e.ProductIDs)
}

// EnsureOwner is the single ownership guard for purchase reads and
// cancellations.
func EnsureOwner(p *Purchase, customerID uint) error {
	if p.CustomerID != customerID {
		return ErrNotOwner
	}
	return nil
}

// PurchaseRepository defines the contract for purchase data access. Create
// and Cancel are atomic units of work: header, line items and stock effects
// all commit or none do.
type PurchaseRepository interface {
	// Create validates stock availability and, in one transaction, inserts
	// the header, inserts the line items and decrements stock per item.
	Create(ctx context.Context, purchase *Purchase, items []LineItem) error
	FindByID(ctx context.Context, id uint) (*Purchase, error)
	FindByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]Purchase, error)
	FindLineItems(ctx context.Context, purchaseID uint) ([]LineItem, error)
	// Cancel restores the line-item quantities and flips the status to
	// cancelled in one transaction. Cancelling a cancelled purchase returns
	// ErrAlreadyCancelled.
	Cancel(ctx context.Context, id uint) (*Purchase, error)
	// Delete hard-deletes the purchase and its line items without restoring
	// stock. Administrative use only.
	Delete(ctx context.Context, id uint) error
}
