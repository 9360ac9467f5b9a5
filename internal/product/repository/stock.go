package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/clothing-store/internal/product/domain"
)

// GormStockLedger implements domain.StockLedger on the products table.
// The zero-value ledger operates on its own connection; WithTx rebinds it to
// a running transaction so availability checks and decrements share the same
// row locks as the purchase writes.
type GormStockLedger struct {
	db     *gorm.DB
	locked bool
}

func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// WithTx returns a ledger bound to tx. Reads performed through the returned
// ledger take row-level locks (SELECT ... FOR UPDATE) so that a concurrent
// purchase cannot pass the same availability check before this transaction
// commits.
func (l *GormStockLedger) WithTx(tx *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: tx, locked: true}
}

// CheckAvailable reports whether the product has at least qty units in stock.
func (l *GormStockLedger) CheckAvailable(productID uint, qty int) (bool, error) {
	quantity, err := l.Quantity(productID)
	if err != nil {
		return false, err
	}
	return quantity >= qty, nil
}

// Quantity returns the current stock level, locking the row when the ledger
// is transaction-bound.
func (l *GormStockLedger) Quantity(productID uint) (int, error) {
	q := l.db
	if l.locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product domain.Product
	if err := q.Select("id", "quantity").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}
	return product.Quantity, nil
}

// Decrement reduces stock by qty. The update is conditional on sufficient
// stock; zero affected rows on an existing product means the caller's
// pre-check was violated and surfaces as ErrStockInvariant.
func (l *GormStockLedger) Decrement(productID uint, qty int) error {
	res := l.db.Model(&domain.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := l.db.Model(&domain.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}
		return domain.ErrStockInvariant
	}
	return nil
}

// Increment restores qty units of stock. No upper bound.
func (l *GormStockLedger) Increment(productID uint, qty int) error {
	res := l.db.Model(&domain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
