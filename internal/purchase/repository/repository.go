package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productrepo "github.com/tair/clothing-store/internal/product/repository"
	"github.com/tair/clothing-store/internal/purchase/domain"
)

// GormPurchaseRepository persists purchases. Creation and cancellation run
// as single transactions so that the header, the line items and the stock
// effects are never observable partially applied.
type GormPurchaseRepository struct {
	db     *gorm.DB
	ledger *productrepo.GormStockLedger
}

func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{
		db:     db,
		ledger: productrepo.NewGormStockLedger(db),
	}
}

func (r *GormPurchaseRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Purchase{}, &domain.LineItem{})
}

// Create checks availability and commits the purchase in one transaction.
// Product rows are locked in ascending id order before the check, so two
// concurrent purchases of the same product serialize on the row lock and
// the check-then-decrement gap cannot over-sell.
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase, items []domain.LineItem) error {
	// Requested quantity per product. Duplicate product ids within one
	// request stay separate line items but their decrements accumulate,
	// so availability is checked against the total.
	required := make(map[uint]int, len(items))
	for _, item := range items {
		required[item.ProductID] += item.Quantity
	}
	productIDs := make([]uint, 0, len(required))
	for id := range required {
		productIDs = append(productIDs, id)
	}
	// Locking in a stable order avoids deadlocks between concurrent
	// purchases that share products.
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := r.ledger.WithTx(tx)

		var short []uint
		for _, id := range productIDs {
			available, err := ledger.Quantity(id)
			if err != nil {
				return err
			}
			if available < required[id] {
				short = append(short, id)
			}
		}
		if len(short) > 0 {
			return &domain.InsufficientStockError{ProductIDs: short}
		}

		if err := tx.Create(purchase).Error; err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		for i := range items {
			items[i].PurchaseID = purchase.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create line item: %w", err)
			}
			if err := ledger.Decrement(items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	purchase.Items = items
	return nil
}

func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uint) (*domain.Purchase, error) {
	var purchase domain.Purchase
	if err := r.db.WithContext(ctx).Preload("Items").First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return &purchase, nil
}

func (r *GormPurchaseRepository) FindByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Preload("Items").
		Limit(limit).Offset(offset).
		Order("purchase_date DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *GormPurchaseRepository) FindLineItems(ctx context.Context, purchaseID uint) ([]domain.LineItem, error) {
	var items []domain.LineItem
	err := r.db.WithContext(ctx).Where("purchase_id = ?", purchaseID).Find(&items).Error
	return items, err
}

// Cancel restores the exact quantities recorded in the line items and flips
// the status, all in one transaction. The header row is locked so a
// concurrent double-cancel observes the terminal state and is rejected.
func (r *GormPurchaseRepository) Cancel(ctx context.Context, id uint) (*domain.Purchase, error) {
	var purchase domain.Purchase

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&purchase, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPurchaseNotFound
			}
			return fmt.Errorf("failed to load purchase: %w", err)
		}

		if purchase.IsCancelled() {
			return domain.ErrAlreadyCancelled
		}

		var items []domain.LineItem
		if err := tx.Where("purchase_id = ?", id).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load line items: %w", err)
		}

		ledger := r.ledger.WithTx(tx)
		for _, item := range items {
			if err := ledger.Increment(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Model(&purchase).Update("status", domain.StatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		purchase.Status = domain.StatusCancelled
		purchase.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// Delete hard-deletes the purchase and its line items. Stock is NOT
// restored; this is a data-correction path, not cancellation.
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchase domain.Purchase
		if err := tx.First(&purchase, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPurchaseNotFound
			}
			return fmt.Errorf("failed to load purchase: %w", err)
		}

		if err := tx.Where("purchase_id = ?", id).Delete(&domain.LineItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete line items: %w", err)
		}
		if err := tx.Unscoped().Delete(&domain.Purchase{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete purchase: %w", err)
		}
		return nil
	})
}
