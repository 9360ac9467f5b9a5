//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	productdomain "github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/purchase/domain"
)

// These tests exercise the row-locking guarantees against a real Postgres,
// which the in-memory fakes cannot: run with
//
//	TEST_DATABASE_DSN="host=localhost user=postgres ..." go test -tags integration ./internal/purchase/repository/
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&productdomain.Product{},
		&domain.Purchase{},
		&domain.LineItem{},
	))

	require.NoError(t, db.Exec("TRUNCATE purchase_line_items, purchases, products RESTART IDENTITY CASCADE").Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, quantity int) *productdomain.Product {
	t.Helper()
	product := &productdomain.Product{
		Name:       "Camiseta Basica",
		PriceCents: 4990,
		Quantity:   quantity,
		Size:       "M",
		Gender:     "F",
		Category:   "camisetas",
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product productdomain.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Quantity
}

func TestCreateSerializesOnRowLocks(t *testing.T) {
	db := openTestDB(t)
	// The traced decorator is what wire injects in production; exercising
	// it here keeps the whole injected path under test.
	repo := NewGormPurchaseRepositoryWithTracing(db)

	const buyers = 8
	const qty = 3

	// One fewer unit than the buyers collectively want.
	product := seedProduct(t, db, (buyers-1)*qty)

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			purchase := &domain.Purchase{
				Reference:       fmt.Sprintf("PUR-race%03d", i),
				CustomerID:      uint(i + 1),
				DeliveryAddress: "somewhere",
				Status:          domain.StatusConfirmed,
			}
			errs[i] = repo.Create(context.Background(), purchase, []domain.LineItem{
				{ProductID: product.ID, Quantity: qty, UnitPriceCents: 4990},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	rejected := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		rejected++
	}

	assert.Equal(t, buyers-1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, productQuantity(t, db, product.ID))

	// The rejected attempt left no rows behind.
	var headers int64
	require.NoError(t, db.Model(&domain.Purchase{}).Count(&headers).Error)
	assert.Equal(t, int64(buyers-1), headers)
}

func TestCreateAllOrNothingAcrossProducts(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormPurchaseRepositoryWithTracing(db)

	plenty := seedProduct(t, db, 10)
	scarce := seedProduct(t, db, 1)

	purchase := &domain.Purchase{
		Reference:       "PUR-mixed001",
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Status:          domain.StatusConfirmed,
	}
	err := repo.Create(context.Background(), purchase, []domain.LineItem{
		{ProductID: plenty.ID, Quantity: 2, UnitPriceCents: 4990},
		{ProductID: scarce.ID, Quantity: 5, UnitPriceCents: 12990},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []uint{scarce.ID}, stockErr.ProductIDs)

	// Neither product moved, nothing was persisted.
	assert.Equal(t, 10, productQuantity(t, db, plenty.ID))
	assert.Equal(t, 1, productQuantity(t, db, scarce.ID))

	var headers int64
	require.NoError(t, db.Model(&domain.Purchase{}).Count(&headers).Error)
	assert.Zero(t, headers)
}

func TestConcurrentCancelRestocksExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormPurchaseRepositoryWithTracing(db)

	product := seedProduct(t, db, 10)

	purchase := &domain.Purchase{
		Reference:       "PUR-cancel01",
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Status:          domain.StatusConfirmed,
	}
	require.NoError(t, repo.Create(context.Background(), purchase, []domain.LineItem{
		{ProductID: product.ID, Quantity: 4, UnitPriceCents: 4990},
	}))
	require.Equal(t, 6, productQuantity(t, db, product.ID))

	// Both cancels race on the header row lock; exactly one wins.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Cancel(context.Background(), purchase.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 10, productQuantity(t, db, product.ID))
}

func TestDeleteDoesNotRestock(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormPurchaseRepositoryWithTracing(db)

	product := seedProduct(t, db, 10)

	purchase := &domain.Purchase{
		Reference:       "PUR-delete01",
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Status:          domain.StatusConfirmed,
	}
	require.NoError(t, repo.Create(context.Background(), purchase, []domain.LineItem{
		{ProductID: product.ID, Quantity: 4, UnitPriceCents: 4990},
	}))

	require.NoError(t, repo.Delete(context.Background(), purchase.ID))

	_, err := repo.FindByID(context.Background(), purchase.ID)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
	assert.Equal(t, 6, productQuantity(t, db, product.ID))
}
