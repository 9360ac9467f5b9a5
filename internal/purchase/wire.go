//go:build wireinject
// +build wireinject

package purchase

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	productdomain "github.com/tair/clothing-store/internal/product/domain"
	productrepo "github.com/tair/clothing-store/internal/product/repository"
	delivery "github.com/tair/clothing-store/internal/purchase/delivery/http"
	"github.com/tair/clothing-store/internal/purchase/domain"
	"github.com/tair/clothing-store/internal/purchase/repository"
	"github.com/tair/clothing-store/internal/purchase/usecase/command"
	"github.com/tair/clothing-store/internal/purchase/usecase/query"
	"github.com/tair/clothing-store/kafka"
)

// ProvidePurchaseRepository provides the purchase repository wrapped with
// tracing spans around the transactional operations
func ProvidePurchaseRepository(db *gorm.DB) domain.PurchaseRepository {
	return repository.NewGormPurchaseRepositoryWithTracing(db)
}

// ProvideProductRepository provides the catalog repository used for price
// snapshots
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewGormProductRepositoryWithTracing(db)
}

// Command Handlers Providers
func ProvideCreatePurchaseHandler(repo domain.PurchaseRepository) *command.CreatePurchaseHandler {
	return command.NewCreatePurchaseHandler(repo)
}

func ProvideCancelPurchaseHandler(repo domain.PurchaseRepository) *command.CancelPurchaseHandler {
	return command.NewCancelPurchaseHandler(repo)
}

func ProvideDeletePurchaseHandler(repo domain.PurchaseRepository) *command.DeletePurchaseHandler {
	return command.NewDeletePurchaseHandler(repo)
}

// Query Handlers Providers
func ProvideGetPurchaseHandler(repo domain.PurchaseRepository) *query.GetPurchaseHandler {
	return query.NewGetPurchaseHandler(repo)
}

func ProvideListMyPurchasesHandler(repo domain.PurchaseRepository) *query.ListMyPurchasesHandler {
	return query.NewListMyPurchasesHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePurchaseRepository,
	ProvideProductRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreatePurchaseHandler,
	ProvideCancelPurchaseHandler,
	ProvideDeletePurchaseHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetPurchaseHandler,
	ProvideListMyPurchasesHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes purchase handler with all dependencies
func InitializeHandler(db *gorm.DB, publisher *kafka.Publisher) (*delivery.PurchaseHandler, error) {
	wire.Build(
		RepositorySet,
		delivery.NewPurchaseHandler,
	)
	return nil, nil
}
