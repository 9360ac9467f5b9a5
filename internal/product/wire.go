//go:build wireinject
// +build wireinject

package product

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	delivery "github.com/tair/clothing-store/internal/product/delivery/http"
	"github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/product/repository"
	"github.com/tair/clothing-store/internal/product/usecase/command"
	"github.com/tair/clothing-store/internal/product/usecase/query"
)

// ProvideProductRepository provides the product repository wrapped with
// tracing spans
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepositoryWithTracing(db)
}

// ProvideStockLedger provides the stock ledger
func ProvideStockLedger(db *gorm.DB) domain.StockLedger {
	return repository.NewGormStockLedger(db)
}

// Command Handlers Providers
func ProvideCreateProductHandler(repo domain.ProductRepository) *command.CreateProductHandler {
	return command.NewCreateProductHandler(repo)
}

func ProvideUpdateProductHandler(repo domain.ProductRepository) *command.UpdateProductHandler {
	return command.NewUpdateProductHandler(repo)
}

func ProvideDeleteProductHandler(repo domain.ProductRepository) *command.DeleteProductHandler {
	return command.NewDeleteProductHandler(repo)
}

func ProvideUpdateStockHandler(repo domain.ProductRepository) *command.UpdateStockHandler {
	return command.NewUpdateStockHandler(repo)
}

// Query Handlers Providers
func ProvideGetProductHandler(repo domain.ProductRepository) *query.GetProductHandler {
	return query.NewGetProductHandler(repo)
}

func ProvideListProductsHandler(repo domain.ProductRepository) *query.ListProductsHandler {
	return query.NewListProductsHandler(repo)
}

func ProvideGetStatsHandler(repo domain.ProductRepository) *query.GetStatsHandler {
	return query.NewGetStatsHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideStockLedger,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateProductHandler,
	ProvideUpdateProductHandler,
	ProvideDeleteProductHandler,
	ProvideUpdateStockHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetProductHandler,
	ProvideListProductsHandler,
	ProvideGetStatsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes product handler with all dependencies
func InitializeHandler(db *gorm.DB) (*delivery.ProductHandler, error) {
	wire.Build(
		ProvideProductRepository,
		delivery.NewProductHandler,
	)
	return nil, nil
}
