//go:build wireinject
// +build wireinject

package customer

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	delivery "github.com/tair/clothing-store/internal/customer/delivery/http"
	"github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/internal/customer/repository"
	"github.com/tair/clothing-store/internal/customer/usecase/command"
	"github.com/tair/clothing-store/internal/customer/usecase/query"
)

// ProvideCustomerRepository provides the customer repository wrapped with
// tracing spans
func ProvideCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return repository.NewGormCustomerRepositoryWithTracing(db)
}

// Command Handlers Providers
func ProvideRegisterCustomerHandler(repo domain.CustomerRepository) *command.RegisterCustomerHandler {
	return command.NewRegisterCustomerHandler(repo)
}

func ProvideLoginCustomerHandler(repo domain.CustomerRepository) *command.LoginCustomerHandler {
	return command.NewLoginCustomerHandler(repo)
}

func ProvideUpdateCustomerHandler(repo domain.CustomerRepository) *command.UpdateCustomerHandler {
	return command.NewUpdateCustomerHandler(repo)
}

func ProvideDeleteCustomerHandler(repo domain.CustomerRepository) *command.DeleteCustomerHandler {
	return command.NewDeleteCustomerHandler(repo)
}

// Query Handlers Providers
func ProvideGetCustomerHandler(repo domain.CustomerRepository) *query.GetCustomerHandler {
	return query.NewGetCustomerHandler(repo)
}

func ProvideListCustomersHandler(repo domain.CustomerRepository) *query.ListCustomersHandler {
	return query.NewListCustomersHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCustomerRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideRegisterCustomerHandler,
	ProvideLoginCustomerHandler,
	ProvideUpdateCustomerHandler,
	ProvideDeleteCustomerHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetCustomerHandler,
	ProvideListCustomersHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes customer handler with all dependencies
func InitializeHandler(db *gorm.DB) (*delivery.CustomerHandler, error) {
	wire.Build(
		RepositorySet,
		delivery.NewCustomerHandler,
	)
	return nil, nil
}
