package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/clothing-store/internal/customer/domain"
)

var tracer = otel.Tracer("customer-repository")

var _ domain.CustomerRepository = (*GormCustomerRepositoryWithTracing)(nil)

// GormCustomerRepositoryWithTracing decorates GormCustomerRepository with
// spans around account creation and the login lookup.
type GormCustomerRepositoryWithTracing struct {
	*GormCustomerRepository
}

// NewGormCustomerRepositoryWithTracing creates a new repository with tracing
func NewGormCustomerRepositoryWithTracing(db *gorm.DB) *GormCustomerRepositoryWithTracing {
	return &GormCustomerRepositoryWithTracing{
		GormCustomerRepository: NewGormCustomerRepository(db),
	}
}

// Create records a span around account creation.
func (r *GormCustomerRepositoryWithTracing) Create(ctx context.Context, customer *domain.Customer) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("customer.email", customer.Email),
		),
	)
	defer span.End()

	if err := r.GormCustomerRepository.Create(ctx, customer); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("customer.id", int(customer.ID)))
	return nil
}

// FindByEmail records a span around an email lookup.
func (r *GormCustomerRepositoryWithTracing) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByEmail",
		trace.WithAttributes(
			attribute.String("customer.email", email),
		),
	)
	defer span.End()

	customer, err := r.GormCustomerRepository.FindByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("customer.id", int(customer.ID)))
	return customer, nil
}
