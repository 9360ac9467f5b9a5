package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/clothing-store/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

var _ domain.ProductRepository = (*GormProductRepositoryWithTracing)(nil)

// GormProductRepositoryWithTracing decorates GormProductRepository with
// spans around catalog writes and the price-snapshot lookup.
type GormProductRepositoryWithTracing struct {
	*GormProductRepository
}

// NewGormProductRepositoryWithTracing creates a new repository with tracing
func NewGormProductRepositoryWithTracing(db *gorm.DB) *GormProductRepositoryWithTracing {
	return &GormProductRepositoryWithTracing{
		GormProductRepository: NewGormProductRepository(db),
	}
}

// Create records a span around product creation.
func (r *GormProductRepositoryWithTracing) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.String("product.category", product.Category),
		),
	)
	defer span.End()

	if err := r.GormProductRepository.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

// FindByID records a span around a product lookup. The purchase flow goes
// through here for every price snapshot.
func (r *GormProductRepositoryWithTracing) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
		),
	)
	defer span.End()

	product, err := r.GormProductRepository.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.quantity", product.Quantity))
	return product, nil
}

// SetQuantity records a span around a stock overwrite.
func (r *GormProductRepositoryWithTracing) SetQuantity(ctx context.Context, id uint, quantity int) error {
	ctx, span := tracer.Start(ctx, "repository.SetQuantity",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
			attribute.Int("product.quantity", quantity),
		),
	)
	defer span.End()

	if err := r.GormProductRepository.SetQuantity(ctx, id, quantity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
