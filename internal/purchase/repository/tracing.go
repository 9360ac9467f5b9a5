package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

var tracer = otel.Tracer("purchase-repository")

var _ domain.PurchaseRepository = (*GormPurchaseRepositoryWithTracing)(nil)

// GormPurchaseRepositoryWithTracing decorates GormPurchaseRepository with
// spans around the transactional operations. Plain reads go straight to the
// embedded repository.
type GormPurchaseRepositoryWithTracing struct {
	*GormPurchaseRepository
}

// NewGormPurchaseRepositoryWithTracing creates a new repository with tracing
func NewGormPurchaseRepositoryWithTracing(db *gorm.DB) *GormPurchaseRepositoryWithTracing {
	return &GormPurchaseRepositoryWithTracing{
		GormPurchaseRepository: NewGormPurchaseRepository(db),
	}
}

// Create records a span around the transactional purchase create.
func (r *GormPurchaseRepositoryWithTracing) Create(ctx context.Context, purchase *domain.Purchase, items []domain.LineItem) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.Int("purchase.customer_id", int(purchase.CustomerID)),
			attribute.Int("purchase.item_count", len(items)),
		),
	)
	defer span.End()

	if err := r.GormPurchaseRepository.Create(ctx, purchase, items); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(
		attribute.Int("purchase.id", int(purchase.ID)),
		attribute.String("purchase.reference", purchase.Reference),
	)
	return nil
}

// Cancel records a span around the transactional cancellation.
func (r *GormPurchaseRepositoryWithTracing) Cancel(ctx context.Context, id uint) (*domain.Purchase, error) {
	ctx, span := tracer.Start(ctx, "repository.Cancel",
		trace.WithAttributes(
			attribute.Int("purchase.id", int(id)),
		),
	)
	defer span.End()

	purchase, err := r.GormPurchaseRepository.Cancel(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("purchase.item_count", len(purchase.Items)))
	return purchase, nil
}

// Delete records a span around the administrative hard delete.
func (r *GormPurchaseRepositoryWithTracing) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(
			attribute.Int("purchase.id", int(id)),
		),
	)
	defer span.End()

	if err := r.GormPurchaseRepository.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
