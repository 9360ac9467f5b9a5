package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/clothing-store/internal/purchase/domain"
)

type stubPurchaseRepo struct {
	purchases map[uint]*domain.Purchase

	lastLimit  int
	lastOffset int
}

func (r *stubPurchaseRepo) Create(context.Context, *domain.Purchase, []domain.LineItem) error {
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uint) (*domain.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) FindByCustomer(_ context.Context, customerID uint, limit, offset int) ([]domain.Purchase, error) {
	r.lastLimit = limit
	r.lastOffset = offset

	var result []domain.Purchase
	for _, p := range r.purchases {
		if p.CustomerID == customerID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubPurchaseRepo) FindLineItems(context.Context, uint) ([]domain.LineItem, error) {
	return nil, nil
}
func (r *stubPurchaseRepo) Cancel(context.Context, uint) (*domain.Purchase, error) { return nil, nil }
func (r *stubPurchaseRepo) Delete(context.Context, uint) error                     { return nil }

func TestGetPurchaseOwnerOnly(t *testing.T) {
	repo := &stubPurchaseRepo{purchases: map[uint]*domain.Purchase{
		1: {ID: 1, CustomerID: 7, Reference: "PUR-abc12345"},
	}}
	handler := NewGetPurchaseHandler(repo)

	purchase, err := handler.Handle(context.Background(), GetPurchaseQuery{PurchaseID: 1, CustomerID: 7})
	require.NoError(t, err)
	assert.Equal(t, "PUR-abc12345", purchase.Reference)

	_, err = handler.Handle(context.Background(), GetPurchaseQuery{PurchaseID: 1, CustomerID: 8})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = handler.Handle(context.Background(), GetPurchaseQuery{PurchaseID: 2, CustomerID: 7})
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
}

func TestListMyPurchasesClampsPagination(t *testing.T) {
	repo := &stubPurchaseRepo{purchases: map[uint]*domain.Purchase{
		1: {ID: 1, CustomerID: 7},
		2: {ID: 2, CustomerID: 8},
	}}
	handler := NewListMyPurchasesHandler(repo)

	purchases, err := handler.Handle(context.Background(), ListMyPurchasesQuery{CustomerID: 7, Limit: -5, Offset: -3})
	require.NoError(t, err)
	assert.Len(t, purchases, 1)
	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	_, err = handler.Handle(context.Background(), ListMyPurchasesQuery{CustomerID: 7, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit)

	_, err = handler.Handle(context.Background(), ListMyPurchasesQuery{CustomerID: 7, Limit: 50, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 10, repo.lastOffset)

	_, err = handler.Handle(context.Background(), ListMyPurchasesQuery{})
	assert.Error(t, err)
}
