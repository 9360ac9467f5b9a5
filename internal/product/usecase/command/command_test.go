package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/clothing-store/internal/product/domain"
)

type fakeProductRepo struct {
	products map[uint]*domain.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*domain.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.nextID++
	product.ID = r.nextID
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, limit, offset int) ([]domain.Product, error) {
	var result []domain.Product
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *fakeProductRepo) FindByCategory(_ context.Context, category string, limit, offset int) ([]domain.Product, error) {
	var result []domain.Product
	for _, p := range r.products {
		if p.Category == category {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) SetQuantity(_ context.Context, id uint, quantity int) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Quantity = quantity
	return nil
}

func TestCreateProduct(t *testing.T) {
	repo := newFakeProductRepo()
	handler := NewCreateProductHandler(repo)

	product, err := handler.Handle(context.Background(), CreateProductCommand{
		Name:       "Camiseta Basica",
		PriceCents: 4990,
		Quantity:   12,
		Size:       "M",
		Gender:     "F",
		Category:   "camisetas",
	})

	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, int64(4990), product.PriceCents)
}

func TestCreateProductValidation(t *testing.T) {
	handler := NewCreateProductHandler(newFakeProductRepo())

	cases := []struct {
		name string
		cmd  CreateProductCommand
	}{
		{"missing name", CreateProductCommand{PriceCents: 100, Size: "M", Gender: "M", Category: "c"}},
		{"negative price", CreateProductCommand{Name: "x", PriceCents: -1, Size: "M", Gender: "M", Category: "c"}},
		{"negative quantity", CreateProductCommand{Name: "x", PriceCents: 100, Quantity: -2, Size: "M", Gender: "M", Category: "c"}},
		{"bad size", CreateProductCommand{Name: "x", PriceCents: 100, Size: "XXXL", Gender: "M", Category: "c"}},
		{"bad gender", CreateProductCommand{Name: "x", PriceCents: 100, Size: "M", Gender: "U", Category: "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tc.cmd)
			assert.Error(t, err)
		})
	}
}

func TestUpdateStock(t *testing.T) {
	repo := newFakeProductRepo()
	create := NewCreateProductHandler(repo)
	update := NewUpdateStockHandler(repo)

	product, err := create.Handle(context.Background(), CreateProductCommand{
		Name:       "Calca Jeans",
		PriceCents: 12990,
		Quantity:   4,
		Size:       "G",
		Gender:     "M",
		Category:   "calcas",
	})
	require.NoError(t, err)

	require.NoError(t, update.Handle(context.Background(), UpdateStockCommand{ProductID: product.ID, Quantity: 20}))

	got, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Quantity)

	assert.Error(t, update.Handle(context.Background(), UpdateStockCommand{ProductID: product.ID, Quantity: -1}))
	assert.Error(t, update.Handle(context.Background(), UpdateStockCommand{ProductID: 999, Quantity: 1}))
}
