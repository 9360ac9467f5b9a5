package command

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/purchase/domain"
)

// fakePurchaseRepo mirrors the transactional repository semantics in
// memory: creation is all-or-nothing against a stock map, cancellation
// restores stock under the same lock.
type fakePurchaseRepo struct {
	mu        sync.Mutex
	stock     map[uint]int
	purchases map[uint]*domain.Purchase
	nextID    uint
}

func newFakePurchaseRepo(stock map[uint]int) *fakePurchaseRepo {
	return &fakePurchaseRepo{
		stock:     stock,
		purchases: make(map[uint]*domain.Purchase),
	}
}

func (r *fakePurchaseRepo) Create(_ context.Context, purchase *domain.Purchase, items []domain.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	required := make(map[uint]int)
	for _, item := range items {
		required[item.ProductID] += item.Quantity
	}

	var short []uint
	for productID, qty := range required {
		available, ok := r.stock[productID]
		if !ok {
			return productdomain.ErrProductNotFound
		}
		if available < qty {
			short = append(short, productID)
		}
	}
	if len(short) > 0 {
		sort.Slice(short, func(i, j int) bool { return short[i] < short[j] })
		return &domain.InsufficientStockError{ProductIDs: short}
	}

	r.nextID++
	purchase.ID = r.nextID
	for i := range items {
		items[i].PurchaseID = purchase.ID
		r.stock[items[i].ProductID] -= items[i].Quantity
	}
	purchase.Items = items

	stored := *purchase
	stored.Items = append([]domain.LineItem(nil), items...)
	r.purchases[purchase.ID] = &stored
	return nil
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uint) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	copied := *p
	copied.Items = append([]domain.LineItem(nil), p.Items...)
	return &copied, nil
}

func (r *fakePurchaseRepo) FindByCustomer(_ context.Context, customerID uint, limit, offset int) ([]domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Purchase
	for _, p := range r.purchases {
		if p.CustomerID == customerID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePurchaseRepo) FindLineItems(_ context.Context, purchaseID uint) ([]domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	return append([]domain.LineItem(nil), p.Items...), nil
}

func (r *fakePurchaseRepo) Cancel(_ context.Context, id uint) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	if p.Status == domain.StatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	for _, item := range p.Items {
		r.stock[item.ProductID] += item.Quantity
	}
	p.Status = domain.StatusCancelled

	copied := *p
	copied.Items = append([]domain.LineItem(nil), p.Items...)
	return &copied, nil
}

func (r *fakePurchaseRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.purchases[id]; !ok {
		return domain.ErrPurchaseNotFound
	}
	delete(r.purchases, id)
	return nil
}

func TestCreatePurchaseDefaults(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10})
	handler := NewCreatePurchaseHandler(repo)

	purchase, err := handler.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "Rua das Flores 123",
		Items: []PurchaseItem{
			{ProductID: 1, Quantity: 3, UnitPriceCents: 19990},
		},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(purchase.Reference, "PUR-"))
	assert.Equal(t, domain.StatusConfirmed, purchase.Status)
	assert.WithinDuration(t, time.Now(), purchase.PurchaseDate, time.Minute)
	assert.Equal(t, uint(7), purchase.CustomerID)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, int64(19990), purchase.Items[0].UnitPriceCents)
	assert.Equal(t, 7, repo.stock[1])
}

func TestCreatePurchaseInvalidStatus(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10})
	handler := NewCreatePurchaseHandler(repo)

	_, err := handler.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Status:          "shipped",
		Items:           []PurchaseItem{{ProductID: 1, Quantity: 1}},
	})

	assert.Error(t, err)
	assert.Equal(t, 10, repo.stock[1])
}

func TestCreatePurchaseRequiresItems(t *testing.T) {
	handler := NewCreatePurchaseHandler(newFakePurchaseRepo(nil))

	_, err := handler.Handle(context.Background(), CreatePurchaseCommand{CustomerID: 7, DeliveryAddress: "x"})

	assert.Error(t, err)
}

func TestCreatePurchaseInsufficientStockAllOrNothing(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10, 2: 1})
	handler := NewCreatePurchaseHandler(repo)

	_, err := handler.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items: []PurchaseItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 5},
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []uint{2}, stockErr.ProductIDs)

	// Neither product's stock moved and nothing was persisted.
	assert.Equal(t, 10, repo.stock[1])
	assert.Equal(t, 1, repo.stock[2])
	assert.Empty(t, repo.purchases)
}

func TestCreatePurchaseAccumulatesDuplicateProducts(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 5})
	handler := NewCreatePurchaseHandler(repo)

	// Each line alone fits, the accumulated total does not.
	_, err := handler.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items: []PurchaseItem{
			{ProductID: 1, Quantity: 3},
			{ProductID: 1, Quantity: 3},
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []uint{1}, stockErr.ProductIDs)
	assert.Equal(t, 5, repo.stock[1])

	// The accumulated total fitting passes and keeps separate line items.
	purchase, err := handler.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items: []PurchaseItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Len(t, purchase.Items, 2)
	assert.Equal(t, 0, repo.stock[1])
}

func TestCancelPurchaseRestoresStock(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10, 2: 4})
	create := NewCreatePurchaseHandler(repo)
	cancel := NewCancelPurchaseHandler(repo)

	purchase, err := create.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items: []PurchaseItem{
			{ProductID: 1, Quantity: 4},
			{ProductID: 2, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, repo.stock[1])
	assert.Equal(t, 2, repo.stock[2])

	cancelled, err := cancel.Handle(context.Background(), CancelPurchaseCommand{PurchaseID: purchase.ID, CustomerID: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// Exact quantities restored.
	assert.Equal(t, 10, repo.stock[1])
	assert.Equal(t, 4, repo.stock[2])
}

func TestCancelPurchaseNotOwner(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10})
	create := NewCreatePurchaseHandler(repo)
	cancel := NewCancelPurchaseHandler(repo)

	purchase, err := create.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items:           []PurchaseItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = cancel.Handle(context.Background(), CancelPurchaseCommand{PurchaseID: purchase.ID, CustomerID: 8})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	// Ownership rejection leaves the purchase untouched.
	assert.Equal(t, 9, repo.stock[1])
}

func TestCancelPurchaseAlreadyCancelled(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10})
	create := NewCreatePurchaseHandler(repo)
	cancel := NewCancelPurchaseHandler(repo)

	purchase, err := create.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items:           []PurchaseItem{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = cancel.Handle(context.Background(), CancelPurchaseCommand{PurchaseID: purchase.ID, CustomerID: 7})
	require.NoError(t, err)

	_, err = cancel.Handle(context.Background(), CancelPurchaseCommand{PurchaseID: purchase.ID, CustomerID: 7})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	// The second cancel must not restock again.
	assert.Equal(t, 10, repo.stock[1])
}

func TestCancelPurchaseNotFound(t *testing.T) {
	cancel := NewCancelPurchaseHandler(newFakePurchaseRepo(nil))

	_, err := cancel.Handle(context.Background(), CancelPurchaseCommand{PurchaseID: 99, CustomerID: 7})
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
}

func TestDeletePurchaseDoesNotRestock(t *testing.T) {
	repo := newFakePurchaseRepo(map[uint]int{1: 10})
	create := NewCreatePurchaseHandler(repo)
	del := NewDeletePurchaseHandler(repo)

	purchase, err := create.Handle(context.Background(), CreatePurchaseCommand{
		CustomerID:      7,
		DeliveryAddress: "somewhere",
		Items:           []PurchaseItem{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, repo.stock[1])

	require.NoError(t, del.Handle(context.Background(), DeletePurchaseCommand{PurchaseID: purchase.ID}))

	// Hard delete is not cancellation: stock stays decremented.
	assert.Equal(t, 6, repo.stock[1])

	_, err = repo.FindByID(context.Background(), purchase.ID)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)

	assert.ErrorIs(t, del.Handle(context.Background(), DeletePurchaseCommand{PurchaseID: purchase.ID}), domain.ErrPurchaseNotFound)
}

func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	const buyers = 8
	const qty = 3

	repo := newFakePurchaseRepo(map[uint]int{1: (buyers - 1) * qty})
	handler := NewCreatePurchaseHandler(repo)

	var wg sync.WaitGroup
	errs := make([]error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = handler.Handle(context.Background(), CreatePurchaseCommand{
				CustomerID:      uint(i + 1),
				DeliveryAddress: "somewhere",
				Items:           []PurchaseItem{{ProductID: 1, Quantity: qty}},
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
		if errors.As(err, &stockErr) {
			rejected++
		}
	}

	assert.Equal(t, buyers-1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, repo.stock[1])
}
