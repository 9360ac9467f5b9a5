package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/pkg/auth"
)

type fakeCustomerRepo struct {
	customers map[uint]*domain.Customer
	nextID    uint
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uint]*domain.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	for _, c := range r.customers {
		if c.Email == customer.Email {
			return domain.ErrEmailTaken
		}
	}
	r.nextID++
	customer.ID = r.nextID
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uint) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, limit, offset int) ([]domain.Customer, error) {
	var result []domain.Customer
	for _, c := range r.customers {
		result = append(result, *c)
	}
	return result, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) Count(context.Context) (int64, error) {
	return int64(len(r.customers)), nil
}

func TestRegisterCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	handler := NewRegisterCustomerHandler(repo)

	customer, err := handler.Handle(context.Background(), RegisterCustomerCommand{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
		Password:  "s3cret-pass",
	})

	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, domain.RoleCustomer, customer.Role)
	assert.NotEqual(t, "s3cret-pass", customer.PasswordHash)
	assert.True(t, auth.CheckPassword(customer.PasswordHash, "s3cret-pass"))
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	repo := newFakeCustomerRepo()
	handler := NewRegisterCustomerHandler(repo)

	_, err := handler.Handle(context.Background(), RegisterCustomerCommand{
		FirstName: "Ana", LastName: "Silva", Email: "ana@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), RegisterCustomerCommand{
		FirstName: "Outra", LastName: "Ana", Email: "ana@example.com", Password: "different",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterCustomerShortPassword(t *testing.T) {
	handler := NewRegisterCustomerHandler(newFakeCustomerRepo())

	_, err := handler.Handle(context.Background(), RegisterCustomerCommand{
		FirstName: "Ana", LastName: "Silva", Email: "ana@example.com", Password: "abc",
	})
	assert.Error(t, err)
}

func TestLoginCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	register := NewRegisterCustomerHandler(repo)
	login := NewLoginCustomerHandler(repo)

	_, err := register.Handle(context.Background(), RegisterCustomerCommand{
		FirstName: "Ana", LastName: "Silva", Email: "ana@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	response, err := login.Handle(context.Background(), LoginCustomerCommand{Email: "ana@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)

	claims, err := auth.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestLoginCustomerUniformFailures(t *testing.T) {
	repo := newFakeCustomerRepo()
	register := NewRegisterCustomerHandler(repo)
	login := NewLoginCustomerHandler(repo)

	_, err := register.Handle(context.Background(), RegisterCustomerCommand{
		FirstName: "Ana", LastName: "Silva", Email: "ana@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, wrongPassword := login.Handle(context.Background(), LoginCustomerCommand{Email: "ana@example.com", Password: "wrong"})
	_, unknownEmail := login.Handle(context.Background(), LoginCustomerCommand{Email: "nobody@example.com", Password: "wrong"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)

	// Wrong password and unknown email are indistinguishable.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
