package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/clothing-store/internal/customer/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Customer{})
}

// Create inserts a new customer. A duplicate email maps to ErrEmailTaken.
func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// FindByID retrieves a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindByEmail retrieves a customer by email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindAll retrieves customers with pagination
func (r *GormCustomerRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&customers).Error
	return customers, err
}

// Update saves customer changes
func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// Delete soft-deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Count returns the number of customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Count(&count).Error
	return count, err
}
