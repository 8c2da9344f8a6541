package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements cart.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID loads a payment with its cart, items and products
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Payment, error) {
	var p cart.Payment
	err := r.db.WithContext(ctx).
		Preload("Cart").
		Preload("Cart.Items").
		Preload("Cart.Items.Product").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCartID returns all capture attempts for a cart
func (r *GormPaymentRepository) FindByCartID(ctx context.Context, cartID uuid.UUID) ([]cart.Payment, error) {
	var payments []cart.Payment
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// FindAll returns capture records with pagination
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cart.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&cart.Payment{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []cart.Payment
	if err := applyFilter(q, filter).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// Save inserts or updates a payment record
func (r *GormPaymentRepository) Save(ctx context.Context, p *cart.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateShippingRefs stores the provider order and label transaction ids
func (r *GormPaymentRepository) UpdateShippingRefs(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&cart.Payment{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ cart.PaymentRepository = (*GormPaymentRepository)(nil)
