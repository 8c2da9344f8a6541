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

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new cart repository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByToken loads a cart by its token
func (r *GormCartRepository) FindByToken(ctx context.Context, token string, withItems bool) (*cart.Cart, error) {
	var c cart.Cart
	err := r.query(ctx, withItems).Where("token = ?", token).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByID loads a cart by id
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID, withItems bool) (*cart.Cart, error) {
	var c cart.Cart
	err := r.query(ctx, withItems).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new open cart
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// AddOrIncrementItem merges on (cart, product, size): an existing line's
// quantity is incremented in place, otherwise a new row is inserted. The
// increment runs as a single UPDATE so two rapid add clicks cannot lose
// a read-modify-write race.
func (r *GormCartRepository) AddOrIncrementItem(ctx context.Context, cartID, productID uuid.UUID, size string, qty int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&cart.CartItem{}).
			Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
			UpdateColumns(map[string]any{
				"qty":        gorm.Expr("qty + ?", qty),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		item := cart.CartItem{
			BaseEntity: shared.NewBaseEntity(),
			CartID:     cartID,
			ProductID:  productID,
			Size:       size,
			Qty:        qty,
		}
		return tx.Create(&item).Error
	})
}

// RemoveItem deletes a line item. A missing item is a client-visible error.
func (r *GormCartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&cart.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetItemQty updates a line item quantity
func (r *GormCartRepository) SetItemQty(ctx context.Context, itemID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).Model(&cart.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{"qty": qty, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateFields applies a partial update to cart columns
func (r *GormCartRepository) UpdateFields(ctx context.Context, cartID uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&cart.Cart{}).
		Where("id = ?", cartID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// BeginCharge flips open -> charging with a conditional update. Zero rows
// means another checkout won the transition (or the cart closed meanwhile).
func (r *GormCartRepository) BeginCharge(ctx context.Context, cartID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&cart.Cart{}).
		Where("id = ? AND status = ? AND closed_at IS NULL", cartID, cart.StatusOpen).
		Updates(map[string]any{"status": cart.StatusCharging, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return cart.ErrCheckoutInProgress
	}
	return nil
}

// ReleaseCharge reopens a cart after a declined capture
func (r *GormCartRepository) ReleaseCharge(ctx context.Context, cartID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&cart.Cart{}).
		Where("id = ? AND status = ?", cartID, cart.StatusCharging).
		Updates(map[string]any{"status": cart.StatusOpen, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CloseCharged finishes charging -> closed, setting closed_at exactly once
func (r *GormCartRepository) CloseCharged(ctx context.Context, cartID uuid.UUID, closedAt time.Time, fields map[string]any) error {
	updates := map[string]any{
		"status":     cart.StatusClosed,
		"closed_at":  closedAt,
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).Model(&cart.Cart{}).
		Where("id = ? AND status = ? AND closed_at IS NULL", cartID, cart.StatusCharging).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormCartRepository) query(ctx context.Context, withItems bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if !withItems {
		return q
	}
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Pics", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_visible = ?", true).Order("sort_order ASC")
		}).
		Preload("Items.Product.Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_visible = ?", true).Order("sort_order ASC")
		})
}

var _ cart.Repository = (*GormCartRepository)(nil)
