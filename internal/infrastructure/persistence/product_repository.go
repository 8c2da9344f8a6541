package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID loads a product with its visible sizes and pics
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	err := r.withVisibleRelations(r.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindBySeoURI loads a product by its storefront URI
func (r *GormProductRepository) FindBySeoURI(ctx context.Context, seoURI string) (*catalog.Product, error) {
	var p catalog.Product
	err := r.withVisibleRelations(r.db.WithContext(ctx)).Where("seo_uri = ?", seoURI).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForTenant returns all of a tenant's products
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	return r.findForTenant(ctx, tenantID, filter, false)
}

// FindAvailableForTenant returns the tenant's purchasable products
func (r *GormProductRepository) FindAvailableForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	return r.findForTenant(ctx, tenantID, filter, true)
}

func (r *GormProductRepository) findForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, availableOnly bool) ([]catalog.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("tenant_id = ?", tenantID)
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.Search != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	if err := r.withVisibleRelations(applyFilter(q, filter)).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Save persists a product together with its sizes and pics
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(product).Error
}

// Delete removes a product; sizes and pics cascade
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&catalog.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementInventory atomically reduces a size variant's count, never
// going below zero.
func (r *GormProductRepository) DecrementInventory(ctx context.Context, productID uuid.UUID, size string, qty int) error {
	res := r.db.WithContext(ctx).Model(&catalog.ProductSize{}).
		Where("product_id = ? AND size = ?", productID, size).
		UpdateColumn("inventory_count", gorm.Expr("GREATEST(inventory_count - ?, 0)", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) withVisibleRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_visible = ?", true).Order("sort_order ASC")
		}).
		Preload("Pics", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_visible = ?", true).Order("sort_order ASC")
		})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
