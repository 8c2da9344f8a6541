package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService serves storefront catalog reads and admin catalog writes
type ProductService struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates a product service
func NewProductService(products catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// CreateProductRequest creates a product with its variants and pictures
type CreateProductRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	SeoURI      string          `json:"seo_uri"`
	SeoTitle    string          `json:"seo_title"`
	SeoDesc     string          `json:"seo_desc"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	IsOnSale    bool            `json:"is_on_sale"`
	IsAvailable bool            `json:"is_available"`
	WeightOz    decimal.Decimal `json:"weight_oz"`
	Material    string          `json:"material"`
	Fit         string          `json:"fit"`
	VideoURL    string          `json:"video_url"`

	Sizes []SizeInput `json:"sizes"`
	Pics  []PicInput  `json:"pics"`
}

// SizeInput is one variant definition
type SizeInput struct {
	Size           string `json:"size" binding:"required"`
	InventoryCount int    `json:"inventory_count"`
	IsVisible      bool   `json:"is_visible"`
	SortOrder      int    `json:"sort_order"`
}

// PicInput is one picture definition
type PicInput struct {
	URL       string `json:"url" binding:"required"`
	IsVisible bool   `json:"is_visible"`
	SortOrder int    `json:"sort_order"`
}

// UpdateProductRequest patches the product's core fields
type UpdateProductRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	IsOnSale    *bool            `json:"is_on_sale"`
	IsAvailable *bool            `json:"is_available"`
	WeightOz    *decimal.Decimal `json:"weight_oz"`
	Material    *string          `json:"material"`
	Fit         *string          `json:"fit"`
	VideoURL    *string          `json:"video_url"`
}

// ProductResponse is the catalog payload for both storefront and admin
type ProductResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	SeoURI       string          `json:"seo_uri"`
	BasePrice    decimal.Decimal `json:"base_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	DisplayPrice decimal.Decimal `json:"display_price"`
	IsOnSale     bool            `json:"is_on_sale"`
	IsAvailable  bool            `json:"is_available"`
	WeightOz     decimal.Decimal `json:"weight_oz"`
	Material     string          `json:"material"`
	Fit          string          `json:"fit"`
	VideoURL     string          `json:"video_url"`
	Sizes        []SizeResponse  `json:"sizes"`
	Pics         []string        `json:"pics"`
}

// SizeResponse is one visible variant
type SizeResponse struct {
	Size           string `json:"size"`
	InventoryCount int    `json:"inventory_count"`
	SortOrder      int    `json:"sort_order"`
}

// GetProduct returns a product with its visible sizes and pics
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// GetProductBySeoURI returns a product by its storefront URI
func (s *ProductService) GetProductBySeoURI(ctx context.Context, seoURI string) (*ProductResponse, error) {
	p, err := s.products.FindBySeoURI(ctx, seoURI)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// ListAvailable returns the storefront catalog page
func (s *ProductService) ListAvailable(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	items, total, err := s.products.FindAvailableForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toProductResponses(items), total, nil
}

// List returns all products for the admin surface
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	items, total, err := s.products.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toProductResponses(items), total, nil
}

// Create creates a product with variants and pictures
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	p, err := catalog.NewProduct(tenantID, req.Title, req.BasePrice)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.SeoURI = req.SeoURI
	p.SeoTitle = req.SeoTitle
	p.SeoDesc = req.SeoDesc
	p.SalePrice = req.SalePrice
	p.IsOnSale = req.IsOnSale
	p.IsAvailable = req.IsAvailable
	p.WeightOz = req.WeightOz
	p.Material = req.Material
	p.Fit = req.Fit
	p.VideoURL = req.VideoURL

	for _, in := range req.Sizes {
		p.Sizes = append(p.Sizes, catalog.ProductSize{
			BaseEntity:     shared.NewBaseEntity(),
			ProductID:      p.ID,
			Size:           in.Size,
			InventoryCount: in.InventoryCount,
			IsVisible:      in.IsVisible,
			SortOrder:      in.SortOrder,
		})
	}
	for _, in := range req.Pics {
		p.Pics = append(p.Pics, catalog.ProductPic{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  p.ID,
			URL:        in.URL,
			IsVisible:  in.IsVisible,
			SortOrder:  in.SortOrder,
		})
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.String("title", p.Title))
	resp := toProductResponse(p)
	return &resp, nil
}

// Update patches a product's core fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.BasePrice != nil {
		p.BasePrice = *req.BasePrice
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.IsOnSale != nil {
		p.IsOnSale = *req.IsOnSale
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	if req.WeightOz != nil {
		p.WeightOz = *req.WeightOz
	}
	if req.Material != nil {
		p.Material = *req.Material
	}
	if req.Fit != nil {
		p.Fit = *req.Fit
	}
	if req.VideoURL != nil {
		p.VideoURL = *req.VideoURL
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// Delete removes a product and its variants
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func toProductResponse(p *catalog.Product) ProductResponse {
	sizes := make([]SizeResponse, 0, len(p.Sizes))
	for _, sz := range p.Sizes {
		sizes = append(sizes, SizeResponse{
			Size:           sz.Size,
			InventoryCount: sz.InventoryCount,
			SortOrder:      sz.SortOrder,
		})
	}
	pics := make([]string, 0, len(p.Pics))
	for _, pic := range p.Pics {
		pics = append(pics, pic.URL)
	}
	return ProductResponse{
		ID:           p.ID.String(),
		Title:        p.Title,
		Description:  p.Description,
		SeoURI:       p.SeoURI,
		BasePrice:    p.BasePrice,
		SalePrice:    p.SalePrice,
		DisplayPrice: p.DisplayPrice(),
		IsOnSale:     p.IsOnSale,
		IsAvailable:  p.IsAvailable,
		WeightOz:     p.WeightOz,
		Material:     p.Material,
		Fit:          p.Fit,
		VideoURL:     p.VideoURL,
		Sizes:        sizes,
		Pics:         pics,
	}
}

func toProductResponses(items []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for i := range items {
		out = append(out, toProductResponse(&items[i]))
	}
	return out
}
