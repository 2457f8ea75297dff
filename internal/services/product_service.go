// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

const curatedViewMaxLimit = 50

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductPriceInput struct {
	OriginalPrice float64 `json:"originalPrice" validate:"required,gt=0"`
	DiscountPrice float64 `json:"discountPrice" validate:"omitempty,gte=0"`
}

type ProductImagesInput struct {
	MainImage     string   `json:"mainImage" validate:"required"`
	Thumbnails    []string `json:"thumbnails,omitempty"`
	GalleryImages []string `json:"galleryImages,omitempty"`
}

type ProductSEOInput struct {
	MetaTitle       string   `json:"metaTitle,omitempty" validate:"omitempty,max=300"`
	MetaDescription string   `json:"metaDescription,omitempty" validate:"omitempty,max=500"`
	Keywords        []string `json:"keywords,omitempty"`
}

type CreateProductRequest struct {
	Name             string                 `json:"name" validate:"required,min=2,max=200"`
	Title            string                 `json:"title" validate:"required,min=2,max=300"`
	Description      string                 `json:"description" validate:"required,min=10"`
	ShortDescription string                 `json:"shortDescription,omitempty" validate:"omitempty,max=500"`
	Category         models.ProductCategory `json:"category" validate:"required"`
	Brand            models.ProductBrand    `json:"brand" validate:"required"`
	Price            ProductPriceInput      `json:"price" validate:"required"`
	Images           ProductImagesInput     `json:"images" validate:"required"`
	Specifications   models.JSONB           `json:"specifications,omitempty"`
	Stock            int                    `json:"stock" validate:"gte=0"`
	Status           models.ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive out-of-stock coming-soon"`
	Tags             []string               `json:"tags,omitempty"`
	SEO              ProductSEOInput        `json:"seo,omitempty"`
}

type UpdateProductRequest struct {
	Name             *string                 `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Title            *string                 `json:"title,omitempty" validate:"omitempty,min=2,max=300"`
	Description      *string                 `json:"description,omitempty" validate:"omitempty,min=10"`
	ShortDescription *string                 `json:"shortDescription,omitempty" validate:"omitempty,max=500"`
	Category         *models.ProductCategory `json:"category,omitempty"`
	Brand            *models.ProductBrand    `json:"brand,omitempty"`
	Price            *ProductPriceInput      `json:"price,omitempty"`
	Images           *ProductImagesInput     `json:"images,omitempty"`
	Specifications   models.JSONB            `json:"specifications,omitempty"`
	Status           *models.ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive out-of-stock coming-soon"`
	Tags             []string                `json:"tags,omitempty"`
	SEO              *ProductSEOInput        `json:"seo,omitempty"`
}

type UpdateStockRequest struct {
	Stock  int    `json:"stock"`
	Action string `json:"action" validate:"required,oneof=set add subtract"`
}

type ProductFilters struct {
	Category *models.ProductCategory
	Brand    *models.ProductBrand
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
	Status   *models.ProductStatus
	Tag      *models.ProductTag
	Search   string
}

// CatalogFilters is the filter metadata exposed to storefront clients.
type CatalogFilters struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	MinPrice   float64  `json:"minPrice"`
	MaxPrice   float64  `json:"maxPrice"`
}

func (s *ProductService) Create(principal Principal, req *CreateProductRequest) (*models.Product, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can create products", ErrForbidden)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.Name)
	slug := utils.Slugify(name)

	var count int64
	if err := s.db.Model(&models.Product{}).
		Where("name = ? OR seo_slug = ?", name, slug).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a product with this name already exists", ErrConflict)
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	product := &models.Product{
		Name:             name,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Brand:            req.Brand,
		Price: models.ProductPrice{
			OriginalPrice: req.Price.OriginalPrice,
			DiscountPrice: req.Price.DiscountPrice,
		},
		Images: models.ProductImages{
			MainImage:     req.Images.MainImage,
			Thumbnails:    pq.StringArray(req.Images.Thumbnails),
			GalleryImages: pq.StringArray(req.Images.GalleryImages),
		},
		Specifications: req.Specifications,
		Inventory: models.ProductInventory{
			Stock:   req.Stock,
			InStock: req.Stock > 0,
		},
		Status: status,
		Tags:   pq.StringArray(req.Tags),
		SEO: models.ProductSEO{
			MetaTitle:       req.SEO.MetaTitle,
			MetaDescription: req.SEO.MetaDescription,
			Keywords:        pq.StringArray(req.SEO.Keywords),
		},
		CreatedByID: principal.ID,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.ComputeDerived()
	return product, nil
}

// Get returns the product and bumps its view counter in the background.
// The returned value reflects the pre-increment count.
func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	product, err := s.findProduct("id = ?", id)
	if err != nil {
		return nil, err
	}
	s.incrementViewCount(product.ID)
	return product, nil
}

func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	product, err := s.findProduct("seo_slug = ?", slug)
	if err != nil {
		return nil, err
	}
	s.incrementViewCount(product.ID)
	return product, nil
}

func (s *ProductService) incrementViewCount(id uuid.UUID) {
	go func() {
		if err := s.db.Model(&models.Product{}).
			Where("id = ?", id).
			Update("sales_view_count", gorm.Expr("sales_view_count + 1")).Error; err != nil {
			logrus.WithError(err).WithField("product_id", id).Warn("Failed to increment view count")
		}
	}()
}

func (s *ProductService) List(filters ProductFilters, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	status := models.ProductStatusActive
	if filters.Status != nil {
		status = *filters.Status
	}
	query = query.Where("status = ?", status)

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Brand != nil {
		query = query.Where("brand = ?", *filters.Brand)
	}
	if filters.MinPrice != nil {
		query = query.Where("price_original_price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price_original_price <= ?", *filters.MaxPrice)
	}
	if filters.InStock != nil {
		query = query.Where("inventory_in_stock = ?", *filters.InStock)
	}
	if filters.Tag != nil {
		query = query.Where("? = ANY(tags)", string(*filters.Tag))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{
		"created_at", "updated_at", "name", "price_original_price",
		"price_discount_price", "rating_average", "sales_total_sold", "sales_view_count",
	}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) Update(id uuid.UUID, principal Principal, req *UpdateProductRequest) (*models.Product, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can update products", ErrForbidden)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	product, err := s.findProduct("id = ?", id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != product.Name {
			slug := utils.Slugify(name)
			var count int64
			if err := s.db.Model(&models.Product{}).
				Where("(name = ? OR seo_slug = ?) AND id <> ?", name, slug, id).
				Count(&count).Error; err != nil {
				return nil, fmt.Errorf("database error: %w", err)
			}
			if count > 0 {
				return nil, fmt.Errorf("%w: a product with this name already exists", ErrConflict)
			}
		}
		product.Name = name
	}
	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Price != nil {
		product.Price.OriginalPrice = req.Price.OriginalPrice
		product.Price.DiscountPrice = req.Price.DiscountPrice
	}
	if req.Images != nil {
		product.Images.MainImage = req.Images.MainImage
		product.Images.Thumbnails = pq.StringArray(req.Images.Thumbnails)
		product.Images.GalleryImages = pq.StringArray(req.Images.GalleryImages)
	}
	if req.Specifications != nil {
		product.Specifications = req.Specifications
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	if req.Tags != nil {
		product.Tags = pq.StringArray(req.Tags)
	}
	if req.SEO != nil {
		product.SEO.MetaTitle = req.SEO.MetaTitle
		product.SEO.MetaDescription = req.SEO.MetaDescription
		product.SEO.Keywords = pq.StringArray(req.SEO.Keywords)
	}

	// Save runs BeforeSave, which re-derives slug and discount percentage.
	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	product.ComputeDerived()
	return product, nil
}

// UpdateStock applies a set/add/subtract mutation. The out-of-stock
// transition happens in the same UPDATE statement as the stock write so a
// concurrent mutation cannot observe stock <= 0 with status still active.
func (s *ProductService) UpdateStock(id uuid.UUID, principal Principal, req *UpdateStockRequest) (*models.Product, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can update stock", ErrForbidden)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Action == "set" && req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be a non-negative number", ErrInvalidInput)
	}

	if _, err := s.findProduct("id = ?", id); err != nil {
		return nil, err
	}

	var stockExpr string
	switch req.Action {
	case "set":
		stockExpr = "?"
	case "add":
		stockExpr = "inventory_stock + ?"
	case "subtract":
		stockExpr = "inventory_stock - ?"
	}

	updates := map[string]interface{}{
		"inventory_stock": gorm.Expr(stockExpr, req.Stock),
		"inventory_in_stock": gorm.Expr(
			"CASE WHEN "+stockExpr+" <= 0 THEN ? ELSE ? END",
			req.Stock, false, true,
		),
		"status": gorm.Expr(
			"CASE WHEN "+stockExpr+" <= 0 THEN ? ELSE status END",
			req.Stock, models.ProductStatusOutOfStock,
		),
	}

	if err := s.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return s.findProduct("id = ?", id)
}

func (s *ProductService) Delete(id uuid.UUID, principal Principal) error {
	if !canModerate(principal) {
		return fmt.Errorf("%w: only admins can delete products", ErrForbidden)
	}

	result := s.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: product", ErrNotFound)
	}
	return nil
}

// Featured returns active products ranked by sales and rating.
func (s *ProductService) Featured(limit int) ([]models.Product, error) {
	return s.curatedView(limit, "sales_total_sold DESC, rating_average DESC")
}

// Discounted returns active discounted products, deepest discount first.
func (s *ProductService) Discounted(limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.
		Where("status = ? AND price_discount_price > 0", models.ProductStatusActive).
		Order("price_discount_percentage DESC").
		Limit(clampCuratedLimit(limit)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discounted products: %w", err)
	}
	return products, nil
}

// Latest returns the newest active products.
func (s *ProductService) Latest(limit int) ([]models.Product, error) {
	return s.curatedView(limit, "created_at DESC")
}

func (s *ProductService) curatedView(limit int, order string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.
		Where("status = ?", models.ProductStatusActive).
		Order(order).
		Limit(clampCuratedLimit(limit)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func clampCuratedLimit(limit int) int {
	if limit < 1 {
		return 10
	}
	if limit > curatedViewMaxLimit {
		return curatedViewMaxLimit
	}
	return limit
}

// Filters aggregates the catalog-wide filter metadata: every category and
// brand in use plus the global original-price range.
func (s *ProductService) Filters() (*CatalogFilters, error) {
	filters := &CatalogFilters{}

	if err := s.db.Model(&models.Product{}).
		Distinct().
		Order("category").
		Pluck("category", &filters.Categories).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	if err := s.db.Model(&models.Product{}).
		Distinct().
		Order("brand").
		Pluck("brand", &filters.Brands).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate brands: %w", err)
	}

	var bounds struct {
		Min float64
		Max float64
	}
	err := s.db.Model(&models.Product{}).
		Select("COALESCE(MIN(price_original_price), 0) AS min, COALESCE(MAX(price_original_price), 0) AS max").
		Scan(&bounds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate price range: %w", err)
	}
	filters.MinPrice = bounds.Min
	filters.MaxPrice = bounds.Max

	return filters, nil
}

func (s *ProductService) findProduct(condition string, value interface{}) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, condition, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}
