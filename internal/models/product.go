// internal/models/product.go
package models

import (
	"math"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/technoshop/technoshop-backend/internal/utils"
)

type ProductPrice struct {
	OriginalPrice      float64 `json:"originalPrice" gorm:"not null"`
	DiscountPrice      float64 `json:"discountPrice" gorm:"default:0"`
	DiscountPercentage int     `json:"discountPercentage" gorm:"default:0"`
}

type ProductInventory struct {
	Stock         int  `json:"stock" gorm:"not null;default:0"`
	InStock       bool `json:"inStock" gorm:"default:true"`
	ReservedStock int  `json:"reservedStock" gorm:"default:0"`
}

type ProductImages struct {
	MainImage     string         `json:"mainImage" gorm:"size:500;not null"`
	Thumbnails    pq.StringArray `json:"thumbnails" gorm:"type:text[]"`
	GalleryImages pq.StringArray `json:"galleryImages" gorm:"type:text[]"`
}

type ProductRating struct {
	Average float64 `json:"average" gorm:"default:0"`
	Count   int64   `json:"count" gorm:"default:0"`
}

type ProductSalesStats struct {
	TotalSold     int64 `json:"totalSold" gorm:"default:0"`
	ViewCount     int64 `json:"viewCount" gorm:"default:0"`
	WishlistCount int64 `json:"wishlistCount" gorm:"default:0"`
}

type ProductSEO struct {
	MetaTitle       string         `json:"metaTitle" gorm:"size:300"`
	MetaDescription string         `json:"metaDescription" gorm:"size:500"`
	Keywords        pq.StringArray `json:"keywords" gorm:"type:text[]"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
}

type Product struct {
	BaseModel
	Name             string            `json:"name" gorm:"uniqueIndex;size:200;not null"`
	Title            string            `json:"title" gorm:"size:300;not null"`
	Description      string            `json:"description" gorm:"type:text;not null"`
	ShortDescription string            `json:"shortDescription" gorm:"size:500"`
	Category         ProductCategory   `json:"category" gorm:"size:100;not null;index"`
	Brand            ProductBrand      `json:"brand" gorm:"size:100;not null;index"`
	Price            ProductPrice      `json:"price" gorm:"embedded;embeddedPrefix:price_"`
	Images           ProductImages     `json:"images" gorm:"embedded;embeddedPrefix:image_"`
	Specifications   JSONB             `json:"specifications" gorm:"type:jsonb"`
	Inventory        ProductInventory  `json:"inventory" gorm:"embedded;embeddedPrefix:inventory_"`
	Status           ProductStatus     `json:"status" gorm:"type:varchar(20);default:'active';index"`
	Tags             pq.StringArray    `json:"tags" gorm:"type:text[]"`
	Rating           ProductRating     `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	SalesStats       ProductSalesStats `json:"salesStats" gorm:"embedded;embeddedPrefix:sales_"`
	SEO              ProductSEO        `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	CreatedByID      uuid.UUID         `json:"createdBy" gorm:"type:uuid;not null;index"`

	// Derived read-only fields, populated after every load.
	FinalPrice     float64 `json:"finalPrice" gorm:"-"`
	DiscountAmount float64 `json:"discountAmount" gorm:"-"`
	IsAvailable    bool    `json:"isAvailable" gorm:"-"`

	// Relationships
	CreatedBy User `json:"creator,omitempty" gorm:"foreignKey:CreatedByID"`
}

// BeforeSave recomputes the derived stored fields; client-supplied values for
// slug and discount percentage are never trusted.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Name != "" {
		p.SEO.Slug = utils.Slugify(p.Name)
	}
	p.Price.DiscountPercentage = DiscountPercentage(p.Price.OriginalPrice, p.Price.DiscountPrice)
	return nil
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.ComputeDerived()
	return nil
}

func (p *Product) ComputeDerived() {
	if p.Price.DiscountPrice > 0 {
		p.FinalPrice = p.Price.DiscountPrice
		p.DiscountAmount = p.Price.OriginalPrice - p.Price.DiscountPrice
	} else {
		p.FinalPrice = p.Price.OriginalPrice
		p.DiscountAmount = 0
	}
	p.IsAvailable = p.Inventory.InStock && p.Inventory.Stock > 0 && p.Status == ProductStatusActive
}

// DiscountPercentage is round(100 * (original - discount) / original) when a
// discount price is set, 0 otherwise.
func DiscountPercentage(originalPrice, discountPrice float64) int {
	if discountPrice <= 0 || originalPrice <= 0 {
		return 0
	}
	return int(math.Round((originalPrice - discountPrice) / originalPrice * 100))
}
