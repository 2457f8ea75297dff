// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the primary key so insertion does not depend on a
// database-side default.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
	UserRoleGuest UserRole = "guest"
)

type FeedbackType string

const (
	FeedbackTypeQuestion   FeedbackType = "question"
	FeedbackTypeCriticism  FeedbackType = "criticism"
	FeedbackTypeSuggestion FeedbackType = "suggestion"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out-of-stock"
	ProductStatusComingSoon ProductStatus = "coming-soon"
)

type ProductCategory string

const (
	CategoryHeadphones        ProductCategory = "headphones-earbuds"
	CategorySmartwatch        ProductCategory = "smartwatch"
	CategoryGamepad           ProductCategory = "gamepad"
	CategoryMobileAccessories ProductCategory = "mobile-accessories"
	CategoryBluetoothSpeaker  ProductCategory = "bluetooth-speaker"
	CategoryPowerBank         ProductCategory = "power-bank"
	CategoryWirelessCharger   ProductCategory = "wireless-charger"
	CategorySmartBand         ProductCategory = "smart-band"
	CategorySmartGlasses      ProductCategory = "smart-glasses"
	CategorySmartCamera       ProductCategory = "smart-camera"
)

type ProductBrand string

const (
	BrandSamsung    ProductBrand = "samsung"
	BrandApple      ProductBrand = "apple"
	BrandXiaomi     ProductBrand = "xiaomi"
	BrandAnker      ProductBrand = "anker"
	BrandJBL        ProductBrand = "jbl"
	BrandSony       ProductBrand = "sony"
	BrandHuawei     ProductBrand = "huawei"
	BrandOnePlus    ProductBrand = "oneplus"
	BrandBeats      ProductBrand = "beats"
	BrandBose       ProductBrand = "bose"
	BrandAirPods    ProductBrand = "airpods"
	BrandGalaxyBuds ProductBrand = "galaxy-buds"
)

type ProductTag string

const (
	TagFeatured        ProductTag = "featured"
	TagBestseller      ProductTag = "bestseller"
	TagNew             ProductTag = "new"
	TagSpecialOffer    ProductTag = "special-offer"
	TagSpecialDiscount ProductTag = "special-discount"
	TagLimited         ProductTag = "limited"
)

type ArticleCategory string

const (
	ArticleCategorySmartphones     ArticleCategory = "smartphones"
	ArticleCategoryRobotVacuums    ArticleCategory = "robot-vacuums"
	ArticleCategorySmartRings      ArticleCategory = "smart-rings"
	ArticleCategoryGameControllers ArticleCategory = "game-controllers"
	ArticleCategorySmartwatches    ArticleCategory = "smartwatches"
	ArticleCategorySmartGlasses    ArticleCategory = "smart-glasses"
	ArticleCategoryWirelessAudio   ArticleCategory = "wireless-headphones"
)
