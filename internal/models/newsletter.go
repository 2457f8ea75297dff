// internal/models/newsletter.go
package models

// Newsletter is a subscription record. It stays inactive until the email is
// confirmed with the verification code; the pending code itself lives in
// Redis with its expiry.
type Newsletter struct {
	BaseModel
	Email    string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	IsActive bool   `json:"isActive" gorm:"default:false"`
}
