// internal/models/feedback.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	BaseModel
	Text        string       `json:"text" gorm:"type:text;not null"`
	FirstName   string       `json:"firstName" gorm:"size:100;not null"`
	LastName    string       `json:"lastName" gorm:"size:100;not null"`
	Email       string       `json:"email" gorm:"size:255;not null"`
	PhoneNumber string       `json:"phoneNumber" gorm:"size:30;not null"`
	Type        FeedbackType `json:"type" gorm:"type:varchar(20);not null;index"`
	UserID      uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index"`
	IsApproved  bool         `json:"isApproved" gorm:"default:false;index"`
	AnswerText  *string      `json:"answerText" gorm:"type:text"`
	AnsweredBy  *uuid.UUID   `json:"answeredBy" gorm:"type:uuid"`
	AnsweredAt  *time.Time   `json:"answeredAt"`

	// Relationships
	User      User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Responder *User `json:"responder,omitempty" gorm:"foreignKey:AnsweredBy"`
}

// IsAnswered is derived from the answer text alone; feedback carries no
// stored answered flag.
func (f *Feedback) IsAnswered() bool {
	return f.AnswerText != nil
}
