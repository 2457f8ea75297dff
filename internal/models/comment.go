// internal/models/comment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a blog post. A comment with a non-nil
// ParentCommentID is a reply; replies stay one level deep by convention.
type Comment struct {
	BaseModel
	Text            string     `json:"text" gorm:"type:text;not null"`
	Email           string     `json:"email" gorm:"size:255;not null"`
	Username        string     `json:"username" gorm:"size:50;not null"`
	AuthorID        uuid.UUID  `json:"authorId" gorm:"type:uuid;not null;index"`
	PostID          uuid.UUID  `json:"postId" gorm:"type:uuid;not null;index"`
	ParentCommentID *uuid.UUID `json:"parentComment" gorm:"type:uuid;index"`
	IsApproved      bool       `json:"isApproved" gorm:"default:false;index"`
	IsAnswered      bool       `json:"isAnswered" gorm:"default:false"`
	AnswerText      *string    `json:"answerText" gorm:"type:text"`
	ResponderID     *uuid.UUID `json:"responderId" gorm:"type:uuid"`
	AnsweredAt      *time.Time `json:"answeredAt"`

	// Relationships
	Author    User  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Responder *User `json:"responder,omitempty" gorm:"foreignKey:ResponderID"`
}
