// internal/models/article.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// ContentSection is one ordered block of article body content. Media fields
// hold relative storage paths.
type ContentSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
	Video string `json:"video,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type ContentSections []ContentSection

func (s ContentSections) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *ContentSections) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("content sections: unsupported scan type")
	}
	return json.Unmarshal(bytes, s)
}

type Article struct {
	BaseModel
	Title           string          `json:"title" gorm:"size:300;not null"`
	Slug            string          `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Summary         string          `json:"summary" gorm:"type:text;not null"`
	CoverImage      string          `json:"coverImage" gorm:"size:500"`
	Category        ArticleCategory `json:"category" gorm:"size:100;not null;index"`
	AuthorID        uuid.UUID       `json:"authorId" gorm:"type:uuid;not null;index"`
	Published       bool            `json:"published" gorm:"default:false;index"`
	ContentSections ContentSections `json:"contentSections" gorm:"type:jsonb"`

	// Relationships
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
