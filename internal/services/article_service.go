// internal/services/article_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type ArticleService struct {
	db      *gorm.DB
	storage Storage
}

func NewArticleService(db *gorm.DB, storage Storage) *ArticleService {
	return &ArticleService{db: db, storage: storage}
}

type ContentSectionInput struct {
	Title string `json:"title" validate:"required,min=1,max=300"`
	Text  string `json:"text" validate:"required,min=1"`
	Image string `json:"image,omitempty"`
	Video string `json:"video,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type CreateArticleRequest struct {
	Title           string                 `json:"title" validate:"required,min=2,max=300"`
	Summary         string                 `json:"summary" validate:"required,min=10"`
	CoverImage      string                 `json:"coverImage" validate:"required"`
	Category        models.ArticleCategory `json:"category" validate:"required"`
	Published       bool                   `json:"published"`
	ContentSections []ContentSectionInput  `json:"contentSections" validate:"omitempty,dive"`
}

type UpdateArticleRequest struct {
	Title           *string                 `json:"title,omitempty" validate:"omitempty,min=2,max=300"`
	Summary         *string                 `json:"summary,omitempty" validate:"omitempty,min=10"`
	CoverImage      *string                 `json:"coverImage,omitempty"`
	Category        *models.ArticleCategory `json:"category,omitempty"`
	Published       *bool                   `json:"published,omitempty"`
	ContentSections []ContentSectionInput   `json:"contentSections,omitempty" validate:"omitempty,dive"`
}

type ArticleFilters struct {
	Published *bool
	Category  *models.ArticleCategory
}

func (s *ArticleService) Create(principal Principal, req *CreateArticleRequest) (*models.Article, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can create articles", ErrForbidden)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	title := strings.TrimSpace(req.Title)
	slug := utils.Slugify(title)
	if err := s.checkSlugFree(slug, uuid.Nil); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:           title,
		Slug:            slug,
		Summary:         strings.TrimSpace(req.Summary),
		CoverImage:      req.CoverImage,
		Category:        req.Category,
		AuthorID:        principal.ID,
		Published:       req.Published,
		ContentSections: toContentSections(req.ContentSections),
	}

	if err := s.db.Create(article).Error; err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) GetAll(filters ArticleFilters, params utils.PaginationParams) ([]models.Article, int64, error) {
	query := s.db.Model(&models.Article{})
	if filters.Published != nil {
		query = query.Where("published = ?", *filters.Published)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	return s.list(query, params)
}

func (s *ArticleService) GetByID(id uuid.UUID) (*models.Article, error) {
	return s.findArticle("id = ?", id)
}

// GetBySlug serves the public article page, so drafts stay invisible.
func (s *ArticleService) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := s.db.Preload("Author").
		First(&article, "slug = ? AND published = ?", slug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &article, nil
}

func (s *ArticleService) GetByCategory(category models.ArticleCategory, params utils.PaginationParams) ([]models.Article, int64, error) {
	query := s.db.Model(&models.Article{}).
		Where("category = ? AND published = ?", category, true)
	return s.list(query, params)
}

// Search matches the query against title, summary and section text,
// case-insensitively, across published articles.
func (s *ArticleService) Search(term string, params utils.PaginationParams) ([]models.Article, int64, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, 0, fmt.Errorf("%w: search term must not be empty", ErrInvalidInput)
	}
	pattern := "%" + strings.ToLower(term) + "%"

	query := s.db.Model(&models.Article{}).
		Where("published = ?", true).
		Where(
			"LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(CAST(content_sections AS TEXT)) LIKE ?",
			pattern, pattern, pattern,
		)
	return s.list(query, params)
}

func (s *ArticleService) Published(params utils.PaginationParams) ([]models.Article, int64, error) {
	query := s.db.Model(&models.Article{}).Where("published = ?", true)
	return s.list(query, params)
}

func (s *ArticleService) Unpublished(principal Principal, params utils.PaginationParams) ([]models.Article, int64, error) {
	if !canModerate(principal) {
		return nil, 0, fmt.Errorf("%w: only admins can list unpublished articles", ErrForbidden)
	}
	query := s.db.Model(&models.Article{}).Where("published = ?", false)
	return s.list(query, params)
}

func (s *ArticleService) Update(id uuid.UUID, principal Principal, req *UpdateArticleRequest) (*models.Article, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can update articles", ErrForbidden)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	article, err := s.findArticle("id = ?", id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		slug := utils.Slugify(title)
		if slug != article.Slug {
			if err := s.checkSlugFree(slug, id); err != nil {
				return nil, err
			}
		}
		article.Title = title
		article.Slug = slug
	}
	if req.Summary != nil {
		article.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.CoverImage != nil && *req.CoverImage != article.CoverImage {
		s.removeMedia(article.CoverImage)
		article.CoverImage = *req.CoverImage
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	if req.Published != nil {
		article.Published = *req.Published
	}
	if req.ContentSections != nil {
		article.ContentSections = toContentSections(req.ContentSections)
	}

	if err := s.db.Save(article).Error; err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

// Delete removes the row after a best-effort cleanup of its stored media.
func (s *ArticleService) Delete(id uuid.UUID, principal Principal) error {
	if !canModerate(principal) {
		return fmt.Errorf("%w: only admins can delete articles", ErrForbidden)
	}

	article, err := s.findArticle("id = ?", id)
	if err != nil {
		return err
	}

	s.removeMedia(article.CoverImage)
	for _, section := range article.ContentSections {
		s.removeMedia(section.Image)
		s.removeMedia(section.Video)
		s.removeMedia(section.Audio)
	}

	if err := s.db.Delete(&models.Article{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

func (s *ArticleService) TogglePublished(id uuid.UUID, principal Principal) (*models.Article, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can publish articles", ErrForbidden)
	}

	article, err := s.findArticle("id = ?", id)
	if err != nil {
		return nil, err
	}

	article.Published = !article.Published
	if err := s.db.Model(article).Update("published", article.Published).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle published state: %w", err)
	}
	return article, nil
}

func (s *ArticleService) list(query *gorm.DB, params utils.PaginationParams) ([]models.Article, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "title", "category"})
	query = utils.ApplyPagination(query, params)

	var articles []models.Article
	if err := query.Preload("Author").Find(&articles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch articles: %w", err)
	}
	return articles, total, nil
}

func (s *ArticleService) checkSlugFree(slug string, excludeID uuid.UUID) error {
	query := s.db.Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: an article with this slug already exists", ErrConflict)
	}
	return nil
}

func (s *ArticleService) removeMedia(path string) {
	if path == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(path); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to remove stored media")
	}
}

func (s *ArticleService) findArticle(condition string, value interface{}) (*models.Article, error) {
	var article models.Article
	if err := s.db.Preload("Author").First(&article, condition, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &article, nil
}

func toContentSections(inputs []ContentSectionInput) models.ContentSections {
	if inputs == nil {
		return nil
	}
	sections := make(models.ContentSections, 0, len(inputs))
	for _, in := range inputs {
		sections = append(sections, models.ContentSection{
			Title: strings.TrimSpace(in.Title),
			Text:  strings.TrimSpace(in.Text),
			Image: in.Image,
			Video: in.Video,
			Audio: in.Audio,
		})
	}
	return sections
}
