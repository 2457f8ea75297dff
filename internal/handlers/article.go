// internal/handlers/article.go
package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

const articleMediaFolder = "articles"

type ArticleHandler struct {
	articleService *services.ArticleService
	storage        services.Storage
}

func NewArticleHandler(articleService *services.ArticleService, storage services.Storage) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, storage: storage}
}

// POST /article
//
// Multipart form: a "data" field carrying the article JSON, a "coverImage"
// file, and optional per-section media files keyed sectionImage_<i>,
// sectionVideo_<i>, sectionAudio_<i>.
func (h *ArticleHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	var req services.CreateArticleRequest
	if err := bindFormData(form, &req); err != nil {
		utils.BadRequestResponse(c, "Invalid article data", err.Error())
		return
	}

	if fh := firstFile(form, "coverImage"); fh != nil {
		path, err := h.storage.Save(articleMediaFolder, fh)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		req.CoverImage = path
	}

	if err := h.attachSectionMedia(form, req.ContentSections); err != nil {
		respondServiceError(c, err)
		return
	}

	article, err := h.articleService.Create(principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Article created", article)
}

// GET /article
func (h *ArticleHandler) GetAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var filters services.ArticleFilters
	if publishedStr := c.Query("published"); publishedStr != "" {
		published := publishedStr == "true"
		filters.Published = &published
	}
	if category := c.Query("category"); category != "" {
		articleCategory := models.ArticleCategory(category)
		filters.Category = &articleCategory
	}

	articles, total, err := h.articleService.GetAll(filters, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, "Articles retrieved", result, nil)
}

// GET /article/:id
func (h *ArticleHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Article retrieved", article)
}

// GET /article/slug/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.articleService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Article retrieved", article)
}

// GET /article/category/:category
func (h *ArticleHandler) GetByCategory(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	category := models.ArticleCategory(c.Param("category"))

	articles, total, err := h.articleService.GetByCategory(category, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, "Articles retrieved", result, nil)
}

// GET /article/search?q=
func (h *ArticleHandler) Search(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	articles, total, err := h.articleService.Search(c.Query("q"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, "Articles retrieved", result, nil)
}

// GET /article/published
func (h *ArticleHandler) Published(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	articles, total, err := h.articleService.Published(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, "Articles retrieved", result, nil)
}

// GET /article/unpublished (admin)
func (h *ArticleHandler) Unpublished(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	articles, total, err := h.articleService.Unpublished(principal, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(articles, total, params)
	utils.PaginatedResponse(c, "Articles retrieved", result, nil)
}

// PATCH /article/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateArticleRequest

	if form, err := c.MultipartForm(); err == nil {
		if err := bindFormData(form, &req); err != nil {
			utils.BadRequestResponse(c, "Invalid article data", err.Error())
			return
		}
		if fh := firstFile(form, "coverImage"); fh != nil {
			path, err := h.storage.Save(articleMediaFolder, fh)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			req.CoverImage = &path
		}
		if err := h.attachSectionMedia(form, req.ContentSections); err != nil {
			respondServiceError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	article, err := h.articleService.Update(id, principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Article updated", article)
}

// DELETE /article/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.articleService.Delete(id, principal); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Article deleted", nil)
}

// PATCH /article/:id/toggle-published
func (h *ArticleHandler) TogglePublished(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.TogglePublished(id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Article publish state toggled", article)
}

func bindFormData(form *multipart.Form, dest interface{}) error {
	values := form.Value["data"]
	if len(values) == 0 {
		return fmt.Errorf("missing data field")
	}
	return json.Unmarshal([]byte(values[0]), dest)
}

func firstFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files := form.File[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// attachSectionMedia stores per-section uploads and writes the resulting
// paths back onto the matching section inputs.
func (h *ArticleHandler) attachSectionMedia(form *multipart.Form, sections []services.ContentSectionInput) error {
	for i := range sections {
		for key, target := range map[string]*string{
			fmt.Sprintf("sectionImage_%d", i): &sections[i].Image,
			fmt.Sprintf("sectionVideo_%d", i): &sections[i].Video,
			fmt.Sprintf("sectionAudio_%d", i): &sections[i].Audio,
		} {
			fh := firstFile(form, key)
			if fh == nil {
				continue
			}
			path, err := h.storage.Save(articleMediaFolder, fh)
			if err != nil {
				return err
			}
			*target = path
		}
	}
	return nil
}
