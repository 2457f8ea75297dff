// internal/handlers/comment.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// POST /comment
func (h *CommentHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	comment, err := h.commentService.Create(principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Comment submitted for moderation", comment)
}

// GET /comment/post/:postId
func (h *CommentHandler) ListForPost(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListForPost(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Comments retrieved", comments)
}

// GET /comment/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	replies, err := h.commentService.ListReplies(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Replies retrieved", replies)
}

// PATCH /comment/:id
func (h *CommentHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	comment, err := h.commentService.Update(id, principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Comment updated", comment)
}

// DELETE /comment/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Remove(id, principal); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Comment deleted", nil)
}

// PATCH /comment/:id/approve
func (h *CommentHandler) SetApproval(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsApproved *bool `json:"isApproved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "isApproved is required", err.Error())
		return
	}

	comment, err := h.commentService.SetApproval(id, principal, *req.IsApproved)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Comment approval updated", comment)
}

type answerRequest struct {
	AnswerText string `json:"answerText" binding:"required"`
}

// PATCH /comment/:id/answer
func (h *CommentHandler) Answer(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "answerText is required", err.Error())
		return
	}

	comment, err := h.commentService.Answer(id, principal, req.AnswerText)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Answer recorded", comment)
}

// PUT /comment/:id/answer
func (h *CommentHandler) EditAnswer(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "answerText is required", err.Error())
		return
	}

	comment, err := h.commentService.EditAnswer(id, principal, req.AnswerText)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Answer updated", comment)
}

// DELETE /comment/:id/answer
func (h *CommentHandler) RemoveAnswer(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentService.RemoveAnswer(id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Answer removed", comment)
}

// GET /comment/unapproved
func (h *CommentHandler) ListUnapproved(c *gin.Context) {
	h.adminListing(c, h.commentService.ListUnapproved)
}

// GET /comment/admin/all
func (h *CommentHandler) ListAllForAdmin(c *gin.Context) {
	h.adminListing(c, h.commentService.ListAllForAdmin)
}

func (h *CommentHandler) adminListing(
	c *gin.Context,
	list func(services.Principal, services.CommentFilters, utils.PaginationParams) ([]models.Comment, int64, *services.CommentStatistics, error),
) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filters := commentFiltersFromQuery(c)

	comments, total, stats, err := list(principal, filters, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(comments, total, params)
	utils.PaginatedResponse(c, "Comments retrieved", result, gin.H{"statistics": stats})
}

func commentFiltersFromQuery(c *gin.Context) services.CommentFilters {
	var filters services.CommentFilters
	if postIDStr := c.Query("postId"); postIDStr != "" {
		if postID, err := uuid.Parse(postIDStr); err == nil {
			filters.PostID = &postID
		}
	}
	if approvedStr := c.Query("approved"); approvedStr != "" {
		if approved, err := strconv.ParseBool(approvedStr); err == nil {
			filters.Approved = &approved
		}
	}
	return filters
}

// POST /comment/bulk-approve
func (h *CommentHandler) BulkModerate(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req struct {
		IDs    []uuid.UUID                 `json:"ids" binding:"required,min=1"`
		Action services.BulkModerateAction `json:"action" binding:"required,oneof=approve reject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "ids and action are required", err.Error())
		return
	}

	modified, err := h.commentService.BulkModerate(principal, req.IDs, req.Action)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Comments moderated", gin.H{"modifiedCount": modified})
}
