// internal/handlers/feedback.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// POST /feedback
func (h *FeedbackHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req services.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	feedback, err := h.feedbackService.Create(principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Feedback submitted", feedback)
}

// PATCH /feedback/:id
func (h *FeedbackHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	feedback, err := h.feedbackService.Update(id, principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Feedback updated", feedback)
}

// DELETE /feedback/:id
func (h *FeedbackHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.feedbackService.Remove(id, principal); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Feedback deleted", nil)
}

// PATCH /feedback/:id/approve
func (h *FeedbackHandler) Approve(c *gin.Context) {
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

	feedback, err := h.feedbackService.Approve(id, principal, *req.IsApproved)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Feedback approval updated", feedback)
}

// PATCH /feedback/:id/answer
func (h *FeedbackHandler) Answer(c *gin.Context) {
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

	feedback, err := h.feedbackService.Answer(id, principal, req.AnswerText)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Answer recorded", feedback)
}

// GET /feedback/mine
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	h.listing(c, h.feedbackService.ListMine)
}

// GET /feedback (admin)
func (h *FeedbackHandler) ListAll(c *gin.Context) {
	h.listing(c, h.feedbackService.ListAll)
}

// GET /feedback/unapproved (admin)
func (h *FeedbackHandler) ListUnapproved(c *gin.Context) {
	h.listing(c, h.feedbackService.ListUnapproved)
}

func (h *FeedbackHandler) listing(
	c *gin.Context,
	list func(services.Principal, services.FeedbackFilters, utils.PaginationParams) ([]models.Feedback, int64, *services.FeedbackStatistics, error),
) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	var filters services.FeedbackFilters
	if typeStr := c.Query("type"); typeStr != "" {
		feedbackType := models.FeedbackType(typeStr)
		filters.Type = &feedbackType
	}
	if approvedStr := c.Query("approved"); approvedStr != "" {
		if approved, err := strconv.ParseBool(approvedStr); err == nil {
			filters.Approved = &approved
		}
	}

	feedbacks, total, stats, err := list(principal, filters, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(feedbacks, total, params)
	utils.PaginatedResponse(c, "Feedback retrieved", result, gin.H{"statistics": stats})
}
