// internal/handlers/newsletter.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type NewsletterHandler struct {
	newsletterService *services.NewsletterService
}

func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// POST /newsletter
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req services.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email is required", err.Error())
		return
	}

	if err := h.newsletterService.Subscribe(c.Request.Context(), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification code sent", nil)
}

// POST /newsletter/verify
func (h *NewsletterHandler) VerifyCode(c *gin.Context) {
	var req services.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email and code are required", err.Error())
		return
	}

	subscriber, err := h.newsletterService.VerifyCode(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Subscription confirmed", subscriber)
}

// GET /newsletter (admin)
func (h *NewsletterHandler) GetAll(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	subscribers, total, err := h.newsletterService.GetAll(principal, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(subscribers, total, params)
	utils.PaginatedResponse(c, "Subscribers retrieved", result, nil)
}

// POST /newsletter/find (admin)
func (h *NewsletterHandler) Find(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email is required", err.Error())
		return
	}

	subscriber, err := h.newsletterService.FindOne(principal, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Subscriber retrieved", subscriber)
}

// PATCH /newsletter (admin)
func (h *NewsletterHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req services.UpdateSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email and newEmail are required", err.Error())
		return
	}

	subscriber, err := h.newsletterService.UpdateEmail(principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Subscriber updated", subscriber)
}

// DELETE /newsletter (admin)
func (h *NewsletterHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email is required", err.Error())
		return
	}

	if err := h.newsletterService.Remove(principal, req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Subscriber removed", nil)
}
