// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/technoshop/technoshop-backend/internal/config"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

const authCookieName = "access_token"

type AuthHandler struct {
	authService *services.AuthService
	jwt         config.JWTConfig
}

func NewAuthHandler(authService *services.AuthService, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{authService: authService, jwt: jwt}
}

// setAuthCookie mirrors the token into an httpOnly cookie so browser
// clients stay logged in without storing the token themselves.
func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(authCookieName, token, maxAge, "/", "", h.jwt.CookieSecure, true)
}

// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	user, token, err := h.authService.Signup(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setAuthCookie(c, token, h.jwt.SignupTTL*3600)
	utils.CreatedResponse(c, "Account created", gin.H{"user": user, "token": token})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setAuthCookie(c, token, h.jwt.CookieMaxAge)
	utils.SuccessResponse(c, "Logged in", gin.H{"user": user, "token": token})
}

// POST /auth/guest
func (h *AuthHandler) Guest(c *gin.Context) {
	token, err := h.authService.Guest()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setAuthCookie(c, token, h.jwt.GuestTTLMin*60)
	utils.SuccessResponse(c, "Guest session created", gin.H{"token": token})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", h.jwt.CookieSecure, true)
	utils.SuccessResponse(c, "Logged out", nil)
}

// GET /auth (admin)
func (h *AuthHandler) GetAll(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.authService.GetAll(principal, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, "Users retrieved", result, nil)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/find
func (h *AuthHandler) Find(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email is required", err.Error())
		return
	}

	user, err := h.authService.GetByEmail(req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved", user)
}

// PATCH /auth/:id
func (h *AuthHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Update(id, principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User updated", user)
}

// DELETE /auth (admin)
func (h *AuthHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "email is required", err.Error())
		return
	}

	if err := h.authService.RemoveByEmail(principal, req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User deleted", nil)
}
