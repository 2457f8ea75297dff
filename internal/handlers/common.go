// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

// principalFromContext rebuilds the service-layer principal from the claims
// the auth middleware stored on the request.
func principalFromContext(c *gin.Context) (services.Principal, bool) {
	role, ok := utils.GetUserRoleFromContext(c)
	if !ok {
		return services.Principal{}, false
	}

	principal := services.Principal{Role: models.UserRole(role)}

	if idStr, ok := utils.GetUserIDFromContext(c); ok {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return services.Principal{}, false
		}
		principal.ID = id
	}

	return principal, true
}

func requirePrincipal(c *gin.Context) (services.Principal, bool) {
	principal, ok := principalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return services.Principal{}, false
	}
	return principal, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the service sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c)
	}
}
