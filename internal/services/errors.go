// internal/services/errors.go
package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/technoshop/technoshop-backend/internal/models"
)

// Error kinds shared by all services. Handlers map these onto HTTP statuses
// with errors.Is; anything unmatched renders as a generic 500.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("access denied")
	ErrUnauthorized = errors.New("authentication required")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// Principal is the authenticated identity attached to a request. Services
// trust it as resolved by the auth middleware and do no credential checks.
type Principal struct {
	ID   uuid.UUID
	Role models.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.UserRoleAdmin
}

// canModerate gates approval, answers and bulk actions.
func canModerate(p Principal) bool {
	return p.IsAdmin()
}

// isOwnerOrAdmin gates edits and deletes of user-owned records.
func isOwnerOrAdmin(p Principal, ownerID uuid.UUID) bool {
	return p.IsAdmin() || p.ID == ownerID
}
