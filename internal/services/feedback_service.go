// internal/services/feedback_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type CreateFeedbackRequest struct {
	Text        string              `json:"text" validate:"required,min=1,max=2000"`
	FirstName   string              `json:"firstName" validate:"required,min=1,max=100"`
	LastName    string              `json:"lastName" validate:"required,min=1,max=100"`
	Email       string              `json:"email" validate:"required,email"`
	PhoneNumber string              `json:"phoneNumber" validate:"required,phone"`
	Type        models.FeedbackType `json:"type" validate:"required,oneof=question criticism suggestion"`
}

type UpdateFeedbackRequest struct {
	Text        *string              `json:"text,omitempty" validate:"omitempty,min=1,max=2000"`
	FirstName   *string              `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string              `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email       *string              `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string              `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
	Type        *models.FeedbackType `json:"type,omitempty" validate:"omitempty,oneof=question criticism suggestion"`
	IsApproved  *bool                `json:"isApproved,omitempty"`
	AnswerText  *string              `json:"answerText,omitempty"`
}

type FeedbackFilters struct {
	Type     *models.FeedbackType
	Approved *bool
}

type FeedbackStatistics struct {
	Total        int64       `json:"total"`
	Approved     int64       `json:"approved"`
	Pending      int64       `json:"pending"`
	Answered     int64       `json:"answered"`
	ApprovalRate interface{} `json:"approvalRate"`
}

// Create normalizes the submission and stores it unapproved. Normalization
// runs before validation so padded input is not rejected.
func (s *FeedbackService) Create(principal Principal, req *CreateFeedbackRequest) (*models.Feedback, error) {
	req.Text = strings.TrimSpace(req.Text)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	feedback := &models.Feedback{
		Text:        req.Text,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Type:        req.Type,
		UserID:      principal.ID,
	}

	if err := s.db.Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	return feedback, nil
}

// Update applies a partial update. Moderation fields (isApproved, answerText)
// are admin-only; content fields need ownership or the admin role.
func (s *FeedbackService) Update(id uuid.UUID, principal Principal, req *UpdateFeedbackRequest) (*models.Feedback, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	feedback, err := s.findFeedback(id)
	if err != nil {
		return nil, err
	}

	if (req.IsApproved != nil || req.AnswerText != nil) && !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can change approval status and answers", ErrForbidden)
	}
	if !isOwnerOrAdmin(principal, feedback.UserID) {
		return nil, fmt.Errorf("%w: you can only edit your own feedback", ErrForbidden)
	}

	updates := make(map[string]interface{})
	if req.Text != nil {
		updates["text"] = strings.TrimSpace(*req.Text)
	}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsApproved != nil {
		updates["is_approved"] = *req.IsApproved
	}
	if req.AnswerText != nil {
		updates["answer_text"] = strings.TrimSpace(*req.AnswerText)
	}

	if len(updates) == 0 {
		return feedback, nil
	}

	if err := s.db.Model(feedback).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	return s.findFeedback(id)
}

func (s *FeedbackService) Remove(id uuid.UUID, principal Principal) error {
	feedback, err := s.findFeedback(id)
	if err != nil {
		return err
	}

	if !isOwnerOrAdmin(principal, feedback.UserID) {
		return fmt.Errorf("%w: you can only delete your own feedback", ErrForbidden)
	}

	if err := s.db.Delete(&models.Feedback{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

func (s *FeedbackService) Approve(id uuid.UUID, principal Principal, isApproved bool) (*models.Feedback, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can approve feedback", ErrForbidden)
	}

	feedback, err := s.findFeedback(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(feedback).Update("is_approved", isApproved).Error; err != nil {
		return nil, fmt.Errorf("failed to update approval: %w", err)
	}

	feedback.IsApproved = isApproved
	return feedback, nil
}

// Answer records an admin response. Answered-state is derived solely from a
// non-nil answer text; there is no stored flag to keep in sync.
func (s *FeedbackService) Answer(id uuid.UUID, principal Principal, answerText string) (*models.Feedback, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can answer feedback", ErrForbidden)
	}

	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, fmt.Errorf("%w: answer text must not be empty", ErrInvalidInput)
	}

	feedback, err := s.findFeedback(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"answer_text": answerText,
		"answered_by": principal.ID,
		"answered_at": time.Now(),
	}
	if err := s.db.Model(feedback).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to answer feedback: %w", err)
	}

	return s.findFeedback(id)
}

// ListMine lists the principal's own submissions with statistics scoped to
// the same user.
func (s *FeedbackService) ListMine(principal Principal, filters FeedbackFilters, params utils.PaginationParams) ([]models.Feedback, int64, *FeedbackStatistics, error) {
	owner := principal.ID
	return s.list(filters, params, &owner)
}

func (s *FeedbackService) ListAll(principal Principal, filters FeedbackFilters, params utils.PaginationParams) ([]models.Feedback, int64, *FeedbackStatistics, error) {
	if !canModerate(principal) {
		return nil, 0, nil, fmt.Errorf("%w: only admins can view all feedback", ErrForbidden)
	}
	return s.list(filters, params, nil)
}

func (s *FeedbackService) ListUnapproved(principal Principal, filters FeedbackFilters, params utils.PaginationParams) ([]models.Feedback, int64, *FeedbackStatistics, error) {
	if !canModerate(principal) {
		return nil, 0, nil, fmt.Errorf("%w: only admins can view unapproved feedback", ErrForbidden)
	}
	pending := false
	filters.Approved = &pending
	return s.list(filters, params, nil)
}

func (s *FeedbackService) list(filters FeedbackFilters, params utils.PaginationParams, ownerID *uuid.UUID) ([]models.Feedback, int64, *FeedbackStatistics, error) {
	query := s.db.Model(&models.Feedback{})
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Approved != nil {
		query = query.Where("is_approved = ?", *filters.Approved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "type"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var feedbacks []models.Feedback
	if err := query.Find(&feedbacks).Error; err != nil {
		return nil, 0, nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	stats, err := s.statistics(ownerID)
	if err != nil {
		return nil, 0, nil, err
	}

	return feedbacks, total, stats, nil
}

func (s *FeedbackService) statistics(ownerID *uuid.UUID) (*FeedbackStatistics, error) {
	scope := func() *gorm.DB {
		q := s.db.Model(&models.Feedback{})
		if ownerID != nil {
			q = q.Where("user_id = ?", *ownerID)
		}
		return q
	}

	var stats FeedbackStatistics
	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	if err := scope().Where("is_approved = ?", true).Count(&stats.Approved).Error; err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	if err := scope().Where("answer_text IS NOT NULL").Count(&stats.Answered).Error; err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	stats.Pending = stats.Total - stats.Approved
	stats.ApprovalRate = approvalRate(stats.Approved, stats.Total)
	return &stats, nil
}

func (s *FeedbackService) findFeedback(id uuid.UUID) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.db.First(&feedback, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: feedback", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &feedback, nil
}
