// internal/services/comment_service.go
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

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CreateCommentRequest struct {
	Text          string     `json:"text" validate:"required,min=1,max=2000"`
	Email         string     `json:"email" validate:"required,email"`
	Username      string     `json:"username" validate:"required,min=1,max=50"`
	PostID        uuid.UUID  `json:"postId" validate:"required"`
	ParentComment *uuid.UUID `json:"parentComment,omitempty"`
}

type UpdateCommentRequest struct {
	Text       *string `json:"text,omitempty" validate:"omitempty,min=1,max=2000"`
	IsApproved *bool   `json:"isApproved,omitempty"`
	IsAnswered *bool   `json:"isAnswered,omitempty"`
	AnswerText *string `json:"answerText,omitempty"`
}

type CommentFilters struct {
	PostID   *uuid.UUID
	Approved *bool
}

// CommentStatistics is computed over the same post scope as the listing it
// accompanies, ignoring the approval filter.
type CommentStatistics struct {
	Total        int64       `json:"total"`
	Approved     int64       `json:"approved"`
	Pending      int64       `json:"pending"`
	ApprovalRate interface{} `json:"approvalRate"`
}

type BulkModerateAction string

const (
	BulkActionApprove BulkModerateAction = "approve"
	BulkActionReject  BulkModerateAction = "reject"
)

// Create stores a new comment, unapproved by default. The author's username
// and email are denormalized onto the row so listings need no join for them.
func (s *CommentService) Create(principal Principal, req *CreateCommentRequest) (*models.Comment, error) {
	req.Text = strings.TrimSpace(req.Text)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	comment := &models.Comment{
		Text:            req.Text,
		Email:           req.Email,
		Username:        req.Username,
		AuthorID:        principal.ID,
		PostID:          req.PostID,
		ParentCommentID: req.ParentComment,
	}

	if req.ParentComment != nil {
		var parent models.Comment
		if err := s.db.First(&parent, "id = ?", *req.ParentComment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent comment", ErrNotFound)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListForPost returns the approved comments of a post, newest first.
func (s *CommentService) ListForPost(postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.
		Where("post_id = ? AND is_approved = ?", postID, true).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, nil
}

// ListReplies returns the approved direct replies of a comment in
// chronological reading order.
func (s *CommentService) ListReplies(commentID uuid.UUID) ([]models.Comment, error) {
	var replies []models.Comment
	if err := s.db.
		Where("parent_comment_id = ? AND is_approved = ?", commentID, true).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch replies: %w", err)
	}
	return replies, nil
}

// Update lets the author change the text and an admin change the moderation
// fields. Non-admins touching moderation fields are rejected outright.
func (s *CommentService) Update(id uuid.UUID, principal Principal, req *UpdateCommentRequest) (*models.Comment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}

	touchesModeration := req.IsApproved != nil || req.IsAnswered != nil || req.AnswerText != nil
	if touchesModeration && !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can change moderation fields", ErrForbidden)
	}
	if !touchesModeration && !isOwnerOrAdmin(principal, comment.AuthorID) {
		return nil, fmt.Errorf("%w: you can only edit your own comments", ErrForbidden)
	}

	updates := make(map[string]interface{})
	if req.Text != nil {
		updates["text"] = strings.TrimSpace(*req.Text)
	}
	if req.IsApproved != nil {
		updates["is_approved"] = *req.IsApproved
	}
	if req.IsAnswered != nil {
		updates["is_answered"] = *req.IsAnswered
	}
	if req.AnswerText != nil {
		updates["answer_text"] = strings.TrimSpace(*req.AnswerText)
	}

	if len(updates) == 0 {
		return comment, nil
	}

	if err := s.db.Model(comment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return s.findComment(id)
}

// Remove deletes a comment together with its direct replies. Both deletes run
// in one transaction; replies of replies are not reachable in this model and
// are not cascaded.
func (s *CommentService) Remove(id uuid.UUID, principal Principal) error {
	comment, err := s.findComment(id)
	if err != nil {
		return err
	}

	if !isOwnerOrAdmin(principal, comment.AuthorID) {
		return fmt.Errorf("%w: you can only delete your own comments", ErrForbidden)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		if err := tx.Delete(&models.Comment{}, "parent_comment_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		return nil
	})
}

// SetApproval flips visibility of a comment for public readers.
func (s *CommentService) SetApproval(id uuid.UUID, principal Principal, approved bool) (*models.Comment, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can moderate comments", ErrForbidden)
	}

	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(comment).Update("is_approved", approved).Error; err != nil {
		return nil, fmt.Errorf("failed to update approval: %w", err)
	}

	comment.IsApproved = approved
	return comment, nil
}

// Answer attaches an admin answer, keeping answerText, responderId and
// isAnswered consistent in one write.
func (s *CommentService) Answer(id uuid.UUID, principal Principal, answerText string) (*models.Comment, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can answer comments", ErrForbidden)
	}

	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, fmt.Errorf("%w: answer text must not be empty", ErrInvalidInput)
	}

	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"answer_text":  answerText,
		"responder_id": principal.ID,
		"answered_at":  now,
		"is_answered":  true,
	}
	if err := s.db.Model(comment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to answer comment: %w", err)
	}

	return s.findComment(id)
}

// EditAnswer rewrites an existing answer; answering a never-answered comment
// through this path is a client error.
func (s *CommentService) EditAnswer(id uuid.UUID, principal Principal, answerText string) (*models.Comment, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can edit answers", ErrForbidden)
	}

	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, fmt.Errorf("%w: answer text must not be empty", ErrInvalidInput)
	}

	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}

	if !comment.IsAnswered {
		return nil, fmt.Errorf("%w: comment has no answer to edit", ErrInvalidInput)
	}

	updates := map[string]interface{}{
		"answer_text":  answerText,
		"responder_id": principal.ID,
		"answered_at":  time.Now(),
	}
	if err := s.db.Model(comment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to edit answer: %w", err)
	}

	return s.findComment(id)
}

// RemoveAnswer clears all three answer fields together.
func (s *CommentService) RemoveAnswer(id uuid.UUID, principal Principal) (*models.Comment, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can remove answers", ErrForbidden)
	}

	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}

	if !comment.IsAnswered {
		return nil, fmt.Errorf("%w: comment has no answer to remove", ErrInvalidInput)
	}

	updates := map[string]interface{}{
		"answer_text":  nil,
		"responder_id": nil,
		"answered_at":  nil,
		"is_answered":  false,
	}
	if err := s.db.Model(comment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to remove answer: %w", err)
	}

	return s.findComment(id)
}

// ListUnapproved is the admin moderation queue.
func (s *CommentService) ListUnapproved(principal Principal, filters CommentFilters, params utils.PaginationParams) ([]models.Comment, int64, *CommentStatistics, error) {
	pending := false
	filters.Approved = &pending
	return s.listForAdmin(principal, filters, params)
}

// ListAllForAdmin lists every comment regardless of approval, with optional
// post and approval filters.
func (s *CommentService) ListAllForAdmin(principal Principal, filters CommentFilters, params utils.PaginationParams) ([]models.Comment, int64, *CommentStatistics, error) {
	return s.listForAdmin(principal, filters, params)
}

func (s *CommentService) listForAdmin(principal Principal, filters CommentFilters, params utils.PaginationParams) ([]models.Comment, int64, *CommentStatistics, error) {
	if !canModerate(principal) {
		return nil, 0, nil, fmt.Errorf("%w: only admins can list comments for moderation", ErrForbidden)
	}

	query := s.db.Model(&models.Comment{})
	if filters.PostID != nil {
		query = query.Where("post_id = ?", *filters.PostID)
	}
	if filters.Approved != nil {
		query = query.Where("is_approved = ?", *filters.Approved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, nil, fmt.Errorf("failed to count comments: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "post_id"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, 0, nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	stats, err := s.statistics(filters.PostID)
	if err != nil {
		return nil, 0, nil, err
	}

	return comments, total, stats, nil
}

func (s *CommentService) statistics(postID *uuid.UUID) (*CommentStatistics, error) {
	scope := func() *gorm.DB {
		q := s.db.Model(&models.Comment{})
		if postID != nil {
			q = q.Where("post_id = ?", *postID)
		}
		return q
	}

	var stats CommentStatistics
	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	if err := scope().Where("is_approved = ?", true).Count(&stats.Approved).Error; err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	stats.Pending = stats.Total - stats.Approved
	stats.ApprovalRate = approvalRate(stats.Approved, stats.Total)
	return &stats, nil
}

// BulkModerate applies one approval action to a set of comments. The id set
// must resolve exactly before anything is written: one unknown id rejects the
// whole batch.
func (s *CommentService) BulkModerate(principal Principal, ids []uuid.UUID, action BulkModerateAction) (int64, error) {
	if !canModerate(principal) {
		return 0, fmt.Errorf("%w: only admins can bulk moderate comments", ErrForbidden)
	}

	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: comment ids are required", ErrInvalidInput)
	}

	var approved bool
	switch action {
	case BulkActionApprove:
		approved = true
	case BulkActionReject:
		approved = false
	default:
		return 0, fmt.Errorf("%w: action must be approve or reject", ErrInvalidInput)
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	var modified int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&models.Comment{}).Where("id IN ?", unique).Count(&found).Error; err != nil {
			return fmt.Errorf("failed to resolve comment ids: %w", err)
		}
		if found != int64(len(unique)) {
			return fmt.Errorf("%w: one or more comment ids do not exist", ErrInvalidInput)
		}

		res := tx.Model(&models.Comment{}).Where("id IN ?", unique).Update("is_approved", approved)
		if res.Error != nil {
			return fmt.Errorf("failed to bulk moderate comments: %w", res.Error)
		}
		modified = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return modified, nil
}

func (s *CommentService) findComment(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &comment, nil
}
