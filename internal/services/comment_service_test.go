// internal/services/comment_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

func newComment(t *testing.T, svc *CommentService, principal Principal, postID uuid.UUID, parent *uuid.UUID) *models.Comment {
	t.Helper()
	comment, err := svc.Create(principal, &CreateCommentRequest{
		Text:          "what about battery life?",
		Email:         "reader@example.com",
		Username:      "reader",
		PostID:        postID,
		ParentComment: parent,
	})
	require.NoError(t, err)
	return comment
}

func TestCommentCreateStartsUnapproved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)

	comment := newComment(t, svc, asPrincipal(user), uuid.New(), nil)

	assert.False(t, comment.IsApproved)
	assert.False(t, comment.IsAnswered)
	assert.Equal(t, user.ID, comment.AuthorID)
}

func TestCommentCreateNormalizes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)

	comment, err := svc.Create(asPrincipal(user), &CreateCommentRequest{
		Text:     "  is the strap replaceable?  ",
		Email:    "  Reader@Example.COM ",
		Username: " reader ",
		PostID:   uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, "is the strap replaceable?", comment.Text)
	assert.Equal(t, "reader@example.com", comment.Email)
	assert.Equal(t, "reader", comment.Username)
}

func TestCommentCreateRejectsBlankText(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)

	_, err := svc.Create(asPrincipal(user), &CreateCommentRequest{
		Text:     "   ",
		Email:    "reader@example.com",
		Username: "reader",
		PostID:   uuid.New(),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommentCreateRejectsMissingParent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)

	missing := uuid.New()
	_, err := svc.Create(asPrincipal(user), &CreateCommentRequest{
		Text:          "reply",
		Email:         "reader@example.com",
		Username:      "reader",
		PostID:        uuid.New(),
		ParentComment: &missing,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentListForPostOnlyApproved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)
	admin := createTestUser(t, db, models.UserRoleAdmin)
	postID := uuid.New()

	first := newComment(t, svc, asPrincipal(user), postID, nil)
	newComment(t, svc, asPrincipal(user), postID, nil)

	_, err := svc.SetApproval(first.ID, asPrincipal(admin), true)
	require.NoError(t, err)

	comments, err := svc.ListForPost(postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, first.ID, comments[0].ID)
}

func TestCommentAnswerLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	comment := newComment(t, svc, asPrincipal(user), uuid.New(), nil)

	// Editing or removing before any answer exists is a client error.
	_, err := svc.EditAnswer(comment.ID, asPrincipal(admin), "edited")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.RemoveAnswer(comment.ID, asPrincipal(admin))
	assert.ErrorIs(t, err, ErrInvalidInput)

	answered, err := svc.Answer(comment.ID, asPrincipal(admin), "about 8 hours")
	require.NoError(t, err)
	assert.True(t, answered.IsAnswered)
	require.NotNil(t, answered.AnswerText)
	assert.Equal(t, "about 8 hours", *answered.AnswerText)
	require.NotNil(t, answered.ResponderID)
	assert.Equal(t, admin.ID, *answered.ResponderID)
	assert.NotNil(t, answered.AnsweredAt)

	edited, err := svc.EditAnswer(comment.ID, asPrincipal(admin), "closer to 10 hours")
	require.NoError(t, err)
	assert.True(t, edited.IsAnswered)
	assert.Equal(t, "closer to 10 hours", *edited.AnswerText)

	cleared, err := svc.RemoveAnswer(comment.ID, asPrincipal(admin))
	require.NoError(t, err)
	assert.False(t, cleared.IsAnswered)
	assert.Nil(t, cleared.AnswerText)
	assert.Nil(t, cleared.ResponderID)
	assert.Nil(t, cleared.AnsweredAt)
}

func TestCommentAnswerRejectsEmptyText(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	comment := newComment(t, svc, asPrincipal(user), uuid.New(), nil)

	_, err := svc.Answer(comment.ID, asPrincipal(admin), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommentModerationForbiddenForNonAdmins(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)

	comment := newComment(t, svc, asPrincipal(user), uuid.New(), nil)

	_, err := svc.SetApproval(comment.ID, asPrincipal(user), true)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Answer(comment.ID, asPrincipal(user), "nope")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.BulkModerate(asPrincipal(user), []uuid.UUID{comment.ID}, BulkActionApprove)
	assert.ErrorIs(t, err, ErrForbidden)

	approved := true
	_, err = svc.Update(comment.ID, asPrincipal(user), &UpdateCommentRequest{IsApproved: &approved})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCommentUpdateTextByOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	owner := createTestUser(t, db, models.UserRoleUser)
	other := createTestUser(t, db, models.UserRoleUser)

	comment := newComment(t, svc, asPrincipal(owner), uuid.New(), nil)

	text := "updated text"
	_, err := svc.Update(comment.ID, asPrincipal(other), &UpdateCommentRequest{Text: &text})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(comment.ID, asPrincipal(owner), &UpdateCommentRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "updated text", updated.Text)
}

func TestCommentRemoveCascadesReplies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)
	postID := uuid.New()

	parent := newComment(t, svc, asPrincipal(user), postID, nil)
	newComment(t, svc, asPrincipal(user), postID, &parent.ID)
	newComment(t, svc, asPrincipal(user), postID, &parent.ID)
	standalone := newComment(t, svc, asPrincipal(user), postID, nil)

	require.NoError(t, svc.Remove(parent.ID, asPrincipal(user)))

	var remaining int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err := svc.findComment(standalone.ID)
	assert.NoError(t, err)
}

func TestCommentRemoveForbiddenForStranger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	owner := createTestUser(t, db, models.UserRoleUser)
	other := createTestUser(t, db, models.UserRoleUser)

	comment := newComment(t, svc, asPrincipal(owner), uuid.New(), nil)

	err := svc.Remove(comment.ID, asPrincipal(other))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCommentBulkModerateAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)
	admin := createTestUser(t, db, models.UserRoleAdmin)
	postID := uuid.New()

	a := newComment(t, svc, asPrincipal(user), postID, nil)
	b := newComment(t, svc, asPrincipal(user), postID, nil)

	_, err := svc.BulkModerate(asPrincipal(admin), []uuid.UUID{a.ID, b.ID, uuid.New()}, BulkActionApprove)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Nothing was applied.
	var approvedCount int64
	require.NoError(t, db.Model(&models.Comment{}).Where("is_approved = ?", true).Count(&approvedCount).Error)
	assert.Equal(t, int64(0), approvedCount)

	modified, err := svc.BulkModerate(asPrincipal(admin), []uuid.UUID{a.ID, b.ID, a.ID}, BulkActionApprove)
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)

	modified, err = svc.BulkModerate(asPrincipal(admin), []uuid.UUID{a.ID}, BulkActionReject)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	refreshed, err := svc.findComment(a.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.IsApproved)
}

func TestCommentStatisticsApprovalRate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)
	admin := createTestUser(t, db, models.UserRoleAdmin)
	postID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		ids = append(ids, newComment(t, svc, asPrincipal(user), postID, nil).ID)
	}
	_, err := svc.BulkModerate(asPrincipal(admin), ids[:3], BulkActionApprove)
	require.NoError(t, err)

	_, total, stats, err := svc.ListAllForAdmin(asPrincipal(admin), CommentFilters{PostID: &postID}, utils.PaginationParams{Page: 1, Limit: 10, SortBy: "created_at", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(3), stats.Approved)
	assert.Equal(t, int64(7), stats.Pending)
	assert.Equal(t, "30.00", stats.ApprovalRate)
}

func TestCommentStatisticsEmptyScope(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	_, total, stats, err := svc.ListAllForAdmin(asPrincipal(admin), CommentFilters{}, utils.PaginationParams{Page: 1, Limit: 10, SortBy: "created_at", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, 0, stats.ApprovalRate)
}

func TestCommentAdminListingForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	user := createTestUser(t, db, models.UserRoleUser)

	_, _, _, err := svc.ListAllForAdmin(asPrincipal(user), CommentFilters{}, utils.PaginationParams{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, _, err = svc.ListUnapproved(asPrincipal(user), CommentFilters{}, utils.PaginationParams{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrForbidden)
}
