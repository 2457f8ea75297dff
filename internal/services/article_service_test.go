// internal/services/article_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technoshop/technoshop-backend/internal/models"
)

func articleRequest(title string) *CreateArticleRequest {
	return &CreateArticleRequest{
		Title:      title,
		Summary:    "A hands-on look at this year's flagship releases",
		CoverImage: "articles/cover.jpg",
		Category:   models.ArticleCategorySmartphones,
		Published:  true,
		ContentSections: []ContentSectionInput{
			{Title: "Design", Text: "The titanium frame feels premium"},
			{Title: "Camera", Text: "Low light shots improved noticeably"},
		},
	}
}

func TestArticleCreateDerivesSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	article, err := svc.Create(asPrincipal(admin), articleRequest("Best Smartphones of 2026"))
	require.NoError(t, err)

	assert.Equal(t, "best-smartphones-of-2026", article.Slug)
	assert.Equal(t, admin.ID, article.AuthorID)
	require.Len(t, article.ContentSections, 2)
	assert.Equal(t, "Design", article.ContentSections[0].Title)
}

func TestArticleCreateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	_, err := svc.Create(asPrincipal(admin), articleRequest("Weekly Roundup"))
	require.NoError(t, err)

	_, err = svc.Create(asPrincipal(admin), articleRequest("weekly roundup"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestArticleCreateAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	user := createTestUser(t, db, models.UserRoleUser)

	_, err := svc.Create(asPrincipal(user), articleRequest("Not Allowed"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestArticleGetBySlugPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	draft := articleRequest("Upcoming Foldables")
	draft.Published = false
	created, err := svc.Create(asPrincipal(admin), draft)
	require.NoError(t, err)

	_, err = svc.GetBySlug("upcoming-foldables")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.TogglePublished(created.ID, asPrincipal(admin))
	require.NoError(t, err)

	article, err := svc.GetBySlug("upcoming-foldables")
	require.NoError(t, err)
	assert.True(t, article.Published)
}

func TestArticleSearchMatchesSectionText(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	_, err := svc.Create(asPrincipal(admin), articleRequest("Flagship Review"))
	require.NoError(t, err)

	other := articleRequest("Robot Vacuum Guide")
	other.Category = models.ArticleCategoryRobotVacuums
	other.ContentSections = []ContentSectionInput{{Title: "Mapping", Text: "Lidar navigation works well"}}
	_, err = svc.Create(asPrincipal(admin), other)
	require.NoError(t, err)

	articles, total, err := svc.Search("TITANIUM", defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, articles, 1)
	assert.Equal(t, "Flagship Review", articles[0].Title)

	_, _, err = svc.Search("   ", defaultParams())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestArticleUpdateSlugChangeChecksConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	_, err := svc.Create(asPrincipal(admin), articleRequest("First Post"))
	require.NoError(t, err)
	second, err := svc.Create(asPrincipal(admin), articleRequest("Second Post"))
	require.NoError(t, err)

	title := "First Post"
	_, err = svc.Update(second.ID, asPrincipal(admin), &UpdateArticleRequest{Title: &title})
	assert.ErrorIs(t, err, ErrConflict)

	title = "Second Post Revised"
	updated, err := svc.Update(second.ID, asPrincipal(admin), &UpdateArticleRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "second-post-revised", updated.Slug)
}

func TestArticleListingsAndFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)
	user := createTestUser(t, db, models.UserRoleUser)

	_, err := svc.Create(asPrincipal(admin), articleRequest("Published One"))
	require.NoError(t, err)

	draft := articleRequest("Draft One")
	draft.Published = false
	_, err = svc.Create(asPrincipal(admin), draft)
	require.NoError(t, err)

	published, total, err := svc.Published(defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Published One", published[0].Title)

	_, _, err = svc.Unpublished(asPrincipal(user), defaultParams())
	assert.ErrorIs(t, err, ErrForbidden)

	drafts, total, err := svc.Unpublished(asPrincipal(admin), defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Draft One", drafts[0].Title)

	byCategory, total, err := svc.GetByCategory(models.ArticleCategorySmartphones, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byCategory, 1)
}

func TestArticleDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db, nil)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	article, err := svc.Create(asPrincipal(admin), articleRequest("Ephemeral"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(article.ID, asPrincipal(admin)))

	_, err = svc.GetByID(article.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
