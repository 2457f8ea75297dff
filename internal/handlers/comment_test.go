// internal/handlers/comment_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/technoshop/technoshop-backend/internal/middleware"
	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type commentTestEnv struct {
	router     *gin.Engine
	db         *gorm.DB
	userToken  string
	adminToken string
	user       *models.User
}

func setupCommentEnv(t *testing.T) *commentTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("handler-test-secret")

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Comment{}))

	user := &models.User{Username: "alice", Email: "alice@example.com", Role: models.UserRoleUser}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	admin := &models.User{Username: "root", Email: "root@example.com", Role: models.UserRoleAdmin}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(admin).Error)

	userToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), time.Hour)
	require.NoError(t, err)
	adminToken, err := utils.GenerateJWT(admin.ID, admin.Username, string(admin.Role), time.Hour)
	require.NoError(t, err)

	handler := NewCommentHandler(services.NewCommentService(db))

	r := gin.New()
	comment := r.Group("/comment")
	{
		comment.GET("/post/:postId", middleware.OptionalAuth(), handler.ListForPost)
		comment.POST("", middleware.AuthRequired(), handler.Create)
		comment.GET("/unapproved", middleware.AuthRequired(), middleware.AdminRequired(), handler.ListUnapproved)
		comment.PATCH("/:id/approve", middleware.AuthRequired(), middleware.AdminRequired(), handler.SetApproval)
		comment.DELETE("/:id", middleware.AuthRequired(), handler.Delete)
	}

	return &commentTestEnv{router: r, db: db, userToken: userToken, adminToken: adminToken, user: user}
}

func (env *commentTestEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestCommentCreateEndpoint(t *testing.T) {
	env := setupCommentEnv(t)
	postID := uuid.New()

	body := gin.H{
		"text":     "Does this pair with two devices?",
		"email":    "alice@example.com",
		"username": "alice",
		"postId":   postID,
	}

	w := env.do("POST", "/comment", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do("POST", "/comment", env.userToken, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.Comment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.Data.IsApproved)
	assert.Equal(t, postID, created.Data.PostID)
}

func TestCommentCreateEndpointValidation(t *testing.T) {
	env := setupCommentEnv(t)

	w := env.do("POST", "/comment", env.userToken, gin.H{
		"text":     "missing post",
		"email":    "not-an-email",
		"username": "alice",
		"postId":   uuid.New(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentPublicListingShowsOnlyApproved(t *testing.T) {
	env := setupCommentEnv(t)
	postID := uuid.New()

	for i := 0; i < 2; i++ {
		w := env.do("POST", "/comment", env.userToken, gin.H{
			"text":     fmt.Sprintf("comment %d", i),
			"email":    "alice@example.com",
			"username": "alice",
			"postId":   postID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var pending []models.Comment
	require.NoError(t, env.db.Find(&pending, "post_id = ?", postID).Error)
	require.Len(t, pending, 2)

	w := env.do("PATCH", "/comment/"+pending[0].ID.String()+"/approve", env.adminToken, gin.H{"isApproved": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do("GET", "/comment/post/"+postID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data []models.Comment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)
}

func TestCommentApproveEndpointAuthorization(t *testing.T) {
	env := setupCommentEnv(t)

	w := env.do("PATCH", "/comment/"+uuid.New().String()+"/approve", env.userToken, gin.H{"isApproved": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do("PATCH", "/comment/"+uuid.New().String()+"/approve", env.adminToken, gin.H{"isApproved": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("PATCH", "/comment/not-a-uuid/approve", env.adminToken, gin.H{"isApproved": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentUnapprovedListingEndpoint(t *testing.T) {
	env := setupCommentEnv(t)
	postID := uuid.New()

	w := env.do("POST", "/comment", env.userToken, gin.H{
		"text":     "pending moderation",
		"email":    "alice@example.com",
		"username": "alice",
		"postId":   postID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do("GET", "/comment/unapproved", env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do("GET", "/comment/unapproved", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Meta struct {
			Pagination struct {
				TotalItems int64 `json:"totalItems"`
			} `json:"pagination"`
			Statistics struct {
				Total    int64 `json:"total"`
				Approved int64 `json:"approved"`
			} `json:"statistics"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, int64(1), listed.Meta.Pagination.TotalItems)
	assert.Equal(t, int64(1), listed.Meta.Statistics.Total)
	assert.Equal(t, int64(0), listed.Meta.Statistics.Approved)
}

func TestCommentDeleteEndpoint(t *testing.T) {
	env := setupCommentEnv(t)

	w := env.do("POST", "/comment", env.userToken, gin.H{
		"text":     "to be removed",
		"email":    "alice@example.com",
		"username": "alice",
		"postId":   uuid.New(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.Comment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do("DELETE", "/comment/"+created.Data.ID.String(), env.userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
