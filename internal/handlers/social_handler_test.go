package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/handlers"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/notify"
)

// authAs bypasses JWT parsing and injects the user the way the auth
// middleware would.
func authAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.ID)
		c.Set(middleware.ContextUserRole, user.Role)
		c.Set(middleware.ContextUser, user)
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@test.local", PasswordHash: "x", Role: models.RoleMember, Active: true}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func newSocialRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewSocialHandler(db, notify.NewService(db, nil))
	api := r.Group("/api", authAs(user))
	api.GET("/feed", h.Feed)
	api.POST("/posts", h.CreatePost)
	api.DELETE("/posts/:id", h.DeletePost)
	api.POST("/posts/:id/like", h.ToggleLike)
	api.POST("/posts/:id/comments", h.Comment)
	api.POST("/users/:id/follow", h.ToggleFollow)
	api.GET("/connections", h.Connections)
	return r
}

func TestLikeToggles(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	liker := seedUser(t, db, "liker")

	post := models.SocialPost{UserID: author.ID, Type: "status", Text: "hello", Visibility: models.VisibilityPublic}
	require.NoError(t, db.Create(&post).Error)

	r := newSocialRouter(db, liker)

	w := doJSON(t, r, http.MethodPost, "/api/posts/1/like", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"liked":true`)

	var likes int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	assert.EqualValues(t, 1, likes)

	// the author gets a persisted notification
	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", author.ID).First(&n).Error)
	assert.Equal(t, "social", n.Type)

	// second call removes the like
	w = doJSON(t, r, http.MethodPost, "/api/posts/1/like", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"liked":false`)
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	assert.EqualValues(t, 0, likes)
}

func TestFollowTogglesAndBlocksSelf(t *testing.T) {
	db := setupTestDB(t)
	follower := seedUser(t, db, "follower")
	target := seedUser(t, db, "target")

	r := newSocialRouter(db, follower)

	w := doJSON(t, r, http.MethodPost, "/api/users/2/follow", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"following":true`)

	var edges int64
	db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).Count(&edges)
	assert.EqualValues(t, 1, edges)

	w = doJSON(t, r, http.MethodPost, "/api/users/2/follow", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"following":false`)

	self := doJSON(t, r, http.MethodPost, "/api/users/1/follow", "", nil)
	assert.Equal(t, http.StatusBadRequest, self.Code)
	assert.Contains(t, self.Body.String(), "cannot_follow_self")
}

func TestFeedScopes(t *testing.T) {
	db := setupTestDB(t)
	viewer := seedUser(t, db, "viewer")
	friend := seedUser(t, db, "friend")
	stranger := seedUser(t, db, "stranger")

	require.NoError(t, db.Create(&models.Follow{FollowerID: viewer.ID, FollowingID: friend.ID}).Error)
	require.NoError(t, db.Create(&models.SocialPost{UserID: viewer.ID, Type: "status", Text: "viewer-own", Visibility: models.VisibilityPublic}).Error)
	require.NoError(t, db.Create(&models.SocialPost{UserID: friend.ID, Type: "status", Text: "friend-public", Visibility: models.VisibilityPublic}).Error)
	require.NoError(t, db.Create(&models.SocialPost{UserID: friend.ID, Type: "status", Text: "friend-friends", Visibility: models.VisibilityFriends}).Error)
	require.NoError(t, db.Create(&models.SocialPost{UserID: stranger.ID, Type: "status", Text: "stranger-public", Visibility: models.VisibilityPublic}).Error)
	require.NoError(t, db.Create(&models.SocialPost{UserID: stranger.ID, Type: "status", Text: "stranger-private", Visibility: models.VisibilityPrivate}).Error)

	r := newSocialRouter(db, viewer)

	all := doJSON(t, r, http.MethodGet, "/api/feed", "", nil)
	require.Equal(t, http.StatusOK, all.Code)
	assert.Contains(t, all.Body.String(), "friend-public")
	assert.Contains(t, all.Body.String(), "friend-friends")
	assert.Contains(t, all.Body.String(), "stranger-public")
	assert.NotContains(t, all.Body.String(), "stranger-private")

	// following includes the caller's own posts
	following := doJSON(t, r, http.MethodGet, "/api/feed?scope=following", "", nil)
	require.Equal(t, http.StatusOK, following.Code)
	assert.Contains(t, following.Body.String(), "viewer-own")
	assert.Contains(t, following.Body.String(), "friend-public")
	assert.Contains(t, following.Body.String(), "friend-friends")
	assert.NotContains(t, following.Body.String(), "stranger-public")

	me := doJSON(t, r, http.MethodGet, "/api/feed?scope=me", "", nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "viewer-own")
	assert.NotContains(t, me.Body.String(), "friend-public")
}

func TestDeletePostOwnership(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")

	post := models.SocialPost{UserID: author.ID, Type: "status", Text: "mine", Visibility: models.VisibilityPublic}
	require.NoError(t, db.Create(&post).Error)

	otherRouter := newSocialRouter(db, other)
	forbidden := doJSON(t, otherRouter, http.MethodDelete, "/api/posts/1", "", nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	authorRouter := newSocialRouter(db, author)
	ok := doJSON(t, authorRouter, http.MethodDelete, "/api/posts/1", "", nil)
	assert.Equal(t, http.StatusOK, ok.Code)

	var count int64
	db.Model(&models.SocialPost{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCommentNotifiesAuthor(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")

	post := models.SocialPost{UserID: author.ID, Type: "status", Text: "hello", Visibility: models.VisibilityPublic}
	require.NoError(t, db.Create(&post).Error)

	r := newSocialRouter(db, commenter)
	w := doJSON(t, r, http.MethodPost, "/api/posts/1/comments", "", gin.H{"text": "nice work"})
	require.Equal(t, http.StatusCreated, w.Code)

	var comments int64
	db.Model(&models.PostComment{}).Where("post_id = ?", post.ID).Count(&comments)
	assert.EqualValues(t, 1, comments)

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", author.ID).First(&n).Error)
	assert.Contains(t, n.Message, "commented")
}
