package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/notify"
)

type SocialHandler struct {
	db       *gorm.DB
	notifier *notify.Service
}

func NewSocialHandler(db *gorm.DB, notifier *notify.Service) *SocialHandler {
	return &SocialHandler{db: db, notifier: notifier}
}

type CreatePostRequest struct {
	Type       string `json:"type" binding:"required"`
	Text       string `json:"text"`
	WorkoutID  *uint  `json:"workout_id"`
	MediaURL   string `json:"media_url"`
	Visibility string `json:"visibility"`
}

type UpdatePostRequest struct {
	Text       *string `json:"text"`
	Visibility *string `json:"visibility"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// Feed lists posts the caller may see. scope=following narrows to people the
// caller follows plus the caller; scope=me narrows to the caller's own posts.
func (h *SocialHandler) Feed(c *gin.Context) {
	page, limit := pageParams(c)
	user := middleware.CurrentUser(c)

	q := h.db.Model(&models.SocialPost{})
	switch c.DefaultQuery("scope", "all") {
	case "following":
		q = q.Where("(visibility <> ? AND user_id IN (?)) OR user_id = ?",
			models.VisibilityPrivate,
			h.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", user.ID),
			user.ID)
	case "me":
		q = q.Where("user_id = ?", user.ID)
	default:
		q = q.Where("visibility IN (?) OR user_id = ?",
			[]string{models.VisibilityPublic, models.VisibilityFriends}, user.ID)
	}

	var total int64
	q.Count(&total)

	var posts []models.SocialPost
	if err := q.Preload("User").
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Preload("User")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load the feed.")
		return
	}

	httpresp.OK(c, gin.H{
		"posts":      posts,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

func (h *SocialHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	visibility := defaultString(req.Visibility, models.VisibilityPublic)
	switch visibility {
	case models.VisibilityPublic, models.VisibilityFriends, models.VisibilityPrivate:
	default:
		httperr.BadRequest(c, "invalid_visibility", "Unknown visibility.")
		return
	}

	user := middleware.CurrentUser(c)
	post := models.SocialPost{
		UserID:     user.ID,
		Type:       req.Type,
		Text:       req.Text,
		WorkoutID:  req.WorkoutID,
		MediaURL:   req.MediaURL,
		Visibility: visibility,
	}
	if err := h.db.Create(&post).Error; err != nil {
		httperr.Internal(c, "failed_to_create_post", "Could not create the post.")
		return
	}

	h.db.Preload("User").First(&post, post.ID)
	httpresp.Created(c, "Post created.", post)
}

func (h *SocialHandler) UpdatePost(c *gin.Context) {
	post, ok := h.ownPost(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Text != nil {
		post.Text = *req.Text
	}
	if req.Visibility != nil {
		post.Visibility = *req.Visibility
	}
	if err := h.db.Save(post).Error; err != nil {
		httperr.Internal(c, "failed_to_update_post", "Could not update the post.")
		return
	}
	httpresp.OKMessage(c, "Post updated.", post)
}

func (h *SocialHandler) DeletePost(c *gin.Context) {
	post, ok := h.ownPost(c)
	if !ok {
		return
	}
	if err := h.db.Delete(post).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_post", "Could not delete the post.")
		return
	}
	httpresp.OKMessage(c, "Post deleted.", nil)
}

// ToggleLike likes the post, or removes the caller's existing like.
func (h *SocialHandler) ToggleLike(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid post id.")
		return
	}

	var post models.SocialPost
	if err := h.db.First(&post, postID).Error; err != nil {
		httperr.NotFound(c, "post_not_found", "Post not found.")
		return
	}

	user := middleware.CurrentUser(c)

	res := h.db.Where("post_id = ? AND user_id = ?", postID, user.ID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Could not update the like.")
		return
	}
	if res.RowsAffected > 0 {
		httpresp.OKMessage(c, "Like removed.", gin.H{"liked": false})
		return
	}

	like := models.PostLike{PostID: postID, UserID: user.ID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not like the post.")
		return
	}

	if post.UserID != user.ID {
		h.notifier.Notify(post.UserID, "social", "New like",
			user.Name+" liked your post.", map[string]any{"post_id": post.ID})
	}
	httpresp.OKMessage(c, "Post liked.", gin.H{"liked": true})
}

func (h *SocialHandler) Comment(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid post id.")
		return
	}

	var post models.SocialPost
	if err := h.db.First(&post, postID).Error; err != nil {
		httperr.NotFound(c, "post_not_found", "Post not found.")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	comment := models.PostComment{PostID: postID, UserID: user.ID, Text: req.Text}
	if err := h.db.Create(&comment).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not add the comment.")
		return
	}

	if post.UserID != user.ID {
		h.notifier.Notify(post.UserID, "social", "New comment",
			user.Name+" commented on your post.", map[string]any{"post_id": post.ID})
	}

	h.db.Preload("User").First(&comment, comment.ID)
	httpresp.Created(c, "Comment added.", comment)
}

// ToggleFollow follows the user, or removes an existing follow edge.
func (h *SocialHandler) ToggleFollow(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	user := middleware.CurrentUser(c)
	if targetID == user.ID {
		httperr.BadRequest(c, "cannot_follow_self", "You cannot follow yourself.")
		return
	}

	var target models.User
	if err := h.db.First(&target, targetID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	res := h.db.Where("follower_id = ? AND following_id = ?", user.ID, targetID).
		Delete(&models.Follow{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Could not update the follow.")
		return
	}
	if res.RowsAffected > 0 {
		httpresp.OKMessage(c, "Unfollowed.", gin.H{"following": false})
		return
	}

	follow := models.Follow{FollowerID: user.ID, FollowingID: targetID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not follow the user.")
		return
	}

	h.notifier.Notify(targetID, "social", "New follower",
		user.Name+" started following you.", map[string]any{"user_id": user.ID})
	httpresp.OKMessage(c, "Following.", gin.H{"following": true})
}

// Connections lists who the caller follows and who follows them.
func (h *SocialHandler) Connections(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var following []models.Follow
	if err := h.db.Preload("Following").
		Where("follower_id = ?", user.ID).
		Find(&following).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load connections.")
		return
	}

	var followers []models.Follow
	if err := h.db.Preload("Follower").
		Where("following_id = ?", user.ID).
		Find(&followers).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load connections.")
		return
	}

	followingUsers := make([]models.User, 0, len(following))
	for _, f := range following {
		followingUsers = append(followingUsers, f.Following)
	}
	followerUsers := make([]models.User, 0, len(followers))
	for _, f := range followers {
		followerUsers = append(followerUsers, f.Follower)
	}

	httpresp.OK(c, gin.H{
		"following":       followingUsers,
		"followers":       followerUsers,
		"following_count": len(followingUsers),
		"follower_count":  len(followerUsers),
	})
}

func (h *SocialHandler) ownPost(c *gin.Context) (*models.SocialPost, bool) {
	var post models.SocialPost
	if err := h.db.First(&post, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "post_not_found", "Post not found.")
		return nil, false
	}
	user := middleware.CurrentUser(c)
	if post.UserID != user.ID && user.Role != models.RoleAdmin {
		httperr.Forbidden(c, "not_owner", "This post belongs to another member.")
		return nil, false
	}
	return &post, true
}
