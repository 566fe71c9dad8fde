package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/services"
)

// PostHandler handles HTTP requests for posts and engagement
type PostHandler struct {
	feedService       *services.FeedService
	engagementService *services.EngagementService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(feed *services.FeedService, engagement *services.EngagementService) *PostHandler {
	return &PostHandler{feedService: feed, engagementService: engagement}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts/create", h.CreatePost)
	g.POST("/posts/like-post", h.ToggleLike)
	g.POST("/posts/comment-post", h.AddComment)
	g.GET("/posts/:id", h.GetFeed)
	g.GET("/posts/:id/liked-posts", h.GetLikedPosts)
	g.GET("/posts/:id/likes", h.GetLikes)
	g.GET("/posts/:id/comments", h.GetComments)
	g.GET("/posts/from/:id/:viewerId", h.GetPostsByAuthor)
}

// CreatePostPayload defines the request body for POST /posts/create
type CreatePostPayload struct {
	UserID   uint                     `json:"userId" validate:"required"`
	PostData models.CreatePostRequest `json:"postData"`
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req CreatePostPayload
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	post, err := h.feedService.CreatePost(c.Request().Context(), req.UserID, req.PostData)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"EM": "post created successfully", "post": post})
}

// GetFeed returns one visibility-filtered feed page for the viewer
func (h *PostHandler) GetFeed(c echo.Context) error {
	viewerID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	posts, err := h.feedService.VisiblePosts(c.Request().Context(), viewerID, page)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": posts})
}

// GetPostsByAuthor returns an author's posts as seen by a viewer
func (h *PostHandler) GetPostsByAuthor(c echo.Context) error {
	authorID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	viewerID, err := paramID(c, "viewerId")
	if err != nil {
		return fail(c, err)
	}

	posts, err := h.feedService.PostsByAuthor(c.Request().Context(), authorID, viewerID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": posts})
}

// ToggleLike likes or unlikes a post
func (h *PostHandler) ToggleLike(c echo.Context) error {
	var req models.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	liked, err := h.engagementService.ToggleLike(c.Request().Context(), req.UserID, req.PostID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"EM": "post like toggled successfully", "data": echo.Map{"liked": liked}})
}

// AddComment appends a comment to a post
func (h *PostHandler) AddComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	comment, err := h.engagementService.AddComment(c.Request().Context(), req.UserID, req.PostID, req.CommentData)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": comment})
}

// GetComments lists a post's comments
func (h *PostHandler) GetComments(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	comments, err := h.engagementService.Comments(c.Request().Context(), postID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": comments})
}

// GetLikes lists the likes on a post
func (h *PostHandler) GetLikes(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	likes, err := h.engagementService.Likes(c.Request().Context(), postID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": likes})
}

// GetLikedPosts lists the posts a user has liked
func (h *PostHandler) GetLikedPosts(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	posts, err := h.engagementService.LikedPosts(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": posts})
}
