package blog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartblog/server/internal/shared/middleware"
	"github.com/smartblog/server/internal/shared/response"
)

// Handler handles HTTP requests for blog posts and comments.
type Handler struct {
	service *Service
}

// NewHandler creates a new blog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public blog routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.GET("/:id", h.GetPost)
		posts.GET("/:id/comments", h.ListComments)
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	{
		posts.POST("", h.CreatePost)
		posts.PUT("/:id", h.UpdatePost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/like", h.ToggleLike)
		posts.POST("/:id/comments", h.AddComment)
	}
	r.DELETE("/comments/:id", h.DeleteComment)
}

// CreatePost creates a new post.
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPost returns a single post.
func (h *Handler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListPosts returns a paginated post list.
func (h *Handler) ListPosts(c *gin.Context) {
	filter := &PostFilter{
		Search: c.Query("search"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if raw := c.Query("category"); raw != "" {
		category := Category(raw)
		if !category.IsValid() {
			response.BadRequest(c, ErrInvalidCategory.Error())
			return
		}
		filter.Category = &category
	}
	if raw := c.Query("author_id"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid author id")
			return
		}
		filter.AuthorID = &authorID
	}

	posts, total, err := h.service.ListPosts(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPaginatedResponse(posts, total, max(filter.Page, 1), filter.Limit()))
}

// UpdatePost updates a post owned by the authenticated user.
func (h *Handler) UpdatePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost deletes a post owned by the authenticated user.
func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, postID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleLike likes or unlikes a post.
func (h *Handler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	result, err := h.service.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddComment adds a comment to a post.
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments lists a post's comments.
func (h *Handler) ListComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), postID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment deletes a comment owned by the authenticated user.
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleError maps module errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrPostNotFound, Status: http.StatusNotFound},
		{Err: ErrCommentNotFound, Status: http.StatusNotFound},
		{Err: ErrNotAuthor, Status: http.StatusForbidden},
		{Err: ErrInvalidCategory, Status: http.StatusBadRequest},
	})
}
