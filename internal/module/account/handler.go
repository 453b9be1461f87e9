package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartblog/server/internal/shared/middleware"
	"github.com/smartblog/server/internal/shared/response"
)

// Handler handles HTTP requests for account management.
type Handler struct {
	service *Service
}

// NewHandler creates a new account handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public account routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	users := r.Group("/users")
	{
		users.GET("/:username", h.GetProfile)
		users.GET("/:username/followers", h.ListFollowers)
		users.GET("/:username/following", h.ListFollowing)
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
// The current-user routes live under /me so they never collide with the
// /users/:username wildcard.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.GetCurrentUser)
	r.PUT("/me", h.UpdateProfile)
	r.POST("/users/:username/follow", h.ToggleFollow)
}

// Register handles user registration.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles username/password login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// GetCurrentUser returns the authenticated user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.service.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetProfile returns a public user profile.
func (h *Handler) GetProfile(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile updates the authenticated user's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ToggleFollow follows or unfollows the target user.
func (h *Handler) ToggleFollow(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	result, err := h.service.ToggleFollow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListFollowers returns the followers of a user.
func (h *Handler) ListFollowers(c *gin.Context) {
	users, err := h.service.ListFollowers(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListFollowing returns the users a user follows.
func (h *Handler) ListFollowing(c *gin.Context) {
	users, err := h.service.ListFollowing(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// handleError maps module errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrUserNotFound, Status: http.StatusNotFound},
		{Err: ErrEmailAlreadyExists, Status: http.StatusConflict},
		{Err: ErrUsernameAlreadyExists, Status: http.StatusConflict},
		{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		{Err: ErrPasswordTooShort, Status: http.StatusBadRequest},
		{Err: ErrSelfFollow, Status: http.StatusBadRequest},
	})
}
