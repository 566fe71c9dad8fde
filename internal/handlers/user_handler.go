package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
	"github.com/nabilhq/openwall/backend/internal/services"
)

// UserHandler handles HTTP requests for user profiles and the friend graph
type UserHandler struct {
	userRepository    repositories.UserRepository
	socialService     *services.SocialService
	engagementService *services.EngagementService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, social *services.SocialService, engagement *services.EngagementService) *UserHandler {
	return &UserHandler{
		userRepository:    userRepo,
		socialService:     social,
		engagementService: engagement,
	}
}

// RegisterUserRoutes registers user and friend-graph routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/friends", h.GetFriends)
	g.GET("/users/:id/non-friends", h.GetNonFriends)
	g.GET("/users/:id/friend-requests", h.GetFriendRequests)
	g.GET("/users/:id/avatar", h.GetAvatar)
	g.GET("/users/:id/notifications", h.GetNotifications)
	g.POST("/users/:id/friends/:friendId", h.ToggleFriendRequest)
	g.POST("/users/accept-friend-request", h.AcceptFriendRequest)
	g.POST("/users/edit-avatar", h.EditAvatar)
}

// GetUser retrieves a user profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, services.NewNotFoundError("user not found"))
		}
		return fail(c, services.NewInternalError("looking up user", err))
	}
	return ok(c, echo.Map{"data": user})
}

// GetFriends lists a user's accepted friends
func (h *UserHandler) GetFriends(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	friends, err := h.socialService.Friends(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": friends})
}

// GetNonFriends lists users outside a user's outgoing edge set
func (h *UserHandler) GetNonFriends(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	users, err := h.socialService.NonFriends(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": users})
}

// GetFriendRequests lists unreciprocated incoming requests
func (h *UserHandler) GetFriendRequests(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	users, err := h.socialService.PendingRequests(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": users})
}

// GetAvatar returns a user's avatar reference
func (h *UserHandler) GetAvatar(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, services.NewNotFoundError("user not found"))
		}
		return fail(c, services.NewInternalError("looking up user", err))
	}
	return ok(c, echo.Map{"data": user.Image})
}

// GetNotifications lists a user's most recent notifications
func (h *UserHandler) GetNotifications(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	notifications, err := h.engagementService.Notifications(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": notifications})
}

// ToggleFriendRequest creates or withdraws a friend request
func (h *UserHandler) ToggleFriendRequest(c echo.Context) error {
	requesterID, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	targetID, err := paramID(c, "friendId")
	if err != nil {
		return fail(c, err)
	}

	created, err := h.socialService.ToggleFriendRequest(c.Request().Context(), requesterID, targetID)
	if err != nil {
		return fail(c, err)
	}

	message := "friend request cancelled"
	if created {
		message = "friend request sent"
	}
	return ok(c, echo.Map{"EM": message, "data": echo.Map{"requested": created}})
}

// AcceptFriendRequest accepts a pending friend request
func (h *UserHandler) AcceptFriendRequest(c echo.Context) error {
	var req models.AcceptFriendRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	if err := h.socialService.AcceptFriendRequest(c.Request().Context(), req.UserID, req.FriendID); err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"EM": "friend request accepted"})
}

// EditAvatar updates a user's avatar reference
func (h *UserHandler) EditAvatar(c echo.Context) error {
	var req models.EditAvatarRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	user, err := h.userRepository.GetUserByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, services.NewNotFoundError("user not found"))
		}
		return fail(c, services.NewInternalError("looking up user", err))
	}

	user.Image = req.Image
	if err := h.userRepository.UpdateUser(user); err != nil {
		return fail(c, services.NewInternalError("updating avatar", err))
	}
	return ok(c, echo.Map{"data": user})
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, services.NewValidationError("invalid " + name + " parameter")
	}
	return uint(id), nil
}
