package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/snapbite/snapbite/internal/app/repository"
	"github.com/snapbite/snapbite/internal/http/middleware"
	"go.uber.org/zap"
)

// UserDeps groups dependencies required by user handlers.
type UserDeps struct {
	Logger *zap.Logger
	Users  repository.UserRepository
}

// UserHandler implements profile lookup and the social graph endpoints.
type UserHandler struct {
	logger *zap.Logger
	users  repository.UserRepository
}

// NewUserHandler creates a user handler with the provided dependencies.
func NewUserHandler(deps UserDeps) *UserHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{
		logger: logger,
		users:  deps.Users,
	}
}

// Register wires user routes onto the provided (authenticated) router.
func (h *UserHandler) Register(router fiber.Router) {
	users := router.Group("/users")
	{
		users.Get("/:id", h.Get)
		users.Post("/:id/follow", h.Follow)
		users.Delete("/:id/follow", h.Unfollow)
	}
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	userID := c.Params("id")

	user, err := h.users.GetByID(requestContext(c), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(user.Summary())
}

// Follow handles POST /api/users/:id/follow
func (h *UserHandler) Follow(c *fiber.Ctx) error {
	followeeID := c.Params("id")
	followerID := middleware.UserID(c)
	if followeeID == followerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot follow yourself",
		})
	}

	// The followee must exist.
	if _, err := h.users.GetByID(requestContext(c), followeeID); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.users.Follow(requestContext(c), followerID, followeeID); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unfollow handles DELETE /api/users/:id/follow
func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	if err := h.users.Unfollow(requestContext(c), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
