package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
	"github.com/snapbite/snapbite/internal/http/util"
	"go.uber.org/zap"
)

// AuthDeps groups dependencies required by auth handlers.
type AuthDeps struct {
	Logger *zap.Logger
	Users  repository.UserRepository
	Signer *util.SessionSigner
}

// AuthHandler implements registration and session token issuance. Real
// identity providers sit in front of this in production; these endpoints
// keep the service self-contained.
type AuthHandler struct {
	logger *zap.Logger
	users  repository.UserRepository
	signer *util.SessionSigner
}

// NewAuthHandler creates an auth handler with the provided dependencies.
func NewAuthHandler(deps AuthDeps) *AuthHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		logger: logger,
		users:  deps.Users,
		signer: deps.Signer,
	}
}

// Register wires auth routes onto the provided (unauthenticated) router.
func (h *AuthHandler) Register(router fiber.Router) {
	auth := router.Group("/api/auth")
	{
		auth.Post("/register", h.RegisterUser)
		auth.Post("/token", h.Token)
	}
}

// RegisterUserRequest represents the request body for creating an account.
type RegisterUserRequest struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// RegisterUser handles POST /api/auth/register
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Handle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "handle is required",
		})
	}

	user := &model.User{
		ID:          uuid.New().String(),
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	}
	if err := h.users.Create(requestContext(c), user); err != nil {
		h.logger.Error("failed to create user", zap.String("handle", req.Handle), zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "handle already taken",
		})
	}

	token, err := h.signer.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user.Summary(),
		"token": token,
	})
}

// TokenRequest represents the request body for minting a session token.
type TokenRequest struct {
	Handle string `json:"handle"`
}

// Token handles POST /api/auth/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := h.users.GetByHandle(requestContext(c), req.Handle)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	token, err := h.signer.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user.Summary(),
		"token": token,
	})
}
