package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/snapbite/snapbite/internal/app/service"
	"github.com/snapbite/snapbite/internal/http/middleware"
	"go.uber.org/zap"
)

// HighlightDeps groups dependencies required by highlight handlers.
type HighlightDeps struct {
	Logger     *zap.Logger
	Highlights service.HighlightService
}

// HighlightHandler implements the highlight curation endpoints.
type HighlightHandler struct {
	logger     *zap.Logger
	highlights service.HighlightService
}

// NewHighlightHandler creates a highlight handler with the provided dependencies.
func NewHighlightHandler(deps HighlightDeps) *HighlightHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HighlightHandler{
		logger:     logger,
		highlights: deps.Highlights,
	}
}

// Register wires highlight routes onto the provided (authenticated) router.
func (h *HighlightHandler) Register(router fiber.Router) {
	highlights := router.Group("/highlights")
	{
		highlights.Post("/", h.Create)
		highlights.Delete("/:id", h.Delete)
	}
	router.Get("/users/:id/highlights", h.ListForUser)
}

// CreateHighlightRequest represents the request body for creating a highlight.
type CreateHighlightRequest struct {
	StoryID      string `json:"story_id"`
	Title        string `json:"title"`
	CoverImage   string `json:"cover_image,omitempty"`
	DisplayOrder int    `json:"display_order,omitempty"`
}

// Create handles POST /api/highlights
func (h *HighlightHandler) Create(c *fiber.Ctx) error {
	var req CreateHighlightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.StoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "story_id is required",
		})
	}

	env, err := h.highlights.Create(requestContext(c), middleware.UserID(c), service.CreateHighlightInput{
		StoryID:      req.StoryID,
		Title:        req.Title,
		CoverImage:   req.CoverImage,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(env)
}

// Delete handles DELETE /api/highlights/:id
func (h *HighlightHandler) Delete(c *fiber.Ctx) error {
	highlightID := c.Params("id")
	if highlightID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "highlight id is required",
		})
	}

	if err := h.highlights.Delete(requestContext(c), highlightID, middleware.UserID(c)); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListForUser handles GET /api/users/:id/highlights
func (h *HighlightHandler) ListForUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user id is required",
		})
	}

	list, err := h.highlights.ListForUser(requestContext(c), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"highlights": list,
		"count":      len(list),
	})
}
