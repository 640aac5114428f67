package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/service"
	"github.com/snapbite/snapbite/internal/http/middleware"
	"go.uber.org/zap"
)

// StoryDeps groups dependencies required by story handlers.
type StoryDeps struct {
	Logger  *zap.Logger
	Stories service.StoryService
	Feed    service.FeedService
}

// StoryHandler implements the story lifecycle and feed endpoints.
type StoryHandler struct {
	logger  *zap.Logger
	stories service.StoryService
	feed    service.FeedService
}

// NewStoryHandler creates a story handler with the provided dependencies.
func NewStoryHandler(deps StoryDeps) *StoryHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoryHandler{
		logger:  logger,
		stories: deps.Stories,
		feed:    deps.Feed,
	}
}

// Register wires story routes onto the provided (authenticated) router.
func (h *StoryHandler) Register(router fiber.Router) {
	stories := router.Group("/stories")
	{
		stories.Post("/", h.Create)
		stories.Get("/feed", h.Feed)
		stories.Post("/:id/view", h.View)
		stories.Delete("/:id", h.Delete)
	}
	router.Get("/users/:id/stories", h.UserStories)
}

// CreateStoryRequest represents the request body for posting a story.
type CreateStoryRequest struct {
	Content         string  `json:"content,omitempty"`
	MediaURL        string  `json:"media_url"`
	MediaType       string  `json:"media_type,omitempty"`
	Location        string  `json:"location,omitempty"`
	EstablishmentID *string `json:"establishment_id,omitempty"`
}

// Create handles POST /api/stories
func (h *StoryHandler) Create(c *fiber.Ctx) error {
	var req CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	env, err := h.stories.Create(requestContext(c), middleware.UserID(c), service.CreateStoryInput{
		Content:         req.Content,
		MediaURL:        req.MediaURL,
		MediaType:       model.MediaType(req.MediaType),
		Location:        req.Location,
		EstablishmentID: req.EstablishmentID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(env)
}

// View handles POST /api/stories/:id/view
func (h *StoryHandler) View(c *fiber.Ctx) error {
	storyID := c.Params("id")
	if storyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "story id is required",
		})
	}

	if err := h.stories.View(requestContext(c), storyID, middleware.UserID(c)); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete handles DELETE /api/stories/:id
func (h *StoryHandler) Delete(c *fiber.Ctx) error {
	storyID := c.Params("id")
	if storyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "story id is required",
		})
	}

	if err := h.stories.Delete(requestContext(c), storyID, middleware.UserID(c)); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Feed handles GET /api/stories/feed
func (h *StoryHandler) Feed(c *fiber.Ctx) error {
	feed, err := h.feed.Feed(requestContext(c), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"feed":  feed,
		"count": len(feed),
	})
}

// UserStories handles GET /api/users/:id/stories
func (h *StoryHandler) UserStories(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user id is required",
		})
	}

	group, err := h.feed.UserStoriesFor(requestContext(c), userID, middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(group)
}

func requestContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
