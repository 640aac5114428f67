package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
	"go.uber.org/zap"
)

// EstablishmentDeps groups dependencies required by establishment handlers.
type EstablishmentDeps struct {
	Logger         *zap.Logger
	Establishments repository.EstablishmentRepository
}

// EstablishmentHandler implements the venue directory endpoints.
type EstablishmentHandler struct {
	logger         *zap.Logger
	establishments repository.EstablishmentRepository
}

// NewEstablishmentHandler creates an establishment handler with the provided dependencies.
func NewEstablishmentHandler(deps EstablishmentDeps) *EstablishmentHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstablishmentHandler{
		logger:         logger,
		establishments: deps.Establishments,
	}
}

// Register wires establishment routes onto the provided (authenticated) router.
func (h *EstablishmentHandler) Register(router fiber.Router) {
	establishments := router.Group("/establishments")
	{
		establishments.Post("/", h.Create)
		establishments.Get("/:id", h.Get)
	}
}

// CreateEstablishmentRequest represents the request body for adding a venue.
type CreateEstablishmentRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// Create handles POST /api/establishments
func (h *EstablishmentHandler) Create(c *fiber.Ctx) error {
	var req CreateEstablishmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	establishment := &model.Establishment{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}
	if err := h.establishments.Create(requestContext(c), establishment); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(establishment)
}

// Get handles GET /api/establishments/:id
func (h *EstablishmentHandler) Get(c *fiber.Ctx) error {
	establishment, err := h.establishments.GetByID(requestContext(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(establishment)
}
