package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/snapbite/snapbite/internal/app/repository"
	"github.com/snapbite/snapbite/internal/app/service"
	"go.uber.org/zap"
)

// respondError maps domain errors onto HTTP statuses. Anything unrecognized
// is treated as a transient storage failure: logged, surfaced as a 500, and
// safe for the client to retry.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, repository.ErrStoryNotFound),
		errors.Is(err, repository.ErrHighlightNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrEstablishmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": unwrapMessage(err),
		})

	case errors.Is(err, service.ErrNotStoryOwner),
		errors.Is(err, service.ErrNotHighlightOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": unwrapMessage(err),
		})

	case errors.Is(err, service.ErrStoryNotActive),
		errors.Is(err, service.ErrInvalidMediaType),
		errors.Is(err, service.ErrMissingMediaURL),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrMissingHighlightTitle),
		errors.Is(err, service.ErrHighlightTitleTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": unwrapMessage(err),
		})

	default:
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// unwrapMessage strips the service's context prefix so clients see the
// sentinel's message, not the wrap chain.
func unwrapMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}
