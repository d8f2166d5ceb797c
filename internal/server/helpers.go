package server

import (
	"errors"
	"strconv"

	"starprep/internal/models"

	"github.com/gofiber/fiber/v2"
)

// viewer resolves the request to the access-control identity. Routes behind
// AuthRequired always get a non-anonymous viewer; OptionalAuth routes get
// the zero Viewer when no valid token was sent. Admin status is read from
// the database so a revoked admin loses power immediately, not at token
// expiry.
func (s *Server) viewer(c *fiber.Ctx) models.Viewer {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return models.Viewer{}
	}
	return s.userService.ViewerFor(c.Context(), userID)
}

// parseID parses a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// statusForError maps the service error taxonomy onto HTTP statuses. An
// INTEGRITY_FAULT is corrupted state, not a client error, so it surfaces
// as a 500.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a service error with its mapped status.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
