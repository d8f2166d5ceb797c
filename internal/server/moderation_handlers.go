package server

import (
	"starprep/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ApproveQuestion handles POST /api/questions/:id/approve
// @Summary Approve a public question
// @Description Admin only. Approving an already approved question is a no-op, reported as changed=false.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param next query string false "Redirect target after the decision"
// @Success 200 {object} service.ModerationResult
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/approve [post]
func (s *Server) ApproveQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	result, err := s.moderationService.Approve(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	return s.respondWithNext(c, result)
}

// DenyQuestion handles POST /api/questions/:id/deny
// @Summary Deny a public question
// @Description Admin only. Denying an already denied question is a no-op, reported as changed=false.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param next query string false "Redirect target after the decision"
// @Success 200 {object} service.ModerationResult
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/deny [post]
func (s *Server) DenyQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	result, err := s.moderationService.Deny(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	return s.respondWithNext(c, result)
}

// respondWithNext echoes a validated next-hop for clients that navigate
// after a moderation decision or a save. Hostile values are dropped, never
// reflected. The response status set by the caller is preserved.
func (s *Server) respondWithNext(c *fiber.Ctx, result interface{}) error {
	if next, ok := validation.SafeRedirect(c.Query("next"), c.Hostname(), c.Secure()); ok {
		return c.JSON(fiber.Map{
			"result": result,
			"next":   next,
		})
	}
	return c.JSON(result)
}

// SaveQuestion handles POST /api/questions/:id/save
// @Summary Save a library question into the own collection
// @Description Creates a private copy carrying the title and tags. Saving twice is reported via already_saved instead of creating a duplicate.
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param next query string false "Redirect target after the save"
// @Success 201 {object} service.SaveResult
// @Success 200 {object} service.SaveResult
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/save [post]
func (s *Server) SaveQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	result, err := s.moderationService.SaveCopy(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	if !result.AlreadySaved {
		c.Status(fiber.StatusCreated)
	}
	return s.respondWithNext(c, result)
}
