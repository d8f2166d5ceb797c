package server

import (
	"starprep/internal/models"
	"starprep/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListTags handles GET /api/tags
// @Summary List attachable tags
// @Description Returns every public tag plus the caller's personal ones, alphabetically. With public=true only public tags are returned, for editing a public question.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param public query bool false "Restrict to public tags"
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagService.AvailableFor(c.Context(), s.viewer(c).ID, c.QueryBool("public"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}

// CheckTag handles GET /api/tags/check
// @Summary Preview tag resolution
// @Description Reports whether a name resolves to an existing public or personal tag, without creating anything.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param name query string true "Tag name"
// @Success 200 {object} service.TagCheck
// @Failure 400 {object} models.ErrorResponse
// @Router /tags/check [get]
func (s *Server) CheckTag(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("name query parameter is required"))
	}
	check, err := s.tagService.Check(c.Context(), s.viewer(c).ID, name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(check)
}

// CastVote handles POST /api/questions/:id/vote
// @Summary Rate a question
// @Description Records a 1-5 rating; voting again replaces the earlier rating. Returns the updated aggregate.
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body object{rating=int} true "Rating"
// @Success 200 {object} repository.VoteSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/vote [post]
func (s *Server) CastVote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	summary, err := s.voteService.Cast(c.Context(), service.CastVoteInput{
		Viewer:     s.viewer(c),
		QuestionID: id,
		Rating:     req.Rating,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// RemoveVote handles DELETE /api/questions/:id/vote
// @Summary Withdraw a rating
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} repository.VoteSummary
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/vote [delete]
func (s *Server) RemoveVote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	summary, err := s.voteService.Remove(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}
