package server

import (
	"starprep/internal/models"
	"starprep/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateAnswer handles POST /api/questions/:id/answers
// @Summary Add an answer to an own question
// @Description Answers attach to the caller's private questions only; library questions are templates and take no direct answers. STAR answers need situation, task, action and result; BASIC answers need text.
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body service.AnswerContentInput true "Answer content"
// @Success 201 {object} models.Answer
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/answers [post]
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req service.AnswerContentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.Create(c.Context(), service.CreateAnswerInput{
		Viewer:     s.viewer(c),
		QuestionID: questionID,
		Content:    req,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(answer)
}

// GetAnswer handles GET /api/answers/:id
// @Summary Get a single answer
// @Description Returns the caller's own answer, or a public answer on a library question. Anything else is a 404.
// @Tags answers
// @Produce json
// @Param id path int true "Answer ID"
// @Success 200 {object} models.Answer
// @Failure 404 {object} models.ErrorResponse
// @Router /answers/{id} [get]
func (s *Server) GetAnswer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	answer, err := s.answerService.Get(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}

// UpdateAnswer handles PUT /api/answers/:id
// @Summary Update an answer
// @Description Author only. The variant may change; the fields of the abandoned variant are cleared.
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param request body service.AnswerContentInput true "Answer content"
// @Success 200 {object} models.Answer
// @Failure 404 {object} models.ErrorResponse
// @Router /answers/{id} [put]
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req service.AnswerContentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.Update(c.Context(), service.UpdateAnswerInput{
		Viewer:   s.viewer(c),
		AnswerID: id,
		Content:  req,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(answer)
}

// DeleteAnswer handles DELETE /api/answers/:id
// @Summary Delete an answer
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} object{deleted=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /answers/{id} [delete]
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := s.answerService.Delete(c.Context(), id, s.viewer(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
