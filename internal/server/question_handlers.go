package server

import (
	"starprep/internal/models"
	"starprep/internal/service"

	"github.com/gofiber/fiber/v2"
)

type questionRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	IsPublic bool   `json:"is_public"`
	// Tags is a comma-separated list of tag names.
	Tags string `json:"tags"`
}

// ListMyQuestions handles GET /api/questions
// @Summary List own questions
// @Description Lists the caller's questions. view=personal (default) shows private ones, view=public shows the caller's shared ones in any review state, view=all shows both.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param view query string false "personal, public or all"
// @Param tag query string false "Filter by tag name or slug"
// @Param search query string false "Search in title, body and own answers"
// @Param sort query string false "-created_at, created_at, title, -title, -answer_count, answer_count"
// @Param page query int false "Page number"
// @Success 200 {object} service.QuestionList
// @Router /questions [get]
func (s *Server) ListMyQuestions(c *fiber.Ctx) error {
	list, err := s.questionService.List(c.Context(), service.ListQuestionsInput{
		Viewer: s.viewer(c),
		View:   c.Query("view"),
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   c.QueryInt("page", 1),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// ListLibraryQuestions handles GET /api/library
// @Summary Browse the public question library
// @Description Lists approved public questions. No authentication required; authenticated callers additionally get already-saved marks, admins get the pending review queue on page 1.
// @Tags library
// @Produce json
// @Param tag query string false "Filter by tag name or slug"
// @Param search query string false "Search in titles and bodies"
// @Param sort query string false "Sort key"
// @Param page query int false "Page number"
// @Success 200 {object} service.QuestionList
// @Router /library [get]
func (s *Server) ListLibraryQuestions(c *fiber.Ctx) error {
	list, err := s.questionService.List(c.Context(), service.ListQuestionsInput{
		Viewer:  s.viewer(c),
		Library: true,
		Tag:     c.Query("tag"),
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Page:    c.QueryInt("page", 1),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// GetQuestion handles GET /api/questions/:id
// @Summary Get question detail
// @Description Returns the question with its visible answers, vote summary and the caller's rating. Questions the caller may not see yield 404.
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} service.QuestionDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [get]
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	detail, err := s.questionService.Get(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detail)
}

// CreateQuestion handles POST /api/questions
// @Summary Create a question
// @Description Private questions are usable immediately. Public submissions enter the review queue unless an admin files them.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body questionRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Router /questions [post]
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.Create(c.Context(), service.CreateQuestionInput{
		Viewer:   s.viewer(c),
		Title:    req.Title,
		Body:     req.Body,
		IsPublic: req.IsPublic,
		Tags:     req.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion handles PUT /api/questions/:id
// @Summary Update a question
// @Description Owner or admin only. An owner editing a public question sends it back through review; an admin's edit keeps the current status and owner.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body questionRequest true "Question"
// @Success 200 {object} models.Question
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [put]
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.Update(c.Context(), service.UpdateQuestionInput{
		Viewer:     s.viewer(c),
		QuestionID: id,
		Title:      req.Title,
		Body:       req.Body,
		IsPublic:   req.IsPublic,
		Tags:       req.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/questions/:id
// @Summary Delete a question
// @Description Owner or admin only. Reports how many answers went with it.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} object{deleted=bool,answers_deleted=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [delete]
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	answersDeleted, err := s.questionService.Delete(c.Context(), id, s.viewer(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"deleted":         true,
		"answers_deleted": answersDeleted,
	})
}
