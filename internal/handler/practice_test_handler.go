package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// PracticeTestHandler handles test blanc endpoints.
type PracticeTestHandler struct {
	service *service.PracticeTestService
}

// NewPracticeTestHandler constructs a practice test handler.
func NewPracticeTestHandler(svc *service.PracticeTestService) *PracticeTestHandler {
	return &PracticeTestHandler{service: svc}
}

// List godoc
// @Summary List tests blancs
// @Tags TestsBlancs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tests-blancs [get]
func (h *PracticeTestHandler) List(c *gin.Context) {
	tests, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tests, nil)
}

// Get godoc
// @Summary Get a test blanc
// @Tags TestsBlancs
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} response.Envelope
// @Router /tests-blancs/{id} [get]
func (h *PracticeTestHandler) Get(c *gin.Context) {
	test, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, test, nil)
}

// Create godoc
// @Summary Create a test blanc
// @Tags TestsBlancs
// @Accept json
// @Produce json
// @Param payload body service.CreatePracticeTestRequest true "Test payload"
// @Success 201 {object} response.Envelope
// @Router /tests-blancs [post]
func (h *PracticeTestHandler) Create(c *gin.Context) {
	var req service.CreatePracticeTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	test, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, test)
}

// Delete godoc
// @Summary Delete a test blanc
// @Tags TestsBlancs
// @Param id path string true "Test ID"
// @Success 204
// @Router /tests-blancs/{id} [delete]
func (h *PracticeTestHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Questions godoc
// @Summary List a test's questions
// @Tags TestsBlancs
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} response.Envelope
// @Router /tests-blancs/{id}/questions [get]
func (h *PracticeTestHandler) Questions(c *gin.Context) {
	questions, err := h.service.Questions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

// AddQuestion godoc
// @Summary Add a question to a test
// @Tags TestsBlancs
// @Accept json
// @Produce json
// @Param id path string true "Test ID"
// @Param payload body service.CreateQuestionRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Router /tests-blancs/{id}/questions [post]
func (h *PracticeTestHandler) AddQuestion(c *gin.Context) {
	var req service.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	question, err := h.service.AddQuestion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, question)
}

// RemoveQuestion godoc
// @Summary Remove a question from a test
// @Tags TestsBlancs
// @Param id path string true "Test ID"
// @Param questionId path string true "Question ID"
// @Success 204
// @Router /tests-blancs/{id}/questions/{questionId} [delete]
func (h *PracticeTestHandler) RemoveQuestion(c *gin.Context) {
	if err := h.service.RemoveQuestion(c.Request.Context(), c.Param("id"), c.Param("questionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submit godoc
// @Summary Submit answers and get the evaluated result
// @Tags TestsBlancs
// @Accept json
// @Produce json
// @Param id path string true "Test ID"
// @Param payload body service.SubmitTestRequest true "Answers payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tests-blancs/{id}/soumettre [post]
func (h *PracticeTestHandler) Submit(c *gin.Context) {
	var req service.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ResultsByTest godoc
// @Summary List results for a test
// @Tags TestsBlancs
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} response.Envelope
// @Router /tests-blancs/{id}/resultats [get]
func (h *PracticeTestHandler) ResultsByTest(c *gin.Context) {
	results, err := h.service.ResultsByTest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// ResultsByClient godoc
// @Summary List a client's results
// @Tags TestsBlancs
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /resultats/client/{clientId} [get]
func (h *PracticeTestHandler) ResultsByClient(c *gin.Context) {
	results, err := h.service.ResultsByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// ResultsByClientAndTest godoc
// @Summary List a client's results on one test
// @Tags TestsBlancs
// @Produce json
// @Param clientId path string true "Client ID"
// @Param testId path string true "Test ID"
// @Success 200 {object} response.Envelope
// @Router /resultats/client/{clientId}/test/{testId} [get]
func (h *PracticeTestHandler) ResultsByClientAndTest(c *gin.Context) {
	results, err := h.service.ResultsByClientAndTest(c.Request.Context(), c.Param("clientId"), c.Param("testId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}
