package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kunal96k/tts-mock-test/internal/handler/dto"
	"github.com/kunal96k/tts-mock-test/internal/handler/helper"
	"github.com/kunal96k/tts-mock-test/internal/middleware"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
	"github.com/kunal96k/tts-mock-test/internal/service"
	"github.com/kunal96k/tts-mock-test/internal/service/examengine"
)

// TestHandler обрабатывает запуск и сдачу тестов студентами
type TestHandler struct {
	tests TestRunner
}

// NewTestHandler создает новый обработчик тестов
func NewTestHandler(tests TestRunner) *TestHandler {
	return &TestHandler{tests: tests}
}

// SubmitTestRequest представляет сдачу теста
type SubmitTestRequest struct {
	SessionID        string                       `json:"session_id" binding:"required,max=64"`
	BankID           uint                         `json:"bank_id"`
	TimeTakenSeconds int                          `json:"time_taken_seconds" binding:"min=0"`
	TabSwitches      int                          `json:"tab_switches" binding:"min=0"`
	Remarks          string                       `json:"remarks" binding:"max=500"`
	Answers          []examengine.SubmittedAnswer `json:"answers" binding:"required"`
}

// StartTest собирает вопросы для теста
// POST /api/tests/:id/start
func (h *TestHandler) StartTest(c *gin.Context) {
	testID := c.MustGet("testID").(uint)

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		handleError(c, apperrors.ErrUnauthorized)
		return
	}

	session, err := h.tests.StartTest(principal.UserID, testID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTestSessionResponse(session))
}

// SubmitTest проверяет ответы и сохраняет попытку
// POST /api/tests/:id/submit
func (h *TestHandler) SubmitTest(c *gin.Context) {
	testID := c.MustGet("testID").(uint)

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		handleError(c, apperrors.ErrUnauthorized)
		return
	}

	var req SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.tests.SubmitTest(principal.UserID, principal.Username, service.Submission{
		SessionID:        req.SessionID,
		TestID:           testID,
		BankID:           req.BankID,
		TimeTakenSeconds: req.TimeTakenSeconds,
		TabSwitches:      req.TabSwitches,
		Remarks:          req.Remarks,
		Answers:          req.Answers,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSubmitResponse(result))
}

// MyAttempts возвращает попытки текущего студента
// GET /api/attempts/me?limit=&offset=
func (h *TestHandler) MyAttempts(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		handleError(c, apperrors.ErrUnauthorized)
		return
	}

	limit := helper.ParseIntQuery(c.Query("limit"), 20)
	offset := helper.ParseIntQuery(c.Query("offset"), 0)

	attempts, err := h.tests.ListStudentAttempts(principal.UserID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": dto.NewListAttemptResponse(attempts),
		"total":    len(attempts),
	})
}

// GetAttempt возвращает попытку; студент видит только свои
// GET /api/attempts/:id
func (h *TestHandler) GetAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		handleError(c, apperrors.ErrUnauthorized)
		return
	}

	attempt, err := h.tests.GetAttempt(attemptID, principal.UserID, principal.IsAdmin())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}

// GetAttemptByReference возвращает попытку по публичному идентификатору
// GET /api/attempts/ref/:reference
func (h *TestHandler) GetAttemptByReference(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		handleError(c, apperrors.ErrUnauthorized)
		return
	}

	attempt, err := h.tests.GetAttemptByReference(c.Param("reference"), principal.UserID, principal.IsAdmin())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}
