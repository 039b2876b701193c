package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kunal96k/tts-mock-test/internal/handler/dto"
	"github.com/kunal96k/tts-mock-test/internal/service"
)

// AdminHandler обрабатывает администрирование банков, пересчет и выгрузку попыток
type AdminHandler struct {
	tests TestRunner
	banks BankManager
}

// NewAdminHandler создает новый обработчик администрирования
func NewAdminHandler(tests TestRunner, banks BankManager) *AdminHandler {
	return &AdminHandler{tests: tests, banks: banks}
}

// ValidateConfigRequest - запрошенные количества вопросов
type ValidateConfigRequest struct {
	Total  int `json:"total" binding:"min=1"`
	Easy   int `json:"easy" binding:"min=0"`
	Medium int `json:"medium" binding:"min=0"`
	Hard   int `json:"hard" binding:"min=0"`
}

// SetActiveRequest - флаг активности вопроса
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// GetBankStats возвращает количество активных вопросов по уровням
// GET /api/admin/banks/:id/stats
func (h *AdminHandler) GetBankStats(c *gin.Context) {
	bankID := c.MustGet("bankID").(uint)

	stats, err := h.tests.GetQuestionBankStats(bankID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ValidateConfig проверяет, хватает ли вопросов банка для конфигурации
// POST /api/admin/banks/:id/validate-config
func (h *AdminHandler) ValidateConfig(c *gin.Context) {
	bankID := c.MustGet("bankID").(uint)

	var req ValidateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.tests.ValidateTestConfiguration(bankID, req.Total, req.Easy, req.Medium, req.Hard)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteBank удаляет банк вместе с вопросами
// DELETE /api/admin/banks/:id
func (h *AdminHandler) DeleteBank(c *gin.Context) {
	bankID := c.MustGet("bankID").(uint)

	if err := h.banks.DeleteBank(bankID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question bank deleted"})
}

// SetQuestionActive скрывает или возвращает вопрос
// PATCH /api/admin/questions/:id/active
func (h *AdminHandler) SetQuestionActive(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.banks.SetQuestionActive(questionID, *req.Active); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question_id": questionID, "active": *req.Active})
}

// Recount пересчитывает счетчики вопросов банков и предметов
// POST /api/admin/recount
func (h *AdminHandler) Recount(c *gin.Context) {
	report, err := h.banks.RecountAll()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListTestAttempts возвращает все попытки теста
// GET /api/admin/tests/:id/attempts
func (h *AdminHandler) ListTestAttempts(c *gin.Context) {
	testID := c.MustGet("testID").(uint)

	blueprint, attempts, err := h.tests.ListTestAttempts(testID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"test":     dto.NewBlueprintResponse(blueprint),
		"attempts": dto.NewListAttemptResponse(attempts),
		"total":    len(attempts),
	})
}

// ExportTestAttempts выгружает попытки теста в CSV или Excel
// GET /api/admin/tests/:id/attempts/export?format=csv|xlsx
func (h *AdminHandler) ExportTestAttempts(c *gin.Context) {
	testID := c.MustGet("testID").(uint)
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	if format != service.ExportFormatCSV && format != service.ExportFormatXLSX {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	blueprint, attempts, err := h.tests.ListTestAttempts(testID)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("test_%d_attempts_%s", testID, time.Now().Format("2006-01-02"))

	switch format {
	case service.ExportFormatXLSX:
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
		err = service.WriteAttemptsXLSX(c.Writer, blueprint, attempts)
	default:
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		err = service.WriteAttemptsCSV(c.Writer, attempts)
	}
	if err != nil {
		log.Printf("[AdminHandler] Ошибка выгрузки попыток теста #%d: %v", testID, err)
	}
}
