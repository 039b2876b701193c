package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kunal96k/tts-mock-test/internal/handler/dto"
	"github.com/kunal96k/tts-mock-test/internal/service"
)

// BlueprintHandler обрабатывает запросы к определениям тестов
type BlueprintHandler struct {
	blueprints BlueprintManager
}

// NewBlueprintHandler создает новый обработчик определений тестов
func NewBlueprintHandler(blueprints BlueprintManager) *BlueprintHandler {
	return &BlueprintHandler{blueprints: blueprints}
}

// CreateBlueprint создает определение теста. Поля проверяются в сервисе.
// POST /api/admin/blueprints
func (h *BlueprintHandler) CreateBlueprint(c *gin.Context) {
	var input service.BlueprintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	blueprint, err := h.blueprints.Create(input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewBlueprintResponse(blueprint))
}

// UpdateBlueprint изменяет определение теста
// PUT /api/admin/blueprints/:id
func (h *BlueprintHandler) UpdateBlueprint(c *gin.Context) {
	id := c.MustGet("blueprintID").(uint)

	var input service.BlueprintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	blueprint, err := h.blueprints.Update(id, input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBlueprintResponse(blueprint))
}

// ToggleBlueprint переключает активность
// PATCH /api/admin/blueprints/:id/toggle
func (h *BlueprintHandler) ToggleBlueprint(c *gin.Context) {
	id := c.MustGet("blueprintID").(uint)

	blueprint, err := h.blueprints.ToggleActive(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBlueprintResponse(blueprint))
}

// DeleteBlueprint удаляет определение теста
// DELETE /api/admin/blueprints/:id
func (h *BlueprintHandler) DeleteBlueprint(c *gin.Context) {
	id := c.MustGet("blueprintID").(uint)

	if err := h.blueprints.Delete(id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test blueprint deleted"})
}

// GetBlueprint возвращает определение теста
// GET /api/admin/blueprints/:id
func (h *BlueprintHandler) GetBlueprint(c *gin.Context) {
	id := c.MustGet("blueprintID").(uint)

	blueprint, err := h.blueprints.GetByID(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBlueprintResponse(blueprint))
}

// ListBlueprints возвращает определения по фильтру
// GET /api/admin/blueprints?type=MOCK|FINAL&subject_id=&active=true
func (h *BlueprintHandler) ListBlueprints(c *gin.Context) {
	filter := service.BlueprintFilter{
		Type:       c.Query("type"),
		ActiveOnly: c.Query("active") == "true",
	}
	if raw := c.Query("subject_id"); raw != "" {
		subjectID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject_id"})
			return
		}
		filter.SubjectID = uint(subjectID)
	}

	blueprints, err := h.blueprints.List(filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListBlueprintResponse(blueprints))
}

// ListActiveBlueprints возвращает тесты, доступные студентам
// GET /api/blueprints/active
func (h *BlueprintHandler) ListActiveBlueprints(c *gin.Context) {
	blueprints, err := h.blueprints.List(service.BlueprintFilter{ActiveOnly: true})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListBlueprintResponse(blueprints))
}

// CountBlueprints возвращает количество определений
// GET /api/admin/blueprints/count
func (h *BlueprintHandler) CountBlueprints(c *gin.Context) {
	counts, err := h.blueprints.Counts()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}
