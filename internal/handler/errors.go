package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// handleError переводит ошибки сервисов в HTTP ответ
func handleError(c *gin.Context, err error) {
	var insufficient *apperrors.InsufficientQuestionsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"error_type": "insufficient_questions",
			"required":   insufficient.Required,
			"available":  insufficient.Available,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrPersistence):
		log.Printf("ERROR: attempt was not persisted: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Your attempt could not be saved. Please submit again.",
			"error_type": "persistence_failed",
		})
	default:
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindError отвечает 400 на некорректное тело запроса
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
}
