package helper

import (
	"math"
	"strconv"

	"github.com/kunal96k/tts-mock-test/internal/service/examengine"
)

// QuestionOption представляет вариант ответа для фронтенда
type QuestionOption struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// ConvertOptionsToObjects собирает варианты A-D в список с буквами
func ConvertOptionsToObjects(q examengine.QuestionView) []QuestionOption {
	texts := []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
	letters := []string{"A", "B", "C", "D"}
	converted := make([]QuestionOption, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			continue
		}
		converted = append(converted, QuestionOption{Letter: letters[i], Text: text})
	}
	return converted
}

// Round2 округляет процент до двух знаков для ответа клиенту
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseIntQuery разбирает числовой query-параметр, при ошибке возвращает def
func ParseIntQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
