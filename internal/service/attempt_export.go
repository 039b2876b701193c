package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// Форматы экспорта попыток
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

var attemptExportHeaders = []string{
	"Reference", "Student ID", "Attempted By", "Questions", "Correct", "Wrong", "Unanswered",
	"Obtained Marks", "Total Marks", "Score %", "Grade", "Status", "Time", "Tab Switches", "Submitted At",
}

func attemptRow(a *entity.TestAttempt) []interface{} {
	return []interface{}{
		a.Reference,
		a.StudentID,
		sanitizeForExcel(a.AttemptedBy),
		a.TotalQuestions,
		a.CorrectAnswers,
		a.WrongAnswers,
		a.UnansweredCount,
		a.ObtainedMarks,
		a.TotalMarks,
		strconv.FormatFloat(a.ScorePercentage, 'f', 2, 64),
		a.Grade,
		a.Status(),
		a.FormattedTime(),
		a.TabSwitches,
		a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// WriteAttemptsCSV пишет попытки в CSV с BOM для корректного открытия в Excel
func WriteAttemptsCSV(w io.Writer, attempts []entity.TestAttempt) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(attemptExportHeaders); err != nil {
		return err
	}
	for i := range attempts {
		row := attemptRow(&attempts[i])
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = fmt.Sprint(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAttemptsXLSX пишет попытки в Excel через StreamWriter
func WriteAttemptsXLSX(w io.Writer, blueprint *entity.TestBlueprint, attempts []entity.TestAttempt) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attempts"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	title := "Attempts"
	if blueprint != nil {
		title = sanitizeForExcel(blueprint.Name)
	}
	if err := sw.SetRow("A1", []interface{}{title}); err != nil {
		return err
	}

	headers := make([]interface{}, len(attemptExportHeaders))
	for i, h := range attemptExportHeaders {
		headers[i] = h
	}
	if err := sw.SetRow("A2", headers); err != nil {
		return err
	}

	for i := range attempts {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, attemptRow(&attempts[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i+3, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
