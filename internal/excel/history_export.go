package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"liftbot/internal/models"
)

// Листы выгрузки
const (
	SheetHistory  = "История"
	SheetStats    = "Статистика"
	SheetPrograms = "Программы"
)

// HistoryExport: данные пользователя для выгрузки
type HistoryExport struct {
	History  []models.WeightObservation
	Stats    []models.ExerciseStat
	Programs []*models.Schedule
}

// BuildHistoryWorkbook собирает книгу с историей весов, статистикой и программами
func BuildHistoryWorkbook(data HistoryExport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetHistory); err != nil {
		return nil, fmt.Errorf("ошибка переименования листа: %w", err)
	}
	for _, sheet := range []string{SheetStats, SheetPrograms} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("ошибка создания листа %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания стиля: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания стиля: %w", err)
	}

	// История
	historyHeader := []any{"Дата", "День", "Тренировка", "Упражнение", "Подход", "Вес, кг", "Сессия"}
	if err := writeHeader(f, SheetHistory, historyHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, o := range data.History {
		row := i + 2
		workout := "—"
		if o.Key.WorkoutNumber > 0 {
			workout = strconv.Itoa(o.Key.WorkoutNumber)
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetHistory, cell, &[]any{
			o.RecordedAt, string(o.Day), workout, o.Key.Exercise, o.Key.SetNumber, o.Weight, o.SessionID,
		}); err != nil {
			return nil, fmt.Errorf("ошибка записи истории: %w", err)
		}
		f.SetCellStyle(SheetHistory, cell, cell, dateStyle)
	}
	f.SetColWidth(SheetHistory, "A", "A", 18)
	f.SetColWidth(SheetHistory, "B", "C", 12)
	f.SetColWidth(SheetHistory, "D", "D", 28)
	f.SetColWidth(SheetHistory, "G", "G", 38)
	if err := finishTable(f, SheetHistory, len(historyHeader), len(data.History)); err != nil {
		return nil, err
	}

	// Статистика
	statsHeader := []any{"Упражнение", "Вес, кг"}
	if err := writeHeader(f, SheetStats, statsHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, s := range data.Stats {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetStats, cell, &[]any{s.Exercise, s.Weight}); err != nil {
			return nil, fmt.Errorf("ошибка записи статистики: %w", err)
		}
	}
	f.SetColWidth(SheetStats, "A", "A", 28)
	if err := finishTable(f, SheetStats, len(statsHeader), len(data.Stats)); err != nil {
		return nil, err
	}

	// Программы
	programsHeader := []any{"Программа", "Тип", "№", "День", "Упражнение", "Подходов", "Повторения"}
	if err := writeHeader(f, SheetPrograms, programsHeader, headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, p := range data.Programs {
		for _, day := range p.Days() {
			for _, e := range p.Entries(day) {
				cell, _ := excelize.CoordinatesToCellName(1, row)
				if err := f.SetSheetRow(SheetPrograms, cell, &[]any{
					p.Name, string(p.Kind), p.Number, string(day), e.ExerciseName, e.SetCount, joinReps(e.Reps),
				}); err != nil {
					return nil, fmt.Errorf("ошибка записи программы: %w", err)
				}
				row++
			}
		}
	}
	f.SetColWidth(SheetPrograms, "A", "A", 24)
	f.SetColWidth(SheetPrograms, "D", "E", 24)
	if err := finishTable(f, SheetPrograms, len(programsHeader), row-2); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения книги: %w", err)
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("ошибка записи заголовка %s: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// finishTable закрепляет заголовок и включает фильтр, если есть данные
func finishTable(f *excelize.File, sheet string, cols, rows int) error {
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("ошибка закрепления заголовка %s: %w", sheet, err)
	}
	if rows == 0 {
		return nil
	}
	last, _ := excelize.CoordinatesToCellName(cols, rows+1)
	if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
		return fmt.Errorf("ошибка фильтра %s: %w", sheet, err)
	}
	return nil
}

func joinReps(reps []int) string {
	parts := make([]string, len(reps))
	for i, n := range reps {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}
