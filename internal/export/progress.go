// Package export writes a user's progress history to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	ProgressSheet = "Progress"
	SummarySheet  = "Summary"
)

var progressHeaders = []string{"Completed", "Workout", "Type", "Difficulty", "Minutes", "Rating", "Notes"}

// WriteProgress renders entries, newest first as listed, and their summary.
// Times are shown in loc.
func WriteProgress(w io.Writer, entries []models.ProgressEntry, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ProgressSheet)
	if err != nil {
		return fmt.Errorf("Failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("Failed to create header style: %w", err)
	}

	for i, h := range progressHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ProgressSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(progressHeaders), 1)
	f.SetCellStyle(ProgressSheet, "A1", last, header)

	for i, e := range entries {
		row := []any{
			e.CompletedAt.In(loc).Format("2006-01-02 15:04"),
			e.PlanName,
			e.WorkoutType,
			e.Difficulty,
			e.Duration,
			e.Rating,
			e.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ProgressSheet, cell, &row); err != nil {
			return fmt.Errorf("Failed to write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(ProgressSheet, "A", "A", 18)
	f.SetColWidth(ProgressSheet, "B", "B", 30)
	f.SetColWidth(ProgressSheet, "C", "D", 15)
	f.SetColWidth(ProgressSheet, "G", "G", 40)

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("Failed to create sheet: %w", err)
	}
	summary := models.Summarize(entries)
	rows := [][]any{
		{"Total workouts", summary.TotalWorkouts},
		{"Total minutes", summary.TotalMinutes},
		{"Average rating", summary.AverageRating},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return fmt.Errorf("Failed to write summary: %w", err)
		}
	}
	f.SetCellStyle(SummarySheet, "A1", "A3", header)
	f.SetColWidth(SummarySheet, "A", "A", 18)

	f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("Failed to write workbook: %w", err)
	}
	return nil
}

// SaveProgress writes the workbook to path, creating parent directories.
func SaveProgress(path string, entries []models.ProgressEntry, loc *time.Location) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("Failed to create export directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Failed to create %s: %w", path, err)
	}
	if err := WriteProgress(out, entries, loc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
