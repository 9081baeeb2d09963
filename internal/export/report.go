package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/learnsphere/assessment-client/internal/models"
	"github.com/learnsphere/assessment-client/internal/session"
)

const reportSheet = "Attempt Report"

// BuildAttemptReport renders a submitted session into an xlsx workbook the
// learner can download: a summary block with the graded result and one row
// per question with its answered state. The session must be submitted;
// in-progress sessions have nothing reportable yet.
func BuildAttemptReport(state *session.State) (*excelize.File, error) {
	if state == nil || state.Result == nil || state.Submission != session.Submitted {
		return nil, fmt.Errorf("attempt report requires a submitted session")
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	result := state.Result

	summary := [][]any{
		{"Assessment", state.Title},
		{"Attempt ID", result.ID},
		{"Score", fmt.Sprintf("%.2f%%", result.ScorePercentage)},
		{"Points", fmt.Sprintf("%d / %d", result.PointsEarned, result.PointsPossible)},
		{"Passed", result.Passed},
		{"Time Taken (seconds)", result.TimeTaken},
		{"Questions Answered", fmt.Sprintf("%d / %d", state.AnsweredCount(), state.TotalQuestions)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	headerRow := len(summary) + 2
	header := []any{"#", "Question ID", "Type", "Points", "Answered"}
	cell, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reportSheet, cell, &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, q := range state.Questions {
		row := []any{i + 1, q.QuestionID, string(q.Type), q.Points, answeredLabel(q.Answered)}
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write question row: %w", err)
		}
	}

	if feedback := result.Feedback; feedback != nil && *feedback != "" {
		feedbackRow := headerRow + len(state.Questions) + 2
		cell, err := excelize.CoordinatesToCellName(1, feedbackRow)
		if err != nil {
			return nil, err
		}
		row := []any{"Feedback", *feedback}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write feedback row: %w", err)
		}
	}

	return f, nil
}

// ReportFilename returns the download filename for an attempt report.
func ReportFilename(result *models.AttemptResult) string {
	return fmt.Sprintf("attempt-%s.xlsx", result.ID)
}

func answeredLabel(answered bool) string {
	if answered {
		return "yes"
	}
	return "no"
}
