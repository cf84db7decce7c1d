package report

import (
	"fmt"
	"io"

	"robocup-tournament/tournament/standings"

	"github.com/xuri/excelize/v2"
)

const (
	scoreboardSheet = "Scoreboard"
	matchesSheet    = "Matches"
)

// WriteXLSX writes a workbook with a Scoreboard and a Matches sheet
func WriteXLSX(w io.Writer, s *standings.Standings, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoreboardSheet); err != nil {
		return fmt.Errorf("error renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	scoreRows := [][]any{{"Rank", "Name", "Country", "Directory", "Matches", "Points", "Won", "Drawn", "Lost",
		"Goals Scored", "Goals Received", "Avg Goal Diff", "Avg Goals Scored"}}
	for i, team := range s.Teams {
		scoreRows = append(scoreRows, []any{
			i + 1, team.DisplayName(), team.Country, team.TeamDir, team.Matches(), team.Points(),
			team.Won, team.Drawn, team.Lost, team.GoalsScored, team.GoalsReceived,
			team.AvgGoalDiff(), team.AvgGoalsScored(),
		})
	}
	if err := writeRows(f, scoreboardSheet, scoreRows); err != nil {
		return err
	}

	matchRows := [][]any{{"Match", "Time", "Left", "Right", "Left Score", "Right Score", "Penalty", "Game Log"}}
	for _, m := range s.Matches {
		matchRows = append(matchRows, []any{
			m.Index, m.Outcome.Time.Format("2006-01-02 15:04"), m.Left.DisplayName(), m.Right.DisplayName(),
			m.Outcome.LeftScore, m.Outcome.RightScore, yesNo(m.Penalty()), m.GameLog(opts.GameLogExt),
		})
	}
	if err := writeRows(f, matchesSheet, matchRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("error resolving cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("error setting %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
