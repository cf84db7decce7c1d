package report

import (
	"fmt"
	"io"

	"robocup-tournament/tournament/standings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteText writes the scoreboard and match list as two tables
func WriteText(w io.Writer, s *standings.Standings) error {
	if _, err := fmt.Fprintln(w, ScoreboardTable(s)); err != nil {
		return fmt.Errorf("error writing scoreboard: %w", err)
	}
	if _, err := fmt.Fprintln(w, MatchesTable(s)); err != nil {
		return fmt.Errorf("error writing matches: %w", err)
	}
	return nil
}

// ScoreboardTable renders the ranked teams
func ScoreboardTable(s *standings.Standings) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Score Board")
	t.AppendHeader(table.Row{"#", "Name", "Matches", "Points", "Scored", "Received", "Avg Diff", "Avg Scored"})

	for i, team := range s.Teams {
		t.AppendRow(table.Row{
			i + 1,
			team.DisplayName(),
			team.Matches(),
			team.Points(),
			team.GoalsScored,
			team.GoalsReceived,
			formatAvg(team.AvgGoalDiff()),
			formatAvg(team.AvgGoalsScored()),
		})
	}
	return t.Render()
}

// MatchesTable renders the played matches in order
func MatchesTable(s *standings.Standings) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Matches")
	t.AppendHeader(table.Row{"#", "Time", "Left", "Right", "Score"})

	for _, m := range s.Matches {
		t.AppendRow(table.Row{
			m.Index,
			m.Outcome.Time.Format("200601021504"),
			m.Left.DisplayName(),
			m.Right.DisplayName(),
			ScoreLine(m),
		})
	}
	return t.Render()
}

// ScoreLine formats the result of a match as "2 : 1", adding the shootout as "1 : 1 (4 : 3)"
func ScoreLine(m standings.MatchResult) string {
	line := fmt.Sprintf("%d : %d", m.Outcome.LeftScore, m.Outcome.RightScore)
	if m.Penalty() {
		line += fmt.Sprintf(" (%d : %d)", m.Outcome.LeftPenaltyScore, m.Outcome.RightPenaltyScore)
	}
	return line
}
