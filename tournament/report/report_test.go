package report

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testOptions = Options{
	Title:         "Test Cup",
	StylesheetURL: "style.xsl?a=1&b=2",
	GameLogExt:    ".rcg",
	TextLogExt:    ".rcl",
}

func testStandings(t *testing.T) *standings.Standings {
	t.Helper()
	at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local)
	outcomes := []results.Outcome{
		{Time: at, LeftName: "Alpha", RightName: "Beta", LeftScore: 2, RightScore: 0},
		{Time: at.Add(10 * time.Minute), LeftName: "Beta", RightName: "Alpha", LeftScore: 1, RightScore: 1,
			LeftPenaltyTaken: 5, RightPenaltyTaken: 5, LeftPenaltyScore: 4, RightPenaltyScore: 3},
	}
	metas := []results.Metadata{
		{TeamL: results.TeamMetadata{TeamDir: "teams/alpha", Country: "NZ", Exception: true}, TeamR: results.TeamMetadata{TeamDir: "teams/beta"}, Scoreboard: true},
		{TeamL: results.TeamMetadata{TeamDir: "teams/beta"}, TeamR: results.TeamMetadata{TeamDir: "teams/alpha"}, Statistics: true},
	}
	s, err := standings.Aggregate(outcomes, metas)
	require.NoError(t, err)
	return s
}

// region xml tests

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, testStandings(t), testOptions))
	out := buf.String()

	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<?xml-stylesheet type="text/xsl" href="style.xsl?a=1&amp;b=2"?>`)

	var doc xmlResults
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "Test Cup", doc.Title)
	assert.Equal(t, "yes", doc.Penalty)
	assert.Equal(t, "yes", doc.Statistics)
	assert.Equal(t, "no", doc.Robocup2flash)
	assert.Equal(t, "yes", doc.Scoreboard.Show)

	require.Len(t, doc.Scoreboard.Scores, 2)
	first := doc.Scoreboard.Scores[0]
	assert.Equal(t, "Alpha", first.Team.Name)
	assert.Equal(t, "NZ", first.Team.Country)
	assert.Equal(t, "teams/alpha", first.Team.Dir)
	assert.Equal(t, 3, first.Points)
	assert.Equal(t, 1, first.Won)
	assert.Equal(t, 1, first.Lost)
	assert.Equal(t, 6, first.GoalsScored)
	assert.Equal(t, "0.50", first.AvgGoalDiff)

	require.Len(t, doc.Matches, 2)
	m := doc.Matches[0]
	assert.Equal(t, "2024-06-01 10:30", m.Time)
	assert.Equal(t, "no", m.Penalty)
	assert.Equal(t, "yes", m.TeamL.Exception)
	assert.Equal(t, "no", m.TeamR.Exception)
	assert.Equal(t, "match_1/team_l-output.log", m.TeamL.Output)
	assert.Equal(t, "match_1/202406011030-Alpha_2-vs-Beta_0.rcg", m.Server.Rcg)
	assert.Equal(t, "match_1/202406011030-Alpha_2-vs-Beta_0.rcl", m.Server.Rcl)
	assert.Equal(t, "no", m.Server.Statistics)

	pen := doc.Matches[1]
	assert.Equal(t, "yes", pen.Penalty)
	assert.Equal(t, 5, pen.TeamL.PenaltyTaken)
	assert.Equal(t, 4, pen.TeamL.PenaltyScore)
	assert.Equal(t, "match_2/statistics.xml", pen.Server.Statistics)
}

func TestWriteXML_Empty(t *testing.T) {
	s, err := standings.Aggregate(nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, s, Options{Title: "Empty"}))

	var doc xmlResults
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "no", doc.Scoreboard.Show)
	assert.Empty(t, doc.Matches)
	assert.NotContains(t, buf.String(), "xml-stylesheet")
}

// endregion

// region text tests

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testStandings(t)))
	out := buf.String()

	assert.Contains(t, out, "Score Board")
	assert.Contains(t, out, "Matches")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "0.50")
	assert.Contains(t, out, "1 : 1 (4 : 3)")
	assert.Contains(t, out, "2 : 0")
}

// endregion

// region xlsx tests

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testStandings(t), testOptions))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{scoreboardSheet, matchesSheet}, f.GetSheetList())

	rows, err := f.GetRows(scoreboardSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, "Alpha", rows[1][1])
	assert.Equal(t, "3", rows[1][5])

	rows, err = f.GetRows(matchesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "yes", rows[2][6])
}

// endregion

// region format dispatch tests

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "pdf", testStandings(t), testOptions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	var stateErr *shared.RuntimeStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xml")
	require.NoError(t, WriteFile(path, "xml", testStandings(t), testOptions))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<results>")
}

// endregion
