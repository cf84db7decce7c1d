package standings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchTime = time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local)

func meta(left, right string) results.Metadata {
	return results.Metadata{
		TeamL:      results.TeamMetadata{TeamDir: left, Country: "C-" + left},
		TeamR:      results.TeamMetadata{TeamDir: right},
		Scoreboard: true,
	}
}

func outcome(left, right string, ls, rs int) results.Outcome {
	return results.Outcome{Time: matchTime, LeftName: left, RightName: right, LeftScore: ls, RightScore: rs}
}

// region Aggregate tests

func TestAggregate_PointsAndRecords(t *testing.T) {
	outcomes := []results.Outcome{
		outcome("A", "B", 2, 0),
		outcome("B", "C", 1, 1),
		outcome("C", "A", 3, 1),
	}
	metas := []results.Metadata{meta("a", "b"), meta("b", "c"), meta("c", "a")}

	s, err := Aggregate(outcomes, metas)
	require.NoError(t, err)
	require.Len(t, s.Teams, 3)
	require.Len(t, s.Matches, 3)

	a, b, c := s.Team("a"), s.Team("b"), s.Team("c")
	assert.Equal(t, 3, a.Points())
	assert.Equal(t, 1, b.Points())
	assert.Equal(t, 4, c.Points())
	assert.Equal(t, 3, a.GoalsScored)
	assert.Equal(t, 3, a.GoalsReceived)
	assert.Equal(t, "C-a", a.Country)

	assert.Equal(t, "c", s.Teams[0].TeamDir)
	assert.Equal(t, "a", s.Teams[1].TeamDir)
	assert.Equal(t, "b", s.Teams[2].TeamDir)
	assert.Equal(t, 1, s.Rank("c"))
	assert.Equal(t, 0, s.Rank("zzz"))
}

func TestAggregate_TieBreaks(t *testing.T) {
	s := &Standings{Teams: []*Team{
		{TeamDir: "z", Won: 1, GoalsScored: 3, GoalsReceived: 2},
		{TeamDir: "x", Won: 2, GoalsScored: 4, GoalsReceived: 2},
		{TeamDir: "y", Won: 2, GoalsScored: 7, GoalsReceived: 2},
	}}
	s.rank()

	assert.Equal(t, "y", s.Teams[0].TeamDir)
	assert.Equal(t, "x", s.Teams[1].TeamDir)
	assert.Equal(t, "z", s.Teams[2].TeamDir)
}

func TestAggregate_GoalsScoredBreaksEqualDifference(t *testing.T) {
	s := &Standings{Teams: []*Team{
		{TeamDir: "low", Drawn: 1, GoalsScored: 1, GoalsReceived: 1},
		{TeamDir: "high", Drawn: 1, GoalsScored: 3, GoalsReceived: 3},
	}}
	s.rank()
	assert.Equal(t, "high", s.Teams[0].TeamDir)
}

func TestAggregate_FullTieKeepsEncounterOrder(t *testing.T) {
	outcomes := []results.Outcome{
		outcome("C", "Y", 1, 1),
		outcome("B", "C", 1, 1),
	}
	metas := []results.Metadata{meta("c", "y"), meta("b", "c")}

	s, err := Aggregate(outcomes, metas)
	require.NoError(t, err)
	require.Len(t, s.Teams, 3)

	assert.Equal(t, "c", s.Teams[0].TeamDir)
	assert.Equal(t, "y", s.Teams[1].TeamDir)
	assert.Equal(t, "b", s.Teams[2].TeamDir)
	assert.Equal(t, s.Teams[1].Points(), s.Teams[2].Points())
	assert.Equal(t, s.Teams[1].GoalsScored, s.Teams[2].GoalsScored)
}

func TestAggregate_PenaltyShootout(t *testing.T) {
	o := outcome("A", "B", 1, 1)
	o.LeftPenaltyTaken, o.RightPenaltyTaken = 5, 5
	o.LeftPenaltyScore, o.RightPenaltyScore = 4, 3

	s, err := Aggregate([]results.Outcome{o}, []results.Metadata{meta("a", "b")})
	require.NoError(t, err)

	a, b := s.Team("a"), s.Team("b")
	assert.Equal(t, 1, a.Won)
	assert.Equal(t, 1, b.Lost)
	assert.Equal(t, 5, a.GoalsScored)
	assert.Equal(t, 4, a.GoalsReceived)
	assert.Equal(t, 4, b.GoalsScored)
	assert.True(t, s.Penalty())
}

func TestAggregate_ZeroMatchAverages(t *testing.T) {
	team := &Team{Name: "A"}
	assert.Equal(t, 0.0, team.AvgGoalDiff())
	assert.Equal(t, 0.0, team.AvgGoalsScored())

	team.record(3, 1)
	team.record(0, 0)
	assert.Equal(t, 1.0, team.AvgGoalDiff())
	assert.Equal(t, 1.5, team.AvgGoalsScored())
}

func TestAggregate_FirstEncounterFixesIdentity(t *testing.T) {
	outcomes := []results.Outcome{outcome("Alpha", "B", 1, 0), outcome("Renamed", "B", 1, 0)}
	metas := []results.Metadata{meta("a", "b"), meta("a", "b")}

	s, err := Aggregate(outcomes, metas)
	require.NoError(t, err)
	require.Len(t, s.Teams, 2)
	assert.Equal(t, "Alpha", s.Team("a").Name)
	assert.Equal(t, 2, s.Team("a").Won)
}

func TestAggregate_MissingMetadata(t *testing.T) {
	_, err := Aggregate([]results.Outcome{outcome("A", "B", 0, 0)}, nil)
	var rtErr *shared.RuntimeStateError
	assert.ErrorAs(t, err, &rtErr)
}

func TestAggregate_Flags(t *testing.T) {
	m := meta("a", "b")
	m.Statistics = true
	s, err := Aggregate([]results.Outcome{outcome("A", "B", 0, 0)}, []results.Metadata{m})
	require.NoError(t, err)

	assert.True(t, s.Statistics())
	assert.True(t, s.Scoreboard())
	assert.False(t, s.Robocup2flash())
	assert.False(t, s.Penalty())

	empty, err := Aggregate(nil, nil)
	require.NoError(t, err)
	assert.False(t, empty.Scoreboard())
	assert.Empty(t, empty.Teams)
}

// endregion

// region MatchResult tests

func TestMatchResult_Paths(t *testing.T) {
	o := outcome("Alpha", "Beta", 2, 1)
	o.LeftCoach = "Coach"
	m := results.Metadata{TeamL: results.TeamMetadata{TeamDir: "a", Exception: true}, TeamR: results.TeamMetadata{TeamDir: "b"}}

	s, err := Aggregate([]results.Outcome{o}, []results.Metadata{m})
	require.NoError(t, err)
	match := s.Matches[0]

	assert.Equal(t, "match_1/202406011030-Alpha_Coach_2-vs-Beta_1", match.GamelogName())
	assert.Equal(t, "match_1/202406011030-Alpha_Coach_2-vs-Beta_1.rcg", match.GameLog(".rcg"))
	assert.Equal(t, "match_1/match_1.swf", match.Flash())
	assert.Equal(t, "match_1/team_l-output.log", match.OutputLog("team_l"))
	assert.Equal(t, "match_1/server-error.log", match.ErrorLog("server"))
	assert.Equal(t, "no", match.StatisticsFile())
	assert.True(t, match.Exception(shared.Left))
	assert.False(t, match.Exception(shared.Right))
}

func TestMatchResult_GamelogWithPenaltiesAndNullName(t *testing.T) {
	o := outcome("", "Beta", 0, 0)
	o.LeftPenaltyTaken, o.RightPenaltyTaken = 3, 3
	o.RightPenaltyScore = 2
	m := results.Metadata{TeamL: results.TeamMetadata{TeamDir: "a"}, TeamR: results.TeamMetadata{TeamDir: "b"}, Statistics: true}

	s, err := Aggregate([]results.Outcome{o}, []results.Metadata{m})
	require.NoError(t, err)

	assert.Equal(t, "match_1/202406011030-null-vs-Beta_0_2", s.Matches[0].GamelogName())
	assert.Equal(t, "match_1/statistics.xml", s.Matches[0].StatisticsFile())
}

// endregion

// region Load tests

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	log := results.NewLog(dir)
	require.NoError(t, log.WriteHeader(results.Header))
	require.NoError(t, log.Append(results.Encode(outcome("A", "B", 1, 0))))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "match_1"), 0o755))
	require.NoError(t, results.WriteMetadata(results.MetadataPath(dir, 1), meta("a", "b")))

	s, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, s.Teams, 2)
	assert.Equal(t, "a", s.Teams[0].TeamDir)
	assert.Equal(t, 3, s.Teams[0].Points())
}

func TestLoad_MissingResults(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	var rtErr *shared.RuntimeStateError
	assert.ErrorAs(t, err, &rtErr)
	assert.Contains(t, err.Error(), "results file not written by server")
}

func TestLoad_MissingMetadata(t *testing.T) {
	dir := t.TempDir()
	log := results.NewLog(dir)
	require.NoError(t, log.WriteHeader(results.Header))
	require.NoError(t, log.Append(results.Encode(outcome("A", "B", 1, 0))))

	_, err := Load(dir)
	var rtErr *shared.RuntimeStateError
	assert.ErrorAs(t, err, &rtErr)
}

// endregion

func TestTeam_DisplayName(t *testing.T) {
	assert.Equal(t, "Alpha", (&Team{Name: "Alpha", TeamDir: "teams/alpha"}).DisplayName())
	assert.Equal(t, "alpha", (&Team{TeamDir: "teams/alpha"}).DisplayName())
}
