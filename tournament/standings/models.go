/* models.go
 * Contains the team records and per match results that standings are built from
 */

package standings

import (
	"fmt"
	"path/filepath"

	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"
)

const (
	WinPoints  = 3
	DrawPoints = 1
	LossPoints = 0
)

// Team is the accumulated record of one team. Teams are identified by their directory
type Team struct {
	Name          string `json:"name" bson:"name"`
	Coach         string `json:"coach,omitempty" bson:"coach,omitempty"`
	Country       string `json:"country,omitempty" bson:"country,omitempty"`
	TeamDir       string `json:"team_dir" bson:"team_dir"`
	Won           int    `json:"won" bson:"won"`
	Drawn         int    `json:"drawn" bson:"drawn"`
	Lost          int    `json:"lost" bson:"lost"`
	GoalsScored   int    `json:"goals_scored" bson:"goals_scored"`
	GoalsReceived int    `json:"goals_received" bson:"goals_received"`
}

func (t *Team) Matches() int {
	return t.Won + t.Drawn + t.Lost
}

func (t *Team) Points() int {
	return t.Won*WinPoints + t.Drawn*DrawPoints + t.Lost*LossPoints
}

func (t *Team) GoalDiff() int {
	return t.GoalsScored - t.GoalsReceived
}

// AvgGoalDiff is the goal difference per match, 0 before the first match
func (t *Team) AvgGoalDiff() float64 {
	if t.Matches() == 0 {
		return 0.0
	}
	return float64(t.GoalDiff()) / float64(t.Matches())
}

// AvgGoalsScored is the number of goals scored per match, 0 before the first match
func (t *Team) AvgGoalsScored() float64 {
	if t.Matches() == 0 {
		return 0.0
	}
	return float64(t.GoalsScored) / float64(t.Matches())
}

// DisplayName is the recorded name, or the directory name when the server recorded none
func (t *Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return filepath.Base(t.TeamDir)
}

// NameWithCoach joins name and coach with an underscore, or returns the name alone if there is no coach
func (t *Team) NameWithCoach() string {
	if t.Coach == "" {
		return t.Name
	}
	return t.Name + "_" + t.Coach
}

// record folds one match into the team's record
func (t *Team) record(scored, received int) {
	switch {
	case scored > received:
		t.Won++
	case scored < received:
		t.Lost++
	default:
		t.Drawn++
	}
	t.GoalsScored += scored
	t.GoalsReceived += received
}

// ranksAbove orders by points, then goal difference, then goals scored, all descending
func (t *Team) ranksAbove(other *Team) bool {
	if t.Points() != other.Points() {
		return t.Points() > other.Points()
	}
	if t.GoalDiff() != other.GoalDiff() {
		return t.GoalDiff() > other.GoalDiff()
	}
	return t.GoalsScored > other.GoalsScored
}

// MatchResult is one played match with the teams it was credited to
type MatchResult struct {
	Index    int
	Left     *Team
	Right    *Team
	Outcome  results.Outcome
	Metadata results.Metadata
}

// Team returns the team that played on side
func (m MatchResult) Team(side shared.Side) *Team {
	if side == shared.Left {
		return m.Left
	}
	return m.Right
}

// Dir is the match directory relative to the log directory
func (m MatchResult) Dir() string {
	return shared.MatchDirName(m.Index)
}

func (m MatchResult) Penalty() bool {
	return m.Outcome.Penalty()
}

// GamelogName is the base name, relative to the log directory, under which the server stored the game logs:
// <YYYYmmddHHMM>-<name[_coach]>_<score>[_<penalty score>]-vs-<same for the right team>
func (m MatchResult) GamelogName() string {
	return filepath.Join(m.Dir(), fmt.Sprintf("%s-%s-vs-%s",
		m.Outcome.Time.Format("200601021504"), m.teamScore(shared.Left), m.teamScore(shared.Right)))
}

func (m MatchResult) teamScore(side shared.Side) string {
	team := m.Team(side)
	if team.Name == "" {
		return "null"
	}
	s := fmt.Sprintf("%s_%d", team.NameWithCoach(), m.Outcome.Score(side))
	if m.Penalty() {
		s += fmt.Sprintf("_%d", m.Outcome.PenaltyScore(side))
	}
	return s
}

// GameLog is the path of the binary game log
func (m MatchResult) GameLog(ext string) string {
	return m.GamelogName() + ext
}

// TextLog is the path of the text log
func (m MatchResult) TextLog(ext string) string {
	return m.GamelogName() + ext
}

// Flash is the path of the converted visualisation
func (m MatchResult) Flash() string {
	return filepath.Join(m.Dir(), fmt.Sprintf("match_%d.swf", m.Index))
}

// OutputLog returns the stdout log of a process in the match directory, name is team_l, team_r or server
func (m MatchResult) OutputLog(name string) string {
	return filepath.Join(m.Dir(), name+"-output.log")
}

// ErrorLog returns the stderr log of a process in the match directory
func (m MatchResult) ErrorLog(name string) string {
	return filepath.Join(m.Dir(), name+"-error.log")
}

// StatisticsFile returns the statistics document path, or "no" when statistics were not generated
func (m MatchResult) StatisticsFile() string {
	if !m.Metadata.Statistics {
		return "no"
	}
	return filepath.Join(m.Dir(), "statistics.xml")
}

// Exception reports whether an exception was found in the error log of side
func (m MatchResult) Exception(side shared.Side) bool {
	return m.Metadata.Team(side).Exception
}
