/* standings.go
 * Turns the outcome stream and the per match metadata into ranked standings. Standings are always rebuilt from
 * the files, never updated in place
 */

package standings

import (
	"errors"
	"io/fs"
	"sort"

	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"
)

// Standings is the ranked view of a tournament
type Standings struct {
	// Teams in rank order
	Teams   []*Team
	Matches []MatchResult
}

// Aggregate credits every outcome to the teams named in its metadata and ranks them
// Preconditions: metas[i] is the metadata of outcomes[i]
// Postconditions: Returns ranked Standings, or a RuntimeStateError when metadata is missing
func Aggregate(outcomes []results.Outcome, metas []results.Metadata) (*Standings, error) {
	if len(metas) < len(outcomes) {
		return nil, shared.NewRuntimeStateError(nil, "missing metadata for match %d", len(metas)+1)
	}

	s := &Standings{}
	byDir := make(map[string]*Team)
	find := func(name, coach string, meta results.TeamMetadata) *Team {
		if team, ok := byDir[meta.TeamDir]; ok {
			return team
		}
		team := &Team{Name: name, Coach: coach, Country: meta.Country, TeamDir: meta.TeamDir}
		byDir[meta.TeamDir] = team
		s.Teams = append(s.Teams, team)
		return team
	}

	for i, outcome := range outcomes {
		meta := metas[i]
		left := find(outcome.LeftName, outcome.LeftCoach, meta.TeamL)
		right := find(outcome.RightName, outcome.RightCoach, meta.TeamR)

		// under a shootout the converted penalties count as goals for both the result and the tallies
		leftGoals, rightGoals := outcome.Goals(shared.Left), outcome.Goals(shared.Right)
		left.record(leftGoals, rightGoals)
		right.record(rightGoals, leftGoals)

		s.Matches = append(s.Matches, MatchResult{
			Index:    i + 1,
			Left:     left,
			Right:    right,
			Outcome:  outcome,
			Metadata: meta,
		})
	}

	s.rank()
	return s, nil
}

// Load reads results.log and every match.yml below logDir and aggregates them
// Preconditions: Receives the log directory of a tournament
// Postconditions: Returns the Standings, or a RuntimeStateError if the server never wrote results.log or a
// match.yml is missing
func Load(logDir string) (*Standings, error) {
	log := results.NewLog(logDir)
	outcomes, err := log.Outcomes()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.NewRuntimeStateError(nil, "results file not written by server: %s", log.Path())
	}
	if err != nil {
		return nil, err
	}

	metas := make([]results.Metadata, 0, len(outcomes))
	for i := range outcomes {
		meta, err := results.ReadMetadata(results.MetadataPath(logDir, i+1))
		if err != nil {
			return nil, shared.NewRuntimeStateError(err, "cannot load metadata of match %d", i+1)
		}
		metas = append(metas, meta)
	}
	return Aggregate(outcomes, metas)
}

func (s *Standings) rank() {
	sort.SliceStable(s.Teams, func(i, j int) bool {
		return s.Teams[i].ranksAbove(s.Teams[j])
	})
}

// Team returns the team with the given directory, or nil
func (s *Standings) Team(teamDir string) *Team {
	for _, team := range s.Teams {
		if team.TeamDir == teamDir {
			return team
		}
	}
	return nil
}

// Rank returns the 1-based position of the team with the given directory, 0 if it has not played
func (s *Standings) Rank(teamDir string) int {
	for i, team := range s.Teams {
		if team.TeamDir == teamDir {
			return i + 1
		}
	}
	return 0
}

// Penalty reports whether any match went to a shootout
func (s *Standings) Penalty() bool {
	return s.any(func(m MatchResult) bool { return m.Penalty() })
}

// Statistics reports whether any match produced statistics
func (s *Standings) Statistics() bool {
	return s.any(func(m MatchResult) bool { return m.Metadata.Statistics })
}

// Robocup2flash reports whether any match was converted for the visualiser
func (s *Standings) Robocup2flash() bool {
	return s.any(func(m MatchResult) bool { return m.Metadata.Robocup2flash })
}

// Scoreboard reports whether any match asked for the scoreboard to be shown
func (s *Standings) Scoreboard() bool {
	return s.any(func(m MatchResult) bool { return m.Metadata.Scoreboard })
}

func (s *Standings) any(pred func(MatchResult) bool) bool {
	for _, m := range s.Matches {
		if pred(m) {
			return true
		}
	}
	return false
}
