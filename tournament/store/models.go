/* models.go
 * This file contain the structs and helper functions that relate to DB objects
 */

package store

import (
	"time"

	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/standings"
)

// MatchRecord is one played match as stored in the matches collection
type MatchRecord struct {
	Tournament        string    `bson:"tournament" json:"tournament"`
	RunID             string    `bson:"run_id,omitempty" json:"run_id,omitempty"`
	Index             int       `bson:"index" json:"index"`
	PlayedAt          time.Time `bson:"played_at" json:"played_at"`
	LeftDir           string    `bson:"left_dir" json:"left_dir"`
	RightDir          string    `bson:"right_dir" json:"right_dir"`
	LeftName          string    `bson:"left_name" json:"left_name"`
	RightName         string    `bson:"right_name" json:"right_name"`
	LeftScore         int       `bson:"left_score" json:"left_score"`
	RightScore        int       `bson:"right_score" json:"right_score"`
	Penalty           bool      `bson:"penalty" json:"penalty"`
	LeftPenaltyScore  int       `bson:"left_penalty_score,omitempty" json:"left_penalty_score,omitempty"`
	RightPenaltyScore int       `bson:"right_penalty_score,omitempty" json:"right_penalty_score,omitempty"`
	Replayed          bool      `bson:"replayed" json:"replayed"`
}

// StandingsRecord is the ranked team list of a tournament as stored in the standings collection
type StandingsRecord struct {
	Tournament string           `bson:"tournament" json:"tournament"`
	RunID      string           `bson:"run_id,omitempty" json:"run_id,omitempty"`
	UpdatedAt  time.Time        `bson:"updated_at" json:"updated_at"`
	Matches    int              `bson:"matches" json:"matches"`
	Teams      []standings.Team `bson:"teams" json:"teams"`
}

// NewMatchRecord builds the record of a match from its outcome and metadata
func NewMatchRecord(tournament string, index int, outcome results.Outcome, meta results.Metadata) MatchRecord {
	rec := MatchRecord{
		Tournament: tournament,
		Index:      index,
		PlayedAt:   outcome.Time,
		LeftDir:    meta.TeamL.TeamDir,
		RightDir:   meta.TeamR.TeamDir,
		LeftName:   outcome.LeftName,
		RightName:  outcome.RightName,
		LeftScore:  outcome.LeftScore,
		RightScore: outcome.RightScore,
		Penalty:    outcome.Penalty(),
	}
	if rec.Penalty {
		rec.LeftPenaltyScore = outcome.LeftPenaltyScore
		rec.RightPenaltyScore = outcome.RightPenaltyScore
	}
	return rec
}

// NewStandingsRecord snapshots s
func NewStandingsRecord(tournament string, s *standings.Standings, now time.Time) StandingsRecord {
	rec := StandingsRecord{
		Tournament: tournament,
		UpdatedAt:  now,
		Matches:    len(s.Matches),
		Teams:      make([]standings.Team, 0, len(s.Teams)),
	}
	for _, team := range s.Teams {
		rec.Teams = append(rec.Teams, *team)
	}
	return rec
}

// Score formats the result as "2 : 1", with the shootout in brackets
func (m MatchRecord) Score() string {
	s := formatScore(m.LeftScore, m.RightScore)
	if m.Penalty {
		s += " (" + formatScore(m.LeftPenaltyScore, m.RightPenaltyScore) + ")"
	}
	return s
}
