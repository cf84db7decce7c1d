/* modes.go
 * The five ways a tournament can pair its teams. Mode is a closed set: only the types in this file implement it
 */

package schedule

import (
	"strings"

	"robocup-tournament/tournament/shared"
)

// Mode selects how Schedule pairs the roster
type Mode interface {
	Name() string
	isMode()
}

// RoundRobin plays every unordered pair of teams once
type RoundRobin struct{}

// RoundRobinPermuted plays every ordered pair of teams once, so each pair meets twice with sides swapped
type RoundRobinPermuted struct{}

// OneVsAll plays the first roster entry against every other entry
type OneVsAll struct{}

// ExplicitList plays the listed pairs in the listed order
type ExplicitList struct {
	Pairs [][2]string
}

// SingleMatch plays the two roster entries against each other once
type SingleMatch struct{}

func (RoundRobin) Name() string         { return "group" }
func (RoundRobinPermuted) Name() string { return "group_perm" }
func (OneVsAll) Name() string           { return "one_vs_all" }
func (ExplicitList) Name() string       { return "matchlist" }
func (SingleMatch) Name() string        { return "single_match" }

func (RoundRobin) isMode()         {}
func (RoundRobinPermuted) isMode() {}
func (OneVsAll) isMode()           {}
func (ExplicitList) isMode()       {}
func (SingleMatch) isMode()        {}

// ParseMode maps a configured mode name onto a Mode. pairs is only read for the match list mode
// Preconditions: Receives the mode name from the configuration and the configured match list
// Postconditions: Returns the Mode, or a ConfigurationError for unknown names and malformed pairs
func ParseMode(name string, pairs [][]string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "group", "round_robin":
		return RoundRobin{}, nil
	case "group_perm", "round_robin_permuted":
		return RoundRobinPermuted{}, nil
	case "one_vs_all":
		return OneVsAll{}, nil
	case "single_match", "single":
		return SingleMatch{}, nil
	case "matchlist", "explicit_list":
		list := ExplicitList{}
		for i, pair := range pairs {
			if len(pair) != 2 {
				return nil, shared.NewConfigurationError("match %d in match list must name exactly two teams", i+1)
			}
			list.Pairs = append(list.Pairs, [2]string{pair[0], pair[1]})
		}
		return list, nil
	default:
		return nil, shared.NewConfigurationError("unknown mode '%s' specified", name)
	}
}
