/* schedule.go
 * Produces the ordered list of pairings for a tournament
 */

package schedule

import (
	"fmt"

	"robocup-tournament/tournament/shared"
)

// Schedule pairs the roster according to mode. The returned roster is the input roster plus any team that only
// appears in an explicit match list
// Preconditions: Receives team directories and a Mode
// Postconditions: Returns pairings indexed from 1 in play order and the full roster, or a ConfigurationError
func Schedule(roster []string, mode Mode) ([]shared.Pairing, []string, error) {
	roster = append([]string(nil), roster...)

	var pairs [][2]string
	switch m := mode.(type) {
	case RoundRobin:
		pairs = roundRobin(roster)
	case RoundRobinPermuted:
		pairs = permutations(roster)
	case OneVsAll:
		pairs = oneVsAll(roster)
	case ExplicitList:
		if len(m.Pairs) == 0 {
			return nil, nil, shared.NewConfigurationError("no matches listed")
		}
		pairs = m.Pairs
		roster = extendRoster(roster, m.Pairs)
	case SingleMatch:
		if len(roster) != 2 {
			return nil, nil, shared.NewConfigurationError("wrong team count (single match needs 2 teams, got %d)", len(roster))
		}
		pairs = [][2]string{{roster[0], roster[1]}}
	default:
		return nil, nil, fmt.Errorf("unsupported mode %T", mode)
	}

	pairings := make([]shared.Pairing, 0, len(pairs))
	for i, pair := range pairs {
		pairings = append(pairings, shared.Pairing{Index: i + 1, Left: pair[0], Right: pair[1]})
	}
	return pairings, roster, nil
}

// roundRobin walks a static cursor over the roster in order and a second cursor over a copy that is rotated left
// by one every time it refills. Block k of the output pairs seat i with seat i+k, which covers every unordered pair
// exactly once for any roster of two or more teams
func roundRobin(roster []string) [][2]string {
	n := len(roster)
	total := n * (n - 1) / 2

	left := newCursor(roster, false)
	right := newCursor(roster, true)

	pairs := make([][2]string, 0, total)
	for len(pairs) < total {
		pairs = append(pairs, [2]string{left.next(), right.next()})
	}
	return pairs
}

// permutations yields every ordered pair of distinct teams
func permutations(roster []string) [][2]string {
	var pairs [][2]string
	permute(roster, 2, func(p []string) {
		pairs = append(pairs, [2]string{p[0], p[1]})
	})
	return pairs
}

// permute generates the size-n permutations of items: first every way of inserting the head into the
// permutations of the tail, then the permutations of the tail alone
func permute(items []string, n int, yield func([]string)) {
	if len(items) < n || n < 0 {
		return
	}
	if n == 0 {
		yield(nil)
		return
	}

	head, tail := items[0], items[1:]
	permute(tail, n-1, func(p []string) {
		for i := 0; i < n; i++ {
			out := make([]string, 0, n)
			out = append(out, p[:i]...)
			out = append(out, head)
			out = append(out, p[i:]...)
			yield(out)
		}
	})
	permute(tail, n, yield)
}

func oneVsAll(roster []string) [][2]string {
	if len(roster) == 0 {
		return nil
	}
	pairs := make([][2]string, 0, len(roster)-1)
	for _, opponent := range roster[1:] {
		pairs = append(pairs, [2]string{roster[0], opponent})
	}
	return pairs
}

func extendRoster(roster []string, pairs [][2]string) []string {
	seen := make(map[string]bool, len(roster))
	for _, team := range roster {
		seen[team] = true
	}
	for _, pair := range pairs {
		for _, team := range pair {
			if !seen[team] {
				seen[team] = true
				roster = append(roster, team)
			}
		}
	}
	return roster
}
