package shared

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ClosestName finds the candidate that best matches name, ignoring case. An exact match wins, otherwise the
// candidate with the lowest edit distance among those containing name's characters in order
// Preconditions: Receives the name to look up and the valid names
// Postconditions: Returns the matching candidate as spelled in candidates, or false if nothing matches
func ClosestName(name string, candidates []string) (string, bool) {
	lookup := make(map[string]string, len(candidates))
	lowered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if _, ok := lookup[lower]; !ok {
			lookup[lower] = c
			lowered = append(lowered, lower)
		}
	}

	query := strings.ToLower(strings.TrimSpace(name))
	if c, ok := lookup[query]; ok {
		return c, true
	}

	ranks := fuzzy.RankFind(query, lowered)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return lookup[ranks[0].Target], true
}
