/* models.go
 * This file contain the structs and helper functions that are shared between the tournament sub packages
 */

package shared

import "fmt"

// Side is one of the two competing positions in a match
type Side string

const (
	Left  Side = "l"
	Right Side = "r"
)

// Sides lists both sides in launch order
var Sides = []Side{Left, Right}

// Pairing is a sequence numbered matchup between two teams. Teams are identified by their team directory
type Pairing struct {
	Index int
	Left  string
	Right string
}

// Team returns the team directory playing on the given side
func (p Pairing) Team(side Side) string {
	if side == Left {
		return p.Left
	}
	return p.Right
}

// MatchDirName is the artifact directory name for the match with the given 1-based index
func MatchDirName(index int) string {
	return fmt.Sprintf("match_%d", index)
}

func (p Pairing) String() string {
	return fmt.Sprintf("%s vs %s", p.Left, p.Right)
}
