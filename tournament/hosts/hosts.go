/* hosts.go
 * Maps a side and agent number to a remote host. The configured host list is split in two equal pools, the first
 * half serves the left team and the second half the right team
 */

package hosts

import (
	"robocup-tournament/tournament/shared"
)

// Allocator places agents on hosts using modulo placement over two disjoint pools
type Allocator struct {
	left  []string
	right []string
}

// NewAllocator splits hosts into the left and right pools
// Preconditions: Receives an even, non-empty host list (checked by config.Validate)
// Postconditions: Returns the Allocator
func NewAllocator(hosts []string) *Allocator {
	half := len(hosts) / 2
	return &Allocator{
		left:  append([]string(nil), hosts[:half]...),
		right: append([]string(nil), hosts[half:]...),
	}
}

// Pool returns every host of the given side
func (a *Allocator) Pool(side shared.Side) []string {
	if side == shared.Left {
		return a.left
	}
	return a.right
}

// Host returns the host agent number index of the given side runs on
func (a *Allocator) Host(side shared.Side, index int) string {
	pool := a.Pool(side)
	if len(pool) == 0 {
		return ""
	}
	i := index % len(pool)
	if i < 0 {
		i += len(pool)
	}
	return pool[i]
}

// All returns both pools, left first
func (a *Allocator) All() []string {
	return append(append([]string(nil), a.left...), a.right...)
}
