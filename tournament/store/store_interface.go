/* store_interface.go
 * Contains the store Interface for dependency injection and testing
 */

package store

import "context"

// Interface defines the methods that Store implements.
// This allows for mocking in tests and for reading results straight from a log directory.
type Interface interface {
	RecordMatch(ctx context.Context, match MatchRecord) error
	FetchMatches(ctx context.Context) ([]MatchRecord, error)
	StoreStandings(ctx context.Context, standings StandingsRecord) error
	FetchStandings(ctx context.Context) (StandingsRecord, error)
	Close(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
