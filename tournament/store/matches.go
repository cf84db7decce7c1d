/* matches.go
 * Contains the methods for interacting with the matches collection
 */

package store

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordMatch inserts the match or replaces an earlier record with the same index, which happens when a resumed
// tournament replays its results
// Preconditions: Receives a context and the MatchRecord to store
// Postconditions: The record is stored, or an error is returned
func (s *Store) RecordMatch(ctx context.Context, match MatchRecord) error {
	match.Tournament = s.Tournament
	if match.RunID == "" {
		match.RunID = s.RunID
	}

	filter := bson.D{{Key: "tournament", Value: s.Tournament}, {Key: "index", Value: match.Index}}
	_, err := s.Collections.Matches.ReplaceOne(ctx, filter, match, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("match %d upsert failed: %w", match.Index, err)
	}
	return nil
}

// FetchMatches returns every stored match of the tournament ordered by index
func (s *Store) FetchMatches(ctx context.Context) ([]MatchRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	cursor, err := s.Collections.Matches.Find(ctx, bson.D{{Key: "tournament", Value: s.Tournament}}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching matches from db: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []MatchRecord
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("error decoding matches: %w", err)
	}
	return matches, nil
}

func formatScore(left, right int) string {
	return strconv.Itoa(left) + " : " + strconv.Itoa(right)
}
