/* standings.go
 * Contains the methods for interacting with the standings collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreStandings replaces the stored standings of the tournament
// Preconditions: Receives a context and the StandingsRecord to store
// Postconditions: Updates the standings collection and returns nil, or an error if it occurs
func (s *Store) StoreStandings(ctx context.Context, standings StandingsRecord) error {
	standings.Tournament = s.Tournament
	if standings.RunID == "" {
		standings.RunID = s.RunID
	}

	filter := bson.D{{Key: "tournament", Value: s.Tournament}}
	update := bson.D{{Key: "$set", Value: standings}}
	_, err := s.Collections.Standings.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("standings update failed: %w", err)
	}
	return nil
}

// FetchStandings returns the stored standings of the tournament. mongo.ErrNoDocuments is returned unwrapped when
// nothing has been stored yet
func (s *Store) FetchStandings(ctx context.Context) (StandingsRecord, error) {
	var res StandingsRecord
	err := s.Collections.Standings.FindOne(ctx, bson.D{{Key: "tournament", Value: s.Tournament}}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, err
		}
		return res, fmt.Errorf("failed to fetch standings from database: %w", err)
	}
	return res, nil
}
