/* store.go
 * Contains the Store struct and NewStore function. The Store mirrors the results of a tournament into MongoDB so
 * that the bot and the web server can follow a tournament from another machine. The methods were split into two
 * files: matches and standings
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Tournament  string
	RunID       string
	Collections struct {
		Matches   *mongo.Collection
		Standings *mongo.Collection
	}
}

// Function for initialising Store. Connects to Mongo and selects the collections
// Preconditions: Receives a context, the database name, the mongo uri, the tournament name and the id of this run
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string, tournament string, runID string) (*Store, error) {
	if tournament == "" {
		return nil, fmt.Errorf("tournament name cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}
	return newStore(client, client.Database(dbName), tournament, runID), nil
}

func newStore(client *mongo.Client, db *mongo.Database, tournament string, runID string) *Store {
	s := &Store{
		Client:     client,
		Database:   db,
		Tournament: tournament,
		RunID:      runID,
	}
	s.Collections.Matches = db.Collection("matches")
	s.Collections.Standings = db.Collection("standings")
	return s
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
