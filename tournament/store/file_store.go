/* file_store.go
 * Contains FileStore, an Interface that reads results straight from a tournament log directory. Used when no
 * mongo uri is configured
 */

package store

import (
	"context"
	"path/filepath"
	"time"

	"robocup-tournament/tournament/standings"
)

// FileStore answers reads from the files of a log directory. Writes are ignored: the files already are the record
type FileStore struct {
	LogDir string
}

var _ Interface = (*FileStore)(nil)

// NewFileStore creates a FileStore for logDir
func NewFileStore(logDir string) *FileStore {
	return &FileStore{LogDir: logDir}
}

func (f *FileStore) tournament() string {
	return filepath.Base(filepath.Clean(f.LogDir))
}

// RecordMatch is a no-op
func (f *FileStore) RecordMatch(context.Context, MatchRecord) error { return nil }

// StoreStandings is a no-op
func (f *FileStore) StoreStandings(context.Context, StandingsRecord) error { return nil }

// FetchMatches loads every played match from the log directory
func (f *FileStore) FetchMatches(ctx context.Context) ([]MatchRecord, error) {
	s, err := standings.Load(f.LogDir)
	if err != nil {
		return nil, err
	}
	matches := make([]MatchRecord, 0, len(s.Matches))
	for _, m := range s.Matches {
		matches = append(matches, NewMatchRecord(f.tournament(), m.Index, m.Outcome, m.Metadata))
	}
	return matches, nil
}

// FetchStandings aggregates the log directory
func (f *FileStore) FetchStandings(ctx context.Context) (StandingsRecord, error) {
	s, err := standings.Load(f.LogDir)
	if err != nil {
		return StandingsRecord{}, err
	}
	return NewStandingsRecord(f.tournament(), s, time.Now()), nil
}

// Close is a no-op
func (f *FileStore) Close(context.Context) error { return nil }
