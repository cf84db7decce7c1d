/* mock_store.go
 * Contains a mock Interface implementation for testing the packages that write to or read from the store
 */

package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store Interface in memory
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Matches   map[int]MatchRecord
	Standings *StandingsRecord

	// Error injection for testing error paths
	RecordMatchError    error
	FetchMatchesError   error
	StoreStandingsError error
	FetchStandingsError error

	Closed bool
}

var _ Interface = (*MockStore)(nil)

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{Matches: make(map[int]MatchRecord)}
}

// RecordMatch mock implementation
func (m *MockStore) RecordMatch(_ context.Context, match MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordMatchError != nil {
		return m.RecordMatchError
	}
	m.Matches[match.Index] = match
	return nil
}

// FetchMatches mock implementation
func (m *MockStore) FetchMatches(context.Context) ([]MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchMatchesError != nil {
		return nil, m.FetchMatchesError
	}
	matches := make([]MatchRecord, 0, len(m.Matches))
	for _, match := range m.Matches {
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })
	return matches, nil
}

// StoreStandings mock implementation
func (m *MockStore) StoreStandings(_ context.Context, standings StandingsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreStandingsError != nil {
		return m.StoreStandingsError
	}
	m.Standings = &standings
	return nil
}

// FetchStandings mock implementation
func (m *MockStore) FetchStandings(context.Context) (StandingsRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchStandingsError != nil {
		return StandingsRecord{}, m.FetchStandingsError
	}
	if m.Standings == nil {
		return StandingsRecord{}, mongo.ErrNoDocuments
	}
	return *m.Standings, nil
}

// Close mock implementation
func (m *MockStore) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
