/* listeners.go
 * Listeners are told about every consumed pairing. They mirror progress to metrics, the results store and chat,
 * and never fail the tournament
 */

package engine

import (
	"context"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/metrics"
	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"
	"robocup-tournament/tournament/store"
)

// MatchEvent describes one consumed pairing
type MatchEvent struct {
	Pairing  shared.Pairing
	Result   Result
	Duration time.Duration
	// Standings after the match, nil for simulated matches
	Standings *standings.Standings
}

// latest returns the standings entry of the match just recorded
func (ev MatchEvent) latest() (standings.MatchResult, bool) {
	if ev.Standings == nil || len(ev.Standings.Matches) == 0 {
		return standings.MatchResult{}, false
	}
	return ev.Standings.Matches[len(ev.Standings.Matches)-1], true
}

// Listener receives tournament progress
type Listener interface {
	TournamentStarted(ctx context.Context, pairings []shared.Pairing)
	MatchFinished(ctx context.Context, ev MatchEvent)
	TournamentFinished(ctx context.Context, s *standings.Standings)
}

// MetricsListener updates the Prometheus collectors and, if a path is set, the node exporter textfile
type MetricsListener struct {
	metrics  *metrics.Metrics
	textfile string
	logger   logger.Logger
}

func NewMetricsListener(m *metrics.Metrics, textfile string, log logger.Logger) *MetricsListener {
	return &MetricsListener{metrics: m, textfile: textfile, logger: log}
}

func (l *MetricsListener) TournamentStarted(_ context.Context, pairings []shared.Pairing) {
	l.metrics.SetScheduled(len(pairings))
	l.write()
}

func (l *MetricsListener) MatchFinished(_ context.Context, ev MatchEvent) {
	l.metrics.MatchFinished(ev.Result.String(), ev.Duration)
	if ev.Standings != nil {
		l.metrics.SetPoints(TeamPoints(ev.Standings))
	}
	l.write()
}

func (l *MetricsListener) TournamentFinished(context.Context, *standings.Standings) {
	l.write()
}

func (l *MetricsListener) write() {
	if l.textfile == "" {
		return
	}
	if err := l.metrics.WriteTextfile(l.textfile); err != nil {
		l.logger.Warn("Failed to write metrics textfile", logger.Error(err))
	}
}

// TeamPoints maps every team directory to its points. Directories are unique where display names are not
func TeamPoints(s *standings.Standings) map[string]int {
	out := make(map[string]int, len(s.Teams))
	for _, team := range s.Teams {
		out[team.TeamDir] = team.Points()
	}
	return out
}

// StoreListener mirrors every result and the standings after it into a store
type StoreListener struct {
	store      store.Interface
	tournament string
	runID      string
	logger     logger.Logger
	now        func() time.Time
}

func NewStoreListener(st store.Interface, tournament, runID string, log logger.Logger) *StoreListener {
	return &StoreListener{store: st, tournament: tournament, runID: runID, logger: log, now: time.Now}
}

func (l *StoreListener) TournamentStarted(context.Context, []shared.Pairing) {}

func (l *StoreListener) MatchFinished(ctx context.Context, ev MatchEvent) {
	if _, ok := ev.latest(); !ok {
		return
	}
	if err := l.store.RecordMatch(ctx, matchRecord(ev, l.tournament, l.runID)); err != nil {
		l.logger.Warn("Failed to store match", logger.Int("match", ev.Pairing.Index), logger.Error(err))
	}
	l.storeStandings(ctx, ev.Standings)
}

func (l *StoreListener) TournamentFinished(ctx context.Context, s *standings.Standings) {
	if s != nil {
		l.storeStandings(ctx, s)
	}
}

func (l *StoreListener) storeStandings(ctx context.Context, s *standings.Standings) {
	rec := store.NewStandingsRecord(l.tournament, s, l.now())
	rec.RunID = l.runID
	if err := l.store.StoreStandings(ctx, rec); err != nil {
		l.logger.Warn("Failed to store standings", logger.Error(err))
	}
}

// Announcer posts results somewhere people read them, *bot.Notifier implements it
type Announcer interface {
	MatchFinished(match store.MatchRecord, s *standings.Standings)
	TournamentFinished(s *standings.Standings)
}

// AnnounceListener announces played matches. Replayed matches were announced by the interrupted run
type AnnounceListener struct {
	announcer  Announcer
	tournament string
	runID      string
}

func NewAnnounceListener(a Announcer, tournament, runID string) *AnnounceListener {
	return &AnnounceListener{announcer: a, tournament: tournament, runID: runID}
}

func (l *AnnounceListener) TournamentStarted(context.Context, []shared.Pairing) {}

func (l *AnnounceListener) MatchFinished(_ context.Context, ev MatchEvent) {
	if ev.Result != Played {
		return
	}
	if _, ok := ev.latest(); !ok {
		return
	}
	l.announcer.MatchFinished(matchRecord(ev, l.tournament, l.runID), ev.Standings)
}

func (l *AnnounceListener) TournamentFinished(_ context.Context, s *standings.Standings) {
	if s != nil {
		l.announcer.TournamentFinished(s)
	}
}

func matchRecord(ev MatchEvent, tournament, runID string) store.MatchRecord {
	m, _ := ev.latest()
	rec := store.NewMatchRecord(tournament, m.Index, m.Outcome, m.Metadata)
	rec.RunID = runID
	rec.Replayed = ev.Result == Replayed
	return rec
}
