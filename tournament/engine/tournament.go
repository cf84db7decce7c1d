/* tournament.go
 * Tournament drives a whole competition: schedule the roster, hand every pairing to the runner in order,
 * rebuild the standings after each match and tell the listeners
 */

package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/match"
	"robocup-tournament/tournament/schedule"
	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"
)

// Tournament is one run of a competition. It owns the match counter
type Tournament struct {
	roster    []string
	mode      schedule.Mode
	logDir    string
	runner    PairingRunner
	lifecycle Lifecycle
	logger    logger.Logger

	maxMatches int
	matchSleep time.Duration
	sleep      match.SleepFunc
	listeners  []Listener

	counter    int
	lastResult Result
	standings  *standings.Standings
}

// Option customises a Tournament
type Option func(*Tournament)

// WithMaxMatches stops the tournament after n pairings, n < 0 for no limit
func WithMaxMatches(n int) Option {
	return func(t *Tournament) { t.maxMatches = n }
}

// WithMatchSleep pauses between two played matches
func WithMatchSleep(d time.Duration) Option {
	return func(t *Tournament) { t.matchSleep = d }
}

// WithSleep replaces the pause between matches
func WithSleep(sleep match.SleepFunc) Option {
	return func(t *Tournament) { t.sleep = sleep }
}

// WithListener adds a listener
func WithListener(l Listener) Option {
	return func(t *Tournament) { t.listeners = append(t.listeners, l) }
}

// New creates a Tournament over roster
func New(roster []string, mode schedule.Mode, logDir string, runner PairingRunner, lifecycle Lifecycle, log logger.Logger, opts ...Option) *Tournament {
	t := &Tournament{
		roster:     roster,
		mode:       mode,
		logDir:     logDir,
		runner:     runner,
		lifecycle:  lifecycle,
		logger:     log,
		maxMatches: -1,
		sleep:      match.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name is the name the tournament is stored and announced under
func (t *Tournament) Name() string {
	return filepath.Base(t.logDir)
}

// Counter returns the number of pairings consumed so far
func (t *Tournament) Counter() int {
	return t.counter
}

// Standings returns the standings after the last recorded match, nil before the first
func (t *Tournament) Standings() *standings.Standings {
	return t.standings
}

// Run schedules and plays the tournament
// Preconditions: Receives a context that is cancelled on interrupt
// Postconditions: Returns the final standings (nil if nothing was recorded), or the first fatal error. An
// interruption returns an error wrapping the context error
func (t *Tournament) Run(ctx context.Context) (*standings.Standings, error) {
	pairings, roster, err := schedule.Schedule(t.roster, t.mode)
	if err != nil {
		return nil, err
	}
	if err := t.lifecycle.Prepare(ctx, roster); err != nil {
		return nil, err
	}

	t.logger.Info("Tournament scheduled",
		logger.String("mode", t.mode.Name()),
		logger.Int("teams", len(roster)),
		logger.Int("matches", len(pairings)))
	for _, l := range t.listeners {
		l.TournamentStarted(ctx, pairings)
	}

	for i, pairing := range pairings {
		if err := ctx.Err(); err != nil {
			return t.standings, fmt.Errorf("tournament interrupted: %w", err)
		}
		if t.limitReached() {
			t.logger.Info("Match limit reached", logger.Int("max_matches", t.maxMatches))
			break
		}
		if err := t.play(ctx, pairing); err != nil {
			return t.standings, err
		}
		if t.lastResult == Played && i < len(pairings)-1 && !t.limitReached() {
			if err := t.sleep(ctx, t.matchSleep); err != nil {
				return t.standings, fmt.Errorf("tournament interrupted: %w", err)
			}
		}
	}

	for _, l := range t.listeners {
		l.TournamentFinished(ctx, t.standings)
	}
	if err := t.lifecycle.Finish(ctx, t.standings); err != nil {
		return t.standings, err
	}
	return t.standings, nil
}

func (t *Tournament) limitReached() bool {
	return t.maxMatches >= 0 && t.counter >= t.maxMatches
}

// play consumes one pairing and, unless it was only simulated, rebuilds the standings from the files and
// refreshes the report
func (t *Tournament) play(ctx context.Context, pairing shared.Pairing) error {
	t.counter++
	started := time.Now()

	result, err := t.runner.Run(ctx, pairing)
	if err != nil {
		return err
	}
	t.lastResult = result

	if result != Simulated {
		s, err := standings.Load(t.logDir)
		if err != nil {
			return err
		}
		t.standings = s
		if err := t.lifecycle.Recorded(ctx, s); err != nil {
			return err
		}
	}

	ev := MatchEvent{
		Pairing:   pairing,
		Result:    result,
		Duration:  time.Since(started),
		Standings: t.standings,
	}
	if result == Simulated {
		ev.Standings = nil
	}
	for _, l := range t.listeners {
		l.MatchFinished(ctx, ev)
	}
	return nil
}
