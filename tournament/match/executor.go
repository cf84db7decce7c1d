/* executor.go
 * Runs a single match from directory setup to cleanup. Stages run strictly in order and none is retried.
 * Calls to the hosts are best effort: their failures are logged and the match carries on
 */

package match

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/external"
	"robocup-tournament/tournament/hosts"
	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"
)

// Stage names, used in logs and metrics
const (
	StageSetup         = "setup"
	StageScripts       = "scripts"
	StageServer        = "server"
	StageShutdown      = "shutdown"
	StageHarvest       = "harvest"
	StageConversion    = "conversion"
	StageExtraLogging  = "save_logging"
	StageStatistics    = "statistics"
	StageMetadata      = "metadata"
	StageCleanup       = "cleanup"
	teamConfigFileName = "team.yml"
)

// Observer is told about stage timings and failed best effort calls
type Observer interface {
	StageFinished(stage string, d time.Duration)
	RemoteFailure(stage string)
}

type nopObserver struct{}

func (nopObserver) StageFinished(string, time.Duration) {}
func (nopObserver) RemoteFailure(string)                {}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Executor runs matches
type Executor struct {
	settings Settings
	hosts    *hosts.Allocator
	runner   external.Runner
	remote   external.Remote
	logger   logger.Logger
	observer Observer
	sleep    SleepFunc
}

// Option customises an Executor
type Option func(*Executor)

// WithObserver reports stage timings and remote failures to o
func WithObserver(o Observer) Option {
	return func(e *Executor) { e.observer = o }
}

// WithSleep replaces the pacing sleep, tests pass one that returns immediately
func WithSleep(sleep SleepFunc) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// NewExecutor creates an Executor
func NewExecutor(settings Settings, alloc *hosts.Allocator, runner external.Runner, remote external.Remote, log logger.Logger, opts ...Option) *Executor {
	e := &Executor{
		settings: settings,
		hosts:    alloc,
		runner:   runner,
		remote:   remote,
		logger:   log,
		observer: nopObserver{},
		sleep:    Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// matchRun is the state of one Run call
type matchRun struct {
	pairing  shared.Pairing
	dir      string
	teams    map[shared.Side]results.TeamMetadata
	logger   logger.Logger
	started  time.Time
	observer Observer
}

func (m *matchRun) finish(stage string) {
	m.observer.StageFinished(stage, time.Since(m.started))
	m.started = time.Now()
}

// Run plays pairing
// Preconditions: Receives a context and a pairing whose match directory does not exist yet
// Postconditions: The match directory holds logs, game logs and match.yml. Returns a fatal error for missing team
// configuration or file system problems, or the context error when interrupted
func (e *Executor) Run(ctx context.Context, pairing shared.Pairing) error {
	m := &matchRun{
		pairing:  pairing,
		dir:      filepath.Join(e.settings.LogDir, shared.MatchDirName(pairing.Index)),
		teams:    make(map[shared.Side]results.TeamMetadata, 2),
		logger:   e.logger.With(logger.Int("match", pairing.Index)),
		started:  time.Now(),
		observer: e.observer,
	}

	if err := e.setup(m); err != nil {
		return err
	}
	m.finish(StageSetup)

	defer e.cleanup(m)

	if err := e.stageScripts(m); err != nil {
		return err
	}
	m.finish(StageScripts)

	if err := e.startServer(ctx, m); err != nil {
		return err
	}
	m.finish(StageServer)

	if err := e.stopTeams(ctx, m); err != nil {
		return err
	}
	m.finish(StageShutdown)

	if err := e.harvest(m); err != nil {
		return err
	}
	m.finish(StageHarvest)

	if e.settings.Robocup2flash {
		if err := e.convert(ctx, m); err != nil {
			return err
		}
		m.finish(StageConversion)
	}

	if e.settings.SaveLogging {
		for _, side := range shared.Sides {
			if err := e.saveLogging(ctx, m, side); err != nil {
				return err
			}
		}
		m.finish(StageExtraLogging)
	}

	if e.settings.Statistics {
		if err := e.statistics(ctx, m); err != nil {
			return err
		}
		m.finish(StageStatistics)
	}

	if err := e.writeMetadata(m); err != nil {
		return err
	}
	m.finish(StageMetadata)

	return nil
}

// setup loads both team.yml files and creates the match directory
func (e *Executor) setup(m *matchRun) error {
	for _, side := range shared.Sides {
		team := m.pairing.Team(side)
		path := filepath.Join(team, teamConfigFileName)
		meta, err := results.ReadTeamFile(path)
		if err != nil {
			return shared.NewPreflightError(path, "cannot load team configuration of %s: %v", team, err)
		}
		m.teams[side] = meta
	}

	if err := os.Mkdir(m.dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return shared.NewRuntimeStateError(nil, "match directory %s already exists", m.dir)
		}
		return shared.NewRuntimeStateError(err, "cannot create match directory %s", m.dir)
	}

	m.logger.Info("Starting match",
		logger.String("left", m.pairing.Left),
		logger.String("right", m.pairing.Right))
	return nil
}

func (e *Executor) stageScripts(m *matchRun) error {
	for _, side := range shared.Sides {
		script := LaunchScript(side, m.pairing.Team(side), e.settings, e.hosts, m.dir)
		if err := writeScript(e.scriptPath(side), script); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) scriptPath(side shared.Side) string {
	return filepath.Join(e.settings.WorkDir, ScriptName(side))
}

// startServer blocks until the arbitration server exits. Its exit is the only signal that the match is over
func (e *Executor) startServer(ctx context.Context, m *matchRun) error {
	args := []string{
		"server::team_l_start=" + e.scriptPath(shared.Left),
		"server::team_r_start=" + e.scriptPath(shared.Right),
		"CSVSaver::save=true",
		"CSVSaver::filename=" + results.NewLog(e.settings.LogDir).Path(),
	}
	if e.settings.ServerConf != "" {
		args = append(args, "include="+e.settings.ServerConf)
	}
	if e.settings.PlayerConf != "" {
		args = append(args, "include="+e.settings.PlayerConf)
	}

	m.logger.Info("Running server")
	outcome := e.runner.Run(ctx, external.Command{
		Name:   e.settings.RcssserverBin,
		Args:   args,
		Dir:    e.settings.WorkDir,
		Stdout: serverLog(m.dir, "output"),
		Stderr: serverLog(m.dir, "error"),
	})
	if ctx.Err() != nil {
		return fmt.Errorf("match %d interrupted: %w", m.pairing.Index, ctx.Err())
	}
	e.bestEffort(m, StageServer, outcome)
	return nil
}

// stopTeams asks every host of a side's pool to kill that side's team
func (e *Executor) stopTeams(ctx context.Context, m *matchRun) error {
	m.logger.Info("Waiting for teams to shutdown")
	if err := e.sleep(ctx, e.settings.ShutdownSleep); err != nil {
		return fmt.Errorf("match %d interrupted: %w", m.pairing.Index, err)
	}

	for _, side := range shared.Sides {
		team := m.pairing.Team(side)
		for _, host := range e.hosts.Pool(side) {
			cmd := e.remote.Command(host, team+"/kill")
			cmd.Stdout = teamLog(m.dir, side, "output")
			cmd.Stderr = teamLog(m.dir, side, "error")
			if err := e.runRemote(ctx, m, StageShutdown, cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// harvest moves the game and text logs the server wrote into the match directory
func (e *Executor) harvest(m *matchRun) error {
	m.logger.Info("Saving server log files")
	for _, ext := range []string{e.settings.GameLogExt, e.settings.TextLogExt} {
		files, err := filepath.Glob(filepath.Join(e.settings.WorkDir, "*"+ext))
		if err != nil {
			return fmt.Errorf("error listing %s files: %w", ext, err)
		}
		for _, file := range files {
			dst := filepath.Join(m.dir, filepath.Base(file))
			if err := os.Rename(file, dst); err != nil {
				return shared.NewRuntimeStateError(err, "cannot move %s into %s", file, m.dir)
			}
		}
	}
	return nil
}

// convert produces the version 3 game log, the flash visualisation and compresses the former
func (e *Executor) convert(ctx context.Context, m *matchRun) error {
	m.logger.Info("Converting server log files")

	games, err := filepath.Glob(filepath.Join(m.dir, "*"+e.settings.GameLogExt))
	if err != nil {
		return fmt.Errorf("error listing game logs: %w", err)
	}
	if len(games) == 0 {
		m.logger.Warn("No game log to convert", logger.String("dir", m.dir))
		return nil
	}

	v3 := filepath.Join(m.dir, fmt.Sprintf("match_%d_v3.rcg", m.pairing.Index))
	swf := filepath.Join(m.dir, fmt.Sprintf("match_%d.swf", m.pairing.Index))

	commands := []external.Command{
		{Name: e.settings.RcgverconvBin, Args: append(games, "--version", "3", "--output", v3)},
		{Name: e.settings.Robocup2flashBin, Args: []string{v3, swf}},
		{Name: e.settings.GzipBin, Args: []string{v3}},
	}
	for _, cmd := range commands {
		cmd.Stdout = serverLog(m.dir, "output")
		cmd.Stderr = serverLog(m.dir, "error")
		if err := e.runRemote(ctx, m, StageConversion, cmd); err != nil {
			return err
		}
	}
	return nil
}

// saveLogging pulls the agents' own logs when the team ships a save_logging script
func (e *Executor) saveLogging(ctx context.Context, m *matchRun, side shared.Side) error {
	team := m.pairing.Team(side)
	if _, err := os.Stat(filepath.Join(team, "save_logging")); err != nil {
		return nil
	}

	m.logger.Info("Saving log files for team", logger.String("team", team))
	for _, host := range e.hosts.Pool(side) {
		for _, num := range e.settings.Agents {
			script := fmt.Sprintf("%s/save_logging %s %s %d %s %s %s",
				team, e.settings.Server, team, num, host, m.dir, e.settings.TeamMode)
			cmd := e.remote.Command(host, script)
			cmd.Stdout = teamLog(m.dir, side, "output")
			cmd.Stderr = teamLog(m.dir, side, "error")
			if err := e.runRemote(ctx, m, StageExtraLogging, cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// statistics runs the statistics tool from its own directory on the match directory
func (e *Executor) statistics(ctx context.Context, m *matchRun) error {
	m.logger.Info("Generating match statistics")
	return e.runRemote(ctx, m, StageStatistics, external.Command{
		Name:   e.settings.StatisticsBin,
		Args:   []string{m.dir + string(filepath.Separator)},
		Dir:    e.settings.StatisticsDir,
		Stdout: serverLog(m.dir, "output"),
		Stderr: serverLog(m.dir, "error"),
	})
}

func (e *Executor) writeMetadata(m *matchRun) error {
	meta := results.Metadata{
		Statistics:    e.settings.Statistics,
		Scoreboard:    e.settings.ShowScoreboard,
		Robocup2flash: e.settings.Robocup2flash,
	}
	for _, side := range shared.Sides {
		team := m.teams[side]
		team.TeamDir = m.pairing.Team(side)

		exception, err := ScanExceptions(teamLog(m.dir, side, "error"), e.settings.ExceptionMatchers)
		if err != nil {
			return err
		}
		team.Exception = exception
		if exception {
			m.logger.Warn("Exception found in team log", logger.String("team", team.TeamDir))
		}

		if side == shared.Left {
			meta.TeamL = team
		} else {
			meta.TeamR = team
		}
	}
	return results.WriteMetadata(filepath.Join(m.dir, results.MetadataFile), meta)
}

// cleanup removes the launch scripts
func (e *Executor) cleanup(m *matchRun) {
	for _, side := range shared.Sides {
		if err := os.Remove(e.scriptPath(side)); err != nil && !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("Failed to remove launch script", logger.Error(err))
		}
	}
	m.finish(StageCleanup)
}

// runRemote runs a best effort command. Only an interruption is returned
func (e *Executor) runRemote(ctx context.Context, m *matchRun, stage string, cmd external.Command) error {
	outcome := e.runner.Run(ctx, cmd)
	if ctx.Err() != nil {
		return fmt.Errorf("match %d interrupted: %w", m.pairing.Index, ctx.Err())
	}
	e.bestEffort(m, stage, outcome)
	return nil
}

func (e *Executor) bestEffort(m *matchRun, stage string, outcome external.Outcome) {
	outcome.Log(m.logger.With(logger.String("stage", stage)))
	if outcome.Failed() {
		e.observer.RemoteFailure(stage)
	}
}
