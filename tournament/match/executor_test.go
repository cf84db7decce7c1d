package match

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/external"
	"robocup-tournament/tournament/hosts"
	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	settings Settings
	alloc    *hosts.Allocator
	runner   *external.MockRunner
	left     string
	right    string
}

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func writeTeam(t *testing.T, dir, name string) string {
	t.Helper()
	team := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(team, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(team, "team.yml"), []byte("name: "+name+"\ncountry: Testland\n"), 0o644))
	return team
}

// fakeServer writes an outcome line and game logs the way the arbitration server does
func fakeServer(t *testing.T) func(ctx context.Context, cmd external.Command) external.Outcome {
	return func(ctx context.Context, cmd external.Command) external.Outcome {
		if cmd.Name != "rcssserver" {
			return external.Outcome{Command: cmd.String()}
		}
		for _, arg := range cmd.Args {
			if path, ok := strings.CutPrefix(arg, "CSVSaver::filename="); ok {
				log := results.NewLog(filepath.Dir(path))
				if !log.Exists() {
					require.NoError(t, log.WriteHeader(results.Header))
				}
				require.NoError(t, log.Append(`2024-06-01 10:00:00, "L", "R", NULL, NULL, 1, 0, NULL, NULL, NULL, NULL`))
			}
		}
		require.NoError(t, os.WriteFile(filepath.Join(cmd.Dir, "game.rcg"), []byte("rcg"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(cmd.Dir, "game.rcl"), []byte("rcl"), 0o644))
		return external.Outcome{Command: cmd.String()}
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	logDir := filepath.Join(root, "log")
	workDir := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(logDir, 0o755))
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	runner := external.NewMockRunner()
	runner.Handler = fakeServer(t)

	return &fixture{
		settings: Settings{
			LogDir:            logDir,
			WorkDir:           workDir,
			Agents:            []int{1, 2, 3},
			AgentSleep:        time.Second,
			Server:            "srv",
			TeamMode:          "normal",
			RcssserverBin:     "rcssserver",
			RcgverconvBin:     "rcgverconv",
			Robocup2flashBin:  "robocup2flash",
			GzipBin:           "gzip",
			GameLogExt:        ".rcg",
			TextLogExt:        ".rcl",
			StatisticsBin:     "./statistics",
			StatisticsDir:     filepath.Join(root, "statistics"),
			ShowScoreboard:    true,
			ExceptionMatchers: []*regexp.Regexp{regexp.MustCompile("Segmentation fault")},
		},
		alloc:  hosts.NewAllocator([]string{"h1", "h2", "h3", "h4"}),
		runner: runner,
		left:   writeTeam(t, root, "alpha"),
		right:  writeTeam(t, root, "beta"),
	}
}

func (f *fixture) executor(opts ...Option) *Executor {
	opts = append([]Option{WithSleep(noSleep)}, opts...)
	return NewExecutor(f.settings, f.alloc, f.runner, external.NewRemote("ssh"), logger.NewNop(), opts...)
}

func (f *fixture) pairing(index int) shared.Pairing {
	return shared.Pairing{Index: index, Left: f.left, Right: f.right}
}

type recordingObserver struct {
	mu       sync.Mutex
	stages   []string
	failures []string
}

func (r *recordingObserver) StageFinished(stage string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recordingObserver) RemoteFailure(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, stage)
}

// region Executor tests

func TestExecutor_Run(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}

	require.NoError(t, f.executor(WithObserver(obs)).Run(context.Background(), f.pairing(1)))

	matchDir := filepath.Join(f.settings.LogDir, "match_1")
	assert.FileExists(t, filepath.Join(matchDir, "game.rcg"))
	assert.FileExists(t, filepath.Join(matchDir, "game.rcl"))
	assert.NoFileExists(t, filepath.Join(f.settings.WorkDir, "game.rcg"))

	// launch scripts are gone after cleanup
	assert.NoFileExists(t, filepath.Join(f.settings.WorkDir, "team_l_start.sh"))
	assert.NoFileExists(t, filepath.Join(f.settings.WorkDir, "team_r_start.sh"))

	meta, err := results.ReadMetadata(filepath.Join(matchDir, "match.yml"))
	require.NoError(t, err)
	assert.Equal(t, f.left, meta.TeamL.TeamDir)
	assert.Equal(t, "alpha", meta.TeamL.Name)
	assert.Equal(t, "Testland", meta.TeamL.Country)
	assert.Equal(t, f.right, meta.TeamR.TeamDir)
	assert.False(t, meta.TeamL.Exception)
	assert.True(t, meta.Scoreboard)
	assert.False(t, meta.Statistics)

	count, err := results.NewLog(f.settings.LogDir).Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, []string{StageSetup, StageScripts, StageServer, StageShutdown, StageHarvest, StageMetadata, StageCleanup}, obs.stages)
	assert.Empty(t, obs.failures)
}

func TestExecutor_ServerArguments(t *testing.T) {
	f := newFixture(t)
	f.settings.ServerConf = "server.conf"
	f.settings.PlayerConf = "player.conf"

	require.NoError(t, f.executor().Run(context.Background(), f.pairing(1)))

	calls := f.runner.CallsTo("rcssserver")
	require.Len(t, calls, 1)
	server := calls[0]
	assert.Equal(t, []string{
		"server::team_l_start=" + filepath.Join(f.settings.WorkDir, "team_l_start.sh"),
		"server::team_r_start=" + filepath.Join(f.settings.WorkDir, "team_r_start.sh"),
		"CSVSaver::save=true",
		"CSVSaver::filename=" + filepath.Join(f.settings.LogDir, "results.log"),
		"include=server.conf",
		"include=player.conf",
	}, server.Args)
	assert.Equal(t, f.settings.WorkDir, server.Dir)
	assert.Equal(t, filepath.Join(f.settings.LogDir, "match_1", "server-output.log"), server.Stdout)
}

func TestExecutor_KillsEachSideOnItsPool(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.executor().Run(context.Background(), f.pairing(1)))

	kills := f.runner.CallsTo("ssh")
	require.Len(t, kills, 4)
	assert.Equal(t, []string{"h1", f.left + "/kill"}, kills[0].Args)
	assert.Equal(t, []string{"h2", f.left + "/kill"}, kills[1].Args)
	assert.Equal(t, []string{"h3", f.right + "/kill"}, kills[2].Args)
	assert.Equal(t, []string{"h4", f.right + "/kill"}, kills[3].Args)
	assert.Equal(t, filepath.Join(f.settings.LogDir, "match_1", "team_r-error.log"), kills[3].Stderr)
}

func TestExecutor_ExistingMatchDirectory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(f.settings.LogDir, "match_1"), 0o755))

	err := f.executor().Run(context.Background(), f.pairing(1))
	require.Error(t, err)
	var rtErr *shared.RuntimeStateError
	assert.ErrorAs(t, err, &rtErr)
	assert.Empty(t, f.runner.Calls())
}

func TestExecutor_MissingTeamConfig(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.right, "team.yml")))

	err := f.executor().Run(context.Background(), f.pairing(1))
	var preErr *shared.PreflightError
	assert.ErrorAs(t, err, &preErr)
	assert.NoDirExists(t, filepath.Join(f.settings.LogDir, "match_1"))
}

func TestExecutor_RemoteFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t)
	server := fakeServer(t)
	f.runner.Handler = func(ctx context.Context, cmd external.Command) external.Outcome {
		if cmd.Name == "ssh" {
			return external.Outcome{Command: cmd.String(), ExitCode: 255}
		}
		return server(ctx, cmd)
	}
	obs := &recordingObserver{}

	require.NoError(t, f.executor(WithObserver(obs)).Run(context.Background(), f.pairing(1)))
	assert.Len(t, obs.failures, 4)
	assert.FileExists(t, filepath.Join(f.settings.LogDir, "match_1", "match.yml"))
}

func TestExecutor_ExceptionFlag(t *testing.T) {
	f := newFixture(t)
	server := fakeServer(t)
	f.runner.Handler = func(ctx context.Context, cmd external.Command) external.Outcome {
		if cmd.Name == "rcssserver" {
			errLog := filepath.Join(f.settings.LogDir, "match_1", "team_r-error.log")
			require.NoError(t, os.WriteFile(errLog, []byte("starting\nSegmentation fault (core dumped)\n"), 0o644))
		}
		return server(ctx, cmd)
	}

	require.NoError(t, f.executor().Run(context.Background(), f.pairing(1)))

	meta, err := results.ReadMetadata(results.MetadataPath(f.settings.LogDir, 1))
	require.NoError(t, err)
	assert.False(t, meta.TeamL.Exception)
	assert.True(t, meta.TeamR.Exception)
}

func TestExecutor_OptionalStages(t *testing.T) {
	f := newFixture(t)
	f.settings.Robocup2flash = true
	f.settings.Statistics = true
	f.settings.SaveLogging = true
	require.NoError(t, os.WriteFile(filepath.Join(f.left, "save_logging"), []byte("#!/bin/sh\n"), 0o755))
	obs := &recordingObserver{}

	require.NoError(t, f.executor(WithObserver(obs)).Run(context.Background(), f.pairing(2)))
	matchDir := filepath.Join(f.settings.LogDir, "match_2")

	conv := f.runner.CallsTo("rcgverconv")
	require.Len(t, conv, 1)
	assert.Equal(t, []string{filepath.Join(matchDir, "game.rcg"), "--version", "3", "--output", filepath.Join(matchDir, "match_2_v3.rcg")}, conv[0].Args)
	assert.Equal(t, []string{filepath.Join(matchDir, "match_2_v3.rcg"), filepath.Join(matchDir, "match_2.swf")}, f.runner.CallsTo("robocup2flash")[0].Args)
	assert.Equal(t, []string{filepath.Join(matchDir, "match_2_v3.rcg")}, f.runner.CallsTo("gzip")[0].Args)

	stats := f.runner.CallsTo("./statistics")
	require.Len(t, stats, 1)
	assert.Equal(t, f.settings.StatisticsDir, stats[0].Dir)
	assert.Equal(t, []string{matchDir + string(filepath.Separator)}, stats[0].Args)

	// only the left team ships save_logging: 2 hosts x 3 agents
	var saves int
	for _, c := range f.runner.CallsTo("ssh") {
		if strings.Contains(c.Args[1], "/save_logging ") {
			saves++
			assert.True(t, strings.HasPrefix(c.Args[1], f.left+"/save_logging srv "+f.left+" "))
			assert.Contains(t, c.Args[1], matchDir+" normal")
		}
	}
	assert.Equal(t, 6, saves)

	meta, err := results.ReadMetadata(results.MetadataPath(f.settings.LogDir, 2))
	require.NoError(t, err)
	assert.True(t, meta.Statistics)
	assert.True(t, meta.Robocup2flash)

	assert.Contains(t, obs.stages, StageConversion)
	assert.Contains(t, obs.stages, StageExtraLogging)
	assert.Contains(t, obs.stages, StageStatistics)
}

func TestExecutor_Interrupted(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.runner.Handler = func(ctx context.Context, cmd external.Command) external.Outcome {
		cancel()
		return external.Outcome{Command: cmd.String(), Err: context.Canceled}
	}

	err := f.executor().Run(ctx, f.pairing(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, f.runner.Calls(), 1)
	assert.NoFileExists(t, filepath.Join(f.settings.WorkDir, "team_l_start.sh"))
}

// endregion

// region script tests

func TestLaunchScript(t *testing.T) {
	s := Settings{Agents: []int{1, 2}, AgentSleep: 500 * time.Millisecond, Server: "srv", TeamMode: "normal"}
	alloc := hosts.NewAllocator([]string{"h1", "h2", "h3", "h4"})

	script := LaunchScript(shared.Right, "teams/beta", s, alloc, "/log/match_1")
	assert.Equal(t, "#!/bin/sh\n"+
		"ssh -f h4 teams/beta/start srv teams/beta 1 normal >> /log/match_1/team_r-output.log 2>> /log/match_1/team_r-error.log\n"+
		"sleep 1\n"+
		"ssh -f h3 teams/beta/start srv teams/beta 2 normal >> /log/match_1/team_r-output.log 2>> /log/match_1/team_r-error.log\n"+
		"sleep 0.5\n", script)
}

func TestExecutor_ScriptsAreExecutable(t *testing.T) {
	f := newFixture(t)
	var mode os.FileMode
	server := fakeServer(t)
	f.runner.Handler = func(ctx context.Context, cmd external.Command) external.Outcome {
		if cmd.Name == "rcssserver" {
			info, err := os.Stat(filepath.Join(f.settings.WorkDir, "team_l_start.sh"))
			require.NoError(t, err)
			mode = info.Mode().Perm()
		}
		return server(ctx, cmd)
	}

	require.NoError(t, f.executor().Run(context.Background(), f.pairing(1)))
	assert.Equal(t, os.FileMode(0o755), mode)
}

// endregion

// region exception scan tests

func TestScanExceptions(t *testing.T) {
	dir := t.TempDir()
	matchers := []*regexp.Regexp{regexp.MustCompile("[Ee]xception"), regexp.MustCompile("core dumped")}

	found, err := ScanExceptions(filepath.Join(dir, "missing.log"), matchers)
	require.NoError(t, err)
	assert.False(t, found)

	clean := filepath.Join(dir, "clean.log")
	require.NoError(t, os.WriteFile(clean, []byte("all good\nstill fine"), 0o644))
	found, err = ScanExceptions(clean, matchers)
	require.NoError(t, err)
	assert.False(t, found)

	bad := filepath.Join(dir, "bad.log")
	require.NoError(t, os.WriteFile(bad, []byte("ok\nterminate called after throwing an instance of 'std::exception'"), 0o644))
	found, err = ScanExceptions(bad, matchers)
	require.NoError(t, err)
	assert.True(t, found)
}

// endregion
