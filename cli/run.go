/* run.go
 * The run and single commands, and the wiring of a live tournament: executor, resume, metrics, store and chat
 */

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"robocup-tournament/bot"
	"robocup-tournament/logger"
	"robocup-tournament/metrics"
	"robocup-tournament/tournament/config"
	"robocup-tournament/tournament/engine"
	"robocup-tournament/tournament/external"
	"robocup-tournament/tournament/hosts"
	"robocup-tournament/tournament/match"
	"robocup-tournament/tournament/schedule"
	"robocup-tournament/tournament/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSingleCommand(streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:                "single <team1> <team2> [server_conf] [player_conf] [--key=value ...]",
		Short:              "Play one match between two teams",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			positional, tokens := splitArgs(args)
			if len(positional) < 2 || len(positional) > 4 {
				return fmt.Errorf("single expects <team1> <team2> [server_conf] [player_conf], got %d arguments", len(positional))
			}

			cfg, err := config.LoadWith(tokens, func(l *config.Loader) error {
				overrides := map[string]any{
					"mode":        schedule.SingleMatch{}.Name(),
					"teams":       []string{strings.TrimSuffix(positional[0], "/"), strings.TrimSuffix(positional[1], "/")},
					"match_sleep": 0,
				}
				if len(positional) > 2 {
					overrides["server_conf"] = positional[2]
				}
				if len(positional) > 3 {
					overrides["player_conf"] = positional[3]
				}
				for _, key := range []string{"mode", "teams", "match_sleep", "server_conf", "player_conf"} {
					if value, ok := overrides[key]; ok {
						if err := l.Set(key, value); err != nil {
							return err
						}
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if err := cfg.ValidateSettings(); err != nil {
				return err
			}
			return playTournament(cmd.Context(), cfg, streams)
		},
	}
}

// splitArgs separates positional arguments from configuration tokens
func splitArgs(args []string) ([]string, []string) {
	var positional, tokens []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			tokens = append(tokens, arg)
		} else {
			positional = append(positional, arg)
		}
	}
	return positional, tokens
}

func runTournament(ctx context.Context, args []string, streams Streams) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Teams, cfg.Matches = cfg.TeamPaths()
	return playTournament(ctx, cfg, streams)
}

// playTournament builds the tournament cfg describes and runs it to the end
func playTournament(ctx context.Context, cfg *config.Config, streams Streams) error {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	mode, err := schedule.ParseMode(cfg.Mode, cfg.Matches)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log = log.With(logger.String("run_id", runID))

	logDir := cfg.ResolveLogDir(time.Now())
	tournament, closeAll, err := newTournament(ctx, cfg, mode, logDir, runID, streams, log)
	if err != nil {
		return err
	}
	defer closeAll()

	_, err = tournament.Run(ctx)
	return err
}

// newTournament wires the runner, lifecycle and listeners for cfg. The returned function releases connections
func newTournament(ctx context.Context, cfg *config.Config, mode schedule.Mode, logDir, runID string, streams Streams, log logger.Logger) (*engine.Tournament, func(), error) {
	opts := []engine.Option{engine.WithMaxMatches(cfg.MaxMatches)}

	if cfg.Simulate {
		t := engine.New(cfg.Teams, mode, logDir, engine.NewSimulateRunner(streams.Out), engine.SimulateLifecycle{}, log, opts...)
		return t, func() {}, nil
	}

	settings, err := match.SettingsFromConfig(cfg, logDir)
	if err != nil {
		return nil, nil, err
	}

	m := metrics.New()
	alloc := hosts.NewAllocator(cfg.Hosts)
	runner := external.NewExecRunner()
	remote := external.NewRemote(cfg.SSHBin)
	executor := match.NewExecutor(settings, alloc, runner, remote, log, match.WithObserver(m))

	var pairings engine.PairingRunner = engine.NewLiveRunner(executor)
	if cfg.Resume {
		pairings = engine.NewResumeRunner(settings.LogDir, pairings, log)
	}

	lifecycle := engine.LiveLifecycleFromSettings(settings)
	lifecycle.TeamsDir = cfg.TeamsDir
	lifecycle.Resume = cfg.Resume
	lifecycle.Build = cfg.Build
	lifecycle.BuildRate = cfg.BuildRate
	lifecycle.Hosts = alloc
	lifecycle.Runner = runner
	lifecycle.Remote = remote
	lifecycle.Logger = log
	lifecycle.Report.Title = cfg.Title
	lifecycle.Report.StylesheetURL = cfg.StylesheetURL
	if cfg.ShowScoreboard {
		lifecycle.Out = streams.Out
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	name := filepath.Base(settings.LogDir)
	opts = append(opts,
		engine.WithMatchSleep(config.Seconds(cfg.MatchSleep)),
		engine.WithListener(engine.NewMetricsListener(m, cfg.MetricsTextfile, log)),
	)

	if cfg.MongoURI != "" {
		st, err := store.NewStore(ctx, cfg.MongoDatabase, cfg.MongoURI, name, runID)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := st.Close(context.Background()); err != nil {
				log.Warn("Failed to disconnect from mongo", logger.Error(err))
			}
		})
		opts = append(opts, engine.WithListener(engine.NewStoreListener(st, name, runID, log)))
	}

	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		session, err := bot.OpenSession(cfg.DiscordToken)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { session.Close() })
		notifier, err := bot.NewNotifier(session, cfg.DiscordChannel, log)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opts = append(opts, engine.WithListener(engine.NewAnnounceListener(notifier, name, runID)))
	}

	t := engine.New(cfg.Teams, mode, settings.LogDir, pairings, lifecycle, log, opts...)
	return t, closeAll, nil
}
